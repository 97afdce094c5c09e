package products

import (
	"context"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
	"github.com/giftwheel/giftwheel-backend/pkg/ids"
	"github.com/giftwheel/giftwheel-backend/pkg/pagination"
)

type stubStore struct {
	products map[string]*models.Product
	creates  int
}

func (s *stubStore) List(ctx context.Context, householdID string, params pagination.Params) (*ProductList, error) {
	list := &ProductList{}
	for _, p := range s.products {
		if p.HouseholdID == householdID {
			list.Items = append(list.Items, *p)
		}
	}
	return list, nil
}

func (s *stubStore) FindScoped(ctx context.Context, householdID, productID string) (*models.Product, error) {
	p, ok := s.products[productID]
	if !ok || p.HouseholdID != householdID {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (s *stubStore) FindByName(ctx context.Context, householdID, name string) (*models.Product, error) {
	for _, p := range s.products {
		if p.HouseholdID == householdID && strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStore) FindOrCreateByName(ctx context.Context, householdID, name string) (*models.Product, error) {
	if p, err := s.FindByName(ctx, householdID, name); err == nil {
		return p, nil
	}
	return s.Create(ctx, &models.Product{HouseholdID: householdID, Name: name})
}

func (s *stubStore) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	s.creates++
	if product.ID == "" {
		product.ID = ids.New()
	}
	if s.products == nil {
		s.products = make(map[string]*models.Product)
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *stubStore) Update(ctx context.Context, productID string, updates map[string]any) error {
	return nil
}

func (s *stubStore) Delete(ctx context.Context, productID string) error {
	delete(s.products, productID)
	return nil
}

type openGuard struct{}

func (openGuard) RequireMember(ctx context.Context, householdID, userID string) error { return nil }

func newTestService(t *testing.T, store *stubStore) Service {
	t.Helper()
	svc, err := NewService(store, openGuard{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestCreateParsesPrice(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, store)

	product, err := svc.Create(context.Background(), CreateInput{
		HouseholdID:  ids.New(),
		ActorUserID:  ids.New(),
		Name:         "Chess Set",
		DefaultPrice: "49.50",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if product.DefaultPrice == nil || product.DefaultPrice.String() != "49.5" {
		t.Fatalf("unexpected price %v", product.DefaultPrice)
	}
}

func TestCreateEmptyPriceIsNull(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, store)

	product, err := svc.Create(context.Background(), CreateInput{
		HouseholdID: ids.New(),
		ActorUserID: ids.New(),
		Name:        "Mystery Box",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if product.DefaultPrice != nil {
		t.Fatalf("expected nil price, got %v", product.DefaultPrice)
	}
}

func TestFindOrCreateByNameCaseInsensitive(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, store)
	householdID := ids.New()
	ctx := context.Background()

	first, err := svc.FindOrCreateByName(ctx, householdID, "Wool Socks")
	if err != nil {
		t.Fatalf("FindOrCreateByName: %v", err)
	}
	second, err := svc.FindOrCreateByName(ctx, householdID, "wool socks")
	if err != nil {
		t.Fatalf("FindOrCreateByName: %v", err)
	}
	if first.ID != second.ID {
		t.Fatal("expected case-insensitive match to reuse product")
	}
	if store.creates != 1 {
		t.Fatalf("expected a single create, got %d", store.creates)
	}
}

func TestFindOrCreateByNameScopedPerHousehold(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, store)
	ctx := context.Background()

	a, _ := svc.FindOrCreateByName(ctx, ids.New(), "Wool Socks")
	b, _ := svc.FindOrCreateByName(ctx, ids.New(), "Wool Socks")
	if a.ID == b.ID {
		t.Fatal("same name in different households must be distinct products")
	}
}

func TestListRejectsMalformedCursor(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, store)

	_, err := svc.List(context.Background(), ids.New(), ids.New(), pagination.Params{Cursor: "%%%not-base64%%%"})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for bad cursor, got %v", err)
	}
}

func TestGetCrossTenantIsNotFound(t *testing.T) {
	store := &stubStore{}
	svc := newTestService(t, store)
	product, _ := store.Create(context.Background(), &models.Product{HouseholdID: ids.New(), Name: "Chess Set"})

	_, err := svc.Get(context.Background(), ids.New(), ids.New(), product.ID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
