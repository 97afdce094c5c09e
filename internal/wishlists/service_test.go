package wishlists

import (
	"context"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
	"github.com/giftwheel/giftwheel-backend/pkg/ids"
)

type stubStore struct {
	rows    []EntryRow
	items   map[string]*models.WishlistItem
	updates []map[string]any
	deleted []string
}

func newStubStore() *stubStore {
	return &stubStore{items: map[string]*models.WishlistItem{}}
}

func (s *stubStore) ListByHousehold(_ context.Context, householdID string) ([]EntryRow, error) {
	out := []EntryRow{}
	for _, row := range s.rows {
		if row.HouseholdID == householdID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubStore) FindScoped(_ context.Context, householdID, itemID string) (*models.WishlistItem, error) {
	item, ok := s.items[itemID]
	if !ok || item.HouseholdID != householdID {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubStore) Create(_ context.Context, item *models.WishlistItem) (*models.WishlistItem, error) {
	if item.ID == "" {
		item.ID = ids.New()
	}
	s.items[item.ID] = item
	return item, nil
}

func (s *stubStore) Update(_ context.Context, itemID string, updates map[string]any) error {
	s.updates = append(s.updates, updates)
	return nil
}

func (s *stubStore) Delete(_ context.Context, itemID string) error {
	s.deleted = append(s.deleted, itemID)
	delete(s.items, itemID)
	return nil
}

type stubMembers struct {
	members map[string]bool
}

func (s *stubMembers) IsMember(_ context.Context, householdID, userID string) (bool, error) {
	return s.members[householdID+"|"+userID], nil
}

type stubProducts struct {
	products map[string]*models.Product
	created  int
}

func (s *stubProducts) FindScoped(_ context.Context, householdID, productID string) (*models.Product, error) {
	p, ok := s.products[productID]
	if !ok || p.HouseholdID != householdID {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (s *stubProducts) FindOrCreateByName(_ context.Context, householdID, name string) (*models.Product, error) {
	for _, p := range s.products {
		if p.HouseholdID == householdID && strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	p := &models.Product{ID: ids.New(), HouseholdID: householdID, Name: name}
	s.products[p.ID] = p
	s.created++
	return p, nil
}

type openGuard struct{}

func (openGuard) RequireMember(context.Context, string, string) error  { return nil }
func (openGuard) RequireManager(context.Context, string, string) error { return nil }

func newFixture(t *testing.T, members map[string]bool) (Service, *stubStore, *stubProducts) {
	t.Helper()
	store := newStubStore()
	products := &stubProducts{products: map[string]*models.Product{}}
	svc, err := NewService(store, &stubMembers{members: members}, products, openGuard{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store, products
}

func TestCreateRejectsNonMemberRecipient(t *testing.T) {
	svc, _, _ := newFixture(t, map[string]bool{"hh1|u1": true})

	_, err := svc.Create(context.Background(), CreateInput{
		HouseholdID:     "hh1",
		ActorUserID:     "u1",
		RecipientUserID: "stranger",
		ProductName:     "Book",
	})
	if err == nil {
		t.Fatal("expected error for non-member recipient")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateResolvesProductByName(t *testing.T) {
	svc, store, products := newFixture(t, map[string]bool{"hh1|u1": true, "hh1|u2": true})

	first, err := svc.Create(context.Background(), CreateInput{
		HouseholdID:     "hh1",
		ActorUserID:     "u1",
		RecipientUserID: "u2",
		ProductName:     "Lego Set",
		Links:           []string{"https://example.com/lego"},
		Priority:        3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.Create(context.Background(), CreateInput{
		HouseholdID:     "hh1",
		ActorUserID:     "u1",
		RecipientUserID: "u2",
		ProductName:     "lego set",
	})
	if err != nil {
		t.Fatalf("second create: %v", err)
	}
	if products.created != 1 {
		t.Fatalf("expected one product created, got %d", products.created)
	}
	if first.ProductID != second.ProductID {
		t.Fatal("expected both entries to share the resolved product")
	}
	if len(store.items) != 2 {
		t.Fatalf("expected two wishlist items, got %d", len(store.items))
	}
}

func TestCreateRequiresProductReference(t *testing.T) {
	svc, _, _ := newFixture(t, map[string]bool{"hh1|u2": true})

	_, err := svc.Create(context.Background(), CreateInput{
		HouseholdID:     "hh1",
		ActorUserID:     "u1",
		RecipientUserID: "u2",
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateRejectsCrossHouseholdProduct(t *testing.T) {
	svc, _, products := newFixture(t, map[string]bool{"hh1|u2": true})
	products.products["p1"] = &models.Product{ID: "p1", HouseholdID: "other", Name: "Kettle"}

	productID := "p1"
	_, err := svc.Create(context.Background(), CreateInput{
		HouseholdID:     "hh1",
		ActorUserID:     "u1",
		RecipientUserID: "u2",
		ProductID:       &productID,
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateReplacesLinksOnlyWhenProvided(t *testing.T) {
	svc, store, _ := newFixture(t, nil)
	store.items["w1"] = &models.WishlistItem{ID: "w1", HouseholdID: "hh1"}

	priority := 5
	err := svc.Update(context.Background(), UpdateInput{
		HouseholdID: "hh1",
		ActorUserID: "u1",
		ItemID:      "w1",
		Priority:    &priority,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(store.updates) != 1 {
		t.Fatalf("expected one update call, got %d", len(store.updates))
	}
	if _, ok := store.updates[0]["links"]; ok {
		t.Fatal("links should not be touched when absent from input")
	}
	if store.updates[0]["priority"] != 5 {
		t.Fatalf("expected priority 5, got %v", store.updates[0]["priority"])
	}

	empty := []string{}
	if err := svc.Update(context.Background(), UpdateInput{
		HouseholdID: "hh1",
		ActorUserID: "u1",
		ItemID:      "w1",
		Links:       &empty,
	}); err != nil {
		t.Fatalf("update links: %v", err)
	}
	if _, ok := store.updates[1]["links"]; !ok {
		t.Fatal("explicit empty links should clear the column")
	}
}

func TestUpdateMissingItemIsNotFound(t *testing.T) {
	svc, _, _ := newFixture(t, nil)

	err := svc.Update(context.Background(), UpdateInput{
		HouseholdID: "hh1",
		ActorUserID: "u1",
		ItemID:      "missing",
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListGroupsByRecipient(t *testing.T) {
	svc, store, _ := newFixture(t, nil)
	store.rows = []EntryRow{
		{ID: "w1", HouseholdID: "hh1", RecipientUserID: "u2", ProductName: "Book", FirstName: "Bea", Priority: 2},
		{ID: "w2", HouseholdID: "hh1", RecipientUserID: "u2", ProductName: "Mug", FirstName: "Bea", Priority: 1},
		{ID: "w3", HouseholdID: "hh1", RecipientUserID: "u3", ProductName: "Kite", FirstName: "Cal"},
		{ID: "w4", HouseholdID: "other", RecipientUserID: "u9", ProductName: "Hat"},
	}

	groups, err := svc.ListGrouped(context.Background(), "hh1", "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected two recipient groups, got %d", len(groups))
	}
	if groups[0].RecipientUserID != "u2" || len(groups[0].Items) != 2 {
		t.Fatalf("unexpected first group: %+v", groups[0])
	}
	if groups[0].DisplayName != "Bea" {
		t.Fatalf("expected display name Bea, got %q", groups[0].DisplayName)
	}
	if groups[1].RecipientUserID != "u3" || len(groups[1].Items) != 1 {
		t.Fatalf("unexpected second group: %+v", groups[1])
	}
}
