package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
	"github.com/giftwheel/giftwheel-backend/pkg/money"
	"github.com/giftwheel/giftwheel-backend/pkg/pagination"
)

type authGuard interface {
	RequireMember(ctx context.Context, householdID, userID string) error
}

// CreateInput captures the fields for a new catalog product. Price fields
// arrive as raw strings so cleared inputs read as null.
type CreateInput struct {
	HouseholdID  string
	ActorUserID  string
	Name         string
	Description  *string
	URL          *string
	ImageURL     *string
	DefaultPrice string
	Currency     *string
}

// UpdateInput captures a partial product update. Nil fields are left
// untouched.
type UpdateInput struct {
	HouseholdID  string
	ActorUserID  string
	ProductID    string
	Name         *string
	Description  *string
	URL          *string
	ImageURL     *string
	DefaultPrice *string
	Currency     *string
}

// Service manages the household's product catalog. Products are plain
// member-level records; no manager gate applies.
type Service interface {
	List(ctx context.Context, householdID, actorUserID string, params pagination.Params) (*ProductList, error)
	Get(ctx context.Context, householdID, actorUserID, productID string) (*models.Product, error)
	Create(ctx context.Context, input CreateInput) (*models.Product, error)
	Update(ctx context.Context, input UpdateInput) error
	Delete(ctx context.Context, householdID, actorUserID, productID string) error
	FindOrCreateByName(ctx context.Context, householdID, name string) (*models.Product, error)
}

type service struct {
	store Store
	guard authGuard
}

// NewService builds a product service with the required dependencies.
func NewService(store Store, guard authGuard) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("product store required")
	}
	if guard == nil {
		return nil, fmt.Errorf("guard required")
	}
	return &service{store: store, guard: guard}, nil
}

func (s *service) List(ctx context.Context, householdID, actorUserID string, params pagination.Params) (*ProductList, error) {
	if err := s.guard.RequireMember(ctx, householdID, actorUserID); err != nil {
		return nil, err
	}
	if _, err := pagination.ParseCursor(params.Cursor); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor").
			WithDetails(map[string]string{"field": "cursor"})
	}
	list, err := s.store.List(ctx, householdID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

func (s *service) Get(ctx context.Context, householdID, actorUserID, productID string) (*models.Product, error) {
	if err := s.guard.RequireMember(ctx, householdID, actorUserID); err != nil {
		return nil, err
	}
	product, err := s.store.FindScoped(ctx, householdID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	if err := s.guard.RequireMember(ctx, input.HouseholdID, input.ActorUserID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	price, err := money.ParseAmount(input.DefaultPrice)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid default price")
	}

	product := &models.Product{
		HouseholdID:  input.HouseholdID,
		Name:         name,
		Description:  input.Description,
		URL:          input.URL,
		ImageURL:     input.ImageURL,
		DefaultPrice: price,
		Currency:     input.Currency,
	}
	created, err := s.store.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) error {
	if err := s.guard.RequireMember(ctx, input.HouseholdID, input.ActorUserID); err != nil {
		return err
	}
	if _, err := s.store.FindScoped(ctx, input.HouseholdID, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "product name required")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.URL != nil {
		updates["url"] = *input.URL
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.DefaultPrice != nil {
		price, err := money.ParseAmount(*input.DefaultPrice)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid default price")
		}
		updates["default_price"] = price
	}
	if input.Currency != nil {
		updates["currency"] = *input.Currency
	}

	if err := s.store.Update(ctx, input.ProductID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, householdID, actorUserID, productID string) error {
	if err := s.guard.RequireMember(ctx, householdID, actorUserID); err != nil {
		return err
	}
	if _, err := s.store.FindScoped(ctx, householdID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.store.Delete(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

// FindOrCreateByName resolves a product by case-insensitive exact name,
// creating it when absent.
func (s *service) FindOrCreateByName(ctx context.Context, householdID, name string) (*models.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name required")
	}
	product, err := s.store.FindOrCreateByName(ctx, householdID, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve product by name")
	}
	return product, nil
}
