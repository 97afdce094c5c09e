package wishlists

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
)

type authGuard interface {
	RequireMember(ctx context.Context, householdID, userID string) error
	RequireManager(ctx context.Context, householdID, userID string) error
}

type membershipStore interface {
	IsMember(ctx context.Context, householdID, userID string) (bool, error)
}

type productCatalog interface {
	FindScoped(ctx context.Context, householdID, productID string) (*models.Product, error)
	FindOrCreateByName(ctx context.Context, householdID, name string) (*models.Product, error)
}

// CreateInput captures the fields for a new wishlist entry. The product is
// referenced by id or resolved by name.
type CreateInput struct {
	HouseholdID     string
	ActorUserID     string
	RecipientUserID string
	ProductID       *string
	ProductName     string
	Links           []string
	Notes           *string
	Priority        int
}

// UpdateInput captures a partial wishlist entry update.
type UpdateInput struct {
	HouseholdID string
	ActorUserID string
	ItemID      string
	Links       *[]string
	Notes       *string
	Priority    *int
}

// Service manages household wishlists.
type Service interface {
	ListGrouped(ctx context.Context, householdID, actorUserID string) ([]RecipientGroup, error)
	Create(ctx context.Context, input CreateInput) (*models.WishlistItem, error)
	Update(ctx context.Context, input UpdateInput) error
	Delete(ctx context.Context, householdID, actorUserID, itemID string) error
}

type service struct {
	store    Store
	members  membershipStore
	products productCatalog
	guard    authGuard
}

// NewService builds a wishlist service with the required dependencies.
func NewService(store Store, members membershipStore, products productCatalog, guard authGuard) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("wishlist store required")
	}
	if members == nil {
		return nil, fmt.Errorf("membership store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if guard == nil {
		return nil, fmt.Errorf("guard required")
	}
	return &service{store: store, members: members, products: products, guard: guard}, nil
}

// ListGrouped returns the household's wishlist bucketed per recipient.
func (s *service) ListGrouped(ctx context.Context, householdID, actorUserID string) ([]RecipientGroup, error) {
	if err := s.guard.RequireMember(ctx, householdID, actorUserID); err != nil {
		return nil, err
	}
	rows, err := s.store.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wishlist")
	}
	return groupByRecipient(rows), nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.WishlistItem, error) {
	if err := s.guard.RequireManager(ctx, input.HouseholdID, input.ActorUserID); err != nil {
		return nil, err
	}
	if input.RecipientUserID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "recipient user id required")
	}
	member, err := s.members.IsMember(ctx, input.HouseholdID, input.RecipientUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check recipient membership")
	}
	if !member {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user not in household").
			WithDetails(map[string]string{"user_id": input.RecipientUserID})
	}

	product, err := s.resolveProduct(ctx, input.HouseholdID, input.ProductID, input.ProductName)
	if err != nil {
		return nil, err
	}

	item := &models.WishlistItem{
		HouseholdID:     input.HouseholdID,
		RecipientUserID: input.RecipientUserID,
		ProductID:       product.ID,
		Links:           pq.StringArray(input.Links),
		Notes:           input.Notes,
		Priority:        input.Priority,
	}
	created, err := s.store.Create(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create wishlist item")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) error {
	if err := s.guard.RequireManager(ctx, input.HouseholdID, input.ActorUserID); err != nil {
		return err
	}
	if _, err := s.store.FindScoped(ctx, input.HouseholdID, input.ItemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist item")
	}

	updates := map[string]any{}
	if input.Links != nil {
		updates["links"] = pq.StringArray(*input.Links)
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.Priority != nil {
		updates["priority"] = *input.Priority
	}

	if err := s.store.Update(ctx, input.ItemID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update wishlist item")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, householdID, actorUserID, itemID string) error {
	if err := s.guard.RequireManager(ctx, householdID, actorUserID); err != nil {
		return err
	}
	if _, err := s.store.FindScoped(ctx, householdID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "wishlist item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wishlist item")
	}
	if err := s.store.Delete(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete wishlist item")
	}
	return nil
}

func (s *service) resolveProduct(ctx context.Context, householdID string, productID *string, productName string) (*models.Product, error) {
	if productID != nil && *productID != "" {
		product, err := s.products.FindScoped(ctx, householdID, *productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "product not found in household")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
		}
		return product, nil
	}
	if strings.TrimSpace(productName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id or product name required")
	}
	product, err := s.products.FindOrCreateByName(ctx, householdID, strings.TrimSpace(productName))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve product by name")
	}
	return product, nil
}
