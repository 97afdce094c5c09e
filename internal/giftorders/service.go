package giftorders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/internal/participants"
	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	"github.com/giftwheel/giftwheel-backend/pkg/enums"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
	"github.com/giftwheel/giftwheel-backend/pkg/money"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type authGuard interface {
	RequireMember(ctx context.Context, householdID, userID string) error
	RequireManager(ctx context.Context, householdID, userID string) error
}

type eventStore interface {
	FindScoped(ctx context.Context, householdID, eventID string) (*models.Event, error)
}

type productCatalog interface {
	FindScoped(ctx context.Context, householdID, productID string) (*models.Product, error)
	FindOrCreateByName(ctx context.Context, householdID, name string) (*models.Product, error)
}

// CreateInput captures the fields for a new gift order.
type CreateInput struct {
	HouseholdID      string
	ActorUserID      string
	EventID          *string
	Title            string
	OrderType        string
	Notes            *string
	GiverUserIDs     []string
	RecipientUserIDs []string
}

// UpdateInput captures a partial order update. Nil fields are left untouched;
// a present participant slice replaces that role's whole set, even when
// empty. An empty EventID string clears the event reference.
type UpdateInput struct {
	HouseholdID      string
	ActorUserID      string
	OrderID          string
	EventID          *string
	Title            *string
	OrderType        *string
	Notes            *string
	Status           *string
	GiverUserIDs     *[]string
	RecipientUserIDs *[]string
}

// AddItemInput captures the fields for a new gift item. The product is
// referenced by id or resolved by name. Price fields arrive as raw strings
// so cleared inputs read as null.
type AddItemInput struct {
	HouseholdID   string
	ActorUserID   string
	OrderID       string
	ProductID     *string
	ProductName   string
	Notes         *string
	Status        string
	PlannedPrice  string
	PurchasePrice string
	Currency      *string
}

// UpdateItemInput captures a partial gift item update.
type UpdateItemInput struct {
	HouseholdID   string
	ActorUserID   string
	OrderID       string
	ItemID        string
	Title         *string
	Notes         *string
	Status        *string
	PlannedPrice  *string
	PurchasePrice *string
	Currency      *string
}

// Service is the gift order engine: order CRUD, the item sub-lifecycle, and
// the flattened per-household gift listing.
type Service interface {
	List(ctx context.Context, householdID, actorUserID string, eventID *string) ([]OrderDTO, error)
	Get(ctx context.Context, householdID, actorUserID, orderID string) (*OrderDTO, error)
	Create(ctx context.Context, input CreateInput) (*OrderDTO, error)
	Update(ctx context.Context, input UpdateInput) error
	Delete(ctx context.Context, householdID, actorUserID, orderID string) error

	AddItem(ctx context.Context, input AddItemInput) (*models.GiftItem, error)
	UpdateItem(ctx context.Context, input UpdateItemInput) error
	DeleteItem(ctx context.Context, householdID, actorUserID, orderID, itemID string) error
	ListGifts(ctx context.Context, householdID, actorUserID string, filters GiftFilters) ([]GiftRow, error)
}

type service struct {
	store    Store
	tx       txRunner
	parts    participants.Manager
	events   eventStore
	products productCatalog
	guard    authGuard
}

// NewService builds a gift order engine with the required dependencies.
func NewService(store Store, tx txRunner, parts participants.Manager, events eventStore, products productCatalog, guard authGuard) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("gift order store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if parts == nil {
		return nil, fmt.Errorf("participant manager required")
	}
	if events == nil {
		return nil, fmt.Errorf("event store required")
	}
	if products == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if guard == nil {
		return nil, fmt.Errorf("guard required")
	}
	return &service{
		store:    store,
		tx:       tx,
		parts:    parts,
		events:   events,
		products: products,
		guard:    guard,
	}, nil
}

func (s *service) List(ctx context.Context, householdID, actorUserID string, eventID *string) ([]OrderDTO, error) {
	if err := s.guard.RequireMember(ctx, householdID, actorUserID); err != nil {
		return nil, err
	}
	orders, err := s.store.ListByHousehold(ctx, householdID, eventID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	out := make([]OrderDTO, 0, len(orders))
	for i := range orders {
		summary, err := s.parts.Summarize(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, *orderToDTO(&orders[i], summary))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, householdID, actorUserID, orderID string) (*OrderDTO, error) {
	if err := s.guard.RequireMember(ctx, householdID, actorUserID); err != nil {
		return nil, err
	}
	return s.hydrate(ctx, householdID, orderID)
}

func (s *service) Create(ctx context.Context, input CreateInput) (*OrderDTO, error) {
	if err := s.guard.RequireManager(ctx, input.HouseholdID, input.ActorUserID); err != nil {
		return nil, err
	}

	orderType, err := enums.ParseOrderType(input.OrderType)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order type must be outgoing or incoming")
	}
	if input.EventID != nil && *input.EventID != "" {
		if err := s.checkEvent(ctx, input.HouseholdID, *input.EventID); err != nil {
			return nil, err
		}
	}

	givers := s.parts.Normalize(input.GiverUserIDs)
	recipients := s.parts.Normalize(input.RecipientUserIDs)
	if len(givers) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one giver required")
	}
	if len(recipients) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one recipient required")
	}
	if err := s.parts.ValidateMembers(ctx, input.HouseholdID, givers); err != nil {
		return nil, err
	}
	if err := s.parts.ValidateMembers(ctx, input.HouseholdID, recipients); err != nil {
		return nil, err
	}

	order := &models.GiftOrder{
		HouseholdID: input.HouseholdID,
		EventID:     normalizeEventID(input.EventID),
		Title:       strings.TrimSpace(input.Title),
		OrderType:   orderType,
		Notes:       input.Notes,
		Status:      enums.OrderStatusPlanning,
		CreatedBy:   input.ActorUserID,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := s.store.WithTx(tx).Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := s.parts.Replace(ctx, tx, order.ID, enums.ParticipantRoleGiver, givers); err != nil {
			return err
		}
		return s.parts.Replace(ctx, tx, order.ID, enums.ParticipantRoleRecipient, recipients)
	})
	if err != nil {
		return nil, err
	}

	return s.hydrate(ctx, input.HouseholdID, order.ID)
}

func (s *service) Update(ctx context.Context, input UpdateInput) error {
	if err := s.guard.RequireManager(ctx, input.HouseholdID, input.ActorUserID); err != nil {
		return err
	}
	if _, err := s.store.FindScoped(ctx, input.HouseholdID, input.OrderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	updates := map[string]any{}
	if input.OrderType != nil {
		orderType, err := enums.ParseOrderType(*input.OrderType)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "order type must be outgoing or incoming")
		}
		updates["order_type"] = orderType
	}
	if input.Status != nil {
		status, err := enums.ParseOrderStatus(*input.Status)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
		}
		updates["status"] = status
	}
	if input.EventID != nil {
		if *input.EventID == "" {
			updates["event_id"] = nil
		} else {
			if err := s.checkEvent(ctx, input.HouseholdID, *input.EventID); err != nil {
				return err
			}
			updates["event_id"] = *input.EventID
		}
	}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	var givers, recipients []string
	if input.GiverUserIDs != nil {
		givers = s.parts.Normalize(*input.GiverUserIDs)
		if err := s.parts.ValidateMembers(ctx, input.HouseholdID, givers); err != nil {
			return err
		}
	}
	if input.RecipientUserIDs != nil {
		recipients = s.parts.Normalize(*input.RecipientUserIDs)
		if err := s.parts.ValidateMembers(ctx, input.HouseholdID, recipients); err != nil {
			return err
		}
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.store.WithTx(tx).Update(ctx, input.OrderID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
		}
		if input.GiverUserIDs != nil {
			if err := s.parts.Replace(ctx, tx, input.OrderID, enums.ParticipantRoleGiver, givers); err != nil {
				return err
			}
		}
		if input.RecipientUserIDs != nil {
			if err := s.parts.Replace(ctx, tx, input.OrderID, enums.ParticipantRoleRecipient, recipients); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *service) Delete(ctx context.Context, householdID, actorUserID, orderID string) error {
	if err := s.guard.RequireManager(ctx, householdID, actorUserID); err != nil {
		return err
	}
	if _, err := s.store.FindScoped(ctx, householdID, orderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if err := s.store.Delete(ctx, orderID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

func (s *service) AddItem(ctx context.Context, input AddItemInput) (*models.GiftItem, error) {
	if err := s.guard.RequireManager(ctx, input.HouseholdID, input.ActorUserID); err != nil {
		return nil, err
	}
	if _, err := s.store.FindScoped(ctx, input.HouseholdID, input.OrderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	product, err := s.resolveProduct(ctx, input.HouseholdID, input.ProductID, input.ProductName)
	if err != nil {
		return nil, err
	}

	status := enums.GiftItemStatusIdea
	if input.Status != "" {
		status, err = enums.ParseGiftItemStatus(input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid gift item status")
		}
	}
	plannedPrice, err := money.ParseAmount(input.PlannedPrice)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid planned price")
	}
	purchasePrice, err := money.ParseAmount(input.PurchasePrice)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid purchase price")
	}

	item := &models.GiftItem{
		OrderID:       input.OrderID,
		ProductID:     &product.ID,
		Title:         product.Name,
		Notes:         input.Notes,
		Status:        status,
		PlannedPrice:  plannedPrice,
		PurchasePrice: purchasePrice,
		Currency:      input.Currency,
	}
	stampItemStatus(item, status)

	created, err := s.store.CreateItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create gift item")
	}
	return created, nil
}

func (s *service) UpdateItem(ctx context.Context, input UpdateItemInput) error {
	if err := s.guard.RequireManager(ctx, input.HouseholdID, input.ActorUserID); err != nil {
		return err
	}
	item, err := s.store.FindItemScoped(ctx, input.HouseholdID, input.OrderID, input.ItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "gift item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load gift item")
	}

	updates := map[string]any{}
	if input.Status != nil {
		status, err := enums.ParseGiftItemStatus(*input.Status)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid gift item status")
		}
		updates["status"] = status
		if status == enums.GiftItemStatusPurchased && item.PurchasedAt == nil {
			updates["purchased_at"] = time.Now().UTC()
		}
		if status == enums.GiftItemStatusGiven && item.GivenAt == nil {
			updates["given_at"] = time.Now().UTC()
		}
	}
	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "gift item title required")
		}
		updates["title"] = title
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}
	if input.PlannedPrice != nil {
		price, err := money.ParseAmount(*input.PlannedPrice)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid planned price")
		}
		updates["planned_price"] = price
	}
	if input.PurchasePrice != nil {
		price, err := money.ParseAmount(*input.PurchasePrice)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid purchase price")
		}
		updates["purchase_price"] = price
	}
	if input.Currency != nil {
		updates["currency"] = *input.Currency
	}

	if err := s.store.UpdateItem(ctx, input.ItemID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update gift item")
	}
	return nil
}

func (s *service) DeleteItem(ctx context.Context, householdID, actorUserID, orderID, itemID string) error {
	if err := s.guard.RequireManager(ctx, householdID, actorUserID); err != nil {
		return err
	}
	if _, err := s.store.FindItemScoped(ctx, householdID, orderID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "gift item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load gift item")
	}
	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete gift item")
	}
	return nil
}

func (s *service) ListGifts(ctx context.Context, householdID, actorUserID string, filters GiftFilters) ([]GiftRow, error) {
	if err := s.guard.RequireMember(ctx, householdID, actorUserID); err != nil {
		return nil, err
	}
	rows, err := s.store.ListGifts(ctx, householdID, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list gifts")
	}
	return rows, nil
}

func (s *service) hydrate(ctx context.Context, householdID, orderID string) (*OrderDTO, error) {
	order, err := s.store.FindScoped(ctx, householdID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	summary, err := s.parts.Summarize(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	return orderToDTO(order, summary), nil
}

// checkEvent confirms the event belongs to the household. A miss is a
// cross-tenant reference, not a lookup failure.
func (s *service) checkEvent(ctx context.Context, householdID, eventID string) error {
	if _, err := s.events.FindScoped(ctx, householdID, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "event belongs to another household")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
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

func stampItemStatus(item *models.GiftItem, status enums.GiftItemStatus) {
	now := time.Now().UTC()
	if status == enums.GiftItemStatusPurchased && item.PurchasedAt == nil {
		item.PurchasedAt = &now
	}
	if status == enums.GiftItemStatusGiven && item.GivenAt == nil {
		item.GivenAt = &now
	}
}

func normalizeEventID(eventID *string) *string {
	if eventID == nil || *eventID == "" {
		return nil
	}
	return eventID
}
