package giftorders

import (
	"context"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	"github.com/giftwheel/giftwheel-backend/pkg/ids"
)

// GiftFilters narrows the flattened gift listing.
type GiftFilters struct {
	EventID   *string
	ProductID *string
}

// Store abstracts gift order persistence for the engine.
type Store interface {
	WithTx(tx *gorm.DB) Store
	ListByHousehold(ctx context.Context, householdID string, eventID *string) ([]models.GiftOrder, error)
	FindScoped(ctx context.Context, householdID, orderID string) (*models.GiftOrder, error)
	Create(ctx context.Context, order *models.GiftOrder) (*models.GiftOrder, error)
	Update(ctx context.Context, orderID string, updates map[string]any) error
	Delete(ctx context.Context, orderID string) error

	FindItemScoped(ctx context.Context, householdID, orderID, itemID string) (*models.GiftItem, error)
	CreateItem(ctx context.Context, item *models.GiftItem) (*models.GiftItem, error)
	UpdateItem(ctx context.Context, itemID string, updates map[string]any) error
	DeleteItem(ctx context.Context, itemID string) error
	ListGifts(ctx context.Context, householdID string, filters GiftFilters) ([]GiftRow, error)
}

// Repository exposes gift order persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) Store {
	return &Repository{db: tx}
}

// ListByHousehold returns the household's orders with items preloaded,
// oldest first, optionally narrowed to one event.
func (r *Repository) ListByHousehold(ctx context.Context, householdID string, eventID *string) ([]models.GiftOrder, error) {
	q := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("gift_items.created_at")
		}).
		Where("household_id = ?", householdID).
		Order("created_at")
	if eventID != nil && *eventID != "" {
		q = q.Where("event_id = ?", *eventID)
	}

	var orders []models.GiftOrder
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindScoped retrieves an order with items preloaded, only if it belongs to
// the household.
func (r *Repository) FindScoped(ctx context.Context, householdID, orderID string) (*models.GiftOrder, error) {
	var order models.GiftOrder
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("gift_items.created_at")
		}).
		Where("id = ? AND household_id = ?", orderID, householdID).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// Create persists a new order, assigning an id when absent.
func (r *Repository) Create(ctx context.Context, order *models.GiftOrder) (*models.GiftOrder, error) {
	if order.ID == "" {
		order.ID = ids.New()
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// Update applies the provided column updates to an order.
func (r *Repository) Update(ctx context.Context, orderID string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.GiftOrder{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

// Delete hard-deletes the order; items and participants cascade with it.
func (r *Repository) Delete(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).Delete(&models.GiftOrder{}, "id = ?", orderID).Error
}

// FindItemScoped retrieves a gift item only if it belongs to the given order
// and that order belongs to the household.
func (r *Repository) FindItemScoped(ctx context.Context, householdID, orderID, itemID string) (*models.GiftItem, error) {
	var item models.GiftItem
	err := r.db.WithContext(ctx).
		Joins("JOIN gift_orders ON gift_orders.id = gift_items.order_id").
		Where("gift_items.id = ? AND gift_items.order_id = ? AND gift_orders.household_id = ?", itemID, orderID, householdID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateItem persists a new gift item, assigning an id when absent.
func (r *Repository) CreateItem(ctx context.Context, item *models.GiftItem) (*models.GiftItem, error) {
	if item.ID == "" {
		item.ID = ids.New()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateItem applies the provided column updates to a gift item.
func (r *Repository) UpdateItem(ctx context.Context, itemID string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.GiftItem{}).
		Where("id = ?", itemID).
		Updates(updates).Error
}

// DeleteItem hard-deletes a gift item.
func (r *Repository) DeleteItem(ctx context.Context, itemID string) error {
	return r.db.WithContext(ctx).Delete(&models.GiftItem{}, "id = ?", itemID).Error
}

// ListGifts returns the household's items flattened across orders, joined
// with order metadata, oldest first.
func (r *Repository) ListGifts(ctx context.Context, householdID string, filters GiftFilters) ([]GiftRow, error) {
	q := r.db.WithContext(ctx).
		Model(&models.GiftItem{}).
		Select("gift_items.*, gift_orders.title AS order_title, gift_orders.event_id, gift_orders.order_type, gift_orders.status AS order_status").
		Joins("JOIN gift_orders ON gift_orders.id = gift_items.order_id").
		Where("gift_orders.household_id = ?", householdID).
		Order("gift_items.created_at")
	if filters.EventID != nil && *filters.EventID != "" {
		q = q.Where("gift_orders.event_id = ?", *filters.EventID)
	}
	if filters.ProductID != nil && *filters.ProductID != "" {
		q = q.Where("gift_items.product_id = ?", *filters.ProductID)
	}

	var rows []GiftRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
