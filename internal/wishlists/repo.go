package wishlists

import (
	"context"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	"github.com/giftwheel/giftwheel-backend/pkg/ids"
)

// Store abstracts wishlist persistence for the service.
type Store interface {
	ListByHousehold(ctx context.Context, householdID string) ([]EntryRow, error)
	FindScoped(ctx context.Context, householdID, itemID string) (*models.WishlistItem, error)
	Create(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error)
	Update(ctx context.Context, itemID string, updates map[string]any) error
	Delete(ctx context.Context, itemID string) error
}

// Repository exposes wishlist persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByHousehold returns the household's wishlist entries joined with
// product and recipient metadata, highest priority first per recipient.
func (r *Repository) ListByHousehold(ctx context.Context, householdID string) ([]EntryRow, error) {
	var rows []EntryRow
	err := r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Select("wishlist_items.*, products.name AS product_name, users.first_name, users.last_name, users.email").
		Joins("JOIN products ON products.id = wishlist_items.product_id").
		Joins("JOIN users ON users.id = wishlist_items.recipient_user_id").
		Where("wishlist_items.household_id = ?", householdID).
		Order("wishlist_items.recipient_user_id, wishlist_items.priority DESC, wishlist_items.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FindScoped retrieves a wishlist item only if it belongs to the household.
func (r *Repository) FindScoped(ctx context.Context, householdID, itemID string) (*models.WishlistItem, error) {
	var item models.WishlistItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND household_id = ?", itemID, householdID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create persists a new wishlist item, assigning an id when absent.
func (r *Repository) Create(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error) {
	if item.ID == "" {
		item.ID = ids.New()
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// Update applies the provided column updates to a wishlist item.
func (r *Repository) Update(ctx context.Context, itemID string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.WishlistItem{}).
		Where("id = ?", itemID).
		Updates(updates).Error
}

// Delete hard-deletes a wishlist item.
func (r *Repository) Delete(ctx context.Context, itemID string) error {
	return r.db.WithContext(ctx).Delete(&models.WishlistItem{}, "id = ?", itemID).Error
}
