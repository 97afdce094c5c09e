package products

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	"github.com/giftwheel/giftwheel-backend/pkg/ids"
	"github.com/giftwheel/giftwheel-backend/pkg/pagination"
)

// ProductList is one cursor page of products.
type ProductList struct {
	Items      []models.Product `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// Store abstracts product persistence for the service.
type Store interface {
	List(ctx context.Context, householdID string, params pagination.Params) (*ProductList, error)
	FindScoped(ctx context.Context, householdID, productID string) (*models.Product, error)
	FindByName(ctx context.Context, householdID, name string) (*models.Product, error)
	FindOrCreateByName(ctx context.Context, householdID, name string) (*models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, productID string, updates map[string]any) error
	Delete(ctx context.Context, productID string) error
}

// Repository exposes product persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns a cursor page of the household's products, oldest first.
func (r *Repository) List(ctx context.Context, householdID string, params pagination.Params) (*ProductList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	limit := pagination.NormalizeLimit(params.Limit)

	q := r.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("created_at, id").
		Limit(pagination.LimitWithBuffer(params.Limit))
	if cursor != nil {
		q = q.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	list := &ProductList{Items: rows}
	if len(rows) > limit {
		list.Items = rows[:limit]
		last := list.Items[limit-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

// FindScoped retrieves a product only if it belongs to the household.
func (r *Repository) FindScoped(ctx context.Context, householdID, productID string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND household_id = ?", productID, householdID).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByName retrieves a product by case-insensitive exact name match.
func (r *Repository) FindByName(ctx context.Context, householdID, name string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("household_id = ? AND lower(name) = lower(?)", householdID, name).
		Order("created_at").
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindOrCreateByName resolves a product by case-insensitive exact name,
// creating a bare catalog entry when absent. This is a plain
// check-then-insert; two concurrent callers can both create the same name.
func (r *Repository) FindOrCreateByName(ctx context.Context, householdID, name string) (*models.Product, error) {
	product, err := r.FindByName(ctx, householdID, name)
	if err == nil {
		return product, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return r.Create(ctx, &models.Product{HouseholdID: householdID, Name: name})
}

// Create persists a new product, assigning an id when absent.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == "" {
		product.ID = ids.New()
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// Update applies the provided column updates to a product.
func (r *Repository) Update(ctx context.Context, productID string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(updates).Error
}

// Delete hard-deletes a product.
func (r *Repository) Delete(ctx context.Context, productID string) error {
	return r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", productID).Error
}
