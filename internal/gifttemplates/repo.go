package gifttemplates

import (
	"context"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	"github.com/giftwheel/giftwheel-backend/pkg/ids"
)

// Store abstracts template persistence for the service.
type Store interface {
	WithTx(tx *gorm.DB) Store
	ListByHousehold(ctx context.Context, householdID string) ([]models.GiftTemplate, error)
	FindScoped(ctx context.Context, householdID, templateID string) (*models.GiftTemplate, error)
	Create(ctx context.Context, template *models.GiftTemplate) (*models.GiftTemplate, error)
	Update(ctx context.Context, templateID string, updates map[string]any) error
	Delete(ctx context.Context, templateID string) error

	CreateItem(ctx context.Context, item *models.GiftTemplateItem) (*models.GiftTemplateItem, error)
	FindItemScoped(ctx context.Context, householdID, templateID, itemID string) (*models.GiftTemplateItem, error)
	DeleteItem(ctx context.Context, itemID string) error
}

// Repository exposes gift template persistence operations.
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

// ListByHousehold returns the household's templates with items and
// participants preloaded, oldest first.
func (r *Repository) ListByHousehold(ctx context.Context, householdID string) ([]models.GiftTemplate, error) {
	var templates []models.GiftTemplate
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("gift_template_items.created_at")
		}).
		Preload("Items.Participants").
		Where("household_id = ?", householdID).
		Order("created_at").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// FindScoped retrieves a template with items and participants preloaded,
// only if it belongs to the household.
func (r *Repository) FindScoped(ctx context.Context, householdID, templateID string) (*models.GiftTemplate, error) {
	var template models.GiftTemplate
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("gift_template_items.created_at")
		}).
		Preload("Items.Participants").
		Where("id = ? AND household_id = ?", templateID, householdID).
		First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// Create persists a new template, assigning an id when absent.
func (r *Repository) Create(ctx context.Context, template *models.GiftTemplate) (*models.GiftTemplate, error) {
	if template.ID == "" {
		template.ID = ids.New()
	}
	if err := r.db.WithContext(ctx).Create(template).Error; err != nil {
		return nil, err
	}
	return template, nil
}

// Update applies the provided column updates to a template.
func (r *Repository) Update(ctx context.Context, templateID string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.GiftTemplate{}).
		Where("id = ?", templateID).
		Updates(updates).Error
}

// Delete hard-deletes the template; items and participants cascade with it.
func (r *Repository) Delete(ctx context.Context, templateID string) error {
	return r.db.WithContext(ctx).Delete(&models.GiftTemplate{}, "id = ?", templateID).Error
}

// CreateItem persists a template item together with its participant rows.
func (r *Repository) CreateItem(ctx context.Context, item *models.GiftTemplateItem) (*models.GiftTemplateItem, error) {
	if item.ID == "" {
		item.ID = ids.New()
	}
	for i := range item.Participants {
		item.Participants[i].TemplateItemID = item.ID
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// FindItemScoped retrieves a template item only if it belongs to the given
// template and that template belongs to the household.
func (r *Repository) FindItemScoped(ctx context.Context, householdID, templateID, itemID string) (*models.GiftTemplateItem, error) {
	var item models.GiftTemplateItem
	err := r.db.WithContext(ctx).
		Preload("Participants").
		Joins("JOIN gift_templates ON gift_templates.id = gift_template_items.template_id").
		Where("gift_template_items.id = ? AND gift_template_items.template_id = ? AND gift_templates.household_id = ?", itemID, templateID, householdID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteItem hard-deletes a template item; its participants cascade.
func (r *Repository) DeleteItem(ctx context.Context, itemID string) error {
	return r.db.WithContext(ctx).Delete(&models.GiftTemplateItem{}, "id = ?", itemID).Error
}
