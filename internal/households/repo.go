package households

import (
	"context"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	"github.com/giftwheel/giftwheel-backend/pkg/ids"
)

// Store abstracts household persistence for the service.
type Store interface {
	WithTx(tx *gorm.DB) Store
	Create(ctx context.Context, household *models.Household) (*models.Household, error)
	CreateWithOwner(ctx context.Context, household *models.Household, ownerID string) (*models.Household, error)
	FindByID(ctx context.Context, id string) (*models.Household, error)
	UpdateName(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

// Repository exposes household persistence operations.
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

// Create persists a new household, assigning an id when absent.
func (r *Repository) Create(ctx context.Context, household *models.Household) (*models.Household, error) {
	if household.ID == "" {
		household.ID = ids.New()
	}
	if err := r.db.WithContext(ctx).Create(household).Error; err != nil {
		return nil, err
	}
	return household, nil
}

// CreateWithOwner atomically creates the household, enrolls the owner as its
// first manager, and adopts it as the owner's active household.
func (r *Repository) CreateWithOwner(ctx context.Context, household *models.Household, ownerID string) (*models.Household, error) {
	if household.ID == "" {
		household.ID = ids.New()
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(household).Error; err != nil {
			return err
		}
		member := &models.HouseholdMember{
			HouseholdID:    household.ID,
			UserID:         ownerID,
			IsFamilyMember: true,
			IsManager:      true,
		}
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).
			Where("id = ?", ownerID).
			Update("active_household_id", household.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return household, nil
}

// FindByID retrieves a household by primary key.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Household, error) {
	var household models.Household
	if err := r.db.WithContext(ctx).First(&household, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &household, nil
}

// UpdateName renames the household.
func (r *Repository) UpdateName(ctx context.Context, id, name string) error {
	return r.db.WithContext(ctx).
		Model(&models.Household{}).
		Where("id = ?", id).
		Update("name", name).Error
}

// Delete hard-deletes the household. Tenant-scoped rows go with it via
// foreign key cascades.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Household{}, "id = ?", id).Error
}
