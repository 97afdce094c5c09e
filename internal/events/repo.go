package events

import (
	"context"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	"github.com/giftwheel/giftwheel-backend/pkg/ids"
)

// Store abstracts event persistence for the service.
type Store interface {
	ListByHousehold(ctx context.Context, householdID string) ([]models.Event, error)
	FindScoped(ctx context.Context, householdID, eventID string) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) (*models.Event, error)
	Update(ctx context.Context, eventID string, updates map[string]any) error
	Delete(ctx context.Context, eventID string) error
}

// Repository exposes event persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListByHousehold returns the household's events ordered by creation time.
func (r *Repository) ListByHousehold(ctx context.Context, householdID string) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("created_at").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// FindScoped retrieves an event only if it belongs to the household.
func (r *Repository) FindScoped(ctx context.Context, householdID, eventID string) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Where("id = ? AND household_id = ?", eventID, householdID).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// Create persists a new event, assigning an id when absent.
func (r *Repository) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	if event.ID == "" {
		event.ID = ids.New()
	}
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, err
	}
	return event, nil
}

// Update applies the provided column updates to an event.
func (r *Repository) Update(ctx context.Context, eventID string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", eventID).
		Updates(updates).Error
}

// Delete hard-deletes the event. Orders pointing at it keep their rows with
// the event reference nulled by the schema.
func (r *Repository) Delete(ctx context.Context, eventID string) error {
	return r.db.WithContext(ctx).Delete(&models.Event{}, "id = ?", eventID).Error
}
