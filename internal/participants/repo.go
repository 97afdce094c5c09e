package participants

import (
	"context"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	"github.com/giftwheel/giftwheel-backend/pkg/enums"
)

// Store abstracts participant persistence for the manager.
type Store interface {
	WithTx(tx *gorm.DB) Store
	DeleteForOrder(ctx context.Context, orderID string, roles ...enums.ParticipantRole) error
	Insert(ctx context.Context, rows []models.GiftOrderParticipant) error
	ListByOrderWithUsers(ctx context.Context, orderID string) ([]ParticipantRow, error)
}

// ParticipantRow is a participant joined with the user profile fields needed
// for display summaries.
type ParticipantRow struct {
	UserID    string
	Role      enums.ParticipantRole
	FirstName string
	LastName  string
	Email     *string
}

// Repository exposes gift-order participant persistence operations.
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

// DeleteForOrder removes participant rows for an order, optionally scoped to
// the given roles. With no roles both sets are cleared.
func (r *Repository) DeleteForOrder(ctx context.Context, orderID string, roles ...enums.ParticipantRole) error {
	q := r.db.WithContext(ctx).Where("order_id = ?", orderID)
	if len(roles) > 0 {
		q = q.Where("role IN ?", roles)
	}
	return q.Delete(&models.GiftOrderParticipant{}).Error
}

// Insert persists the given participant rows.
func (r *Repository) Insert(ctx context.Context, rows []models.GiftOrderParticipant) error {
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// ListByOrderWithUsers returns the order's participants joined with user
// profiles, in insertion order.
func (r *Repository) ListByOrderWithUsers(ctx context.Context, orderID string) ([]ParticipantRow, error) {
	var rows []ParticipantRow
	err := r.db.WithContext(ctx).
		Model(&models.GiftOrderParticipant{}).
		Select("gift_order_participants.user_id, gift_order_participants.role, users.first_name, users.last_name, users.email").
		Joins("JOIN users ON users.id = gift_order_participants.user_id").
		Where("gift_order_participants.order_id = ?", orderID).
		Order("gift_order_participants.created_at, gift_order_participants.user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
