package identity

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	"github.com/giftwheel/giftwheel-backend/pkg/ids"
)

// Repository exposes identity-link persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindLink retrieves an identity link by provider and subject.
func (r *Repository) FindLink(ctx context.Context, provider, subject string) (*models.IdentityLink, error) {
	var link models.IdentityLink
	err := r.db.WithContext(ctx).
		Where("provider = ? AND subject = ?", provider, subject).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

// CreateLink persists a new identity link.
func (r *Repository) CreateLink(ctx context.Context, link *models.IdentityLink) error {
	if link.ID == "" {
		link.ID = ids.New()
	}
	if link.LastSeenAt.IsZero() {
		link.LastSeenAt = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Create(link).Error
}

// TouchLastSeen refreshes the link's last-seen timestamp.
func (r *Repository) TouchLastSeen(ctx context.Context, linkID string) error {
	return r.db.WithContext(ctx).
		Model(&models.IdentityLink{}).
		Where("id = ?", linkID).
		Update("last_seen_at", gorm.Expr("CURRENT_TIMESTAMP")).Error
}
