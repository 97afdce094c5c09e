package models

import (
	"time"

	"github.com/lib/pq"
)

// WishlistItem ties a wish to one recipient user and one product.
type WishlistItem struct {
	ID              string         `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	HouseholdID     string         `gorm:"column:household_id;type:char(26);not null;index" json:"household_id"`
	RecipientUserID string         `gorm:"column:recipient_user_id;type:char(26);not null;index" json:"recipient_user_id"`
	ProductID       string         `gorm:"column:product_id;type:char(26);not null;index" json:"product_id"`
	Links           pq.StringArray `gorm:"column:links;type:text[]" json:"links,omitempty"`
	Notes           *string        `gorm:"column:notes" json:"notes,omitempty"`
	Priority        int            `gorm:"column:priority;not null;default:0" json:"priority"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
