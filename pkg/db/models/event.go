package models

import (
	"time"

	"github.com/giftwheel/giftwheel-backend/pkg/enums"
)

// Event is a tenant-scoped occasion gifts are planned around.
type Event struct {
	ID            string          `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	HouseholdID   string          `gorm:"column:household_id;type:char(26);not null;index" json:"household_id"`
	Name          string          `gorm:"column:name;not null" json:"name"`
	Date          *time.Time      `gorm:"column:date" json:"date,omitempty"`
	Type          enums.EventType `gorm:"column:type;not null;default:'other'" json:"type"`
	HonoreeUserID *string         `gorm:"column:honoree_user_id;type:char(26)" json:"honoree_user_id,omitempty"`
	Notes         *string         `gorm:"column:notes" json:"notes,omitempty"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
