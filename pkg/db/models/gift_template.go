package models

import "time"

// GiftTemplate is a reusable, event-independent blueprint of giver/recipient
// pairings that can be imported into any event to bulk-create orders.
type GiftTemplate struct {
	ID          string             `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	HouseholdID string             `gorm:"column:household_id;type:char(26);not null;index" json:"household_id"`
	Name        string             `gorm:"column:name;not null" json:"name"`
	Notes       *string            `gorm:"column:notes" json:"notes,omitempty"`
	Items       []GiftTemplateItem `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
