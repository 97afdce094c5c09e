package models

import (
	"time"

	"github.com/giftwheel/giftwheel-backend/pkg/enums"
)

// GiftOrder is a planned gift transaction. It owns its items and both
// participant role sets; deleting the order cascades to both.
type GiftOrder struct {
	ID           string                 `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	HouseholdID  string                 `gorm:"column:household_id;type:char(26);not null;index" json:"household_id"`
	EventID      *string                `gorm:"column:event_id;type:char(26);index" json:"event_id,omitempty"`
	Title        string                 `gorm:"column:title;not null;default:''" json:"title"`
	OrderType    enums.OrderType        `gorm:"column:order_type;not null" json:"order_type"`
	Notes        *string                `gorm:"column:notes" json:"notes,omitempty"`
	Status       enums.OrderStatus      `gorm:"column:status;not null;default:'planning'" json:"status"`
	CreatedBy    string                 `gorm:"column:created_by;type:char(26);not null" json:"created_by"`
	Items        []GiftItem             `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	Participants []GiftOrderParticipant `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time              `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
