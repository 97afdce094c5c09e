package models

import (
	"time"

	"github.com/giftwheel/giftwheel-backend/pkg/enums"
)

// GiftOrderParticipant attaches a user to an order in one role. The same user
// may appear once per role. Rows are replaced wholesale, never diffed.
type GiftOrderParticipant struct {
	OrderID   string                `gorm:"column:order_id;type:char(26);primaryKey" json:"order_id"`
	UserID    string                `gorm:"column:user_id;type:char(26);primaryKey" json:"user_id"`
	Role      enums.ParticipantRole `gorm:"column:role;primaryKey" json:"role"`
	CreatedAt time.Time             `gorm:"column:created_at" json:"created_at"`
}
