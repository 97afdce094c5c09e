package models

import (
	"time"

	"github.com/giftwheel/giftwheel-backend/pkg/enums"
)

// GiftTemplateItemParticipant mirrors GiftOrderParticipant for template
// items; rows are copied verbatim onto generated orders during import.
type GiftTemplateItemParticipant struct {
	TemplateItemID string                `gorm:"column:template_item_id;type:char(26);primaryKey" json:"template_item_id"`
	UserID         string                `gorm:"column:user_id;type:char(26);primaryKey" json:"user_id"`
	Role           enums.ParticipantRole `gorm:"column:role;primaryKey" json:"role"`
	CreatedAt      time.Time             `gorm:"column:created_at" json:"created_at"`
}
