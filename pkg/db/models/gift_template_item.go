package models

import "time"

// GiftTemplateItem mirrors one future order inside a template. Its notes
// become the generated order's title on import.
type GiftTemplateItem struct {
	ID           string                        `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	TemplateID   string                        `gorm:"column:template_id;type:char(26);not null;index" json:"template_id"`
	Notes        *string                       `gorm:"column:notes" json:"notes,omitempty"`
	Participants []GiftTemplateItemParticipant `gorm:"foreignKey:TemplateItemID;constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	CreatedAt    time.Time                     `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
