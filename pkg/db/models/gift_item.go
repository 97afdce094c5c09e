package models

import (
	"time"

	"github.com/giftwheel/giftwheel-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// GiftItem is a concrete item within an order. Title is denormalized from the
// product name at creation time and edited independently afterwards.
type GiftItem struct {
	ID            string               `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	OrderID       string               `gorm:"column:order_id;type:char(26);not null;index" json:"order_id"`
	ProductID     *string              `gorm:"column:product_id;type:char(26);index" json:"product_id,omitempty"`
	Title         string               `gorm:"column:title;not null" json:"title"`
	Notes         *string              `gorm:"column:notes" json:"notes,omitempty"`
	Status        enums.GiftItemStatus `gorm:"column:status;not null;default:'idea'" json:"status"`
	PlannedPrice  *decimal.Decimal     `gorm:"column:planned_price;type:numeric(12,2)" json:"planned_price,omitempty"`
	PurchasePrice *decimal.Decimal     `gorm:"column:purchase_price;type:numeric(12,2)" json:"purchase_price,omitempty"`
	Currency      *string              `gorm:"column:currency;type:char(3)" json:"currency,omitempty"`
	PurchasedAt   *time.Time           `gorm:"column:purchased_at" json:"purchased_at,omitempty"`
	GivenAt       *time.Time           `gorm:"column:given_at" json:"given_at,omitempty"`
	CreatedAt     time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
