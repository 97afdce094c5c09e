package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a tenant-scoped catalog entry. Name lookups are exact but
// case-insensitive so that items referencing a product by name reuse it.
type Product struct {
	ID           string           `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	HouseholdID  string           `gorm:"column:household_id;type:char(26);not null;index" json:"household_id"`
	Name         string           `gorm:"column:name;not null" json:"name"`
	Description  *string          `gorm:"column:description" json:"description,omitempty"`
	URL          *string          `gorm:"column:url" json:"url,omitempty"`
	ImageURL     *string          `gorm:"column:image_url" json:"image_url,omitempty"`
	DefaultPrice *decimal.Decimal `gorm:"column:default_price;type:numeric(12,2)" json:"default_price,omitempty"`
	Currency     *string          `gorm:"column:currency;type:char(3)" json:"currency,omitempty"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
