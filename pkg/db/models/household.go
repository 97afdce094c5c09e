package models

import "time"

// Household is the tenant isolation boundary; every tenant-scoped row carries
// its id and is removed when the household is deleted.
type Household struct {
	ID        string    `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
