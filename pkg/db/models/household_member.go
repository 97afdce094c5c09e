package models

import "time"

// HouseholdMember links a user to a household. Composite-keyed; upserted on
// add, deleted on removal.
type HouseholdMember struct {
	HouseholdID    string    `gorm:"column:household_id;type:char(26);primaryKey" json:"household_id"`
	UserID         string    `gorm:"column:user_id;type:char(26);primaryKey" json:"user_id"`
	IsFamilyMember bool      `gorm:"column:is_family_member;not null;default:true" json:"is_family_member"`
	IsManager      bool      `gorm:"column:is_manager;not null;default:false" json:"is_manager"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
