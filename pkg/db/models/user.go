package models

import "time"

// User represents the canonical global identity entity. Tenant operations
// never hard-delete users; only memberships are removed.
type User struct {
	ID                string     `gorm:"column:id;type:char(26);primaryKey" json:"id"`
	FirstName         string     `gorm:"column:first_name;not null" json:"first_name"`
	LastName          string     `gorm:"column:last_name;not null;default:''" json:"last_name"`
	Email             *string    `gorm:"column:email" json:"email,omitempty"`
	Mobile            *string    `gorm:"column:mobile" json:"mobile,omitempty"`
	ImageURL          *string    `gorm:"column:image_url" json:"image_url,omitempty"`
	IsAdmin           bool       `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	IsActive          bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	ActiveHouseholdID *string    `gorm:"column:active_household_id;type:char(26)" json:"active_household_id,omitempty"`
	LastLoginAt       *time.Time `gorm:"column:last_login_at" json:"last_login_at,omitempty"`
	CreatedAt         time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
