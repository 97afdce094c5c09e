package users

import (
	"time"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
)

// UserDTO is the transport shape for a user profile.
type UserDTO struct {
	ID                string     `json:"id"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	Email             *string    `json:"email,omitempty"`
	Mobile            *string    `json:"mobile,omitempty"`
	ImageURL          *string    `json:"image_url,omitempty"`
	IsAdmin           bool       `json:"is_admin"`
	IsActive          bool       `json:"is_active"`
	ActiveHouseholdID *string    `json:"active_household_id,omitempty"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// ToDTO converts a model to the external DTO.
func ToDTO(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:                u.ID,
		FirstName:         u.FirstName,
		LastName:          u.LastName,
		Email:             copyStringPointer(u.Email),
		Mobile:            copyStringPointer(u.Mobile),
		ImageURL:          copyStringPointer(u.ImageURL),
		IsAdmin:           u.IsAdmin,
		IsActive:          u.IsActive,
		ActiveHouseholdID: copyStringPointer(u.ActiveHouseholdID),
		LastLoginAt:       copyTimePointer(u.LastLoginAt),
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func copyStringPointer(src *string) *string {
	if src == nil {
		return nil
	}
	dst := *src
	return &dst
}

func copyTimePointer(src *time.Time) *time.Time {
	if src == nil {
		return nil
	}
	dst := *src
	return &dst
}
