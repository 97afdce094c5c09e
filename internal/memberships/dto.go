package memberships

import (
	"time"
)

// MemberWithUser mixes membership flags with the associated user profile for
// household rosters.
type MemberWithUser struct {
	HouseholdID    string    `json:"household_id"`
	UserID         string    `json:"user_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          *string   `json:"email,omitempty"`
	ImageURL       *string   `json:"image_url,omitempty"`
	IsFamilyMember bool      `json:"is_family_member"`
	IsManager      bool      `json:"is_manager"`
	CreatedAt      time.Time `json:"created_at"`
}

// MembershipWithHousehold includes basic household metadata + membership info.
type MembershipWithHousehold struct {
	HouseholdID    string    `json:"household_id"`
	HouseholdName  string    `json:"household_name"`
	UserID         string    `json:"user_id"`
	IsFamilyMember bool      `json:"is_family_member"`
	IsManager      bool      `json:"is_manager"`
	CreatedAt      time.Time `json:"created_at"`
}

type memberWithUserRow struct {
	HouseholdID    string
	UserID         string
	FirstName      string
	LastName       string
	Email          *string
	ImageURL       *string
	IsFamilyMember bool
	IsManager      bool
	CreatedAt      time.Time
}

type membershipWithHouseholdRow struct {
	HouseholdID    string
	HouseholdName  string
	UserID         string
	IsFamilyMember bool
	IsManager      bool
	CreatedAt      time.Time
}

func membersFromRows(rows []memberWithUserRow) []MemberWithUser {
	out := make([]MemberWithUser, 0, len(rows))
	for _, row := range rows {
		out = append(out, MemberWithUser{
			HouseholdID:    row.HouseholdID,
			UserID:         row.UserID,
			FirstName:      row.FirstName,
			LastName:       row.LastName,
			Email:          row.Email,
			ImageURL:       row.ImageURL,
			IsFamilyMember: row.IsFamilyMember,
			IsManager:      row.IsManager,
			CreatedAt:      row.CreatedAt,
		})
	}
	return out
}

func membershipsFromRows(rows []membershipWithHouseholdRow) []MembershipWithHousehold {
	out := make([]MembershipWithHousehold, 0, len(rows))
	for _, row := range rows {
		out = append(out, MembershipWithHousehold{
			HouseholdID:    row.HouseholdID,
			HouseholdName:  row.HouseholdName,
			UserID:         row.UserID,
			IsFamilyMember: row.IsFamilyMember,
			IsManager:      row.IsManager,
			CreatedAt:      row.CreatedAt,
		})
	}
	return out
}
