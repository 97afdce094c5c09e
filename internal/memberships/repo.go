package memberships

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
)

// Repository exposes household membership persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repo to the provided GORM connection.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx rebinds the repository to an open transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// GetMember retrieves a membership by household and user.
func (r *Repository) GetMember(ctx context.Context, householdID, userID string) (*models.HouseholdMember, error) {
	var member models.HouseholdMember
	err := r.db.WithContext(ctx).
		Where("household_id = ? AND user_id = ?", householdID, userID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// Upsert inserts a membership or updates its flags when the composite key
// already exists.
func (r *Repository) Upsert(ctx context.Context, member *models.HouseholdMember) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "household_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_family_member", "is_manager", "updated_at"}),
		}).
		Create(member).Error
}

// Delete removes a membership row. The user row itself is untouched.
func (r *Repository) Delete(ctx context.Context, householdID, userID string) error {
	return r.db.WithContext(ctx).
		Where("household_id = ? AND user_id = ?", householdID, userID).
		Delete(&models.HouseholdMember{}).Error
}

// IsMember reports whether the user belongs to the household.
func (r *Repository) IsMember(ctx context.Context, householdID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.HouseholdMember{}).
		Where("household_id = ? AND user_id = ?", householdID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsManager reports whether the user holds the manager flag for the household.
func (r *Repository) IsManager(ctx context.Context, householdID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.HouseholdMember{}).
		Where("household_id = ? AND user_id = ? AND is_manager", householdID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// EarliestMembership returns the user's oldest membership, used to adopt an
// active household when none is stored.
func (r *Repository) EarliestMembership(ctx context.Context, userID string) (*models.HouseholdMember, error) {
	var member models.HouseholdMember
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at").
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// ListHouseholdMembers returns the household roster joined with user profiles.
func (r *Repository) ListHouseholdMembers(ctx context.Context, householdID string) ([]MemberWithUser, error) {
	var rows []memberWithUserRow
	err := r.db.WithContext(ctx).
		Model(&models.HouseholdMember{}).
		Select("household_members.*, users.first_name, users.last_name, users.email, users.image_url").
		Joins("JOIN users ON users.id = household_members.user_id").
		Where("household_members.household_id = ?", householdID).
		Order("household_members.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return membersFromRows(rows), nil
}

// ListUserMemberships returns the user's memberships joined with household
// names, ordered by join time.
func (r *Repository) ListUserMemberships(ctx context.Context, userID string) ([]MembershipWithHousehold, error) {
	var rows []membershipWithHouseholdRow
	err := r.db.WithContext(ctx).
		Model(&models.HouseholdMember{}).
		Select("household_members.*, households.name AS household_name").
		Joins("JOIN households ON households.id = household_members.household_id").
		Where("household_members.user_id = ?", userID).
		Order("household_members.created_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return membershipsFromRows(rows), nil
}
