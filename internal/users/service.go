package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/internal/memberships"
	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
)

type authGuard interface {
	RequireMember(ctx context.Context, householdID, userID string) error
	RequireManager(ctx context.Context, householdID, userID string) error
}

type userStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Update(ctx context.Context, id string, updates map[string]any) error
}

type membershipStore interface {
	IsMember(ctx context.Context, householdID, userID string) (bool, error)
	Upsert(ctx context.Context, member *models.HouseholdMember) error
	ListHouseholdMembers(ctx context.Context, householdID string) ([]memberships.MemberWithUser, error)
	ListUserMemberships(ctx context.Context, userID string) ([]memberships.MembershipWithHousehold, error)
}

// ProfileUpdateInput captures a partial profile update. Nil fields are left
// untouched.
type ProfileUpdateInput struct {
	FirstName *string
	LastName  *string
	Mobile    *string
	ImageURL  *string
}

// CreateMemberInput captures a manager-created household member: a fresh
// user row plus its membership in the acting household.
type CreateMemberInput struct {
	HouseholdID    string
	ActorUserID    string
	FirstName      string
	LastName       string
	Email          *string
	IsFamilyMember bool
	IsManager      bool
}

// Profile is a user joined with their memberships for the /me surface.
type Profile struct {
	User        *UserDTO                              `json:"user"`
	Memberships []memberships.MembershipWithHousehold `json:"memberships"`
}

// Service manages user profiles and the household member roster view.
type Service interface {
	Me(ctx context.Context, userID string) (*Profile, error)
	UpdateProfile(ctx context.Context, userID string, input ProfileUpdateInput) error
	ListHouseholdUsers(ctx context.Context, householdID, actorUserID string) ([]memberships.MemberWithUser, error)
	CreateMember(ctx context.Context, input CreateMemberInput) (*UserDTO, error)
	UpdateMemberProfile(ctx context.Context, householdID, actorUserID, userID string, input ProfileUpdateInput) error
}

type service struct {
	store   userStore
	members membershipStore
	guard   authGuard
}

// NewService builds a user service with the required dependencies.
func NewService(store userStore, members membershipStore, guard authGuard) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("user store required")
	}
	if members == nil {
		return nil, fmt.Errorf("membership store required")
	}
	if guard == nil {
		return nil, fmt.Errorf("guard required")
	}
	return &service{store: store, members: members, guard: guard}, nil
}

// Me returns the caller's profile plus every household they belong to.
func (s *service) Me(ctx context.Context, userID string) (*Profile, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	rows, err := s.members.ListUserMemberships(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list memberships")
	}
	if rows == nil {
		rows = []memberships.MembershipWithHousehold{}
	}
	return &Profile{User: ToDTO(user), Memberships: rows}, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID string, input ProfileUpdateInput) error {
	if _, err := s.store.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	updates := profileUpdates(input)
	if err := s.store.Update(ctx, userID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return nil
}

func (s *service) ListHouseholdUsers(ctx context.Context, householdID, actorUserID string) ([]memberships.MemberWithUser, error) {
	if err := s.guard.RequireMember(ctx, householdID, actorUserID); err != nil {
		return nil, err
	}
	rows, err := s.members.ListHouseholdMembers(ctx, householdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list household members")
	}
	return rows, nil
}

// CreateMember provisions a user who has no login of their own yet, such as
// a child, and enrolls them in the acting household.
func (s *service) CreateMember(ctx context.Context, input CreateMemberInput) (*UserDTO, error) {
	if err := s.guard.RequireManager(ctx, input.HouseholdID, input.ActorUserID); err != nil {
		return nil, err
	}
	firstName := strings.TrimSpace(input.FirstName)
	if firstName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "first name required")
	}

	user, err := s.store.Create(ctx, &models.User{
		FirstName: firstName,
		LastName:  strings.TrimSpace(input.LastName),
		Email:     input.Email,
		IsActive:  true,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}

	member := &models.HouseholdMember{
		HouseholdID:    input.HouseholdID,
		UserID:         user.ID,
		IsFamilyMember: input.IsFamilyMember,
		IsManager:      input.IsManager,
	}
	if err := s.members.Upsert(ctx, member); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "enroll member")
	}
	return ToDTO(user), nil
}

func (s *service) UpdateMemberProfile(ctx context.Context, householdID, actorUserID, userID string, input ProfileUpdateInput) error {
	if err := s.guard.RequireManager(ctx, householdID, actorUserID); err != nil {
		return err
	}
	member, err := s.members.IsMember(ctx, householdID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !member {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	if err := s.store.Update(ctx, userID, profileUpdates(input)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
	}
	return nil
}

func profileUpdates(input ProfileUpdateInput) map[string]any {
	updates := map[string]any{}
	if input.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*input.LastName)
	}
	if input.Mobile != nil {
		updates["mobile"] = *input.Mobile
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	return updates
}
