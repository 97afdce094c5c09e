package households

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

type membershipStore interface {
	Upsert(ctx context.Context, member *models.HouseholdMember) error
	Delete(ctx context.Context, householdID, userID string) error
	ListHouseholdMembers(ctx context.Context, householdID string) ([]memberships.MemberWithUser, error)
	ListUserMemberships(ctx context.Context, userID string) ([]memberships.MembershipWithHousehold, error)
}

type userStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type authGuard interface {
	RequireMember(ctx context.Context, householdID, userID string) error
	RequireManager(ctx context.Context, householdID, userID string) error
}

// AddMemberInput captures the fields for enrolling a user in a household.
type AddMemberInput struct {
	UserID         string
	IsFamilyMember bool
	IsManager      bool
}

// Service manages household lifecycle and rosters.
type Service interface {
	Create(ctx context.Context, actorUserID, name string) (*models.Household, error)
	Get(ctx context.Context, householdID, actorUserID string) (*models.Household, error)
	Rename(ctx context.Context, householdID, actorUserID, name string) error
	Delete(ctx context.Context, householdID, actorUserID string) error
	AddMember(ctx context.Context, householdID, actorUserID string, input AddMemberInput) error
	RemoveMember(ctx context.Context, householdID, actorUserID, userID string) error
	ListMembers(ctx context.Context, householdID, actorUserID string) ([]memberships.MemberWithUser, error)
	ListMine(ctx context.Context, actorUserID string) ([]memberships.MembershipWithHousehold, error)
}

type service struct {
	store   Store
	members membershipStore
	users   userStore
	guard   authGuard
}

// NewService builds a household service with the required dependencies.
func NewService(store Store, members membershipStore, users userStore, guard authGuard) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("household store required")
	}
	if members == nil {
		return nil, fmt.Errorf("membership store required")
	}
	if users == nil {
		return nil, fmt.Errorf("user store required")
	}
	if guard == nil {
		return nil, fmt.Errorf("guard required")
	}
	return &service{store: store, members: members, users: users, guard: guard}, nil
}

// Create opens a new household with the caller as its first manager. Any
// authenticated user may create one.
func (s *service) Create(ctx context.Context, actorUserID, name string) (*models.Household, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "household name required")
	}

	household, err := s.store.CreateWithOwner(ctx, &models.Household{Name: name}, actorUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create household")
	}
	return household, nil
}

func (s *service) Get(ctx context.Context, householdID, actorUserID string) (*models.Household, error) {
	if err := s.guard.RequireMember(ctx, householdID, actorUserID); err != nil {
		return nil, err
	}
	household, err := s.store.FindByID(ctx, householdID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "household not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load household")
	}
	return household, nil
}

func (s *service) Rename(ctx context.Context, householdID, actorUserID, name string) error {
	if err := s.guard.RequireManager(ctx, householdID, actorUserID); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "household name required")
	}
	if err := s.store.UpdateName(ctx, householdID, name); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rename household")
	}
	return nil
}

// Delete removes the household and everything scoped to it. Members whose
// active pointer dangles afterwards are healed on their next request.
func (s *service) Delete(ctx context.Context, householdID, actorUserID string) error {
	if err := s.guard.RequireManager(ctx, householdID, actorUserID); err != nil {
		return err
	}
	if _, err := s.store.FindByID(ctx, householdID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "household not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load household")
	}
	if err := s.store.Delete(ctx, householdID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete household")
	}
	return nil
}

func (s *service) AddMember(ctx context.Context, householdID, actorUserID string, input AddMemberInput) error {
	if err := s.guard.RequireManager(ctx, householdID, actorUserID); err != nil {
		return err
	}
	if input.UserID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if _, err := s.users.FindByID(ctx, input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	member := &models.HouseholdMember{
		HouseholdID:    householdID,
		UserID:         input.UserID,
		IsFamilyMember: input.IsFamilyMember,
		IsManager:      input.IsManager,
	}
	if err := s.members.Upsert(ctx, member); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add member")
	}
	return nil
}

// RemoveMember drops the membership row only; the user record survives.
func (s *service) RemoveMember(ctx context.Context, householdID, actorUserID, userID string) error {
	if err := s.guard.RequireManager(ctx, householdID, actorUserID); err != nil {
		return err
	}
	if userID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if err := s.members.Delete(ctx, householdID, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove member")
	}
	return nil
}

func (s *service) ListMembers(ctx context.Context, householdID, actorUserID string) ([]memberships.MemberWithUser, error) {
	if err := s.guard.RequireMember(ctx, householdID, actorUserID); err != nil {
		return nil, err
	}
	members, err := s.members.ListHouseholdMembers(ctx, householdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list members")
	}
	return members, nil
}

func (s *service) ListMine(ctx context.Context, actorUserID string) ([]memberships.MembershipWithHousehold, error) {
	rows, err := s.members.ListUserMemberships(ctx, actorUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list memberships")
	}
	return rows, nil
}
