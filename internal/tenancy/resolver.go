package tenancy

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
	"github.com/giftwheel/giftwheel-backend/pkg/logger"
)

type userStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	SetActiveHousehold(ctx context.Context, userID string, householdID *string) error
}

type membershipStore interface {
	IsMember(ctx context.Context, householdID, userID string) (bool, error)
	IsManager(ctx context.Context, householdID, userID string) (bool, error)
	EarliestMembership(ctx context.Context, userID string) (*models.HouseholdMember, error)
}

// Resolver determines a user's active household, adopting the earliest
// membership when no valid selection is stored.
type Resolver interface {
	ActiveHousehold(ctx context.Context, userID string) (string, error)
}

type resolver struct {
	users   userStore
	members membershipStore
	logg    *logger.Logger
}

// NewResolver builds a tenant resolver with the required dependencies.
func NewResolver(users userStore, members membershipStore, logg *logger.Logger) (Resolver, error) {
	if users == nil {
		return nil, fmt.Errorf("user store required")
	}
	if members == nil {
		return nil, fmt.Errorf("membership store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &resolver{users: users, members: members, logg: logg}, nil
}

// ActiveHousehold returns the user's current tenant. A stored pointer that no
// longer matches a membership (household deleted, member removed) is treated
// as unset and healed from the earliest remaining membership.
func (r *resolver) ActiveHousehold(ctx context.Context, userID string) (string, error) {
	user, err := r.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeForbidden, "no active household")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	if user.ActiveHouseholdID != nil && *user.ActiveHouseholdID != "" {
		member, err := r.members.IsMember(ctx, *user.ActiveHouseholdID, userID)
		if err != nil {
			return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check active membership")
		}
		if member {
			return *user.ActiveHouseholdID, nil
		}
	}

	earliest, err := r.members.EarliestMembership(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", pkgerrors.New(pkgerrors.CodeForbidden, "no active household")
		}
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "look up memberships")
	}

	if err := r.users.SetActiveHousehold(ctx, userID, &earliest.HouseholdID); err != nil {
		// The heal is best effort; the resolved household is still valid.
		r.logg.Warn(r.logg.WithUserID(ctx, userID), "failed to persist healed active household")
	}
	return earliest.HouseholdID, nil
}
