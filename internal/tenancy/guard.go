package tenancy

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
)

type guardUserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Guard exposes the membership and role predicates services evaluate at
// operation entry. All assertion helpers fail closed.
type Guard struct {
	members membershipStore
	users   guardUserStore
}

// NewGuard builds an authorization guard with the required dependencies.
func NewGuard(members membershipStore, users guardUserStore) (*Guard, error) {
	if members == nil {
		return nil, fmt.Errorf("membership store required")
	}
	if users == nil {
		return nil, fmt.Errorf("user store required")
	}
	return &Guard{members: members, users: users}, nil
}

// IsMember reports whether the user belongs to the household.
func (g *Guard) IsMember(ctx context.Context, householdID, userID string) (bool, error) {
	return g.members.IsMember(ctx, householdID, userID)
}

// IsManager reports whether the user manages the household.
func (g *Guard) IsManager(ctx context.Context, householdID, userID string) (bool, error) {
	return g.members.IsManager(ctx, householdID, userID)
}

// IsSystemAdmin reports whether the user holds the global admin flag. Admin
// bypasses per-household manager checks, never tenant scoping.
func (g *Guard) IsSystemAdmin(ctx context.Context, userID string) (bool, error) {
	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsAdmin, nil
}

// RequireMember fails with a forbidden error unless the user is a household
// member.
func (g *Guard) RequireMember(ctx context.Context, householdID, userID string) error {
	member, err := g.members.IsMember(ctx, householdID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check membership")
	}
	if !member {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not a household member")
	}
	return nil
}

// RequireManager fails with a forbidden error unless the user manages the
// household or is a system admin.
func (g *Guard) RequireManager(ctx context.Context, householdID, userID string) error {
	manager, err := g.members.IsManager(ctx, householdID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check manager role")
	}
	if manager {
		return nil
	}
	admin, err := g.IsSystemAdmin(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check admin flag")
	}
	if admin {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "manager role required")
}
