package tenancy

import (
	"context"
	"io"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
	"github.com/giftwheel/giftwheel-backend/pkg/ids"
	"github.com/giftwheel/giftwheel-backend/pkg/logger"
)

type stubUserStore struct {
	users     map[string]*models.User
	activeSet map[string]string
}

func (s *stubUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserStore) SetActiveHousehold(ctx context.Context, userID string, householdID *string) error {
	if s.activeSet == nil {
		s.activeSet = make(map[string]string)
	}
	if householdID != nil {
		s.activeSet[userID] = *householdID
	}
	return nil
}

type stubMembershipStore struct {
	memberships []models.HouseholdMember
}

func (s *stubMembershipStore) IsMember(ctx context.Context, householdID, userID string) (bool, error) {
	for _, m := range s.memberships {
		if m.HouseholdID == householdID && m.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubMembershipStore) IsManager(ctx context.Context, householdID, userID string) (bool, error) {
	for _, m := range s.memberships {
		if m.HouseholdID == householdID && m.UserID == userID && m.IsManager {
			return true, nil
		}
	}
	return false, nil
}

func (s *stubMembershipStore) EarliestMembership(ctx context.Context, userID string) (*models.HouseholdMember, error) {
	var earliest *models.HouseholdMember
	for i := range s.memberships {
		m := &s.memberships[i]
		if m.UserID != userID {
			continue
		}
		if earliest == nil || m.CreatedAt.Before(earliest.CreatedAt) {
			earliest = m
		}
	}
	if earliest == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return earliest, nil
}

func newResolver(t *testing.T, userStub *stubUserStore, members *stubMembershipStore) Resolver {
	t.Helper()
	r, err := NewResolver(userStub, members, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	return r
}

func TestActiveHouseholdStoredPointer(t *testing.T) {
	userID := ids.New()
	householdID := ids.New()
	userStub := &stubUserStore{users: map[string]*models.User{
		userID: {ID: userID, ActiveHouseholdID: &householdID},
	}}
	members := &stubMembershipStore{memberships: []models.HouseholdMember{
		{HouseholdID: householdID, UserID: userID},
	}}

	got, err := newResolver(t, userStub, members).ActiveHousehold(context.Background(), userID)
	if err != nil {
		t.Fatalf("ActiveHousehold: %v", err)
	}
	if got != householdID {
		t.Fatalf("expected %s, got %s", householdID, got)
	}
	if len(userStub.activeSet) != 0 {
		t.Fatal("valid pointer should not be rewritten")
	}
}

func TestActiveHouseholdHealsFromEarliestMembership(t *testing.T) {
	userID := ids.New()
	older := ids.New()
	newer := ids.New()
	userStub := &stubUserStore{users: map[string]*models.User{
		userID: {ID: userID},
	}}
	members := &stubMembershipStore{memberships: []models.HouseholdMember{
		{HouseholdID: newer, UserID: userID, CreatedAt: time.Now()},
		{HouseholdID: older, UserID: userID, CreatedAt: time.Now().Add(-time.Hour)},
	}}

	got, err := newResolver(t, userStub, members).ActiveHousehold(context.Background(), userID)
	if err != nil {
		t.Fatalf("ActiveHousehold: %v", err)
	}
	if got != older {
		t.Fatalf("expected earliest membership %s, got %s", older, got)
	}
	if userStub.activeSet[userID] != older {
		t.Fatal("healed pointer should be persisted")
	}
}

func TestActiveHouseholdDanglingPointerHeals(t *testing.T) {
	userID := ids.New()
	gone := ids.New()
	remaining := ids.New()
	userStub := &stubUserStore{users: map[string]*models.User{
		userID: {ID: userID, ActiveHouseholdID: &gone},
	}}
	members := &stubMembershipStore{memberships: []models.HouseholdMember{
		{HouseholdID: remaining, UserID: userID},
	}}

	got, err := newResolver(t, userStub, members).ActiveHousehold(context.Background(), userID)
	if err != nil {
		t.Fatalf("ActiveHousehold: %v", err)
	}
	if got != remaining {
		t.Fatalf("expected healed household %s, got %s", remaining, got)
	}
}

func TestActiveHouseholdNoMembership(t *testing.T) {
	userID := ids.New()
	userStub := &stubUserStore{users: map[string]*models.User{
		userID: {ID: userID},
	}}

	_, err := newResolver(t, userStub, &stubMembershipStore{}).ActiveHousehold(context.Background(), userID)
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestGuardRequireManager(t *testing.T) {
	householdID := ids.New()
	manager := ids.New()
	member := ids.New()
	admin := ids.New()
	outsider := ids.New()

	userStub := &stubUserStore{users: map[string]*models.User{
		manager:  {ID: manager},
		member:   {ID: member},
		admin:    {ID: admin, IsAdmin: true},
		outsider: {ID: outsider},
	}}
	members := &stubMembershipStore{memberships: []models.HouseholdMember{
		{HouseholdID: householdID, UserID: manager, IsManager: true},
		{HouseholdID: householdID, UserID: member},
	}}

	guard, err := NewGuard(members, userStub)
	if err != nil {
		t.Fatalf("NewGuard: %v", err)
	}
	ctx := context.Background()

	if err := guard.RequireManager(ctx, householdID, manager); err != nil {
		t.Fatalf("manager should pass: %v", err)
	}
	if err := guard.RequireManager(ctx, householdID, admin); err != nil {
		t.Fatalf("system admin should bypass manager check: %v", err)
	}
	if err := guard.RequireManager(ctx, householdID, member); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("plain member should be forbidden, got %v", err)
	}
	if err := guard.RequireMember(ctx, householdID, outsider); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("outsider should be forbidden, got %v", err)
	}
	if err := guard.RequireMember(ctx, householdID, member); err != nil {
		t.Fatalf("member should pass membership check: %v", err)
	}
}
