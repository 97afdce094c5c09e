package participants

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/internal/users"
	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	"github.com/giftwheel/giftwheel-backend/pkg/enums"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
)

type membershipStore interface {
	IsMember(ctx context.Context, householdID, userID string) (bool, error)
}

// UserSummary is a display-ready participant entry.
type UserSummary struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// Summary groups an order's participants by role.
type Summary struct {
	Givers     []UserSummary `json:"givers"`
	Recipients []UserSummary `json:"recipients"`
}

// Manager maintains the giver/recipient sets attached to gift orders.
// Updates are full delete-then-insert replacements, never diffs.
type Manager interface {
	Normalize(userIDs []string) []string
	ValidateMembers(ctx context.Context, householdID string, userIDs []string) error
	Replace(ctx context.Context, tx *gorm.DB, orderID string, role enums.ParticipantRole, userIDs []string) error
	Summarize(ctx context.Context, orderID string) (*Summary, error)
}

type manager struct {
	store   Store
	members membershipStore
}

// NewManager builds a participant set manager with the required dependencies.
func NewManager(store Store, members membershipStore) (Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("participant store required")
	}
	if members == nil {
		return nil, fmt.Errorf("membership store required")
	}
	return &manager{store: store, members: members}, nil
}

// Normalize drops empty entries and duplicates while keeping first-seen order.
func (m *manager) Normalize(userIDs []string) []string {
	seen := make(map[string]struct{}, len(userIDs))
	out := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ValidateMembers confirms each user belongs to the household. Checked per
// id so the offending id can be named in the error.
func (m *manager) ValidateMembers(ctx context.Context, householdID string, userIDs []string) error {
	for _, id := range userIDs {
		member, err := m.members.IsMember(ctx, householdID, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check participant membership")
		}
		if !member {
			return pkgerrors.New(pkgerrors.CodeValidation, "user not in household").
				WithDetails(map[string]string{"user_id": id})
		}
	}
	return nil
}

// Replace swaps the order's participant set for one role: existing rows for
// that role are deleted, then the new rows inserted with a shared timestamp.
func (m *manager) Replace(ctx context.Context, tx *gorm.DB, orderID string, role enums.ParticipantRole, userIDs []string) error {
	if !role.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid participant role")
	}
	store := m.store
	if tx != nil {
		store = m.store.WithTx(tx)
	}

	if err := store.DeleteForOrder(ctx, orderID, role); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear participant set")
	}

	now := time.Now().UTC()
	rows := make([]models.GiftOrderParticipant, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, models.GiftOrderParticipant{
			OrderID:   orderID,
			UserID:    id,
			Role:      role,
			CreatedAt: now,
		})
	}
	if err := store.Insert(ctx, rows); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert participant set")
	}
	return nil
}

// Summarize hydrates the order's participants into display-ready role sets.
func (m *manager) Summarize(ctx context.Context, orderID string) (*Summary, error) {
	rows, err := m.store.ListByOrderWithUsers(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load participants")
	}

	summary := &Summary{
		Givers:     []UserSummary{},
		Recipients: []UserSummary{},
	}
	for _, row := range rows {
		entry := UserSummary{
			ID: row.UserID,
			DisplayName: users.DisplayName(&models.User{
				FirstName: row.FirstName,
				LastName:  row.LastName,
				Email:     row.Email,
			}),
		}
		switch row.Role {
		case enums.ParticipantRoleGiver:
			summary.Givers = append(summary.Givers, entry)
		case enums.ParticipantRoleRecipient:
			summary.Recipients = append(summary.Recipients, entry)
		}
	}
	return summary, nil
}
