package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	"github.com/giftwheel/giftwheel-backend/pkg/enums"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
)

type authGuard interface {
	RequireMember(ctx context.Context, householdID, userID string) error
	RequireManager(ctx context.Context, householdID, userID string) error
}

type membershipStore interface {
	IsMember(ctx context.Context, householdID, userID string) (bool, error)
}

// CreateInput captures the fields for a new event.
type CreateInput struct {
	HouseholdID   string
	ActorUserID   string
	Name          string
	Date          *time.Time
	Type          string
	HonoreeUserID *string
	Notes         *string
}

// UpdateInput captures a partial event update. Nil fields are left untouched.
type UpdateInput struct {
	HouseholdID   string
	ActorUserID   string
	EventID       string
	Name          *string
	Date          *time.Time
	Type          *string
	HonoreeUserID *string
	Notes         *string
}

// Service manages tenant-scoped events.
type Service interface {
	List(ctx context.Context, householdID, actorUserID string) ([]models.Event, error)
	Get(ctx context.Context, householdID, actorUserID, eventID string) (*models.Event, error)
	Create(ctx context.Context, input CreateInput) (*models.Event, error)
	Update(ctx context.Context, input UpdateInput) error
	Delete(ctx context.Context, householdID, actorUserID, eventID string) error
}

type service struct {
	store   Store
	members membershipStore
	guard   authGuard
}

// NewService builds an event service with the required dependencies.
func NewService(store Store, members membershipStore, guard authGuard) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("event store required")
	}
	if members == nil {
		return nil, fmt.Errorf("membership store required")
	}
	if guard == nil {
		return nil, fmt.Errorf("guard required")
	}
	return &service{store: store, members: members, guard: guard}, nil
}

func (s *service) List(ctx context.Context, householdID, actorUserID string) ([]models.Event, error) {
	if err := s.guard.RequireMember(ctx, householdID, actorUserID); err != nil {
		return nil, err
	}
	events, err := s.store.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list events")
	}
	return events, nil
}

func (s *service) Get(ctx context.Context, householdID, actorUserID, eventID string) (*models.Event, error) {
	if err := s.guard.RequireMember(ctx, householdID, actorUserID); err != nil {
		return nil, err
	}
	event, err := s.store.FindScoped(ctx, householdID, eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	return event, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Event, error) {
	if err := s.guard.RequireManager(ctx, input.HouseholdID, input.ActorUserID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event name required")
	}
	eventType := enums.EventTypeOther
	if input.Type != "" {
		parsed, err := enums.ParseEventType(input.Type)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid event type")
		}
		eventType = parsed
	}
	if input.HonoreeUserID != nil && *input.HonoreeUserID != "" {
		if err := s.checkHonoree(ctx, input.HouseholdID, *input.HonoreeUserID); err != nil {
			return nil, err
		}
	}

	event := &models.Event{
		HouseholdID:   input.HouseholdID,
		Name:          name,
		Date:          input.Date,
		Type:          eventType,
		HonoreeUserID: input.HonoreeUserID,
		Notes:         input.Notes,
	}
	created, err := s.store.Create(ctx, event)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create event")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) error {
	if err := s.guard.RequireManager(ctx, input.HouseholdID, input.ActorUserID); err != nil {
		return err
	}
	if _, err := s.store.FindScoped(ctx, input.HouseholdID, input.EventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "event name required")
		}
		updates["name"] = name
	}
	if input.Date != nil {
		updates["date"] = *input.Date
	}
	if input.Type != nil {
		parsed, err := enums.ParseEventType(*input.Type)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid event type")
		}
		updates["type"] = parsed
	}
	if input.HonoreeUserID != nil {
		if *input.HonoreeUserID == "" {
			updates["honoree_user_id"] = nil
		} else {
			if err := s.checkHonoree(ctx, input.HouseholdID, *input.HonoreeUserID); err != nil {
				return err
			}
			updates["honoree_user_id"] = *input.HonoreeUserID
		}
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if err := s.store.Update(ctx, input.EventID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update event")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, householdID, actorUserID, eventID string) error {
	if err := s.guard.RequireManager(ctx, householdID, actorUserID); err != nil {
		return err
	}
	if _, err := s.store.FindScoped(ctx, householdID, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	if err := s.store.Delete(ctx, eventID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete event")
	}
	return nil
}

func (s *service) checkHonoree(ctx context.Context, householdID, userID string) error {
	member, err := s.members.IsMember(ctx, householdID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check honoree membership")
	}
	if !member {
		return pkgerrors.New(pkgerrors.CodeValidation, "user not in household").
			WithDetails(map[string]string{"user_id": userID})
	}
	return nil
}
