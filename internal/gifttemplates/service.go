package gifttemplates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/internal/giftorders"
	"github.com/giftwheel/giftwheel-backend/internal/participants"
	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	"github.com/giftwheel/giftwheel-backend/pkg/enums"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type authGuard interface {
	RequireMember(ctx context.Context, householdID, userID string) error
	RequireManager(ctx context.Context, householdID, userID string) error
}

type eventStore interface {
	FindScoped(ctx context.Context, householdID, eventID string) (*models.Event, error)
}

// CreateInput captures the fields for a new template.
type CreateInput struct {
	HouseholdID string
	ActorUserID string
	Name        string
	Notes       *string
}

// UpdateInput captures a partial template update. Nil fields are left
// untouched.
type UpdateInput struct {
	HouseholdID string
	ActorUserID string
	TemplateID  string
	Name        *string
	Notes       *string
}

// AddItemInput captures one giver/recipient pairing added to a template.
type AddItemInput struct {
	HouseholdID      string
	ActorUserID      string
	TemplateID       string
	Notes            *string
	GiverUserIDs     []string
	RecipientUserIDs []string
}

// ImportResult reports the orders generated by one template import.
type ImportResult struct {
	CreatedCount int      `json:"created_count"`
	OrderIDs     []string `json:"order_ids"`
}

// Service manages reusable gift templates and their fan-out into concrete
// orders for an event.
type Service interface {
	List(ctx context.Context, householdID, actorUserID string) ([]models.GiftTemplate, error)
	Get(ctx context.Context, householdID, actorUserID, templateID string) (*models.GiftTemplate, error)
	Create(ctx context.Context, input CreateInput) (*models.GiftTemplate, error)
	Update(ctx context.Context, input UpdateInput) error
	Delete(ctx context.Context, householdID, actorUserID, templateID string) error

	AddItem(ctx context.Context, input AddItemInput) (*models.GiftTemplateItem, error)
	RemoveItem(ctx context.Context, householdID, actorUserID, templateID, itemID string) error

	ImportToEvent(ctx context.Context, householdID, actorUserID, templateID, eventID string) (*ImportResult, error)
}

type service struct {
	store  Store
	tx     txRunner
	orders giftorders.Store
	orderP participants.Store
	parts  participants.Manager
	events eventStore
	guard  authGuard
}

// NewService builds a gift template service with the required dependencies.
func NewService(store Store, tx txRunner, orders giftorders.Store, orderParticipants participants.Store, parts participants.Manager, events eventStore, guard authGuard) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("template store required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if orders == nil {
		return nil, fmt.Errorf("order store required")
	}
	if orderParticipants == nil {
		return nil, fmt.Errorf("participant store required")
	}
	if parts == nil {
		return nil, fmt.Errorf("participant manager required")
	}
	if events == nil {
		return nil, fmt.Errorf("event store required")
	}
	if guard == nil {
		return nil, fmt.Errorf("guard required")
	}
	return &service{
		store:  store,
		tx:     tx,
		orders: orders,
		orderP: orderParticipants,
		parts:  parts,
		events: events,
		guard:  guard,
	}, nil
}

func (s *service) List(ctx context.Context, householdID, actorUserID string) ([]models.GiftTemplate, error) {
	if err := s.guard.RequireMember(ctx, householdID, actorUserID); err != nil {
		return nil, err
	}
	templates, err := s.store.ListByHousehold(ctx, householdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list templates")
	}
	return templates, nil
}

func (s *service) Get(ctx context.Context, householdID, actorUserID, templateID string) (*models.GiftTemplate, error) {
	if err := s.guard.RequireMember(ctx, householdID, actorUserID); err != nil {
		return nil, err
	}
	template, err := s.store.FindScoped(ctx, householdID, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template")
	}
	return template, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.GiftTemplate, error) {
	if err := s.guard.RequireManager(ctx, input.HouseholdID, input.ActorUserID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "template name required")
	}

	template := &models.GiftTemplate{
		HouseholdID: input.HouseholdID,
		Name:        name,
		Notes:       input.Notes,
	}
	created, err := s.store.Create(ctx, template)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create template")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) error {
	if err := s.guard.RequireManager(ctx, input.HouseholdID, input.ActorUserID); err != nil {
		return err
	}
	if _, err := s.store.FindScoped(ctx, input.HouseholdID, input.TemplateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template")
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "template name required")
		}
		updates["name"] = name
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if err := s.store.Update(ctx, input.TemplateID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update template")
	}
	return nil
}

func (s *service) Delete(ctx context.Context, householdID, actorUserID, templateID string) error {
	if err := s.guard.RequireManager(ctx, householdID, actorUserID); err != nil {
		return err
	}
	if _, err := s.store.FindScoped(ctx, householdID, templateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template")
	}
	if err := s.store.Delete(ctx, templateID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete template")
	}
	return nil
}

func (s *service) AddItem(ctx context.Context, input AddItemInput) (*models.GiftTemplateItem, error) {
	if err := s.guard.RequireManager(ctx, input.HouseholdID, input.ActorUserID); err != nil {
		return nil, err
	}
	if _, err := s.store.FindScoped(ctx, input.HouseholdID, input.TemplateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template")
	}

	givers := s.parts.Normalize(input.GiverUserIDs)
	recipients := s.parts.Normalize(input.RecipientUserIDs)
	if len(givers) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one giver required")
	}
	if len(recipients) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one recipient required")
	}
	if err := s.parts.ValidateMembers(ctx, input.HouseholdID, givers); err != nil {
		return nil, err
	}
	if err := s.parts.ValidateMembers(ctx, input.HouseholdID, recipients); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := &models.GiftTemplateItem{
		TemplateID: input.TemplateID,
		Notes:      input.Notes,
	}
	for _, id := range givers {
		item.Participants = append(item.Participants, models.GiftTemplateItemParticipant{
			UserID:    id,
			Role:      enums.ParticipantRoleGiver,
			CreatedAt: now,
		})
	}
	for _, id := range recipients {
		item.Participants = append(item.Participants, models.GiftTemplateItemParticipant{
			UserID:    id,
			Role:      enums.ParticipantRoleRecipient,
			CreatedAt: now,
		})
	}

	created, err := s.store.CreateItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create template item")
	}
	return created, nil
}

func (s *service) RemoveItem(ctx context.Context, householdID, actorUserID, templateID, itemID string) error {
	if err := s.guard.RequireManager(ctx, householdID, actorUserID); err != nil {
		return err
	}
	if _, err := s.store.FindItemScoped(ctx, householdID, templateID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "template item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template item")
	}
	if err := s.store.DeleteItem(ctx, itemID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete template item")
	}
	return nil
}

// ImportToEvent expands the template into one order per item that carries at
// least one participant. The whole fan-out commits or rolls back as a unit;
// a partial import is never left behind.
func (s *service) ImportToEvent(ctx context.Context, householdID, actorUserID, templateID, eventID string) (*ImportResult, error) {
	if err := s.guard.RequireManager(ctx, householdID, actorUserID); err != nil {
		return nil, err
	}

	template, err := s.store.FindScoped(ctx, householdID, templateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "template not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load template")
	}
	if _, err := s.events.FindScoped(ctx, householdID, eventID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load event")
	}
	if len(template.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no items to import")
	}

	result := &ImportResult{OrderIDs: []string{}}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orders := s.orders.WithTx(tx)
		orderParticipants := s.orderP.WithTx(tx)
		now := time.Now().UTC()

		for _, item := range template.Items {
			if len(item.Participants) == 0 {
				continue
			}

			title := ""
			if item.Notes != nil {
				title = strings.TrimSpace(*item.Notes)
			}
			order := &models.GiftOrder{
				HouseholdID: householdID,
				EventID:     &eventID,
				Title:       title,
				OrderType:   enums.OrderTypeOutgoing,
				Status:      enums.OrderStatusPlanning,
				CreatedBy:   actorUserID,
			}
			if _, err := orders.Create(ctx, order); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order from template item")
			}

			rows := make([]models.GiftOrderParticipant, 0, len(item.Participants))
			for _, p := range item.Participants {
				rows = append(rows, models.GiftOrderParticipant{
					OrderID:   order.ID,
					UserID:    p.UserID,
					Role:      p.Role,
					CreatedAt: now,
				})
			}
			if err := orderParticipants.Insert(ctx, rows); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "copy template participants")
			}

			result.CreatedCount++
			result.OrderIDs = append(result.OrderIDs, order.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
