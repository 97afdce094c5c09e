package gifttemplates

import (
	"context"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"github.com/giftwheel/giftwheel-backend/internal/giftorders"
	"github.com/giftwheel/giftwheel-backend/internal/participants"
	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	"github.com/giftwheel/giftwheel-backend/pkg/enums"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
	"github.com/giftwheel/giftwheel-backend/pkg/ids"
)

type stubStore struct {
	templates map[string]*models.GiftTemplate
	items     map[string]*models.GiftTemplateItem
}

func newStubStore() *stubStore {
	return &stubStore{
		templates: make(map[string]*models.GiftTemplate),
		items:     make(map[string]*models.GiftTemplateItem),
	}
}

func (s *stubStore) WithTx(tx *gorm.DB) Store { return s }

func (s *stubStore) ListByHousehold(ctx context.Context, householdID string) ([]models.GiftTemplate, error) {
	var out []models.GiftTemplate
	for _, t := range s.templates {
		if t.HouseholdID == householdID {
			out = append(out, *s.hydrate(t))
		}
	}
	return out, nil
}

func (s *stubStore) FindScoped(ctx context.Context, householdID, templateID string) (*models.GiftTemplate, error) {
	t, ok := s.templates[templateID]
	if !ok || t.HouseholdID != householdID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.hydrate(t), nil
}

func (s *stubStore) hydrate(t *models.GiftTemplate) *models.GiftTemplate {
	copied := *t
	copied.Items = nil
	for _, item := range s.items {
		if item.TemplateID == t.ID {
			copied.Items = append(copied.Items, *item)
		}
	}
	return &copied
}

func (s *stubStore) Create(ctx context.Context, template *models.GiftTemplate) (*models.GiftTemplate, error) {
	if template.ID == "" {
		template.ID = ids.New()
	}
	s.templates[template.ID] = template
	return template, nil
}

func (s *stubStore) Update(ctx context.Context, templateID string, updates map[string]any) error {
	return nil
}

func (s *stubStore) Delete(ctx context.Context, templateID string) error {
	delete(s.templates, templateID)
	return nil
}

func (s *stubStore) CreateItem(ctx context.Context, item *models.GiftTemplateItem) (*models.GiftTemplateItem, error) {
	if item.ID == "" {
		item.ID = ids.New()
	}
	for i := range item.Participants {
		item.Participants[i].TemplateItemID = item.ID
	}
	s.items[item.ID] = item
	return item, nil
}

func (s *stubStore) FindItemScoped(ctx context.Context, householdID, templateID, itemID string) (*models.GiftTemplateItem, error) {
	item, ok := s.items[itemID]
	if !ok || item.TemplateID != templateID {
		return nil, gorm.ErrRecordNotFound
	}
	t, ok := s.templates[item.TemplateID]
	if !ok || t.HouseholdID != householdID {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubStore) DeleteItem(ctx context.Context, itemID string) error {
	delete(s.items, itemID)
	return nil
}

type stubOrderStore struct {
	orders       map[string]*models.GiftOrder
	failOnCreate int
	creates      int
}

func (s *stubOrderStore) WithTx(tx *gorm.DB) giftorders.Store { return s }

func (s *stubOrderStore) Create(ctx context.Context, order *models.GiftOrder) (*models.GiftOrder, error) {
	s.creates++
	if s.failOnCreate > 0 && s.creates == s.failOnCreate {
		return nil, fmt.Errorf("forced insert failure")
	}
	if order.ID == "" {
		order.ID = ids.New()
	}
	if s.orders == nil {
		s.orders = make(map[string]*models.GiftOrder)
	}
	s.orders[order.ID] = order
	return order, nil
}

func (s *stubOrderStore) ListByHousehold(ctx context.Context, householdID string, eventID *string) ([]models.GiftOrder, error) {
	panic("not implemented")
}

func (s *stubOrderStore) FindScoped(ctx context.Context, householdID, orderID string) (*models.GiftOrder, error) {
	panic("not implemented")
}

func (s *stubOrderStore) Update(ctx context.Context, orderID string, updates map[string]any) error {
	panic("not implemented")
}

func (s *stubOrderStore) Delete(ctx context.Context, orderID string) error {
	panic("not implemented")
}

func (s *stubOrderStore) FindItemScoped(ctx context.Context, householdID, orderID, itemID string) (*models.GiftItem, error) {
	panic("not implemented")
}

func (s *stubOrderStore) CreateItem(ctx context.Context, item *models.GiftItem) (*models.GiftItem, error) {
	panic("not implemented")
}

func (s *stubOrderStore) UpdateItem(ctx context.Context, itemID string, updates map[string]any) error {
	panic("not implemented")
}

func (s *stubOrderStore) DeleteItem(ctx context.Context, itemID string) error {
	panic("not implemented")
}

func (s *stubOrderStore) ListGifts(ctx context.Context, householdID string, filters giftorders.GiftFilters) ([]giftorders.GiftRow, error) {
	panic("not implemented")
}

type stubPartStore struct {
	rows []models.GiftOrderParticipant
}

func (s *stubPartStore) WithTx(tx *gorm.DB) participants.Store { return s }

func (s *stubPartStore) DeleteForOrder(ctx context.Context, orderID string, roles ...enums.ParticipantRole) error {
	return nil
}

func (s *stubPartStore) Insert(ctx context.Context, rows []models.GiftOrderParticipant) error {
	s.rows = append(s.rows, rows...)
	return nil
}

func (s *stubPartStore) ListByOrderWithUsers(ctx context.Context, orderID string) ([]participants.ParticipantRow, error) {
	var out []participants.ParticipantRow
	for _, row := range s.rows {
		if row.OrderID == orderID {
			out = append(out, participants.ParticipantRow{UserID: row.UserID, Role: row.Role})
		}
	}
	return out, nil
}

// snapshotTx mimics transactional rollback for the in-memory stubs: when the
// closure fails, both stores are restored to their pre-transaction state.
type snapshotTx struct {
	orders *stubOrderStore
	parts  *stubPartStore
}

func (s snapshotTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	ordersBefore := make(map[string]*models.GiftOrder, len(s.orders.orders))
	for k, v := range s.orders.orders {
		ordersBefore[k] = v
	}
	partsBefore := append([]models.GiftOrderParticipant(nil), s.parts.rows...)

	if err := fn(nil); err != nil {
		s.orders.orders = ordersBefore
		s.parts.rows = partsBefore
		return err
	}
	return nil
}

type stubEvents map[string]string

func (e stubEvents) FindScoped(ctx context.Context, householdID, eventID string) (*models.Event, error) {
	if e[eventID] != householdID {
		return nil, gorm.ErrRecordNotFound
	}
	return &models.Event{ID: eventID, HouseholdID: householdID}, nil
}

type stubMembers map[string]bool

func (m stubMembers) IsMember(ctx context.Context, householdID, userID string) (bool, error) {
	return m[userID], nil
}

type openGuard struct{}

func (openGuard) RequireMember(ctx context.Context, householdID, userID string) error  { return nil }
func (openGuard) RequireManager(ctx context.Context, householdID, userID string) error { return nil }

type fixture struct {
	svc         Service
	store       *stubStore
	orders      *stubOrderStore
	orderParts  *stubPartStore
	events      stubEvents
	members     stubMembers
	householdID string
	actor       string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:       newStubStore(),
		orders:      &stubOrderStore{orders: map[string]*models.GiftOrder{}},
		orderParts:  &stubPartStore{},
		events:      stubEvents{},
		members:     stubMembers{},
		householdID: ids.New(),
		actor:       ids.New(),
	}
	manager, err := participants.NewManager(f.orderParts, f.members)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	svc, err := NewService(
		f.store,
		snapshotTx{orders: f.orders, parts: f.orderParts},
		f.orders,
		f.orderParts,
		manager,
		f.events,
		openGuard{},
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) newTemplate(t *testing.T) *models.GiftTemplate {
	t.Helper()
	template, err := f.svc.Create(context.Background(), CreateInput{
		HouseholdID: f.householdID,
		ActorUserID: f.actor,
		Name:        "Secret Santa",
	})
	if err != nil {
		t.Fatalf("Create template: %v", err)
	}
	return template
}

func (f *fixture) newEvent() string {
	eventID := ids.New()
	f.events[eventID] = f.householdID
	return eventID
}

func (f *fixture) addItem(t *testing.T, templateID string, givers, recipients []string, notes *string) *models.GiftTemplateItem {
	t.Helper()
	for _, id := range append(append([]string{}, givers...), recipients...) {
		f.members[id] = true
	}
	item, err := f.svc.AddItem(context.Background(), AddItemInput{
		HouseholdID:      f.householdID,
		ActorUserID:      f.actor,
		TemplateID:       templateID,
		Notes:            notes,
		GiverUserIDs:     givers,
		RecipientUserIDs: recipients,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	return item
}

func TestImportEmptyTemplate(t *testing.T) {
	f := newFixture(t)
	template := f.newTemplate(t)

	_, err := f.svc.ImportToEvent(context.Background(), f.householdID, f.actor, template.ID, f.newEvent())
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty template, got %v", err)
	}
}

func TestImportMissingTemplateOrEvent(t *testing.T) {
	f := newFixture(t)
	template := f.newTemplate(t)
	f.addItem(t, template.ID, []string{ids.New()}, []string{ids.New()}, nil)
	ctx := context.Background()

	_, err := f.svc.ImportToEvent(ctx, f.householdID, f.actor, ids.New(), f.newEvent())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for missing template, got %v", err)
	}

	_, err = f.svc.ImportToEvent(ctx, f.householdID, f.actor, template.ID, ids.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for missing event, got %v", err)
	}
}

func TestImportSkipsItemsWithoutParticipants(t *testing.T) {
	f := newFixture(t)
	template := f.newTemplate(t)
	f.addItem(t, template.ID, []string{ids.New()}, []string{ids.New()}, nil)

	// A second item stripped of its participants after creation.
	bare, _ := f.store.CreateItem(context.Background(), &models.GiftTemplateItem{TemplateID: template.ID})
	if len(f.store.items[bare.ID].Participants) != 0 {
		t.Fatal("setup: bare item must have no participants")
	}

	result, err := f.svc.ImportToEvent(context.Background(), f.householdID, f.actor, template.ID, f.newEvent())
	if err != nil {
		t.Fatalf("ImportToEvent: %v", err)
	}
	if result.CreatedCount != 1 || len(result.OrderIDs) != 1 {
		t.Fatalf("expected exactly one order, got %+v", result)
	}
}

func TestImportCopiesParticipantsVerbatim(t *testing.T) {
	f := newFixture(t)
	template := f.newTemplate(t)
	giver := ids.New()
	recipient := ids.New()
	notes := "Stocking stuffers"
	f.addItem(t, template.ID, []string{giver}, []string{recipient}, &notes)
	eventID := f.newEvent()

	result, err := f.svc.ImportToEvent(context.Background(), f.householdID, f.actor, template.ID, eventID)
	if err != nil {
		t.Fatalf("ImportToEvent: %v", err)
	}
	orderID := result.OrderIDs[0]

	order := f.orders.orders[orderID]
	if order == nil {
		t.Fatal("order not created")
	}
	if order.OrderType != enums.OrderTypeOutgoing || order.Status != enums.OrderStatusPlanning {
		t.Fatalf("unexpected order defaults: %+v", order)
	}
	if order.Title != notes {
		t.Fatalf("expected title from item notes, got %q", order.Title)
	}
	if order.EventID == nil || *order.EventID != eventID {
		t.Fatalf("expected order scoped to event, got %v", order.EventID)
	}

	roles := map[string]enums.ParticipantRole{}
	for _, row := range f.orderParts.rows {
		if row.OrderID == orderID {
			roles[row.UserID] = row.Role
		}
	}
	if roles[giver] != enums.ParticipantRoleGiver || roles[recipient] != enums.ParticipantRoleRecipient {
		t.Fatalf("participants not copied verbatim: %v", roles)
	}
}

func TestImportIsAllOrNothing(t *testing.T) {
	f := newFixture(t)
	template := f.newTemplate(t)
	for i := 0; i < 3; i++ {
		f.addItem(t, template.ID, []string{ids.New()}, []string{ids.New()}, nil)
	}
	f.orders.failOnCreate = 2

	_, err := f.svc.ImportToEvent(context.Background(), f.householdID, f.actor, template.ID, f.newEvent())
	if err == nil {
		t.Fatal("expected import to fail")
	}
	if len(f.orders.orders) != 0 {
		t.Fatalf("expected zero orders after rollback, got %d", len(f.orders.orders))
	}
	if len(f.orderParts.rows) != 0 {
		t.Fatalf("expected zero participant rows after rollback, got %d", len(f.orderParts.rows))
	}
}

func TestAddItemRequiresBothRoles(t *testing.T) {
	f := newFixture(t)
	template := f.newTemplate(t)
	member := ids.New()
	f.members[member] = true
	ctx := context.Background()

	_, err := f.svc.AddItem(ctx, AddItemInput{
		HouseholdID:  f.householdID,
		ActorUserID:  f.actor,
		TemplateID:   template.ID,
		GiverUserIDs: []string{member},
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error without recipients, got %v", err)
	}

	_, err = f.svc.AddItem(ctx, AddItemInput{
		HouseholdID:      f.householdID,
		ActorUserID:      f.actor,
		TemplateID:       template.ID,
		RecipientUserIDs: []string{member},
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error without givers, got %v", err)
	}
}

func TestRemoveItemScopedToTemplate(t *testing.T) {
	f := newFixture(t)
	tplA := f.newTemplate(t)
	tplB := f.newTemplate(t)
	item := f.addItem(t, tplB.ID, []string{ids.New()}, []string{ids.New()}, nil)
	ctx := context.Background()

	err := f.svc.RemoveItem(ctx, f.householdID, f.actor, tplA.ID, item.ID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found via sibling template, got %v", err)
	}

	if err := f.svc.RemoveItem(ctx, f.householdID, f.actor, tplB.ID, item.ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if _, ok := f.store.items[item.ID]; ok {
		t.Fatal("item should be removed")
	}
}

func TestAddItemRejectsNonMembers(t *testing.T) {
	f := newFixture(t)
	template := f.newTemplate(t)
	member := ids.New()
	f.members[member] = true

	_, err := f.svc.AddItem(context.Background(), AddItemInput{
		HouseholdID:      f.householdID,
		ActorUserID:      f.actor,
		TemplateID:       template.ID,
		GiverUserIDs:     []string{member},
		RecipientUserIDs: []string{ids.New()},
	})
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
