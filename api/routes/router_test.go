package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/giftwheel/giftwheel-backend/internal/events"
	"github.com/giftwheel/giftwheel-backend/internal/giftorders"
	"github.com/giftwheel/giftwheel-backend/internal/gifttemplates"
	"github.com/giftwheel/giftwheel-backend/internal/households"
	"github.com/giftwheel/giftwheel-backend/internal/memberships"
	"github.com/giftwheel/giftwheel-backend/internal/products"
	"github.com/giftwheel/giftwheel-backend/internal/users"
	"github.com/giftwheel/giftwheel-backend/internal/wishlists"
	"github.com/giftwheel/giftwheel-backend/pkg/config"
	"github.com/giftwheel/giftwheel-backend/pkg/db/models"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
	"github.com/giftwheel/giftwheel-backend/pkg/idp"
	"github.com/giftwheel/giftwheel-backend/pkg/pagination"
)

const (
	testUserID  = "01hqv3tzj8r9k2w5x7m1n4p6qa"
	testEventID = "01hqv3tzj8r9k2w5x7m1n4p6qc"
)

type stubIdP struct{}

func (stubIdP) Exchange(context.Context, string) (*idp.TokenSet, error) {
	return &idp.TokenSet{AccessToken: "granted"}, nil
}

func (stubIdP) Refresh(context.Context, string) (*idp.TokenSet, error) {
	return &idp.TokenSet{AccessToken: "refreshed"}, nil
}

func (stubIdP) Introspect(_ context.Context, token string) (*idp.Introspection, error) {
	if token != "valid-token" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "token inactive")
	}
	return &idp.Introspection{Active: true, Subject: "sub-1", Email: "a@b.com"}, nil
}

type stubIdentity struct{}

func (stubIdentity) ResolveOrCreateUser(context.Context, string, string) (string, error) {
	return testUserID, nil
}

type stubTenantResolver struct{}

func (stubTenantResolver) ActiveHousehold(context.Context, string) (string, error) {
	return "01hqv3tzj8r9k2w5x7m1n4p6qh", nil
}

type stubUsersService struct{}

func (stubUsersService) Me(context.Context, string) (*users.Profile, error) {
	return &users.Profile{
		User:        &users.UserDTO{ID: testUserID, FirstName: "Ada"},
		Memberships: []memberships.MembershipWithHousehold{},
	}, nil
}

func (stubUsersService) UpdateProfile(context.Context, string, users.ProfileUpdateInput) error {
	return nil
}

func (stubUsersService) ListHouseholdUsers(context.Context, string, string) ([]memberships.MemberWithUser, error) {
	return []memberships.MemberWithUser{}, nil
}

func (stubUsersService) CreateMember(context.Context, users.CreateMemberInput) (*users.UserDTO, error) {
	panic("unimplemented")
}

func (stubUsersService) UpdateMemberProfile(context.Context, string, string, string, users.ProfileUpdateInput) error {
	panic("unimplemented")
}

type stubHouseholdsService struct{}

func (stubHouseholdsService) Create(context.Context, string, string) (*models.Household, error) {
	panic("unimplemented")
}

func (stubHouseholdsService) Get(context.Context, string, string) (*models.Household, error) {
	panic("unimplemented")
}

func (stubHouseholdsService) Rename(context.Context, string, string, string) error {
	panic("unimplemented")
}

func (stubHouseholdsService) Delete(context.Context, string, string) error {
	panic("unimplemented")
}

func (stubHouseholdsService) AddMember(context.Context, string, string, households.AddMemberInput) error {
	panic("unimplemented")
}

func (stubHouseholdsService) RemoveMember(context.Context, string, string, string) error {
	panic("unimplemented")
}

func (stubHouseholdsService) ListMembers(context.Context, string, string) ([]memberships.MemberWithUser, error) {
	panic("unimplemented")
}

func (stubHouseholdsService) ListMine(context.Context, string) ([]memberships.MembershipWithHousehold, error) {
	return []memberships.MembershipWithHousehold{}, nil
}

type stubEventsService struct{}

func (stubEventsService) List(context.Context, string, string) ([]models.Event, error) {
	return []models.Event{}, nil
}

func (stubEventsService) Get(_ context.Context, _, _, eventID string) (*models.Event, error) {
	if eventID != testEventID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
	}
	return &models.Event{ID: eventID, Name: "Solstice"}, nil
}

func (stubEventsService) Create(context.Context, events.CreateInput) (*models.Event, error) {
	panic("unimplemented")
}

func (stubEventsService) Update(context.Context, events.UpdateInput) error {
	panic("unimplemented")
}

func (stubEventsService) Delete(context.Context, string, string, string) error {
	panic("unimplemented")
}

type stubProductsService struct{}

func (stubProductsService) List(context.Context, string, string, pagination.Params) (*products.ProductList, error) {
	return &products.ProductList{}, nil
}

func (stubProductsService) Get(context.Context, string, string, string) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductsService) Create(context.Context, products.CreateInput) (*models.Product, error) {
	panic("unimplemented")
}

func (stubProductsService) Update(context.Context, products.UpdateInput) error {
	panic("unimplemented")
}

func (stubProductsService) Delete(context.Context, string, string, string) error {
	panic("unimplemented")
}

func (stubProductsService) FindOrCreateByName(context.Context, string, string) (*models.Product, error) {
	panic("unimplemented")
}

type stubGiftOrdersService struct{}

func (stubGiftOrdersService) List(context.Context, string, string, *string) ([]giftorders.OrderDTO, error) {
	return []giftorders.OrderDTO{}, nil
}

func (stubGiftOrdersService) Get(context.Context, string, string, string) (*giftorders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubGiftOrdersService) Create(context.Context, giftorders.CreateInput) (*giftorders.OrderDTO, error) {
	panic("unimplemented")
}

func (stubGiftOrdersService) Update(context.Context, giftorders.UpdateInput) error {
	panic("unimplemented")
}

func (stubGiftOrdersService) Delete(context.Context, string, string, string) error {
	panic("unimplemented")
}

func (stubGiftOrdersService) AddItem(context.Context, giftorders.AddItemInput) (*models.GiftItem, error) {
	panic("unimplemented")
}

func (stubGiftOrdersService) UpdateItem(context.Context, giftorders.UpdateItemInput) error {
	panic("unimplemented")
}

func (stubGiftOrdersService) DeleteItem(context.Context, string, string, string, string) error {
	panic("unimplemented")
}

func (stubGiftOrdersService) ListGifts(context.Context, string, string, giftorders.GiftFilters) ([]giftorders.GiftRow, error) {
	return []giftorders.GiftRow{}, nil
}

type stubGiftTemplatesService struct{}

func (stubGiftTemplatesService) List(context.Context, string, string) ([]models.GiftTemplate, error) {
	return []models.GiftTemplate{}, nil
}

func (stubGiftTemplatesService) Get(context.Context, string, string, string) (*models.GiftTemplate, error) {
	panic("unimplemented")
}

func (stubGiftTemplatesService) Create(context.Context, gifttemplates.CreateInput) (*models.GiftTemplate, error) {
	panic("unimplemented")
}

func (stubGiftTemplatesService) Update(context.Context, gifttemplates.UpdateInput) error {
	panic("unimplemented")
}

func (stubGiftTemplatesService) Delete(context.Context, string, string, string) error {
	panic("unimplemented")
}

func (stubGiftTemplatesService) AddItem(context.Context, gifttemplates.AddItemInput) (*models.GiftTemplateItem, error) {
	panic("unimplemented")
}

func (stubGiftTemplatesService) RemoveItem(context.Context, string, string, string, string) error {
	panic("unimplemented")
}

func (stubGiftTemplatesService) ImportToEvent(context.Context, string, string, string, string) (*gifttemplates.ImportResult, error) {
	return &gifttemplates.ImportResult{CreatedCount: 2, OrderIDs: []string{"a", "b"}}, nil
}

type stubWishlistsService struct{}

func (stubWishlistsService) ListGrouped(context.Context, string, string) ([]wishlists.RecipientGroup, error) {
	return []wishlists.RecipientGroup{}, nil
}

func (stubWishlistsService) Create(context.Context, wishlists.CreateInput) (*models.WishlistItem, error) {
	panic("unimplemented")
}

func (stubWishlistsService) Update(context.Context, wishlists.UpdateInput) error {
	panic("unimplemented")
}

func (stubWishlistsService) Delete(context.Context, string, string, string) error {
	panic("unimplemented")
}

func jsonBody(payload string) *strings.Reader {
	return strings.NewReader(payload)
}

func newTestRouter() http.Handler {
	cfg := &config.Config{}
	return NewRouter(Deps{
		Config:         cfg,
		IdP:            stubIdP{},
		Identity:       stubIdentity{},
		TenantResolver: stubTenantResolver{},
		Users:          stubUsersService{},
		Households:     stubHouseholdsService{},
		Events:         stubEventsService{},
		Products:       stubProductsService{},
		GiftOrders:     stubGiftOrdersService{},
		GiftTemplates:  stubGiftTemplatesService{},
		Wishlists:      stubWishlistsService{},
	})
}

func TestRouterRejectsMissingBearer(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestRouterServesTenantScopedList(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if body.Status != "success" {
		t.Fatalf("unexpected status %q", body.Status)
	}
}

func TestRouterValidatesPathIDFormat(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/events/not-a-valid-id", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed id, got %d", rec.Code)
	}
}

func TestRouterRoutesEventDetail(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/events/"+testEventID, nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterAuthTokenIsPublic(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/auth/token", jsonBody(`{"code":"abc"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouterTemplateImport(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/gift-templates/"+testEventID+"/import", jsonBody(`{"event_id":"`+testEventID+`"}`))
	req.Header.Set("Authorization", "Bearer valid-token")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
}
