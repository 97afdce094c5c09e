package controllers

import (
	"net/http"

	"github.com/giftwheel/giftwheel-backend/api/middleware"
	"github.com/giftwheel/giftwheel-backend/api/responses"
	"github.com/giftwheel/giftwheel-backend/api/validators"
	"github.com/giftwheel/giftwheel-backend/internal/wishlists"
	"github.com/giftwheel/giftwheel-backend/pkg/logger"
)

type createWishlistEntryPayload struct {
	RecipientUserID string   `json:"recipient_user_id" validate:"required,len=26"`
	ProductID       *string  `json:"product_id" validate:"omitempty,len=26"`
	ProductName     string   `json:"product_name" validate:"max=200"`
	Links           []string `json:"links" validate:"omitempty,dive,url"`
	Notes           *string  `json:"notes"`
	Priority        int      `json:"priority" validate:"min=0,max=10"`
}

type updateWishlistEntryPayload struct {
	Links    *[]string `json:"links" validate:"omitempty,dive,url"`
	Notes    *string   `json:"notes"`
	Priority *int      `json:"priority" validate:"omitempty,min=0,max=10"`
}

// WishlistList returns the household wishlist grouped per recipient.
func WishlistList(svc wishlists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		groups, err := svc.ListGrouped(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, groups)
	}
}

func WishlistCreate(svc wishlists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createWishlistEntryPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.Create(ctx, wishlists.CreateInput{
			HouseholdID:     middleware.HouseholdIDFromContext(ctx),
			ActorUserID:     middleware.UserIDFromContext(ctx),
			RecipientUserID: payload.RecipientUserID,
			ProductID:       payload.ProductID,
			ProductName:     payload.ProductName,
			Links:           payload.Links,
			Notes:           payload.Notes,
			Priority:        payload.Priority,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func WishlistUpdate(svc wishlists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		itemID, err := pathID(r, "itemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateWishlistEntryPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		err = svc.Update(ctx, wishlists.UpdateInput{
			HouseholdID: middleware.HouseholdIDFromContext(ctx),
			ActorUserID: middleware.UserIDFromContext(ctx),
			ItemID:      itemID,
			Links:       payload.Links,
			Notes:       payload.Notes,
			Priority:    payload.Priority,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": itemID})
	}
}

func WishlistDelete(svc wishlists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		itemID, err := pathID(r, "itemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx), itemID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": itemID})
	}
}
