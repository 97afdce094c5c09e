package controllers

import (
	"net/http"
	"strings"

	"github.com/giftwheel/giftwheel-backend/api/middleware"
	"github.com/giftwheel/giftwheel-backend/api/responses"
	"github.com/giftwheel/giftwheel-backend/api/validators"
	"github.com/giftwheel/giftwheel-backend/internal/products"
	"github.com/giftwheel/giftwheel-backend/pkg/logger"
	"github.com/giftwheel/giftwheel-backend/pkg/pagination"
)

type createProductPayload struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Description  *string `json:"description"`
	URL          *string `json:"url" validate:"omitempty,url"`
	ImageURL     *string `json:"image_url" validate:"omitempty,url"`
	DefaultPrice string  `json:"default_price"`
	Currency     *string `json:"currency" validate:"omitempty,len=3"`
}

type updateProductPayload struct {
	Name         *string `json:"name" validate:"omitempty,max=200"`
	Description  *string `json:"description"`
	URL          *string `json:"url" validate:"omitempty,url"`
	ImageURL     *string `json:"image_url" validate:"omitempty,url"`
	DefaultPrice *string `json:"default_price"`
	Currency     *string `json:"currency" validate:"omitempty,len=3"`
}

func ProductList(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		list, err := svc.List(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx), params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ProductDetail(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		productID, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.Get(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx), productID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createProductPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		product, err := svc.Create(ctx, products.CreateInput{
			HouseholdID:  middleware.HouseholdIDFromContext(ctx),
			ActorUserID:  middleware.UserIDFromContext(ctx),
			Name:         payload.Name,
			Description:  payload.Description,
			URL:          payload.URL,
			ImageURL:     payload.ImageURL,
			DefaultPrice: payload.DefaultPrice,
			Currency:     payload.Currency,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

func ProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		productID, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateProductPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		err = svc.Update(ctx, products.UpdateInput{
			HouseholdID:  middleware.HouseholdIDFromContext(ctx),
			ActorUserID:  middleware.UserIDFromContext(ctx),
			ProductID:    productID,
			Name:         payload.Name,
			Description:  payload.Description,
			URL:          payload.URL,
			ImageURL:     payload.ImageURL,
			DefaultPrice: payload.DefaultPrice,
			Currency:     payload.Currency,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": productID})
	}
}

func ProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		productID, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx), productID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": productID})
	}
}
