package controllers

import (
	"net/http"

	"github.com/giftwheel/giftwheel-backend/api/middleware"
	"github.com/giftwheel/giftwheel-backend/api/responses"
	"github.com/giftwheel/giftwheel-backend/api/validators"
	"github.com/giftwheel/giftwheel-backend/internal/giftorders"
	"github.com/giftwheel/giftwheel-backend/pkg/logger"
)

type createOrderPayload struct {
	EventID          *string  `json:"event_id" validate:"omitempty,len=26"`
	Title            string   `json:"title" validate:"required,max=200"`
	OrderType        string   `json:"order_type" validate:"required"`
	Notes            *string  `json:"notes"`
	GiverUserIDs     []string `json:"giver_user_ids" validate:"required,min=1,dive,len=26"`
	RecipientUserIDs []string `json:"recipient_user_ids" validate:"required,min=1,dive,len=26"`
}

type updateOrderPayload struct {
	EventID          *string   `json:"event_id"`
	Title            *string   `json:"title" validate:"omitempty,max=200"`
	OrderType        *string   `json:"order_type"`
	Notes            *string   `json:"notes"`
	Status           *string   `json:"status"`
	GiverUserIDs     *[]string `json:"giver_user_ids" validate:"omitempty,dive,len=26"`
	RecipientUserIDs *[]string `json:"recipient_user_ids" validate:"omitempty,dive,len=26"`
}

type addGiftItemPayload struct {
	ProductID     *string `json:"product_id" validate:"omitempty,len=26"`
	ProductName   string  `json:"product_name" validate:"max=200"`
	Notes         *string `json:"notes"`
	Status        string  `json:"status"`
	PlannedPrice  string  `json:"planned_price"`
	PurchasePrice string  `json:"purchase_price"`
	Currency      *string `json:"currency" validate:"omitempty,len=3"`
}

type updateGiftItemPayload struct {
	Title         *string `json:"title" validate:"omitempty,max=200"`
	Notes         *string `json:"notes"`
	Status        *string `json:"status"`
	PlannedPrice  *string `json:"planned_price"`
	PurchasePrice *string `json:"purchase_price"`
	Currency      *string `json:"currency" validate:"omitempty,len=3"`
}

func GiftOrderList(svc giftorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		eventID, err := validators.OptionalQueryID(r, "event_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rows, err := svc.List(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx), eventID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func GiftOrderDetail(svc giftorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := pathID(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.Get(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx), orderID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func GiftOrderCreate(svc giftorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createOrderPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		order, err := svc.Create(ctx, giftorders.CreateInput{
			HouseholdID:      middleware.HouseholdIDFromContext(ctx),
			ActorUserID:      middleware.UserIDFromContext(ctx),
			EventID:          payload.EventID,
			Title:            payload.Title,
			OrderType:        payload.OrderType,
			Notes:            payload.Notes,
			GiverUserIDs:     payload.GiverUserIDs,
			RecipientUserIDs: payload.RecipientUserIDs,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

func GiftOrderUpdate(svc giftorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := pathID(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateOrderPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		err = svc.Update(ctx, giftorders.UpdateInput{
			HouseholdID:      middleware.HouseholdIDFromContext(ctx),
			ActorUserID:      middleware.UserIDFromContext(ctx),
			OrderID:          orderID,
			EventID:          payload.EventID,
			Title:            payload.Title,
			OrderType:        payload.OrderType,
			Notes:            payload.Notes,
			Status:           payload.Status,
			GiverUserIDs:     payload.GiverUserIDs,
			RecipientUserIDs: payload.RecipientUserIDs,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": orderID})
	}
}

func GiftOrderDelete(svc giftorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := pathID(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx), orderID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": orderID})
	}
}

func GiftItemAdd(svc giftorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := pathID(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addGiftItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.AddItem(ctx, giftorders.AddItemInput{
			HouseholdID:   middleware.HouseholdIDFromContext(ctx),
			ActorUserID:   middleware.UserIDFromContext(ctx),
			OrderID:       orderID,
			ProductID:     payload.ProductID,
			ProductName:   payload.ProductName,
			Notes:         payload.Notes,
			Status:        payload.Status,
			PlannedPrice:  payload.PlannedPrice,
			PurchasePrice: payload.PurchasePrice,
			Currency:      payload.Currency,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func GiftItemUpdate(svc giftorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := pathID(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		itemID, err := pathID(r, "itemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateGiftItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		err = svc.UpdateItem(ctx, giftorders.UpdateItemInput{
			HouseholdID:   middleware.HouseholdIDFromContext(ctx),
			ActorUserID:   middleware.UserIDFromContext(ctx),
			OrderID:       orderID,
			ItemID:        itemID,
			Title:         payload.Title,
			Notes:         payload.Notes,
			Status:        payload.Status,
			PlannedPrice:  payload.PlannedPrice,
			PurchasePrice: payload.PurchasePrice,
			Currency:      payload.Currency,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": itemID})
	}
}

func GiftItemDelete(svc giftorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		orderID, err := pathID(r, "orderId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		itemID, err := pathID(r, "itemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.DeleteItem(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx), orderID, itemID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": itemID})
	}
}

// GiftList is the flattened per-household gift item listing.
func GiftList(svc giftorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		eventID, err := validators.OptionalQueryID(r, "event_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		productID, err := validators.OptionalQueryID(r, "product_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rows, err := svc.ListGifts(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx), giftorders.GiftFilters{
			EventID:   eventID,
			ProductID: productID,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}
