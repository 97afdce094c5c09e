package controllers

import (
	"net/http"

	"github.com/giftwheel/giftwheel-backend/api/middleware"
	"github.com/giftwheel/giftwheel-backend/api/responses"
	"github.com/giftwheel/giftwheel-backend/api/validators"
	"github.com/giftwheel/giftwheel-backend/internal/gifttemplates"
	"github.com/giftwheel/giftwheel-backend/pkg/logger"
)

type createTemplatePayload struct {
	Name  string  `json:"name" validate:"required,max=200"`
	Notes *string `json:"notes"`
}

type updateTemplatePayload struct {
	Name  *string `json:"name" validate:"omitempty,max=200"`
	Notes *string `json:"notes"`
}

type addTemplateItemPayload struct {
	Notes            *string  `json:"notes"`
	GiverUserIDs     []string `json:"giver_user_ids" validate:"omitempty,dive,len=26"`
	RecipientUserIDs []string `json:"recipient_user_ids" validate:"omitempty,dive,len=26"`
}

type importTemplatePayload struct {
	EventID string `json:"event_id" validate:"required,len=26"`
}

func GiftTemplateList(svc gifttemplates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rows, err := svc.List(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func GiftTemplateDetail(svc gifttemplates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		templateID, err := pathID(r, "templateId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		template, err := svc.Get(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx), templateID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, template)
	}
}

func GiftTemplateCreate(svc gifttemplates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createTemplatePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		template, err := svc.Create(ctx, gifttemplates.CreateInput{
			HouseholdID: middleware.HouseholdIDFromContext(ctx),
			ActorUserID: middleware.UserIDFromContext(ctx),
			Name:        payload.Name,
			Notes:       payload.Notes,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, template)
	}
}

func GiftTemplateUpdate(svc gifttemplates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		templateID, err := pathID(r, "templateId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateTemplatePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Update(ctx, gifttemplates.UpdateInput{
			HouseholdID: middleware.HouseholdIDFromContext(ctx),
			ActorUserID: middleware.UserIDFromContext(ctx),
			TemplateID:  templateID,
			Name:        payload.Name,
			Notes:       payload.Notes,
		}); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": templateID})
	}
}

func GiftTemplateDelete(svc gifttemplates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		templateID, err := pathID(r, "templateId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx), templateID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": templateID})
	}
}

func GiftTemplateAddItem(svc gifttemplates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		templateID, err := pathID(r, "templateId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addTemplateItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.AddItem(ctx, gifttemplates.AddItemInput{
			HouseholdID:      middleware.HouseholdIDFromContext(ctx),
			ActorUserID:      middleware.UserIDFromContext(ctx),
			TemplateID:       templateID,
			Notes:            payload.Notes,
			GiverUserIDs:     payload.GiverUserIDs,
			RecipientUserIDs: payload.RecipientUserIDs,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

func GiftTemplateRemoveItem(svc gifttemplates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		templateID, err := pathID(r, "templateId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		itemID, err := pathID(r, "itemId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.RemoveItem(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx), templateID, itemID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": itemID})
	}
}

// GiftTemplateImport fans a template out into one order per item for the
// given event.
func GiftTemplateImport(svc gifttemplates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		templateID, err := pathID(r, "templateId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload importTemplatePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.ImportToEvent(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx), templateID, payload.EventID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
