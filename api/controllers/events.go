package controllers

import (
	"net/http"
	"time"

	"github.com/giftwheel/giftwheel-backend/api/middleware"
	"github.com/giftwheel/giftwheel-backend/api/responses"
	"github.com/giftwheel/giftwheel-backend/api/validators"
	"github.com/giftwheel/giftwheel-backend/internal/events"
	"github.com/giftwheel/giftwheel-backend/pkg/logger"
)

type createEventPayload struct {
	Name          string     `json:"name" validate:"required,max=200"`
	Date          *time.Time `json:"date"`
	Type          string     `json:"type"`
	HonoreeUserID *string    `json:"honoree_user_id" validate:"omitempty,len=26"`
	Notes         *string    `json:"notes"`
}

type updateEventPayload struct {
	Name          *string    `json:"name" validate:"omitempty,max=200"`
	Date          *time.Time `json:"date"`
	Type          *string    `json:"type"`
	HonoreeUserID *string    `json:"honoree_user_id" validate:"omitempty,len=26"`
	Notes         *string    `json:"notes"`
}

func EventList(svc events.Service, logg *logger.Logger) http.HandlerFunc {
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

func EventDetail(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		eventID, err := pathID(r, "eventId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		event, err := svc.Get(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx), eventID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, event)
	}
}

func EventCreate(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createEventPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		event, err := svc.Create(ctx, events.CreateInput{
			HouseholdID:   middleware.HouseholdIDFromContext(ctx),
			ActorUserID:   middleware.UserIDFromContext(ctx),
			Name:          payload.Name,
			Date:          payload.Date,
			Type:          payload.Type,
			HonoreeUserID: payload.HonoreeUserID,
			Notes:         payload.Notes,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, event)
	}
}

func EventUpdate(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		eventID, err := pathID(r, "eventId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateEventPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		err = svc.Update(ctx, events.UpdateInput{
			HouseholdID:   middleware.HouseholdIDFromContext(ctx),
			ActorUserID:   middleware.UserIDFromContext(ctx),
			EventID:       eventID,
			Name:          payload.Name,
			Date:          payload.Date,
			Type:          payload.Type,
			HonoreeUserID: payload.HonoreeUserID,
			Notes:         payload.Notes,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": eventID})
	}
}

func EventDelete(svc events.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		eventID, err := pathID(r, "eventId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx), eventID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": eventID})
	}
}
