package controllers

import (
	"net/http"

	"github.com/giftwheel/giftwheel-backend/api/middleware"
	"github.com/giftwheel/giftwheel-backend/api/responses"
	"github.com/giftwheel/giftwheel-backend/api/validators"
	"github.com/giftwheel/giftwheel-backend/internal/households"
	"github.com/giftwheel/giftwheel-backend/pkg/logger"
)

type createHouseholdPayload struct {
	Name string `json:"name" validate:"required,max=120"`
}

type renameHouseholdPayload struct {
	Name string `json:"name" validate:"required,max=120"`
}

type addMemberPayload struct {
	UserID         string `json:"user_id" validate:"required,len=26"`
	IsFamilyMember bool   `json:"is_family_member"`
	IsManager      bool   `json:"is_manager"`
}

// HouseholdList returns every household the caller belongs to.
func HouseholdList(svc households.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rows, err := svc.ListMine(ctx, middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// HouseholdCreate starts a new household with the caller as first manager.
func HouseholdCreate(svc households.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createHouseholdPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		household, err := svc.Create(ctx, middleware.UserIDFromContext(ctx), payload.Name)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, household)
	}
}

func HouseholdDetail(svc households.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		householdID, err := pathID(r, "householdId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		household, err := svc.Get(ctx, householdID, middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, household)
	}
}

func HouseholdRename(svc households.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		householdID, err := pathID(r, "householdId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload renameHouseholdPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Rename(ctx, householdID, middleware.UserIDFromContext(ctx), payload.Name); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": householdID})
	}
}

func HouseholdDelete(svc households.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		householdID, err := pathID(r, "householdId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Delete(ctx, householdID, middleware.UserIDFromContext(ctx)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": householdID})
	}
}

func HouseholdMembers(svc households.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		householdID, err := pathID(r, "householdId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rows, err := svc.ListMembers(ctx, householdID, middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

func HouseholdAddMember(svc households.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		householdID, err := pathID(r, "householdId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addMemberPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := households.AddMemberInput{
			UserID:         payload.UserID,
			IsFamilyMember: payload.IsFamilyMember,
			IsManager:      payload.IsManager,
		}
		if err := svc.AddMember(ctx, householdID, middleware.UserIDFromContext(ctx), input); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{
			"household_id": householdID,
			"user_id":      payload.UserID,
		})
	}
}

func HouseholdRemoveMember(svc households.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		householdID, err := pathID(r, "householdId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		userID, err := pathID(r, "userId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.RemoveMember(ctx, householdID, middleware.UserIDFromContext(ctx), userID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{
			"household_id": householdID,
			"user_id":      userID,
		})
	}
}
