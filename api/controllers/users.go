package controllers

import (
	"net/http"

	"github.com/giftwheel/giftwheel-backend/api/middleware"
	"github.com/giftwheel/giftwheel-backend/api/responses"
	"github.com/giftwheel/giftwheel-backend/api/validators"
	"github.com/giftwheel/giftwheel-backend/internal/users"
	"github.com/giftwheel/giftwheel-backend/pkg/logger"
)

type createMemberPayload struct {
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	LastName       string  `json:"last_name" validate:"max=100"`
	Email          *string `json:"email" validate:"omitempty,email"`
	IsFamilyMember bool    `json:"is_family_member"`
	IsManager      bool    `json:"is_manager"`
}

type updateProfilePayload struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100"`
	Mobile    *string `json:"mobile" validate:"omitempty,max=30"`
	ImageURL  *string `json:"image_url" validate:"omitempty,url"`
}

// UserList returns every member of the active household with profile data.
func UserList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rows, err := svc.ListHouseholdUsers(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// UserCreate lets a manager provision a member without a login of their own.
func UserCreate(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload createMemberPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		dto, err := svc.CreateMember(ctx, users.CreateMemberInput{
			HouseholdID:    middleware.HouseholdIDFromContext(ctx),
			ActorUserID:    middleware.UserIDFromContext(ctx),
			FirstName:      payload.FirstName,
			LastName:       payload.LastName,
			Email:          payload.Email,
			IsFamilyMember: payload.IsFamilyMember,
			IsManager:      payload.IsManager,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// UserUpdateMe updates the caller's own profile.
func UserUpdateMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload updateProfilePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		userID := middleware.UserIDFromContext(ctx)
		err := svc.UpdateProfile(ctx, userID, users.ProfileUpdateInput{
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
			Mobile:    payload.Mobile,
			ImageURL:  payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": userID})
	}
}

// UserUpdateMember lets a manager edit another member's profile.
func UserUpdateMember(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := pathID(r, "userId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateProfilePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		err = svc.UpdateMemberProfile(ctx, middleware.HouseholdIDFromContext(ctx), middleware.UserIDFromContext(ctx), userID, users.ProfileUpdateInput{
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
			Mobile:    payload.Mobile,
			ImageURL:  payload.ImageURL,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"id": userID})
	}
}
