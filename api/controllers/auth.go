package controllers

import (
	"context"
	"net/http"

	"github.com/giftwheel/giftwheel-backend/api/middleware"
	"github.com/giftwheel/giftwheel-backend/api/responses"
	"github.com/giftwheel/giftwheel-backend/api/validators"
	"github.com/giftwheel/giftwheel-backend/internal/users"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
	"github.com/giftwheel/giftwheel-backend/pkg/idp"
	"github.com/giftwheel/giftwheel-backend/pkg/logger"
)

// TokenBroker is the slice of the identity provider client the auth
// endpoints need.
type TokenBroker interface {
	Exchange(ctx context.Context, code string) (*idp.TokenSet, error)
	Refresh(ctx context.Context, refreshToken string) (*idp.TokenSet, error)
}

type tokenPayload struct {
	Code string `json:"code" validate:"required"`
}

type refreshPayload struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// AuthToken exchanges an authorization code for the provider's token set.
// The backend passes the tokens through unchanged; it never mints its own.
func AuthToken(broker TokenBroker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload tokenPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		tokens, err := broker.Exchange(ctx, payload.Code)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, tokens)
	}
}

// AuthRefresh swaps a refresh token for a fresh token set.
func AuthRefresh(broker TokenBroker, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload refreshPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		tokens, err := broker.Refresh(ctx, payload.RefreshToken)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, tokens)
	}
}

// AuthMe returns the caller's profile with their household memberships.
func AuthMe(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID := middleware.UserIDFromContext(ctx)
		if userID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		profile, err := svc.Me(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}
