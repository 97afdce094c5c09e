package middleware

import (
	"context"
	"net/http"

	"github.com/giftwheel/giftwheel-backend/api/responses"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
	"github.com/giftwheel/giftwheel-backend/pkg/logger"
)

type householdResolver interface {
	ActiveHousehold(ctx context.Context, userID string) (string, error)
}

// HouseholdContext resolves the caller's active household and injects it
// into the request context. Users without any membership are rejected here,
// before any tenant-scoped handler runs.
func HouseholdContext(resolver householdResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := UserIDFromContext(r.Context())
			if userID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			householdID, err := resolver.ActiveHousehold(r.Context(), userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithHouseholdID(r.Context(), householdID)
			if logg != nil {
				ctx = logg.WithHouseholdID(ctx, householdID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
