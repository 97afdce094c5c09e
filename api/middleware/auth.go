package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/giftwheel/giftwheel-backend/api/responses"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
	"github.com/giftwheel/giftwheel-backend/pkg/idp"
	"github.com/giftwheel/giftwheel-backend/pkg/logger"
)

type tokenIntrospector interface {
	Introspect(ctx context.Context, token string) (*idp.Introspection, error)
}

type userResolver interface {
	ResolveOrCreateUser(ctx context.Context, subject, email string) (string, error)
}

// Auth validates a bearer token against the identity provider and seeds the
// request context with the resolved local user id. Unknown subjects are
// provisioned on first sight.
func Auth(introspector tokenIntrospector, resolver userResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			result, err := introspector.Introspect(r.Context(), token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			userID, err := resolver.ResolveOrCreateUser(r.Context(), result.Subject, result.Email)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithUserID(r.Context(), userID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, userID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get("Authorization"))
	if raw == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(raw), "bearer ") {
		return strings.TrimSpace(raw[7:])
	}
	return raw
}
