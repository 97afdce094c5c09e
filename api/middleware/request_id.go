package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/giftwheel/giftwheel-backend/pkg/logger"
)

const (
	requestIDHeader = "X-Request-Id"

	// maxRequestIDLen caps client-supplied ids so a hostile header cannot
	// bloat every log line of the request.
	maxRequestIDLen = 64
)

// RequestID propagates the caller's X-Request-Id, minting a fresh one when
// the header is absent or unusable, and echoes it on the response so the SPA
// can correlate failures with server logs.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := strings.TrimSpace(r.Header.Get(requestIDHeader))
			if reqID == "" || len(reqID) > maxRequestIDLen {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
