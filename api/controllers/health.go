package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/giftwheel/giftwheel-backend/api/responses"
	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
	"github.com/giftwheel/giftwheel-backend/pkg/logger"
)

// Pinger is a dependency that can report its own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Healthz reports liveness plus readiness of the backing stores.
func Healthz(logg *logger.Logger, checks map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := map[string]string{"status": "ok"}
		healthy := true
		for name, check := range checks {
			if check == nil {
				continue
			}
			if err := check.Ping(ctx); err != nil {
				status[name] = "unreachable"
				healthy = false
				if logg != nil {
					logg.Error(logg.WithField(ctx, "dependency", name), "healthz.dependency_failed", err)
				}
				continue
			}
			status[name] = "ok"
		}

		if !healthy {
			responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeDependency, "dependency unreachable"))
			return
		}
		responses.WriteSuccess(w, status)
	}
}
