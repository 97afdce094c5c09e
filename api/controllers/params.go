package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
	"github.com/giftwheel/giftwheel-backend/pkg/ids"
)

// pathID reads a path parameter and validates the 26-character id format
// before any service sees it.
func pathID(r *http.Request, key string) (string, error) {
	value := chi.URLParam(r, key)
	if !ids.IsValid(value) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid id in path").
			WithDetails(map[string]any{"param": key})
	}
	return value, nil
}
