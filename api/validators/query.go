package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/giftwheel/giftwheel-backend/pkg/errors"
	"github.com/giftwheel/giftwheel-backend/pkg/ids"
)

// ParseQueryInt reads an optional numeric query parameter within a range.
func ParseQueryInt(r *http.Request, key string, defaultVal, min, max int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be numeric").
			WithDetails(map[string]any{"field": key})
	}
	if value < min || value > max {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "query parameter out of range").
			WithDetails(map[string]any{"field": key, "min": min, "max": max})
	}
	return value, nil
}

// OptionalQueryID reads an optional id-valued query parameter, returning nil
// when absent.
func OptionalQueryID(r *http.Request, key string) (*string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return nil, nil
	}
	if !ids.IsValid(raw) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a valid id").
			WithDetails(map[string]any{"field": key})
	}
	return &raw, nil
}
