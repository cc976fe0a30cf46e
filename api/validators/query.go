package validators

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/storefront-pricing/pkg/errors"
)

// ParseUUIDParam reads a chi URL parameter that must be a uuid.
func ParseUUIDParam(r *http.Request, key string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "path parameter is required").WithDetails(map[string]any{"field": key})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "path parameter must be a uuid").WithDetails(map[string]any{"field": key})
	}
	return id, nil
}

// OptionalQueryString returns nil when the parameter is absent or blank.
func OptionalQueryString(r *http.Request, key string, maxLen int) *string {
	value := SanitizeString(r.URL.Query().Get(key), maxLen)
	if value == "" {
		return nil
	}
	return &value
}
