package validators

import (
	"net/http"
	"strconv"
	"strings"

	pkgerrors "github.com/avisosapp/push-backend/pkg/errors"
)

// QueryIntDefault reads an optional numeric query parameter. Missing,
// unparsable, and non-positive values all coerce to the default; anything
// else passes through untouched, matching the legacy clients' expectation
// that a requested limit is honored verbatim.
func QueryIntDefault(r *http.Request, key string, defaultVal int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return defaultVal
	}
	return value
}

// RequireQueryString returns a validation error when the parameter is
// missing or blank.
func RequireQueryString(r *http.Request, key string) (string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, key+" is required").WithDetails(map[string]any{"field": key})
	}
	return raw, nil
}
