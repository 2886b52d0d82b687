package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/slotwise/slotwise-backend/pkg/errors"
	"github.com/slotwise/slotwise-backend/pkg/types"
)

// RequireQueryDate extracts a mandatory YYYY-MM-DD query parameter.
func RequireQueryDate(r *http.Request, key string) (string, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter is required").
			WithDetails(map[string]any{"field": key})
	}
	if !types.ValidDate(raw) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be YYYY-MM-DD").
			WithDetails(map[string]any{"field": key})
	}
	return raw, nil
}
