// internal/common/errors/http.go
package errors

import (
	"encoding/json"
	"errors"
	"net/http"
)

// HTTPStatus maps an error code to the response status the server layer
// should use.
func (e *StandardError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeInvalidFilterFormat, ErrCodeInvalidBookingMode, ErrCodeValidationFailed:
		return http.StatusBadRequest
	case ErrCodeCatalogTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeCatalogQueryFailed, ErrCodeConflictCheckFailed, ErrCodePriceBoundsUnresolved:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteHTTP serializes err as a JSON error response. Non-StandardError
// values are wrapped as internal errors so callers never leak raw error
// strings with a 200 status.
func WriteHTTP(w http.ResponseWriter, err error) {
	var stdErr *StandardError
	if !errors.As(err, &stdErr) {
		stdErr = NewInternalError(err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(stdErr.HTTPStatus())
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": stdErr,
	})
}
