package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  *StandardError
		want int
	}{
		{"validation", NewValidationError("bad"), http.StatusBadRequest},
		{"filter format", NewInvalidFilterFormatError("bad"), http.StatusBadRequest},
		{"booking mode", NewInvalidBookingModeError("hourly"), http.StatusBadRequest},
		{"catalog query", NewCatalogQueryError("down"), http.StatusBadGateway},
		{"conflict check", NewConflictCheckError("down"), http.StatusBadGateway},
		{"internal", NewInternalError("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.HTTPStatus())
		})
	}
}

func TestWriteHTTP_WrapsPlainErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHTTP(rec, errors.New("raw failure"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]*StandardError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body["error"])
	assert.Equal(t, ErrCodeInternal, body["error"].Code)
	assert.Equal(t, "raw failure", body["error"].Details)
}

func TestWriteHTTP_PreservesStandardError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteHTTP(rec, NewCatalogQueryError("connection refused"))

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]*StandardError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body["error"])
	assert.Equal(t, ErrCodeCatalogQueryFailed, body["error"].Code)
	assert.True(t, body["error"].Retryable)
}

func TestWithMetadata(t *testing.T) {
	err := NewCatalogQueryError("down").WithMetadata("attempt", 3)
	assert.Equal(t, 3, err.Metadata["attempt"])
}
