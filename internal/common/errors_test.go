package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

type errorEnvelope struct {
	Error ErrorBody `json:"error"`
}

func TestWriteErrorRendersAppError(t *testing.T) {
	base := errors.New("boom")
	err := fmt.Errorf("wrapped: %w", Unprocessable("UNKNOWN_SERVICE", "cart contains unknown service codes", base).
		WithDetails(map[string]any{"codes": []string{"Q"}}))

	rec := httptest.NewRecorder()
	WriteError(rec, err)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, "UNKNOWN_SERVICE", env.Error.Code)
	require.Equal(t, "cart contains unknown service codes", env.Error.Message)
	require.True(t, errors.Is(err, base))
	require.True(t, IsAppError(err))
}

func TestWriteErrorHidesPlainErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("database password is hunter2"))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "hunter2")
}

func TestWriteErrorReportsSyntaxOffset(t *testing.T) {
	var payload map[string]any
	decodeErr := json.Unmarshal([]byte(`{"items":]`), &payload)
	require.Error(t, decodeErr)

	rec := httptest.NewRecorder()
	WriteError(rec, BadRequest("INVALID_JSON", "invalid payload", decodeErr))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var env struct {
		Error struct {
			Details map[string]float64 `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Contains(t, env.Error.Details, "offset")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:4321"
	require.Equal(t, "192.0.2.10", ClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.7")
	require.Equal(t, "198.51.100.7", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")
	require.Equal(t, "203.0.113.1", ClientIP(req))
}
