package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/league-scorebook/internal/domain/division"
	"github.com/riskibarqy/league-scorebook/internal/usecase"
)

func TestWriteSuccess_WrapsDataOnly(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"division": "div-a"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decodeEnvelope[map[string]string](t, rec)
	require.Equal(t, "2.0", body.APIVersion)
	require.Equal(t, "div-a", body.Data["division"])
	require.Nil(t, body.Error)
}

func TestWriteError_ClientErrorKeepsMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: division=div-z", usecase.ErrNotFound))

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeEnvelope[any](t, rec)
	require.NotNil(t, body.Error)
	require.Equal(t, "NOT_FOUND", body.Error.Status)
	require.Contains(t, body.Error.Message, "division=div-z")
	require.Len(t, body.Error.Errors, 1)
	require.Equal(t, errorDomain, body.Error.Errors[0].Domain)
	require.Equal(t, "notFound", body.Error.Errors[0].Reason)
}

func TestWriteError_HidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, errors.New("dial tcp 10.0.0.7:5432: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeEnvelope[any](t, rec)
	require.Equal(t, "internal server error", body.Error.Message)
	require.Equal(t, "internal server error", body.Error.Errors[0].Message)
}

func TestWriteError_UnavailableSetsRetryAfter(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: document store is temporarily unavailable", usecase.ErrDependencyUnavailable))

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, unavailableRetryAfter, rec.Header().Get("Retry-After"))
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		reason string
	}{
		{name: "invalid input", err: fmt.Errorf("%w: x", usecase.ErrInvalidInput), status: http.StatusBadRequest, reason: "invalidInput"},
		{name: "not found", err: fmt.Errorf("%w: x", usecase.ErrNotFound), status: http.StatusNotFound, reason: "notFound"},
		{name: "missing document", err: fmt.Errorf("replace: %w", division.ErrDocumentNotFound), status: http.StatusNotFound, reason: "notFound"},
		{name: "locked", err: fmt.Errorf("%w: x", usecase.ErrLocked), status: http.StatusConflict, reason: "divisionLocked"},
		{name: "conflict", err: fmt.Errorf("create: %w", division.ErrDocumentConflict), status: http.StatusConflict, reason: "alreadyExists"},
		{name: "dependency", err: fmt.Errorf("%w: x", usecase.ErrDependencyUnavailable), status: http.StatusServiceUnavailable, reason: "dependencyUnavailable"},
		{name: "too large", err: fmt.Errorf("read body: %w", &http.MaxBytesError{Limit: 10}), status: http.StatusRequestEntityTooLarge, reason: "payloadTooLarge"},
		{name: "too large beats invalid input", err: fmt.Errorf("%w: %w", usecase.ErrInvalidInput, &http.MaxBytesError{Limit: 10}), status: http.StatusRequestEntityTooLarge, reason: "payloadTooLarge"},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError, reason: "internalError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			require.Equal(t, tt.status, got.HTTPStatus)
			require.Equal(t, tt.reason, got.Reason)
		})
	}
}
