package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/league-scorebook/internal/domain/division"
	"github.com/riskibarqy/league-scorebook/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "league-scorebook"

	// Matches the default store circuit breaker open timeout.
	unavailableRetryAfter = "15"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

var internalError = mappedError{HTTPStatus: http.StatusInternalServerError, Reason: "internalError", Status: "INTERNAL"}

// errorRules is checked in order; the first match wins.
var errorRules = []struct {
	match  func(error) bool
	mapped mappedError
}{
	{
		match:  isTooLarge,
		mapped: mappedError{HTTPStatus: http.StatusRequestEntityTooLarge, Reason: "payloadTooLarge", Status: "OUT_OF_RANGE"},
	},
	{
		match:  isAny(usecase.ErrInvalidInput),
		mapped: mappedError{HTTPStatus: http.StatusBadRequest, Reason: "invalidInput", Status: "INVALID_ARGUMENT"},
	},
	{
		match:  isAny(usecase.ErrNotFound, division.ErrDocumentNotFound),
		mapped: mappedError{HTTPStatus: http.StatusNotFound, Reason: "notFound", Status: "NOT_FOUND"},
	},
	{
		match:  isAny(usecase.ErrLocked),
		mapped: mappedError{HTTPStatus: http.StatusConflict, Reason: "divisionLocked", Status: "ABORTED"},
	},
	{
		match:  isAny(division.ErrDocumentConflict),
		mapped: mappedError{HTTPStatus: http.StatusConflict, Reason: "alreadyExists", Status: "ALREADY_EXISTS"},
	},
	{
		match:  isAny(usecase.ErrDependencyUnavailable),
		mapped: mappedError{HTTPStatus: http.StatusServiceUnavailable, Reason: "dependencyUnavailable", Status: "UNAVAILABLE"},
	},
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	return errors.As(err, &tooLarge)
}

func isAny(targets ...error) func(error) bool {
	return func(err error) bool {
		for _, target := range targets {
			if errors.Is(err, target) {
				return true
			}
		}
		return false
	}
}

func mapError(err error) mappedError {
	for _, rule := range errorRules {
		if rule.match(err) {
			return rule.mapped
		}
	}
	return internalError
}

func writeJSON(_ context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

// writeError maps err onto the envelope. Internal errors get a fixed message
// because store errors carry connection details.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	mapped := mapError(err)
	message := "internal server error"
	if mapped != internalError {
		message = err.Error()
	}
	if mapped.HTTPStatus == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", unavailableRetryAfter)
	}

	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors:  []googleErrorItem{{Domain: errorDomain, Reason: mapped.Reason, Message: message}},
		},
	})
}
