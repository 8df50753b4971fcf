package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/inventorypro/client-go/internal/core/domain"
	"github.com/inventorypro/client-go/internal/metrics"
)

// decodeErrorMessage extracts the backend's error envelope. The backend
// renders errors as {"error": "<message>"}; older deployments used
// {"message": "<message>"}.
func decodeErrorMessage(r io.Reader) string {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&envelope); err != nil {
		return ""
	}
	if envelope.Error != "" {
		return envelope.Error
	}
	return envelope.Message
}

// statusError maps a backend status code onto the domain's sentinel errors
// so callers branch with errors.Is instead of inspecting HTTP codes.
func statusError(method, path string, status int, msg string) error {
	var sentinel error
	switch {
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		sentinel = domain.ErrValidation
	case status == http.StatusUnauthorized:
		sentinel = domain.ErrInvalidCredentials
	case status == http.StatusForbidden:
		sentinel = domain.ErrForbidden
	case status == http.StatusNotFound:
		sentinel = domain.ErrNotFound
	case status == http.StatusConflict:
		sentinel = domain.ErrConflict
	default:
		sentinel = domain.ErrServerError
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return fmt.Errorf("%s %s: %s: %w", method, path, msg, sentinel)
}

// outcomeFor buckets an error for metric labels.
func outcomeFor(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, domain.ErrSessionExpired), errors.Is(err, domain.ErrInvalidCredentials):
		return metrics.OutcomeUnauthorized
	case errors.Is(err, domain.ErrValidation):
		return metrics.OutcomeValidation
	case errors.Is(err, domain.ErrForbidden):
		return metrics.OutcomeForbidden
	case errors.Is(err, domain.ErrNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, domain.ErrConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, domain.ErrBackendUnreachable):
		return metrics.OutcomeNetworkError
	default:
		return metrics.OutcomeServerError
	}
}
