package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/medbill/medbill/internal/shared"
)

// InternalErrorMessage is shown for every unexpected failure.
const InternalErrorMessage = "Something went wrong. Please try again later!"

// ErrorDetail is the error member of a failed envelope for unexpected failures.
type ErrorDetail struct {
	Message string `json:"message"`
}

// StatusOf maps the shared error taxonomy to an HTTP status.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, shared.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrDuplicate), errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// RespondError maps domain errors to envelope responses.
func RespondError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", slog.Any("error", err))
		Failure(w, status, InternalErrorMessage, ErrorDetail{Message: err.Error()})
		return
	}
	msg, ok := shared.PublicMessage(err)
	if !ok {
		msg = defaultMessage(status)
	}
	Failure(w, status, msg, nil)
}

func defaultMessage(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return "Unauthorized!"
	case http.StatusForbidden:
		return "Access denied!"
	case http.StatusNotFound:
		return "Resource not found!"
	default:
		return "Invalid request!"
	}
}
