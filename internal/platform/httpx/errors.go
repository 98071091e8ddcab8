package httpx

import (
	"errors"
	"net/http"

	"github.com/vidyavipul/Mini-User-Management-System/internal/shared"
)

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrUnauthorized),
		errors.Is(err, shared.ErrInvalidCredentials),
		errors.Is(err, shared.ErrIncorrectPassword):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrEmailTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as the uniform JSON error body.
func RespondError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	body := ErrorBody{Message: err.Error()}
	var se *shared.Error
	if errors.As(err, &se) {
		body = ErrorBody{Message: se.Error(), Field: se.Field, Details: se.Details}
	}
	if body.Message == "" {
		body.Message = "Internal server error"
	}
	JSON(w, StatusFor(err), body)
}
