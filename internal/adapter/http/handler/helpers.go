package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/paytransfer/internal/adapter/http/dto"
	"github.com/iho/paytransfer/internal/domain"
)

// UnexpectedErrorMessage hides internal failures from clients.
const UnexpectedErrorMessage = "An unexpected error occurred. Please contact support if the problem persists."

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteError writes an error response for the request path.
func WriteError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, status, dto.NewErrorResponse(message, r.URL.Path))
}

// writeDomainError maps err onto a status and body. Unexpected errors are
// logged in full and reported with a generic message.
func writeDomainError(w http.ResponseWriter, r *http.Request, logger zerolog.Logger, err error) {
	status := mapDomainError(err)
	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("unexpected error")
		WriteError(w, r, status, UnexpectedErrorMessage)

		return
	}

	WriteError(w, r, status, err.Error())
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	var validation *dto.ValidationError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrTransferNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAccountAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// parseIDParam parses an int64 path parameter. Any int64 is a valid id.
func parseIDParam(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// decodeJSON decodes the request body, rejecting malformed JSON.
func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
