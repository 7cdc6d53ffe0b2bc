package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"quickbite/internal/model"

	"github.com/rs/zerolog"
)

// Response is the envelope every endpoint writes.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// writeJSON writes a success envelope with the given status code. The
// status line is already committed, so an encode failure here only
// truncates the body.
func writeJSON(w http.ResponseWriter, status int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: true, Message: message, Data: data})
}

// writeError writes an error envelope with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: false, Message: message})
}

// writeServiceError maps a service failure to an HTTP status and a
// non-leaking message. Services signal client faults with typed
// DomainError values; anything else is internal and stays server-side.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, statusForCode(domainErr.Code), domainErr.Message, logger)
		return
	}

	logger.Error().Err(err).Msg("internal error")
	writeError(w, http.StatusInternalServerError, "internal server error", logger)
}

func statusForCode(code string) int {
	switch code {
	case model.ErrCodeEmptyCart,
		model.ErrCodeInvalidTotal,
		model.ErrCodeProductUnavailable,
		model.ErrCodeProductNotFound,
		model.ErrCodeInvalidQuantity,
		model.ErrCodeInvalidStatus,
		model.ErrCodeInvalidPayment,
		model.ErrCodeInvalidJSON,
		model.ErrCodeMissingField,
		model.ErrCodeInvalidDate:
		return http.StatusBadRequest
	case model.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case model.ErrCodeCheckoutInProgress:
		return http.StatusConflict
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
