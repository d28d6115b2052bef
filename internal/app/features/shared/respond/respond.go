// Package respond writes JSON responses and maps service errors to HTTP
// status codes in one place, so every feature fails the same way.
package respond

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dalemusser/strand/internal/app/system/apperr"
	"go.uber.org/zap"
)

// JSON writes payload with the given status.
func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// errorBody is the uniform error response shape.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Error maps err onto the wire:
//
//	ValidationError  -> 422
//	apperr.ErrNotFound -> 404
//	apperr.ErrConflict -> 409
//	apperr.ErrUnavailable -> 503
//	anything else -> 500 (logged; the caller gets a generic message)
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		JSON(w, http.StatusUnprocessableEntity, errorBody{Error: ve.Message, Field: ve.Field})
	case errors.Is(err, apperr.ErrNotFound):
		JSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, apperr.ErrConflict):
		JSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, apperr.ErrUnavailable):
		JSON(w, http.StatusServiceUnavailable, errorBody{Error: "store unavailable"})
	default:
		log.Error("request failed", zap.Error(err))
		JSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// Decode reads a JSON request body into dst, returning a ValidationError on
// malformed input.
func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperr.Validation("body", "malformed JSON")
	}
	return nil
}
