package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/forkline/storefront/internal/domain/checkout"
)

// errorResponse is the uniform error envelope.
type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	// Redirect hints which earlier step the client should return to on a
	// precondition failure ("cart", "checkout").
	Redirect string `json:"redirect,omitempty"`
	// Errors lists individual field failures on validation errors.
	Errors []checkout.FieldError `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zctx.From(r.Context()).Error("Encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, errorResponse{Code: status, Message: message})
}

// writeValidationError reports every failing field of one submission at once.
func writeValidationError(w http.ResponseWriter, r *http.Request, verr *checkout.ValidationError) {
	writeJSON(w, r, http.StatusUnprocessableEntity, errorResponse{
		Code:    http.StatusUnprocessableEntity,
		Message: "validation failed",
		Errors:  verr.Fields,
	})
}

// writePrecondition reports a missing prior step with a redirect hint, never
// a hard failure.
func writePrecondition(w http.ResponseWriter, r *http.Request, message, redirect string) {
	writeJSON(w, r, http.StatusConflict, errorResponse{
		Code:     http.StatusConflict,
		Message:  message,
		Redirect: redirect,
	})
}

// writeInternal logs the cause and responds with a generic failure; internal
// detail never leaks to clients.
func writeInternal(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	writeError(w, r, http.StatusInternalServerError, "internal error")
}

// decodeJSON parses the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
