// Package httputil centralizes JSON encoding and domain-error translation
// for HTTP handlers so every endpoint emits the same envelope.
package httputil

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "sppg/pkg/domain-errors"
)

// statusByCode maps domain codes to HTTP statuses. Validation failures are
// 422s: the request was well-formed JSON but violates domain rules.
var statusByCode = map[dErrors.Code]int{
	dErrors.CodeEligibility:     http.StatusUnprocessableEntity,
	dErrors.CodeDateRange:       http.StatusUnprocessableEntity,
	dErrors.CodeConsistency:     http.StatusUnprocessableEntity,
	dErrors.CodeBudgetTolerance: http.StatusUnprocessableEntity,
	dErrors.CodeSchema:          http.StatusUnprocessableEntity,
	dErrors.CodeBounds:          http.StatusUnprocessableEntity,
	dErrors.CodeInvalidInput:    http.StatusBadRequest,
	dErrors.CodeBadRequest:      http.StatusBadRequest,
	dErrors.CodeUnauthorized:    http.StatusUnauthorized,
	dErrors.CodeForbidden:       http.StatusForbidden,
	dErrors.CodeNotFound:        http.StatusNotFound,
	dErrors.CodeConflict:        http.StatusConflict,
	dErrors.CodeInternal:        http.StatusInternalServerError,
}

// ToHTTPStatus converts a domain code to an HTTP status code.
func ToHTTPStatus(code dErrors.Code) int {
	if status, ok := statusByCode[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// WriteJSON encodes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into the standard JSON error envelope.
// Internal errors deliberately omit the description so infrastructure
// detail never reaches clients; all other codes carry their literal
// message, which the validation core writes to be user-facing.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := map[string]string{"error": string(code)}
	if code != dErrors.CodeInternal {
		body["error_description"] = err.Error()
	}
	WriteJSON(w, ToHTTPStatus(code), body)
}

// Decode reads the request body into a value of type T, enforcing strict
// field matching. On failure it writes a bad-request envelope and returns
// ok=false; handlers should simply return.
func Decode[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (T, bool) {
	var v T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "request body decode failed",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "request body is not valid JSON for this endpoint"))
		return v, false
	}
	return v, true
}

// Validatable is a request type that can validate and normalize itself
// after decoding.
type Validatable interface {
	Validate() error
}

// DecodeAndPrepare decodes the request body into T and runs its Validate
// method. On any failure it writes the error envelope and returns
// ok=false; handlers should simply return.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (PT, bool) {
	v, ok := Decode[T](w, r, logger, ctx, requestID)
	if !ok {
		return nil, false
	}

	req := PT(&v)
	if err := req.Validate(); err != nil {
		if logger != nil {
			logger.WarnContext(ctx, "request validation failed",
				"request_id", requestID,
				"error", err,
			)
		}
		WriteError(w, err)
		return nil, false
	}
	return req, true
}
