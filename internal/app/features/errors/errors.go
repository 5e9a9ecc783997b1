// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"
)

// Error kinds surfaced to callers. These are stable strings; clients match
// on them rather than on HTTP status codes alone.
const (
	KindUnauthorized     = "unauthorized"
	KindForbidden        = "forbidden"
	KindNotFound         = "not_found"
	KindConflict         = "conflict"
	KindValidationFailed = "validation_failed"
	KindEmptyPayload     = "empty_payload"
	KindStoreFailure     = "store_failure"
	KindBadRequest       = "bad_request"
)

// envelope is the JSON body for every error response.
type envelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func write(w http.ResponseWriter, status int, kind, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Error: kind, Message: msg})
}

// RenderUnauthorized writes a 401 "sign in required" response.
func RenderUnauthorized(w http.ResponseWriter, r *http.Request) {
	write(w, http.StatusUnauthorized, KindUnauthorized, "Please sign in to continue.")
}

// RenderForbidden writes a 403 response with the given message.
func RenderForbidden(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "You don't have permission to do that."
	}
	write(w, http.StatusForbidden, KindForbidden, msg)
}

// RenderNotFound writes a 404 response with the given message.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "Not found."
	}
	write(w, http.StatusNotFound, KindNotFound, msg)
}

// RenderConflict writes a 409 response with the given message.
func RenderConflict(w http.ResponseWriter, r *http.Request, msg string) {
	write(w, http.StatusConflict, KindConflict, msg)
}

// RenderValidationFailed writes a 422 response with the given message.
func RenderValidationFailed(w http.ResponseWriter, r *http.Request, msg string) {
	write(w, http.StatusUnprocessableEntity, KindValidationFailed, msg)
}

// RenderBadRequest writes a 400 response with the given message.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	write(w, http.StatusBadRequest, KindBadRequest, msg)
}

// RenderEmptyPayload writes a 400 response with the empty_payload kind.
// Bulk import uses this for files with zero usable data rows.
func RenderEmptyPayload(w http.ResponseWriter, r *http.Request, msg string) {
	write(w, http.StatusBadRequest, KindEmptyPayload, msg)
}
