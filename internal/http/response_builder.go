// Package http provides the JSON API server and its handlers.
//
// This file maps results and errors onto JSON responses so every handler
// answers with the same shapes and status codes.

package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"fintrack/internal/core"
	applog "fintrack/internal/log"
	"fintrack/internal/store"
)

// PersistWarningHeader is set when a command was applied in memory but the
// state could not be saved.
const PersistWarningHeader = "X-Persist-Warning"

type errorResponse struct {
	Error string `json:"error"`
}

// commandResponse answers every state-changing request.
type commandResponse struct {
	Revision  int64  `json:"revision"`
	Persisted bool   `json:"persisted"`
	Data      any    `json:"data,omitempty"`
	DeletedID string `json:"deletedId,omitempty"`
}

var validationErrors = []error{
	core.ErrEmptyID,
	core.ErrEmptyName,
	core.ErrEmptyCurrency,
	core.ErrInvalidType,
	core.ErrInvalidAmount,
	core.ErrInvalidDate,
	core.ErrEmptyCategory,
	core.ErrEmptyAccountRef,
	errBadRequest,
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", applog.FieldError, err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// errorStatus maps domain and store errors onto HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, store.ErrUnknownAccount):
		return http.StatusUnprocessableEntity
	}
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		return http.StatusRequestEntityTooLarge
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// respondError writes err with its mapped status. Internal errors are logged
// and hidden from the client.
func respondError(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		sl := applog.NewStructuredLogger(applog.FromContext(r.Context()))
		sl.LogError(r.Context(), "Request failed", err, applog.ComponentHTTP, op, applog.NewFields())
		writeError(w, status, "internal error")
		return
	}
	writeError(w, status, err.Error())
}
