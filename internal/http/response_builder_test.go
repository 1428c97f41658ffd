package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("account x: %w", store.ErrNotFound), http.StatusNotFound},
		{"duplicate", fmt.Errorf("account x: %w", store.ErrDuplicateID), http.StatusConflict},
		{"unknown account", fmt.Errorf("account x: %w", store.ErrUnknownAccount), http.StatusUnprocessableEntity},
		{"validation", core.ErrEmptyName, http.StatusBadRequest},
		{"bad request", fmt.Errorf("%w: empty body", errBadRequest), http.StatusBadRequest},
		{"body too large", fmt.Errorf("%w: %w", errBadRequest, &http.MaxBytesError{Limit: 1}), http.StatusRequestEntityTooLarge},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorStatus(tt.err); got != tt.want {
				t.Errorf("errorStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestRespondErrorHidesInternalErrors(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	respondError(w, r, "test", errors.New("secret path /var/lib/x"))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body errorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "internal error" {
		t.Errorf("error = %q, want %q", body.Error, "internal error")
	}
}

func TestRespondErrorShowsClientErrors(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/accounts", nil)
	respondError(w, r, store.CmdAddAccount, core.ErrEmptyName)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var body errorResponse
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != core.ErrEmptyName.Error() {
		t.Errorf("error = %q, want %q", body.Error, core.ErrEmptyName.Error())
	}
}
