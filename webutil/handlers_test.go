package webutil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMakeHandler(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{"forbidden", ErrForbidden("Invalid signature"), http.StatusForbidden, "Invalid signature"},
		{"config", ErrInternalServer("Twilio env vars missing"), http.StatusInternalServerError, "Twilio env vars missing"},
		{"default message", ErrMethodNotAllowed(""), http.StatusMethodNotAllowed, "Method Not Allowed"},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tt := range tests {
		handler := MakeHandler(func(w http.ResponseWriter, r *http.Request) error { return tt.err })
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

		if rec.Code != tt.wantCode || rec.Body.String() != tt.wantBody {
			t.Errorf("%s: got %d %q, want %d %q", tt.name, rec.Code, rec.Body.String(), tt.wantCode, tt.wantBody)
		}
	}
}

func TestMakeHandlerKeepsWrittenResponse(t *testing.T) {
	handler := MakeHandler(func(w http.ResponseWriter, r *http.Request) error {
		RespondWithText(w, http.StatusOK, "OK")
		return errors.New("late failure")
	})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("expected the handler's own response to stand, got %d %q", rec.Code, rec.Body.String())
	}
}
