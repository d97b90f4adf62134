package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jjprojectslab/comunify/internal/app/system/envelope"
	"go.uber.org/zap"
)

func TestKindStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindUnauthenticated, http.StatusUnauthorized},
		{KindUnauthorized, http.StatusForbidden},
		{KindValidation, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindDataStore, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := tt.kind.Status(); got != tt.want {
			t.Errorf("%s.Status() = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("create area: %w", Validation("Name is required."))
	if got := KindOf(wrapped); got != KindValidation {
		t.Errorf("KindOf(wrapped) = %q, want %q", got, KindValidation)
	}
	if got := KindOf(fmt.Errorf("plain")); got != KindDataStore {
		t.Errorf("KindOf(plain) = %q, want %q", got, KindDataStore)
	}
}

func TestRespond(t *testing.T) {
	el := NewErrorLogger(zap.NewNop())
	tests := []struct {
		name    string
		err     error
		status  int
		kind    string
		message string
	}{
		{"not found", NotFound("Area not found."), http.StatusNotFound, envelope.KindNotFound, "Area not found."},
		{"unauthorized", Unauthorized(""), http.StatusForbidden, envelope.KindUnauthorized, "You do not have permission to do that."},
		{"untyped hides detail", fmt.Errorf("connection reset"), http.StatusInternalServerError, envelope.KindDataStore, "A database error occurred."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			el.Respond(rec, httptest.NewRequest("GET", "/areas", nil), tt.err)

			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
			var body envelope.Response
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Success || body.Error == nil {
				t.Fatalf("expected failure envelope, got %+v", body)
			}
			if body.Error.Kind != tt.kind || body.Error.Message != tt.message {
				t.Errorf("error: got %+v, want kind=%q message=%q", body.Error, tt.kind, tt.message)
			}
		})
	}
}

func TestDataStoreUnwraps(t *testing.T) {
	cause := fmt.Errorf("socket closed")
	e := DataStore("Unable to save.", cause)
	if e.Unwrap() != cause {
		t.Error("expected Unwrap to return the cause")
	}
}
