package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"musiclib/repository"
	"musiclib/request"
)

func TestRespondErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &request.ValidationError{Errors: map[string][]string{"title": {"required"}}}, http.StatusUnprocessableEntity},
		{"forbidden", errForbidden, http.StatusForbidden},
		{"too large", request.ErrBodyTooLarge, http.StatusRequestEntityTooLarge},
		{"malformed", fmt.Errorf("%w: unexpected EOF", request.ErrMalformedBody), http.StatusBadRequest},
		{"not found", fmt.Errorf("music entry 3: %w", repository.ErrNotFound), http.StatusNotFound},
		{"other", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			respondError(w, httptest.NewRequest(http.MethodPost, "/api/musics", nil), tt.err)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d", w.Code, tt.status)
			}
		})
	}
}
