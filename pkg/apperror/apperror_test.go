package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NewNotFound("user", "42"), http.StatusNotFound},
		{"validation", NewValidation(map[string]string{"email": "invalid"}), http.StatusBadRequest},
		{"conflict", NewConflict("skill", "name", "Go"), http.StatusConflict},
		{"locked", NewLocked("account", "later"), http.StatusLocked},
		{"unauthorized", NewUnauthorized("bad password", nil), http.StatusUnauthorized},
		{"permission", NewPermissionDenied("users.delete"), http.StatusForbidden},
		{"wrapped", fmt.Errorf("save: %w", NewConflict("user", "email", "a@b.com")), http.StatusConflict},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.err))
		})
	}
}

func TestNewValidation_DetailsAreSorted(t *testing.T) {
	err := NewValidation(map[string]string{"password": "too short", "email": "invalid"})

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "email: invalid; password: too short", err.Details)
	assert.Equal(t, "too short", err.ToJSON()["fields"].(map[string]string)["password"])
}
