package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/taskdeck/internal/domain"
	"github.com/phrazzld/taskdeck/internal/service/auth"
	"github.com/phrazzld/taskdeck/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "invalid token", err: auth.ErrInvalidToken, want: http.StatusUnauthorized},
		{name: "expired token", err: auth.ErrExpiredToken, want: http.StatusUnauthorized},
		{name: "unauthorized", err: domain.ErrUnauthorized, want: http.StatusUnauthorized},
		{name: "task not found", err: store.ErrTaskNotFound, want: http.StatusNotFound},
		{name: "wrapped not found", err: fmt.Errorf("%w: task", store.ErrNotFound), want: http.StatusNotFound},
		{name: "email exists", err: store.ErrEmailExists, want: http.StatusConflict},
		{name: "invalid entity", err: store.ErrInvalidEntity, want: http.StatusBadRequest},
		{name: "validation", err: domain.ErrValidation, want: http.StatusBadRequest},
		{name: "invalid id", err: domain.ErrInvalidID, want: http.StatusBadRequest},
		{name: "title too long", err: domain.ErrTaskTitleTooLong, want: http.StatusBadRequest},
		{name: "invalid status", err: domain.ErrInvalidTaskStatus, want: http.StatusBadRequest},
		{name: "unknown error", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	})

	t.Run("auth errors collapse to one message", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, GetSafeErrorMessage(auth.ErrInvalidToken), GetSafeErrorMessage(auth.ErrExpiredToken))
	})

	t.Run("internal detail never leaks", func(t *testing.T) {
		t.Parallel()
		err := errors.New("pq: connection refused host=10.0.0.5")
		msg := GetSafeErrorMessage(err)
		assert.Equal(t, "An unexpected error occurred", msg)
	})

	t.Run("validation detail echoed", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, domain.ErrTaskTitleEmpty.Error(), GetSafeErrorMessage(domain.ErrTaskTitleEmpty))
	})

	t.Run("task not found", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "Task not found", GetSafeErrorMessage(fmt.Errorf("lookup: %w", store.ErrTaskNotFound)))
	})
}
