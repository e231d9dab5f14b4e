package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskdeck/internal/domain"
)

func TestHTTPClientAuthFlow(t *testing.T) {
	t.Parallel()

	var sawAuthHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "person@example.com", body["email"])
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"user_id": "11111111-1111-1111-1111-111111111111",
				"token":   "issued-token",
			})
		case "/api/tasks":
			sawAuthHeader = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusOK)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"tasks": []any{},
				"page":  map[string]any{"limit": 20, "next_cursor_at": nil, "next_cursor_id": nil},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	kv := NewMemoryKeyValueStore()
	c := NewHTTPClient(server.URL, nil, kv)

	require.NoError(t, c.Login(context.Background(), "person@example.com", "Sup3r-secret"))

	token, ok := kv.Get(SessionTokenKey)
	require.True(t, ok)
	assert.Equal(t, "issued-token", token)

	page, err := c.List(context.Background(), 20, nil)
	require.NoError(t, err)
	assert.Empty(t, page.Tasks)
	assert.Nil(t, page.NextCursor)
	assert.Equal(t, "Bearer issued-token", sawAuthHeader)

	c.Logout()
	_, ok = kv.Get(SessionTokenKey)
	assert.False(t, ok)
}

func TestHTTPClientCursorForwarding(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "7", q.Get("limit"))
		assert.Equal(t, "2025-06-01T12:00:00.000000Z", q.Get("cursor_at"))
		assert.Equal(t, "abc-123", q.Get("cursor_id"))

		at := "2025-06-02T09:30:00.000000Z"
		id := "def-456"
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tasks": []map[string]any{
				{"id": "t1", "title": "From server", "status": "in_progress", "created_at": "2025-06-02T09:30:00Z"},
			},
			"page": map[string]any{"limit": 7, "next_cursor_at": at, "next_cursor_id": id},
		})
	}))
	defer server.Close()

	c := NewHTTPClient(server.URL, nil, NewMemoryKeyValueStore())

	page, err := c.List(context.Background(), 7, &Cursor{At: "2025-06-01T12:00:00.000000Z", ID: "abc-123"})
	require.NoError(t, err)

	require.Len(t, page.Tasks, 1)
	assert.Equal(t, "t1", page.Tasks[0].ID)
	assert.Equal(t, domain.TaskStatusInProgress, page.Tasks[0].Status)

	require.NotNil(t, page.NextCursor)
	assert.Equal(t, "2025-06-02T09:30:00.000000Z", page.NextCursor.At)
	assert.Equal(t, "def-456", page.NextCursor.ID)
}

func TestHTTPClientErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		want   error
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, want: ErrUnauthorized},
		{name: "not found", status: http.StatusNotFound, want: ErrNotFound},
		{name: "conflict", status: http.StatusConflict, want: ErrConflict},
		{name: "bad request", status: http.StatusBadRequest, want: ErrValidation},
		{name: "unprocessable", status: http.StatusUnprocessableEntity, want: ErrValidation},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "nope"})
			}))
			defer server.Close()

			c := NewHTTPClient(server.URL, nil, NewMemoryKeyValueStore())
			err := c.Delete(context.Background(), "some-id")
			assert.ErrorIs(t, err, tc.want)
			assert.Contains(t, err.Error(), "nope", "server message kept for display")
		})
	}
}
