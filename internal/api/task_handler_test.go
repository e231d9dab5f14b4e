package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/taskdeck/internal/api/shared"
	"github.com/phrazzld/taskdeck/internal/domain"
	"github.com/phrazzld/taskdeck/internal/store"
)

// fakeTaskStore is a scriptable store.TaskStore that records the arguments
// of the last call.
type fakeTaskStore struct {
	page    *store.TaskPage
	listErr error

	createErr error

	updated   *domain.Task
	updateErr error

	deleteErr error

	lastUserID uuid.UUID
	lastTaskID uuid.UUID
	lastLimit  int
	lastCursor *store.TaskCursor
	lastPatch  store.TaskPatch
	created    *domain.Task
	calls      int
}

func (f *fakeTaskStore) ListPage(
	_ context.Context,
	userID uuid.UUID,
	limit int,
	cursor *store.TaskCursor,
) (*store.TaskPage, error) {
	f.calls++
	f.lastUserID = userID
	f.lastLimit = limit
	f.lastCursor = cursor
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.page != nil {
		return f.page, nil
	}
	return &store.TaskPage{Limit: limit}, nil
}

func (f *fakeTaskStore) Create(_ context.Context, task *domain.Task) error {
	f.calls++
	f.created = task
	return f.createErr
}

func (f *fakeTaskStore) Update(
	_ context.Context,
	userID, id uuid.UUID,
	patch store.TaskPatch,
) (*domain.Task, error) {
	f.calls++
	f.lastUserID = userID
	f.lastTaskID = id
	f.lastPatch = patch
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updated, nil
}

func (f *fakeTaskStore) Delete(_ context.Context, userID, id uuid.UUID) error {
	f.calls++
	f.lastUserID = userID
	f.lastTaskID = id
	return f.deleteErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// authedRequest builds a request carrying the authenticated user's ID and
// an optional {id} path parameter, as the middleware and router would.
func authedRequest(t *testing.T, method, target string, body any, userID uuid.UUID, pathID string) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, target, reader)
	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)

	if pathID != "" {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("id", pathID)
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	return req.WithContext(ctx)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	return payload.Error
}

func ownedTask(userID uuid.UUID, title string, at time.Time) *domain.Task {
	return &domain.Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		Status:    domain.TaskStatusPending,
		CreatedAt: at,
	}
}

func TestListTasks(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("returns page with cursor", func(t *testing.T) {
		t.Parallel()

		next := &store.TaskCursor{CreatedAt: now, ID: uuid.New()}
		fake := &fakeTaskStore{page: &store.TaskPage{
			Tasks:      []*domain.Task{ownedTask(userID, "First", now)},
			Limit:      20,
			NextCursor: next,
		}}
		handler := NewTaskHandler(fake, testLogger())

		rec := httptest.NewRecorder()
		handler.ListTasks(rec, authedRequest(t, http.MethodGet, "/api/tasks", nil, userID, ""))

		require.Equal(t, http.StatusOK, rec.Code)

		var resp ListTasksResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		require.Len(t, resp.Tasks, 1)
		assert.Equal(t, "First", resp.Tasks[0].Title)
		require.NotNil(t, resp.Page.NextCursorAt)
		require.NotNil(t, resp.Page.NextCursorID)
		assert.Equal(t, next.ID, *resp.Page.NextCursorID)
	})

	t.Run("passes limit and cursor to the store", func(t *testing.T) {
		t.Parallel()

		fake := &fakeTaskStore{}
		handler := NewTaskHandler(fake, testLogger())

		cursorID := uuid.New()
		target := "/api/tasks?limit=5&cursor_at=2025-06-01T12:00:00Z&cursor_id=" + cursorID.String()
		rec := httptest.NewRecorder()
		handler.ListTasks(rec, authedRequest(t, http.MethodGet, target, nil, userID, ""))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, fake.lastUserID)
		assert.Equal(t, 5, fake.lastLimit)
		require.NotNil(t, fake.lastCursor)
		assert.Equal(t, cursorID, fake.lastCursor.ID)
	})

	t.Run("malformed cursor is a 400 and never reaches the store", func(t *testing.T) {
		t.Parallel()

		fake := &fakeTaskStore{}
		handler := NewTaskHandler(fake, testLogger())

		target := "/api/tasks?cursor_at=garbage&cursor_id=" + uuid.New().String()
		rec := httptest.NewRecorder()
		handler.ListTasks(rec, authedRequest(t, http.MethodGet, target, nil, userID, ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, fake.calls)
	})

	t.Run("missing user context is a 401", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(&fakeTaskStore{}, testLogger())
		rec := httptest.NewRecorder()
		handler.ListTasks(rec, httptest.NewRequest(http.MethodGet, "/api/tasks", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestCreateTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("creates and returns the persisted row", func(t *testing.T) {
		t.Parallel()

		fake := &fakeTaskStore{}
		handler := NewTaskHandler(fake, testLogger())

		rec := httptest.NewRecorder()
		body := CreateTaskRequest{Title: "  Ship the release  "}
		handler.CreateTask(rec, authedRequest(t, http.MethodPost, "/api/tasks", body, userID, ""))

		require.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, fake.created)
		assert.Equal(t, userID, fake.created.UserID)
		assert.Equal(t, "Ship the release", fake.created.Title)
		assert.Equal(t, domain.TaskStatusPending, fake.created.Status)

		var resp TaskResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, fake.created.ID, resp.ID)
		assert.Equal(t, "Ship the release", resp.Title)
	})

	t.Run("empty title is a 400", func(t *testing.T) {
		t.Parallel()

		fake := &fakeTaskStore{}
		handler := NewTaskHandler(fake, testLogger())

		rec := httptest.NewRecorder()
		body := CreateTaskRequest{Title: "   "}
		handler.CreateTask(rec, authedRequest(t, http.MethodPost, "/api/tasks", body, userID, ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, fake.calls, "validation failures never reach the store")
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(&fakeTaskStore{}, testLogger())
		req := authedRequest(t, http.MethodPost, "/api/tasks", nil, userID, "")
		req.Body = io.NopCloser(bytes.NewReader([]byte("{not json")))

		rec := httptest.NewRecorder()
		handler.CreateTask(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	strPtr := func(s string) *string { return &s }

	t.Run("applies patch and returns updated row", func(t *testing.T) {
		t.Parallel()

		updated := ownedTask(userID, "New title", now)
		updated.ID = taskID
		updated.Status = domain.TaskStatusCompleted

		fake := &fakeTaskStore{updated: updated}
		handler := NewTaskHandler(fake, testLogger())

		body := UpdateTaskRequest{Title: strPtr("  New title  "), Status: strPtr("completed")}
		rec := httptest.NewRecorder()
		handler.UpdateTask(rec, authedRequest(t, http.MethodPatch, "/api/tasks/"+taskID.String(), body, userID, taskID.String()))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, taskID, fake.lastTaskID)
		require.NotNil(t, fake.lastPatch.Title)
		assert.Equal(t, "New title", *fake.lastPatch.Title, "title trimmed before the store sees it")
		require.NotNil(t, fake.lastPatch.Status)
		assert.Equal(t, domain.TaskStatusCompleted, *fake.lastPatch.Status)
	})

	t.Run("invalid status fails before the store is consulted", func(t *testing.T) {
		t.Parallel()

		fake := &fakeTaskStore{}
		handler := NewTaskHandler(fake, testLogger())

		body := UpdateTaskRequest{Status: strPtr("archived")}
		rec := httptest.NewRecorder()
		handler.UpdateTask(rec, authedRequest(t, http.MethodPatch, "/api/tasks/"+taskID.String(), body, userID, taskID.String()))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Zero(t, fake.calls, "an invalid status fails identically whether or not the row exists")
	})

	t.Run("empty patch is a 400", func(t *testing.T) {
		t.Parallel()

		fake := &fakeTaskStore{}
		handler := NewTaskHandler(fake, testLogger())

		rec := httptest.NewRecorder()
		handler.UpdateTask(rec, authedRequest(t, http.MethodPatch, "/api/tasks/"+taskID.String(), UpdateTaskRequest{}, userID, taskID.String()))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Nothing to update", decodeError(t, rec))
		assert.Zero(t, fake.calls)
	})

	t.Run("missing row is a 404", func(t *testing.T) {
		t.Parallel()

		fake := &fakeTaskStore{updateErr: store.ErrTaskNotFound}
		handler := NewTaskHandler(fake, testLogger())

		body := UpdateTaskRequest{Title: strPtr("Anything")}
		rec := httptest.NewRecorder()
		handler.UpdateTask(rec, authedRequest(t, http.MethodPatch, "/api/tasks/"+taskID.String(), body, userID, taskID.String()))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Task not found", decodeError(t, rec))
	})

	t.Run("non-uuid path id is a 400", func(t *testing.T) {
		t.Parallel()

		handler := NewTaskHandler(&fakeTaskStore{}, testLogger())
		body := UpdateTaskRequest{Title: strPtr("Anything")}
		rec := httptest.NewRecorder()
		handler.UpdateTask(rec, authedRequest(t, http.MethodPatch, "/api/tasks/42", body, userID, "42"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteTask(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()

	t.Run("successful delete is a 204 with no body", func(t *testing.T) {
		t.Parallel()

		fake := &fakeTaskStore{}
		handler := NewTaskHandler(fake, testLogger())

		rec := httptest.NewRecorder()
		handler.DeleteTask(rec, authedRequest(t, http.MethodDelete, "/api/tasks/"+taskID.String(), nil, userID, taskID.String()))

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
		assert.Equal(t, userID, fake.lastUserID)
		assert.Equal(t, taskID, fake.lastTaskID)
	})

	t.Run("missing or foreign-owned row is the same 404", func(t *testing.T) {
		t.Parallel()

		fake := &fakeTaskStore{deleteErr: store.ErrTaskNotFound}
		handler := NewTaskHandler(fake, testLogger())

		rec := httptest.NewRecorder()
		handler.DeleteTask(rec, authedRequest(t, http.MethodDelete, "/api/tasks/"+taskID.String(), nil, userID, taskID.String()))

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Task not found", decodeError(t, rec))
	})
}
