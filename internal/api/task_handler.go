package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskdeck/internal/api/shared"
	"github.com/phrazzld/taskdeck/internal/domain"
	"github.com/phrazzld/taskdeck/internal/platform/logger"
	"github.com/phrazzld/taskdeck/internal/store"
)

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskStore store.TaskStore, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_handler")),
	}
}

// getUserIDFromContext extracts the authenticated user's UUID from the
// request context, where the authentication middleware placed it.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// requireUserID extracts the authenticated user ID or writes a 401.
func (h *TaskHandler) requireUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		log := logger.FromContextOrDefault(r.Context(), h.logger)
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid or missing credentials")
		return uuid.Nil, false
	}
	return userID, true
}

// getPathTaskID parses the {id} path parameter as a UUID.
func getPathTaskID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidID
	}
	return id, nil
}

// ListTasks handles GET /tasks requests.
// It returns one page of the caller's tasks ordered newest-first, with a
// continuation cursor when more rows remain. The cursor is opaque to the
// client: both cursor_at and cursor_id must be replayed verbatim, and a
// partial cursor restarts the scan from the head.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	limit := parseLimit(q.Get("limit"))

	cursor, err := parseCursor(q)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
		return
	}

	page, err := h.taskStore.ListPage(r.Context(), userID, limit, cursor)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	log.Debug("listed tasks",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(page.Tasks)))
	shared.RespondWithJSON(w, r, http.StatusOK, pageToResponse(page))
}

// CreateTask handles POST /tasks requests.
// New tasks start in the pending status with a server-assigned ID and
// timestamp; the full persisted row is returned.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	task, err := domain.NewTask(userID, req.Title)
	if err != nil {
		shared.RespondWithError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("created task",
		slog.String("user_id", userID.String()),
		slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// UpdateTask handles PATCH /tasks/{id} requests.
// The body may carry any subset of {title, status}, but at least one field.
// All validation happens before the store is consulted, so an invalid status
// fails the same way whether or not the task exists. A task owned by another
// user yields the same 404 as a missing one.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	id, err := getPathTaskID(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task id")
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	var patch store.TaskPatch

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if err := domain.ValidateTitle(title); err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(err))
			return
		}
		patch.Title = &title
	}

	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		if !status.IsValid() {
			shared.RespondWithError(w, r, http.StatusBadRequest, GetSafeErrorMessage(domain.ErrInvalidTaskStatus))
			return
		}
		patch.Status = &status
	}

	if patch.IsEmpty() {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Nothing to update")
		return
	}

	task, err := h.taskStore.Update(r.Context(), userID, id, patch)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("updated task",
		slog.String("user_id", userID.String()),
		slog.String("task_id", task.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /tasks/{id} requests.
// The delete is hard; a successful delete returns 204 with no body.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := h.requireUserID(w, r)
	if !ok {
		return
	}

	id, err := getPathTaskID(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task id")
		return
	}

	if err := h.taskStore.Delete(r.Context(), userID, id); err != nil {
		statusCode := MapErrorToStatusCode(err)
		shared.RespondWithErrorAndLog(w, r, statusCode, GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("deleted task",
		slog.String("user_id", userID.String()),
		slog.String("task_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}
