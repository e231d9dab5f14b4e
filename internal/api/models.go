package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdeck/internal/domain"
	"github.com/phrazzld/taskdeck/internal/store"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// Token is the JWT access token used for API authorization
	Token string `json:"token"`
}

// CreateTaskRequest defines the payload for the task creation endpoint.
// Title length limits apply to the trimmed title and are enforced by the
// domain layer; the validate tag only rejects the clearly absent case early.
type CreateTaskRequest struct {
	Title string `json:"title" validate:"required"`
}

// UpdateTaskRequest defines the payload for the task update endpoint.
// Any subset of the fields may be present, but at least one must be.
type UpdateTaskRequest struct {
	Title  *string `json:"title,omitempty"`
	Status *string `json:"status,omitempty"`
}

// TaskResponse represents a single task row in API payloads.
// CreatedAt serializes as an ISO-8601 (RFC 3339) timestamp string.
type TaskResponse struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// PageInfo carries the continuation cursor for a task listing. Both cursor
// fields are null at stream end; a client must supply both or neither when
// resuming.
type PageInfo struct {
	Limit        int        `json:"limit"`
	NextCursorAt *time.Time `json:"next_cursor_at"`
	NextCursorID *uuid.UUID `json:"next_cursor_id"`
}

// ListTasksResponse defines the response for the task listing endpoint.
type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Page  PageInfo       `json:"page"`
}

// taskToResponse converts a domain task to its API representation.
func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:        t.ID,
		Title:     t.Title,
		Status:    string(t.Status),
		CreatedAt: t.CreatedAt,
	}
}

// pageToResponse converts a store page to its API representation.
func pageToResponse(page *store.TaskPage) ListTasksResponse {
	tasks := make([]TaskResponse, len(page.Tasks))
	for i, t := range page.Tasks {
		tasks[i] = taskToResponse(t)
	}

	info := PageInfo{Limit: page.Limit}
	if page.NextCursor != nil {
		at := page.NextCursor.CreatedAt
		id := page.NextCursor.ID
		info.NextCursorAt = &at
		info.NextCursorID = &id
	}

	return ListTasksResponse{Tasks: tasks, Page: info}
}
