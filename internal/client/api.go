// Package client implements the task client: a thin HTTP API wrapper and an
// optimistic mutation controller that keeps a locally displayed task list
// responsive while converging to server truth.
package client

import (
	"context"
	"errors"
	"time"

	"github.com/phrazzld/taskdeck/internal/domain"
)

// Client-visible API errors.
var (
	// ErrUnauthorized is returned when the session token is missing,
	// malformed, or expired. The server does not say which.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound is returned when the targeted task does not exist or
	// belongs to another account; the server reports both identically.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when registration collides with an existing
	// email address.
	ErrConflict = errors.New("conflict")

	// ErrValidation is returned when the server rejects the request payload.
	ErrValidation = errors.New("validation failed")

	// ErrSpeculativeTask is returned when a mutation targets a placeholder
	// row whose creation has not been confirmed yet. Placeholders are never
	// sent to the server.
	ErrSpeculativeTask = errors.New("task creation still pending")
)

// Task is the client's view of a task row. ID is a string rather than a
// UUID because speculative rows carry a locally generated placeholder
// identifier in a namespace disjoint from server-assigned IDs.
type Task struct {
	ID          string
	Title       string
	Status      domain.TaskStatus
	CreatedAt   time.Time
	Speculative bool
}

// Cursor is the opaque continuation position for a task listing. The client
// stores and replays both fields verbatim; it never computes or mutates
// them.
type Cursor struct {
	At string
	ID string
}

// Page is one page of tasks with an optional continuation cursor.
// A nil NextCursor signals end-of-stream.
type Page struct {
	Tasks      []Task
	NextCursor *Cursor
}

// TaskPatch describes a partial update. Nil fields are left untouched.
type TaskPatch struct {
	Title  *string
	Status *domain.TaskStatus
}

// TaskAPI is the transport interface the controller mutates through.
// Implementations must map server not-found and unauthorized outcomes to
// the package sentinel errors.
type TaskAPI interface {
	// List fetches one page of tasks, resuming after cursor when non-nil.
	List(ctx context.Context, limit int, cursor *Cursor) (*Page, error)

	// Create persists a new task and returns the server-assigned row.
	Create(ctx context.Context, title string) (Task, error)

	// Update applies a partial update and returns the authoritative row.
	Update(ctx context.Context, id string, patch TaskPatch) (Task, error)

	// Delete permanently removes a task.
	Delete(ctx context.Context, id string) error
}
