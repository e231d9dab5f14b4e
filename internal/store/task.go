package store

import (
	"bytes"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdeck/internal/domain"
)

// Pagination bounds for task listings. The values mirror the HTTP defaults:
// a missing or non-numeric limit becomes DefaultPageLimit, anything else is
// clamped into [MinPageLimit, MaxPageLimit].
const (
	DefaultPageLimit = 20
	MinPageLimit     = 1
	MaxPageLimit     = 100
)

// ClampLimit normalizes a requested page size. Non-positive values fall back
// to the default; values above the maximum are capped.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

// TaskCursor marks a resume position in a user's task stream: the
// (created_at, id) key of the last row the previous page consumed.
// Continuation pages select only rows strictly below this key under the
// composite (created_at DESC, id DESC) order, so a page boundary falling
// inside a created_at collision neither skips nor repeats rows.
type TaskCursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// After reports whether a row with the given (createdAt, id) key sorts
// strictly after the cursor in the descending enumeration, i.e. whether the
// row belongs to a continuation page fetched with cursor c. UUIDs compare by
// byte order, matching Postgres's composite row comparison.
func (c TaskCursor) After(createdAt time.Time, id uuid.UUID) bool {
	if createdAt.Before(c.CreatedAt) {
		return true
	}
	if createdAt.Equal(c.CreatedAt) {
		return bytes.Compare(id[:], c.ID[:]) < 0
	}
	return false
}

// TaskPage is one page of a paginated task listing. NextCursor is nil when
// the stream is exhausted; it is set only when the page is full, so a short
// page always terminates the scan.
type TaskPage struct {
	Tasks      []*domain.Task
	Limit      int
	NextCursor *TaskCursor
}

// TaskPatch describes a partial update to a task. Nil fields are left
// untouched. An entirely empty patch is a caller-side validation error and
// never reaches a store.
type TaskPatch struct {
	Title  *string
	Status *domain.TaskStatus
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Status == nil
}

// TaskStore defines the interface for task data persistence.
// Every operation is scoped to an owning user; no implementation may return
// or mutate another user's tasks, and a row owned by someone else is
// reported exactly like a row that does not exist.
type TaskStore interface {
	// ListPage returns at most limit tasks owned by userID, ordered by
	// (created_at DESC, id DESC). A non-nil cursor resumes the scan strictly
	// after the cursor's key. The limit is clamped with ClampLimit.
	// For a fixed snapshot, repeated paging with the returned cursors visits
	// every row exactly once regardless of the page sizes chosen.
	ListPage(ctx context.Context, userID uuid.UUID, limit int, cursor *TaskCursor) (*TaskPage, error)

	// Create saves a new task to the store. The task must already carry its
	// server-assigned ID, owner, trimmed title, status, and timestamp
	// (see domain.NewTask).
	Create(ctx context.Context, task *domain.Task) error

	// Update applies the patch to the task identified by (userID, id) and
	// returns the updated row. Returns ErrTaskNotFound if no such row exists
	// for this user.
	Update(ctx context.Context, userID, id uuid.UUID, patch TaskPatch) (*domain.Task, error)

	// Delete removes the task identified by (userID, id). The delete is hard;
	// there is no tombstone. Returns ErrTaskNotFound if no such row exists
	// for this user.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
