package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task-specific validation errors
var (
	// ErrTaskIDEmpty is returned when a task ID is empty or nil.
	ErrTaskIDEmpty = errors.New("task ID cannot be empty")

	// ErrTaskUserIDEmpty is returned when a task's user ID is empty or nil.
	ErrTaskUserIDEmpty = errors.New("task user ID cannot be empty")

	// ErrTaskTitleEmpty is returned when a task's title is empty after trimming.
	ErrTaskTitleEmpty = errors.New("task title cannot be empty")

	// ErrTaskTitleTooLong is returned when a task's title exceeds MaxTitleLength.
	ErrTaskTitleTooLong = errors.New("task title cannot exceed 200 characters")

	// ErrInvalidTaskStatus is returned when a task's status is not a known value.
	ErrInvalidTaskStatus = errors.New("invalid task status")
)

// MaxTitleLength is the maximum number of characters allowed in a task title
// after trimming surrounding whitespace.
const MaxTitleLength = 200

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Valid task statuses.
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// IsValid reports whether the status is one of the known values.
func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

// Task represents a single to-do item owned by exactly one user.
// The (CreatedAt, ID) pair is totally ordered and unique, and serves
// as the sort and cursor key for paginated listings.
type Task struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"-"` // Never exposed cross-owner in API payloads
	Title     string     `json:"title"`
	Status    TaskStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewTask creates a new Task owned by the given user with the given title.
// It generates a new UUID for the task ID, sets the creation timestamp, and
// starts the task in the pending status. The title is trimmed before
// validation. Returns an error if validation fails.
func NewTask(userID uuid.UUID, title string) (*Task, error) {
	task := &Task{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		Status:    TaskStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}

	if t.UserID == uuid.Nil {
		return ErrTaskUserIDEmpty
	}

	if err := ValidateTitle(t.Title); err != nil {
		return err
	}

	if !t.Status.IsValid() {
		return ErrInvalidTaskStatus
	}

	return nil
}

// ValidateTitle checks a trimmed task title against the length constraints.
// The caller is expected to have trimmed the title already; the persistence
// layer does not re-trim.
func ValidateTitle(title string) error {
	if len(title) == 0 {
		return ErrTaskTitleEmpty
	}
	if len([]rune(title)) > MaxTitleLength {
		return ErrTaskTitleTooLong
	}
	return nil
}
