// Package memory provides in-memory store implementations with the same
// ordering and cursor semantics as the Postgres backend. It backs tests and
// the database-free development mode.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/taskdeck/internal/domain"
	"github.com/phrazzld/taskdeck/internal/store"
)

// MemoryTaskStore implements store.TaskStore over a mutex-guarded map.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]*domain.Task
}

// NewMemoryTaskStore creates an empty in-memory task store.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks: make(map[uuid.UUID]*domain.Task),
	}
}

// Ensure MemoryTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*MemoryTaskStore)(nil)

// keyLess orders task keys descending: newest (created_at, id) first.
// UUID tie-break compares by byte order, matching Postgres.
func keyLess(a, b *domain.Task) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) > 0
}

// ListPage implements store.TaskStore.ListPage with the same strict keyset
// comparison as the SQL backend: only rows strictly below the cursor's
// (created_at, id) key under the descending composite order are returned.
func (s *MemoryTaskStore) ListPage(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
	cursor *store.TaskCursor,
) (*store.TaskPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit = store.ClampLimit(limit)

	var owned []*domain.Task
	for _, t := range s.tasks {
		if t.UserID != userID {
			continue
		}
		if cursor != nil && !cursor.After(t.CreatedAt, t.ID) {
			continue
		}
		owned = append(owned, t)
	}

	sort.Slice(owned, func(i, j int) bool { return keyLess(owned[i], owned[j]) })

	if len(owned) > limit {
		owned = owned[:limit]
	}

	tasks := make([]*domain.Task, len(owned))
	for i, t := range owned {
		copied := *t
		tasks[i] = &copied
	}

	page := &store.TaskPage{
		Tasks: tasks,
		Limit: limit,
	}

	if len(tasks) == limit {
		last := tasks[len(tasks)-1]
		page.NextCursor = &store.TaskCursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		}
	}

	return page, nil
}

// Create implements store.TaskStore.Create
func (s *MemoryTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[task.ID]; exists {
		return fmt.Errorf("%w: task ID %s", store.ErrDuplicate, task.ID)
	}

	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

// Update implements store.TaskStore.Update
func (s *MemoryTaskStore) Update(
	ctx context.Context,
	userID, id uuid.UUID,
	patch store.TaskPatch,
) (*domain.Task, error) {
	if patch.IsEmpty() {
		return nil, fmt.Errorf("%w: empty task patch", store.ErrInvalidEntity)
	}

	if patch.Title != nil {
		if err := domain.ValidateTitle(*patch.Title); err != nil {
			return nil, err
		}
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		return nil, domain.ErrInvalidTaskStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.UserID != userID {
		// Foreign ownership reports exactly like absence.
		return nil, store.ErrTaskNotFound
	}

	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}

	copied := *task
	return &copied, nil
}

// Delete implements store.TaskStore.Delete
func (s *MemoryTaskStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.UserID != userID {
		return store.ErrTaskNotFound
	}

	delete(s.tasks, id)
	return nil
}
