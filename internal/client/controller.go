package client

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/taskdeck/internal/domain"
)

// placeholderPrefix namespaces locally generated task IDs away from the
// server's UUIDs, so a placeholder can never collide with a persisted row.
const placeholderPrefix = "tmp-"

// Controller keeps a locally displayed task list in sync with the server
// while masking network latency. Every mutation runs a three-state machine:
// the speculative change is applied immediately (pending), then either
// replaced by the server's authoritative row (confirmed) or reverted to the
// pre-mutation snapshot (rolled back). No mutation is retried
// automatically; a failure always rolls back and waits for the user.
//
// Concurrent in-flight mutations are not serialized against each other: the
// later-resolving response wins at the reconciliation step. The mutex below
// protects the list itself, never a network call.
type Controller struct {
	api      TaskAPI
	notifier Notifier

	mu         sync.Mutex
	tasks      []Task
	nextCursor *Cursor
	loading    bool
	loaded     bool
	pageSize   int
	seq        int64 // placeholder ID counter, guarded by mu
}

// NewController creates a controller over the given transport. A nil
// notifier silently drops notices. pageSize <= 0 falls back to 20.
func NewController(api TaskAPI, notifier Notifier, pageSize int) *Controller {
	if api == nil {
		panic("api cannot be nil")
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Controller{
		api:      api,
		notifier: notifier,
		pageSize: pageSize,
	}
}

// Tasks returns a copy of the currently displayed list.
func (c *Controller) Tasks() []Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Refresh replaces the list with the first page of the server's stream.
// Suppressed while another load is in flight.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	c.mu.Unlock()

	page, err := c.api.List(ctx, c.pageSize, nil)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		return err
	}

	c.tasks = page.Tasks
	c.nextCursor = page.NextCursor
	c.loaded = true
	return nil
}

// LoadMore fetches the next page and appends it to the list. The request is
// suppressed - returning false with no error - when a load is already in
// flight or the stream is exhausted; nothing else guards against duplicate
// page fetches. The stored cursor is replayed verbatim.
func (c *Controller) LoadMore(ctx context.Context) (bool, error) {
	c.mu.Lock()
	if c.loading || !c.loaded || c.nextCursor == nil {
		c.mu.Unlock()
		return false, nil
	}
	cursor := *c.nextCursor
	c.loading = true
	c.mu.Unlock()

	page, err := c.api.List(ctx, c.pageSize, &cursor)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		return false, err
	}

	c.tasks = append(c.tasks, page.Tasks...)
	c.nextCursor = page.NextCursor
	return true, nil
}

// Create speculatively inserts a placeholder task at the head of the list,
// then asks the server to persist it. On success the placeholder is
// replaced, matched by its placeholder ID, with the server-returned row; on
// failure it is removed entirely. The placeholder itself is never sent to
// the server.
func (c *Controller) Create(ctx context.Context, title string) error {
	placeholder := Task{
		Title:       strings.TrimSpace(title),
		Status:      domain.TaskStatusPending,
		CreatedAt:   time.Now().UTC(),
		Speculative: true,
	}

	c.mu.Lock()
	c.seq++
	placeholder.ID = fmt.Sprintf("%s%d", placeholderPrefix, c.seq)
	c.tasks = append([]Task{placeholder}, c.tasks...)
	c.mu.Unlock()

	c.notifier.Notify(NoticeIssued, "Creating task")

	created, err := c.api.Create(ctx, title)
	if err != nil {
		c.removeByID(placeholder.ID)
		c.notifier.Notify(NoticeFailure, "Failed to create task")
		return err
	}

	c.replaceByID(placeholder.ID, created)
	c.notifier.Notify(NoticeSuccess, "Task created")
	return nil
}

// Update speculatively applies the patch to the local row, then sends it to
// the server. The full row is snapshotted first: a failure restores every
// field of the snapshot, not just the patched ones, so two rapid edits
// racing each other cannot leave a half-rolled-back row behind.
func (c *Controller) Update(ctx context.Context, id string, patch TaskPatch) error {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return ErrNotFound
	}
	if c.tasks[idx].Speculative {
		c.mu.Unlock()
		return ErrSpeculativeTask
	}

	snapshot := c.tasks[idx]
	if patch.Title != nil {
		c.tasks[idx].Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Status != nil {
		c.tasks[idx].Status = *patch.Status
	}
	c.mu.Unlock()

	c.notifier.Notify(NoticeIssued, "Updating task")

	updated, err := c.api.Update(ctx, id, patch)
	if err != nil {
		c.replaceByID(id, snapshot)
		c.notifier.Notify(NoticeFailure, "Failed to update task")
		return err
	}

	// Server row is authoritative, including fields the patch never touched.
	c.replaceByID(id, updated)
	c.notifier.Notify(NoticeSuccess, "Task updated")
	return nil
}

// Delete speculatively removes the row, then asks the server to delete it.
// The whole list is snapshotted first; a failure restores the full prior
// list, which is simpler and safer than re-inserting one row at the right
// sorted position.
func (c *Controller) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return ErrNotFound
	}
	if c.tasks[idx].Speculative {
		c.mu.Unlock()
		return ErrSpeculativeTask
	}

	snapshot := make([]Task, len(c.tasks))
	copy(snapshot, c.tasks)
	c.tasks = append(c.tasks[:idx:idx], c.tasks[idx+1:]...)
	c.mu.Unlock()

	c.notifier.Notify(NoticeIssued, "Deleting task")

	if err := c.api.Delete(ctx, id); err != nil {
		c.mu.Lock()
		c.tasks = snapshot
		c.mu.Unlock()
		c.notifier.Notify(NoticeFailure, "Failed to delete task")
		return err
	}

	c.notifier.Notify(NoticeSuccess, "Task deleted")
	return nil
}

// indexOf returns the position of the task with the given ID, or -1.
// Callers must hold c.mu.
func (c *Controller) indexOf(id string) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// removeByID drops the task with the given ID, if present.
func (c *Controller) removeByID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexOf(id); idx >= 0 {
		c.tasks = append(c.tasks[:idx:idx], c.tasks[idx+1:]...)
	}
}

// replaceByID swaps the task with the given ID for the replacement, if the
// row is still present. A row removed by a concurrently resolving mutation
// stays removed; last writer wins.
func (c *Controller) replaceByID(id string, replacement Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := c.indexOf(id); idx >= 0 {
		c.tasks[idx] = replacement
	}
}
