package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskdeck/internal/domain"
	"github.com/phrazzld/taskdeck/internal/platform/logger"
	"github.com/phrazzld/taskdeck/internal/store"
)

// PostgreSQL error codes
const pgForeignKeyViolationCode = "23503"

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// ListPage implements store.TaskStore.ListPage
// It enumerates the user's tasks ordered by (created_at DESC, id DESC) and
// resumes after the cursor using a strict composite keyset comparison. The
// row comparison is a single tuple inequality, not two independent ones, so
// created_at collisions at a page boundary neither skip nor repeat rows.
func (s *PostgresTaskStore) ListPage(
	ctx context.Context,
	userID uuid.UUID,
	limit int,
	cursor *store.TaskCursor,
) (*store.TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	limit = store.ClampLimit(limit)

	query := `
		SELECT id, user_id, title, status, created_at
		FROM tasks
		WHERE user_id = $1
	`
	args := []any{userID}

	if cursor != nil {
		query += ` AND (created_at, id) < ($2, $3)`
		args = append(args, cursor.CreatedAt, cursor.ID)
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d", len(args)+1)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query task page",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var tasks []*domain.Task
	for rows.Next() {
		var task domain.Task
		var status string

		err := rows.Scan(&task.ID, &task.UserID, &task.Title, &status, &task.CreatedAt)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}

		task.Status = domain.TaskStatus(status)
		tasks = append(tasks, &task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}

	page := &store.TaskPage{
		Tasks: tasks,
		Limit: limit,
	}

	// A short page means the stream is exhausted; only a full page carries a
	// continuation cursor.
	if len(tasks) == limit {
		last := tasks[len(tasks)-1]
		page.NextCursor = &store.TaskCursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		}
	}

	log.Debug("listed task page",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(tasks)),
		slog.Bool("has_next", page.NextCursor != nil))
	return page, nil
}

// Create implements store.TaskStore.Create
// It saves a new task to the database, handling domain validation.
// Returns store.ErrInvalidEntity if the owning user doesn't exist (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, user_id, title, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.UserID,
		task.Title,
		task.Status,
		task.CreatedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolationCode {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()),
				slog.String("user_id", task.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, task.UserID)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("user_id", task.UserID.String()))
		return err
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("user_id", task.UserID.String()))
	return nil
}

// Update implements store.TaskStore.Update
// It applies a partial update to the task scoped by (userID, id) and returns
// the updated row. Returns store.ErrTaskNotFound when no row matches; a task
// owned by another user is indistinguishable from one that does not exist.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	userID, id uuid.UUID,
	patch store.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch.IsEmpty() {
		// Callers validate patches before reaching the store; an empty patch
		// here is a programming error, not a user error.
		return nil, fmt.Errorf("%w: empty task patch", store.ErrInvalidEntity)
	}

	var sets []string
	var args []any
	i := 1

	if patch.Title != nil {
		if err := domain.ValidateTitle(*patch.Title); err != nil {
			log.Warn("task validation failed during update",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
			return nil, err
		}
		sets = append(sets, fmt.Sprintf("title = $%d", i))
		args = append(args, *patch.Title)
		i++
	}

	if patch.Status != nil {
		if !patch.Status.IsValid() {
			log.Warn("task validation failed during update",
				slog.String("error", domain.ErrInvalidTaskStatus.Error()),
				slog.String("task_id", id.String()))
			return nil, domain.ErrInvalidTaskStatus
		}
		sets = append(sets, fmt.Sprintf("status = $%d", i))
		args = append(args, *patch.Status)
		i++
	}

	query := fmt.Sprintf(`
		UPDATE tasks
		SET %s
		WHERE user_id = $%d AND id = $%d
		RETURNING id, user_id, title, status, created_at
	`, strings.Join(sets, ", "), i, i+1)
	args = append(args, userID, id)

	var task domain.Task
	var status string

	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&status,
		&task.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	task.Status = domain.TaskStatus(status)

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(task.Status)))
	return &task, nil
}

// Delete implements store.TaskStore.Delete
// It removes the task scoped by (userID, id). Returns store.ErrTaskNotFound
// when no row matches, with the same ownership-indistinguishability rule as
// Update.
func (s *PostgresTaskStore) Delete(ctx context.Context, userID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM tasks
		WHERE user_id = $1 AND id = $2
	`

	result, err := s.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("task not found for delete", slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted successfully", slog.String("task_id", id.String()))
	return nil
}
