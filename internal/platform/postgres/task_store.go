package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/servankarakurt/gorev-api/internal/domain"
	"github.com/servankarakurt/gorev-api/internal/platform/logger"
	"github.com/servankarakurt/gorev-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed
// by the caller. If logger is nil, the slog default is used.
func NewPostgresTaskStore(db store.DBTX, log *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: log.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
// It validates the task, inserts it, and assigns the store-generated ID.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (user_id, title, description, due_date, status, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		task.UserID,
		task.Title,
		task.Description,
		task.DueDate,
		task.Status,
		task.CreatedAt,
		task.CompletedAt,
	).Scan(&task.ID)
	if err != nil {
		log.Error("failed to create task",
			"user_id", task.UserID,
			"error", err)
		return MapError(err)
	}

	log.Debug("task created",
		"task_id", task.ID,
		"user_id", task.UserID)
	return nil
}

// GetByID implements store.TaskStore.GetByID
// It retrieves a task by ID scoped to the owning user.
// Returns store.ErrTaskNotFound if no such task exists for that owner.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT id, user_id, title, description, due_date, status, created_at, completed_at
		FROM tasks
		WHERE id = $1 AND user_id = $2
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}

	return task, nil
}

// Update implements store.TaskStore.Update
// It saves changes to an existing task scoped to the owning user.
// Returns store.ErrTaskNotFound if no such task exists for that owner.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, due_date = $3, status = $4, completed_at = $5
		WHERE id = $6 AND user_id = $7
	`

	result, err := s.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		task.DueDate,
		task.Status,
		task.CompletedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		log.Error("failed to update task",
			"task_id", task.ID,
			"user_id", task.UserID,
			"error", err)
		return mutationError("task", "update", store.ErrUpdateFailed, err)
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Delete implements store.TaskStore.Delete
// It removes a task scoped to the owning user.
// Returns store.ErrTaskNotFound if no such task exists for that owner.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM tasks WHERE id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		log.Error("failed to delete task",
			"task_id", id,
			"user_id", userID,
			"error", err)
		return mutationError("task", "delete", store.ErrDeleteFailed, err)
	}

	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// ListByUser implements store.TaskStore.ListByUser
// It retrieves all tasks for a user, newest first.
func (s *PostgresTaskStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	query := `
		SELECT id, user_id, title, description, due_date, status, created_at, completed_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return tasks, nil
}

// CountByStatus implements store.TaskStore.CountByStatus
func (s *PostgresTaskStore) CountByStatus(ctx context.Context, userID uuid.UUID, status domain.TaskStatus) (int, error) {
	query := `SELECT COUNT(*) FROM tasks WHERE user_id = $1 AND status = $2`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID, status).Scan(&count); err != nil {
		return 0, MapError(err)
	}

	return count, nil
}

// rowScanner abstracts over *sql.Row and *sql.Rows for shared scan code.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&task.DueDate,
		&task.Status,
		&task.CreatedAt,
		&task.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}
