package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/servankarakurt/gorev-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// All lookups are scoped to an owner: a task that exists but belongs
// to another user behaves exactly like a missing task.
type TaskStore interface {
	// Create saves a new task and assigns its store-generated ID.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its ID, scoped to the owning user.
	// Returns ErrTaskNotFound if no such task exists for that owner.
	GetByID(ctx context.Context, id int64, userID uuid.UUID) (*domain.Task, error)

	// Update saves changes to an existing task, scoped to the owning user.
	// Returns ErrTaskNotFound if no such task exists for that owner.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task, scoped to the owning user.
	// Returns ErrTaskNotFound if no such task exists for that owner.
	Delete(ctx context.Context, id int64, userID uuid.UUID) error

	// ListByUser retrieves all tasks for a user, newest first.
	// Returns an empty slice if the user has no tasks.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// CountByStatus counts the user's tasks in the given status.
	CountByStatus(ctx context.Context, userID uuid.UUID, status domain.TaskStatus) (int, error)
}
