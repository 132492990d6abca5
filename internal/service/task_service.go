package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/servankarakurt/gorev-api/internal/domain"
	"github.com/servankarakurt/gorev-api/internal/platform/logger"
	"github.com/servankarakurt/gorev-api/internal/store"
)

// TaskServiceError is a custom error type for task service errors.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
func NewTaskServiceError(operation, message string, err error) *TaskServiceError {
	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// TaskNotifier receives transition signals after the triggering write has
// been persisted. Implementations must not block and must not surface
// failures back to the caller.
type TaskNotifier interface {
	DispatchTask(signal domain.TransitionSignal, task *domain.Task)
}

// CreateTaskInput carries the caller-supplied fields for a new task.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
}

// UpdateTaskInput carries the caller-supplied fields for a task update.
// Status changes ride along with field edits and go through the same
// transition guard as ChangeStatus.
type UpdateTaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	Status      domain.TaskStatus
}

// TaskCounts summarizes a user's tasks by workflow state.
type TaskCounts struct {
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// TaskService provides task-related operations. All operations are scoped
// to the owning user: a task owned by someone else is indistinguishable
// from a missing one.
type TaskService interface {
	// CreateTask creates a new pending task for the user.
	CreateTask(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error)

	// GetTask retrieves one of the user's tasks by ID.
	GetTask(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error)

	// ListTasks retrieves all of the user's tasks, newest first.
	ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// UpdateTask updates a task's fields and, if the status changed, runs
	// the transition guard. A completion detected here is dispatched the
	// same way ChangeStatus dispatches it.
	UpdateTask(ctx context.Context, userID uuid.UUID, id int64, input UpdateTaskInput) (*domain.Task, error)

	// ChangeStatus moves a task to the next workflow state. The change is
	// persisted first; only afterwards is any completion notification
	// enqueued, so the caller's result never depends on delivery.
	ChangeStatus(ctx context.Context, userID uuid.UUID, id int64, next domain.TaskStatus) (*domain.Task, error)

	// DeleteTask removes one of the user's tasks.
	DeleteTask(ctx context.Context, userID uuid.UUID, id int64) error

	// Counts returns the user's per-status task totals.
	Counts(ctx context.Context, userID uuid.UUID) (TaskCounts, error)
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks    store.TaskStore
	notifier TaskNotifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	notifier TaskNotifier,
	log *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, NewTaskServiceError("new", "task store cannot be nil", nil)
	}
	if notifier == nil {
		return nil, NewTaskServiceError("new", "notifier cannot be nil", nil)
	}

	if log == nil {
		log = slog.Default()
	}

	return &taskServiceImpl{
		tasks:    tasks,
		notifier: notifier,
		logger:   log.With(slog.String("component", "task_service")),
		now:      time.Now,
	}, nil
}

// CreateTask implements TaskService.CreateTask
func (s *taskServiceImpl) CreateTask(ctx context.Context, userID uuid.UUID, input CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(userID, input.Title, input.Description, input.DueDate)
	if err != nil {
		return nil, NewTaskServiceError("create_task", "invalid task data", err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.String("user_id", userID.String()))
	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *taskServiceImpl) GetTask(ctx context.Context, userID uuid.UUID, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewTaskServiceError("get_task", "task not found", store.ErrTaskNotFound)
		}
		return nil, NewTaskServiceError("get_task", "failed to retrieve task", err)
	}
	return task, nil
}

// ListTasks implements TaskService.ListTasks
func (s *taskServiceImpl) ListTasks(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *taskServiceImpl) UpdateTask(ctx context.Context, userID uuid.UUID, id int64, input UpdateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, id, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewTaskServiceError("update_task", "task not found", store.ErrTaskNotFound)
		}
		return nil, NewTaskServiceError("update_task", "failed to retrieve task", err)
	}

	task.Title = input.Title
	task.Description = input.Description
	task.DueDate = input.DueDate

	signal, err := task.Transition(input.Status, s.now())
	if err != nil {
		return nil, NewTaskServiceError("update_task", "invalid status", ErrInvalidStatus)
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewTaskServiceError("update_task", "task not found", store.ErrTaskNotFound)
		}
		return nil, NewTaskServiceError("update_task", "failed to save task", err)
	}

	// Dispatch only after the write stuck.
	s.notifier.DispatchTask(signal, task)

	log.Info("task updated",
		slog.Int64("task_id", task.ID),
		slog.String("user_id", userID.String()),
		slog.String("signal", string(signal)))
	return task, nil
}

// ChangeStatus implements TaskService.ChangeStatus
func (s *taskServiceImpl) ChangeStatus(ctx context.Context, userID uuid.UUID, id int64, next domain.TaskStatus) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, id, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewTaskServiceError("change_status", "task not found", store.ErrTaskNotFound)
		}
		return nil, NewTaskServiceError("change_status", "failed to retrieve task", err)
	}

	signal, err := task.Transition(next, s.now())
	if err != nil {
		return nil, NewTaskServiceError("change_status", "invalid status", ErrInvalidStatus)
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewTaskServiceError("change_status", "task not found", store.ErrTaskNotFound)
		}
		return nil, NewTaskServiceError("change_status", "failed to save task", err)
	}

	s.notifier.DispatchTask(signal, task)

	log.Info("task status changed",
		slog.Int64("task_id", task.ID),
		slog.String("user_id", userID.String()),
		slog.String("status", string(next)),
		slog.String("signal", string(signal)))
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID uuid.UUID, id int64) error {
	if err := s.tasks.Delete(ctx, id, userID); err != nil {
		if store.IsNotFoundError(err) {
			return NewTaskServiceError("delete_task", "task not found", store.ErrTaskNotFound)
		}
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}
	return nil
}

// Counts implements TaskService.Counts
func (s *taskServiceImpl) Counts(ctx context.Context, userID uuid.UUID) (TaskCounts, error) {
	var counts TaskCounts

	for _, entry := range []struct {
		status domain.TaskStatus
		dest   *int
	}{
		{domain.TaskStatusPending, &counts.Pending},
		{domain.TaskStatusInProgress, &counts.InProgress},
		{domain.TaskStatusCompleted, &counts.Completed},
	} {
		n, err := s.tasks.CountByStatus(ctx, userID, entry.status)
		if err != nil {
			return TaskCounts{}, NewTaskServiceError("counts", "failed to count tasks", err)
		}
		*entry.dest = n
	}

	return counts, nil
}
