package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the workflow state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// Field length limits shared by tasks and reminders.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Common validation errors for Task
var (
	ErrEmptyTaskUserID   = errors.New("task user ID cannot be empty")
	ErrEmptyTaskTitle    = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong  = errors.New("task title cannot exceed 100 characters")
	ErrDescriptionTooLong = errors.New("task description cannot exceed 500 characters")
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrCompletedAtMismatch = errors.New("completed timestamp must be set exactly when status is completed")
)

// Task represents a user-owned unit of work. CompletedAt is non-nil
// if and only if Status is TaskStatusCompleted; Transition maintains
// that invariant and callers must not set the field directly.
type Task struct {
	ID          int64      `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// NewTask creates a new pending Task owned by the given user.
// The ID is assigned by the store on insert.
// Returns an error if validation fails.
func NewTask(userID uuid.UUID, title, description string, dueDate *time.Time) (*Task, error) {
	task := &Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Status:      TaskStatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data, including the
// status/completion-timestamp invariant.
func (t *Task) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrEmptyTaskUserID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if len(t.Title) > MaxTitleLength {
		return ErrTaskTitleTooLong
	}

	if len(t.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}

	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	if (t.Status == TaskStatusCompleted) != (t.CompletedAt != nil) {
		return ErrCompletedAtMismatch
	}

	return nil
}

// Transition moves the task to the next status, maintaining the
// CompletedAt invariant, and returns the signal the change produced.
// Returns ErrInvalidTaskStatus if next is not a known status.
func (t *Task) Transition(next TaskStatus, now time.Time) (TransitionSignal, error) {
	if !isValidTaskStatus(next) {
		return SignalNone, ErrInvalidTaskStatus
	}

	signal := EvaluateTransition(t.Status, next)
	t.Status = next

	switch signal {
	case SignalTaskCompleted:
		completedAt := now.UTC()
		t.CompletedAt = &completedAt
	case SignalTaskReopened:
		t.CompletedAt = nil
	}

	return signal, nil
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}
