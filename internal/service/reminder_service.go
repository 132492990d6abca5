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

// pastTolerance is how far in the past a new reminder may be scheduled.
// It absorbs clock skew and the time a user spends filling in a form.
const pastTolerance = 5 * time.Minute

// ReminderServiceError is a custom error type for reminder service errors.
type ReminderServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ReminderServiceError.
func (e *ReminderServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reminder service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("reminder service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ReminderServiceError) Unwrap() error {
	return e.Err
}

// NewReminderServiceError creates a new ReminderServiceError.
func NewReminderServiceError(operation, message string, err error) *ReminderServiceError {
	return &ReminderServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// CreateReminderInput carries the caller-supplied fields for a new reminder.
type CreateReminderInput struct {
	Title       string
	Description string
	Date        time.Time
	TimeOfDay   domain.TimeOfDay
}

// UpdateReminderInput carries the caller-supplied fields for a reminder update.
type UpdateReminderInput struct {
	Title       string
	Description string
	Date        time.Time
	TimeOfDay   domain.TimeOfDay
}

// ReminderService provides reminder-related operations, all scoped to the
// owning user. Delivery of due notifications is the scanner's job; this
// service only manages the records the scanner reads.
type ReminderService interface {
	// CreateReminder creates a new active reminder for the user. Returns
	// ErrReminderInPast if the scheduled instant is already in the past
	// beyond a small tolerance.
	CreateReminder(ctx context.Context, userID uuid.UUID, input CreateReminderInput) (*domain.Reminder, error)

	// GetReminder retrieves one of the user's reminders by ID.
	GetReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Reminder, error)

	// ListReminders retrieves all of the user's reminders in schedule order.
	ListReminders(ctx context.Context, userID uuid.UUID) ([]*domain.Reminder, error)

	// UpdateReminder updates a reminder's fields.
	UpdateReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID, input UpdateReminderInput) (*domain.Reminder, error)

	// CompleteReminder marks a reminder as done. Completed reminders are
	// excluded from due scans.
	CompleteReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Reminder, error)

	// ReopenReminder returns a completed reminder to the active state.
	ReopenReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Reminder, error)

	// DeleteReminder removes one of the user's reminders.
	DeleteReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
}

// reminderServiceImpl implements the ReminderService interface
type reminderServiceImpl struct {
	reminders store.ReminderStore
	logger    *slog.Logger
	loc       *time.Location
	now       func() time.Time
}

// NewReminderService creates a new ReminderService. The location is used
// to interpret the split date and time-of-day fields as one instant; nil
// means time.Local.
func NewReminderService(
	reminders store.ReminderStore,
	loc *time.Location,
	log *slog.Logger,
) (ReminderService, error) {
	if reminders == nil {
		return nil, NewReminderServiceError("new", "reminder store cannot be nil", nil)
	}

	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = slog.Default()
	}

	return &reminderServiceImpl{
		reminders: reminders,
		logger:    log.With(slog.String("component", "reminder_service")),
		loc:       loc,
		now:       time.Now,
	}, nil
}

// CreateReminder implements ReminderService.CreateReminder
func (s *reminderServiceImpl) CreateReminder(ctx context.Context, userID uuid.UUID, input CreateReminderInput) (*domain.Reminder, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	reminder, err := domain.NewReminder(userID, input.Title, input.Description, input.Date, input.TimeOfDay)
	if err != nil {
		return nil, NewReminderServiceError("create_reminder", "invalid reminder data", err)
	}

	if reminder.DueAt(s.loc).Before(s.now().Add(-pastTolerance)) {
		return nil, NewReminderServiceError("create_reminder", "scheduled in the past", ErrReminderInPast)
	}

	if err := s.reminders.Create(ctx, reminder); err != nil {
		log.Error("failed to create reminder",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, NewReminderServiceError("create_reminder", "failed to save reminder", err)
	}

	log.Info("reminder created",
		slog.String("reminder_id", reminder.ID.String()),
		slog.String("user_id", userID.String()),
		slog.Time("due_at", reminder.DueAt(s.loc)))
	return reminder, nil
}

// GetReminder implements ReminderService.GetReminder
func (s *reminderServiceImpl) GetReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Reminder, error) {
	reminder, err := s.reminders.GetByID(ctx, id, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewReminderServiceError("get_reminder", "reminder not found", store.ErrReminderNotFound)
		}
		return nil, NewReminderServiceError("get_reminder", "failed to retrieve reminder", err)
	}
	return reminder, nil
}

// ListReminders implements ReminderService.ListReminders
func (s *reminderServiceImpl) ListReminders(ctx context.Context, userID uuid.UUID) ([]*domain.Reminder, error) {
	reminders, err := s.reminders.ListByUser(ctx, userID)
	if err != nil {
		return nil, NewReminderServiceError("list_reminders", "failed to list reminders", err)
	}
	return reminders, nil
}

// UpdateReminder implements ReminderService.UpdateReminder
func (s *reminderServiceImpl) UpdateReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID, input UpdateReminderInput) (*domain.Reminder, error) {
	reminder, err := s.reminders.GetByID(ctx, id, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewReminderServiceError("update_reminder", "reminder not found", store.ErrReminderNotFound)
		}
		return nil, NewReminderServiceError("update_reminder", "failed to retrieve reminder", err)
	}

	reminder.Title = input.Title
	reminder.Description = input.Description
	reminder.Date = input.Date
	reminder.TimeOfDay = input.TimeOfDay
	reminder.UpdatedAt = s.now().UTC()

	if err := s.saveReminder(ctx, "update_reminder", reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// CompleteReminder implements ReminderService.CompleteReminder
func (s *reminderServiceImpl) CompleteReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Reminder, error) {
	reminder, err := s.reminders.GetByID(ctx, id, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewReminderServiceError("complete_reminder", "reminder not found", store.ErrReminderNotFound)
		}
		return nil, NewReminderServiceError("complete_reminder", "failed to retrieve reminder", err)
	}

	reminder.MarkCompleted(s.now())

	if err := s.saveReminder(ctx, "complete_reminder", reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// ReopenReminder implements ReminderService.ReopenReminder
func (s *reminderServiceImpl) ReopenReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*domain.Reminder, error) {
	reminder, err := s.reminders.GetByID(ctx, id, userID)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewReminderServiceError("reopen_reminder", "reminder not found", store.ErrReminderNotFound)
		}
		return nil, NewReminderServiceError("reopen_reminder", "failed to retrieve reminder", err)
	}

	reminder.Reopen(s.now())

	if err := s.saveReminder(ctx, "reopen_reminder", reminder); err != nil {
		return nil, err
	}
	return reminder, nil
}

// DeleteReminder implements ReminderService.DeleteReminder
func (s *reminderServiceImpl) DeleteReminder(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if err := s.reminders.Delete(ctx, id, userID); err != nil {
		if store.IsNotFoundError(err) {
			return NewReminderServiceError("delete_reminder", "reminder not found", store.ErrReminderNotFound)
		}
		return NewReminderServiceError("delete_reminder", "failed to delete reminder", err)
	}
	return nil
}

func (s *reminderServiceImpl) saveReminder(ctx context.Context, operation string, reminder *domain.Reminder) error {
	if err := s.reminders.Update(ctx, reminder); err != nil {
		if store.IsNotFoundError(err) {
			return NewReminderServiceError(operation, "reminder not found", store.ErrReminderNotFound)
		}
		return NewReminderServiceError(operation, "failed to save reminder", err)
	}
	return nil
}
