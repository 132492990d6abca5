package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/servankarakurt/gorev-api/internal/domain"
)

// ReminderStore defines the interface for reminder data persistence.
// Lookups require the owning user ID; the scanner-facing queries
// (FindDue, MarkNotified, ExpireOlderThan) operate across owners
// because the scanner serves every user.
type ReminderStore interface {
	// Create saves a new reminder.
	// Returns validation errors from the domain Reminder if data is invalid.
	Create(ctx context.Context, reminder *domain.Reminder) error

	// GetByID retrieves a reminder by its ID, scoped to the owning user.
	// Returns ErrReminderNotFound if no such reminder exists for that owner.
	GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*domain.Reminder, error)

	// Update saves changes to an existing reminder, scoped to the owning user.
	// Returns ErrReminderNotFound if no such reminder exists for that owner.
	Update(ctx context.Context, reminder *domain.Reminder) error

	// Delete removes a reminder, scoped to the owning user.
	// Returns ErrReminderNotFound if no such reminder exists for that owner.
	Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error

	// ListByUser retrieves all reminders for a user ordered by scheduled
	// date then time of day. Returns an empty slice if none exist.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Reminder, error)

	// FindDue retrieves reminders that are active, not completed, not yet
	// notified, and whose combined date and time of day is at or before
	// the given instant.
	FindDue(ctx context.Context, before time.Time) ([]*domain.Reminder, error)

	// MarkNotified records a successful notification delivery for the
	// reminder, setting the notification-sent flag and notified timestamp.
	MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) error

	// ExpireOlderThan marks undelivered active reminders scheduled before
	// the cutoff as expired, removing them from future due scans without
	// deleting the records. Returns the number of reminders expired.
	ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
