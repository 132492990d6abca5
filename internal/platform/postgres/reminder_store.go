package postgres

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

// PostgresReminderStore implements the store.ReminderStore interface
// using a PostgreSQL database as the storage backend.
//
// The reminder's scheduled date and time of day are persisted as separate
// DATE and TIME columns; due comparisons combine them in SQL so the split
// representation never drifts from the instant the scanner compares against.
type PostgresReminderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReminderStore creates a new PostgreSQL implementation of the
// ReminderStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller. If logger is nil,
// the slog default is used.
func NewPostgresReminderStore(db store.DBTX, log *slog.Logger) *PostgresReminderStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if log == nil {
		log = slog.Default()
	}

	return &PostgresReminderStore{
		db:     db,
		logger: log.With(slog.String("component", "reminder_store")),
	}
}

// Ensure PostgresReminderStore implements store.ReminderStore interface
var _ store.ReminderStore = (*PostgresReminderStore)(nil)

// Create implements store.ReminderStore.Create
func (s *PostgresReminderStore) Create(ctx context.Context, reminder *domain.Reminder) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := reminder.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO reminders (
			id, user_id, title, description, scheduled_date, scheduled_time,
			active, completed, notification_sent, status,
			created_at, updated_at, completed_at, notified_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := s.db.ExecContext(ctx, query,
		reminder.ID,
		reminder.UserID,
		reminder.Title,
		reminder.Description,
		reminder.Date,
		reminder.TimeOfDay.String(),
		reminder.Active,
		reminder.Completed,
		reminder.NotificationSent,
		reminder.Status,
		reminder.CreatedAt,
		reminder.UpdatedAt,
		reminder.CompletedAt,
		reminder.NotifiedAt,
	)
	if err != nil {
		log.Error("failed to create reminder",
			"reminder_id", reminder.ID,
			"user_id", reminder.UserID,
			"error", err)
		return MapError(err)
	}

	log.Debug("reminder created",
		"reminder_id", reminder.ID,
		"user_id", reminder.UserID)
	return nil
}

// GetByID implements store.ReminderStore.GetByID
// Returns store.ErrReminderNotFound if no such reminder exists for that owner.
func (s *PostgresReminderStore) GetByID(ctx context.Context, id uuid.UUID, userID uuid.UUID) (*domain.Reminder, error) {
	query := reminderSelectColumns + `
		FROM reminders
		WHERE id = $1 AND user_id = $2
	`

	reminder, err := scanReminder(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if store.IsNotFoundError(MapError(err)) {
			return nil, store.ErrReminderNotFound
		}
		return nil, MapError(err)
	}

	return reminder, nil
}

// Update implements store.ReminderStore.Update
// Returns store.ErrReminderNotFound if no such reminder exists for that owner.
func (s *PostgresReminderStore) Update(ctx context.Context, reminder *domain.Reminder) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := reminder.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE reminders
		SET title = $1, description = $2, scheduled_date = $3, scheduled_time = $4,
			active = $5, completed = $6, notification_sent = $7, status = $8,
			updated_at = $9, completed_at = $10, notified_at = $11
		WHERE id = $12 AND user_id = $13
	`

	result, err := s.db.ExecContext(ctx, query,
		reminder.Title,
		reminder.Description,
		reminder.Date,
		reminder.TimeOfDay.String(),
		reminder.Active,
		reminder.Completed,
		reminder.NotificationSent,
		reminder.Status,
		reminder.UpdatedAt,
		reminder.CompletedAt,
		reminder.NotifiedAt,
		reminder.ID,
		reminder.UserID,
	)
	if err != nil {
		log.Error("failed to update reminder",
			"reminder_id", reminder.ID,
			"user_id", reminder.UserID,
			"error", err)
		return mutationError("reminder", "update", store.ErrUpdateFailed, err)
	}

	return CheckRowsAffected(result, store.ErrReminderNotFound)
}

// Delete implements store.ReminderStore.Delete
// Returns store.ErrReminderNotFound if no such reminder exists for that owner.
func (s *PostgresReminderStore) Delete(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM reminders WHERE id = $1 AND user_id = $2`

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		log.Error("failed to delete reminder",
			"reminder_id", id,
			"user_id", userID,
			"error", err)
		return mutationError("reminder", "delete", store.ErrDeleteFailed, err)
	}

	return CheckRowsAffected(result, store.ErrReminderNotFound)
}

// ListByUser implements store.ReminderStore.ListByUser
func (s *PostgresReminderStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Reminder, error) {
	query := reminderSelectColumns + `
		FROM reminders
		WHERE user_id = $1
		ORDER BY scheduled_date ASC, scheduled_time ASC
	`

	return s.queryReminders(ctx, query, userID)
}

// FindDue implements store.ReminderStore.FindDue
// It retrieves reminders that are active, not completed, not yet notified,
// and whose combined date and time of day is at or before the given instant.
func (s *PostgresReminderStore) FindDue(ctx context.Context, before time.Time) ([]*domain.Reminder, error) {
	query := reminderSelectColumns + `
		FROM reminders
		WHERE active = TRUE
		  AND completed = FALSE
		  AND notification_sent = FALSE
		  AND status = $1
		  AND scheduled_date + scheduled_time <= $2
		ORDER BY scheduled_date ASC, scheduled_time ASC
	`

	return s.queryReminders(ctx, query, domain.ReminderStatusActive, before)
}

// MarkNotified implements store.ReminderStore.MarkNotified
// It records a successful delivery. The notification_sent guard keeps the
// write idempotent if two workers ever race on the same reminder.
func (s *PostgresReminderStore) MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE reminders
		SET notification_sent = TRUE, notified_at = $1, updated_at = $1
		WHERE id = $2 AND notification_sent = FALSE
	`

	result, err := s.db.ExecContext(ctx, query, at.UTC(), id)
	if err != nil {
		log.Error("failed to mark reminder notified",
			"reminder_id", id,
			"error", err)
		return mutationError("reminder", "mark_notified", store.ErrUpdateFailed, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Already marked, or gone. Either way the delivery is recorded.
		log.Debug("mark notified was a no-op", "reminder_id", id)
	}

	return nil
}

// ExpireOlderThan implements store.ReminderStore.ExpireOlderThan
// It moves undelivered active reminders scheduled before the cutoff into
// the expired status and returns how many rows changed.
func (s *PostgresReminderStore) ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE reminders
		SET active = FALSE, status = $1, updated_at = $2
		WHERE active = TRUE
		  AND completed = FALSE
		  AND notification_sent = FALSE
		  AND status = $3
		  AND scheduled_date + scheduled_time < $4
	`

	result, err := s.db.ExecContext(ctx, query,
		domain.ReminderStatusExpired,
		time.Now().UTC(),
		domain.ReminderStatusActive,
		cutoff,
	)
	if err != nil {
		log.Error("failed to expire reminders",
			"cutoff", cutoff,
			"error", err)
		return 0, mutationError("reminder", "expire", store.ErrUpdateFailed, err)
	}

	expired, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return expired, nil
}

func (s *PostgresReminderStore) queryReminders(ctx context.Context, query string, args ...any) ([]*domain.Reminder, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	reminders := make([]*domain.Reminder, 0)
	for rows.Next() {
		reminder, err := scanReminder(rows)
		if err != nil {
			return nil, MapError(err)
		}
		reminders = append(reminders, reminder)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return reminders, nil
}

const reminderSelectColumns = `
	SELECT id, user_id, title, description, scheduled_date, scheduled_time::text,
		active, completed, notification_sent, status,
		created_at, updated_at, completed_at, notified_at`

func scanReminder(row rowScanner) (*domain.Reminder, error) {
	var (
		reminder  domain.Reminder
		timeOfDay string
	)
	err := row.Scan(
		&reminder.ID,
		&reminder.UserID,
		&reminder.Title,
		&reminder.Description,
		&reminder.Date,
		&timeOfDay,
		&reminder.Active,
		&reminder.Completed,
		&reminder.NotificationSent,
		&reminder.Status,
		&reminder.CreatedAt,
		&reminder.UpdatedAt,
		&reminder.CompletedAt,
		&reminder.NotifiedAt,
	)
	if err != nil {
		return nil, err
	}

	// TIME columns render as HH:MM:SS; ParseTimeOfDay reads the HH:MM prefix.
	tod, err := domain.ParseTimeOfDay(timeOfDay)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduled_time %q: %w", timeOfDay, err)
	}
	reminder.TimeOfDay = tod

	return &reminder, nil
}
