package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReminderStatus represents the lifecycle state of a reminder.
type ReminderStatus string

// Possible reminder status values
const (
	ReminderStatusActive    ReminderStatus = "active"
	ReminderStatusCompleted ReminderStatus = "completed"

	// ReminderStatusExpired is a soft-terminal state for reminders whose
	// scheduled instant passed long ago without a successful delivery.
	// Expired reminders are excluded from due scans but never deleted.
	ReminderStatusExpired ReminderStatus = "expired"
)

// Common validation errors for Reminder
var (
	ErrEmptyReminderID        = errors.New("reminder ID cannot be empty")
	ErrEmptyReminderUserID    = errors.New("reminder user ID cannot be empty")
	ErrEmptyReminderTitle     = errors.New("reminder title cannot be empty")
	ErrReminderTitleTooLong   = errors.New("reminder title cannot exceed 100 characters")
	ErrReminderDescTooLong    = errors.New("reminder description cannot exceed 500 characters")
	ErrZeroReminderDate       = errors.New("reminder date cannot be zero")
	ErrInvalidReminderStatus  = errors.New("invalid reminder status")
	ErrInvalidTimeOfDay       = errors.New("time of day must be in HH:MM format")
	ErrNotifiedWhileActive    = errors.New("notification-sent flag requires a non-active status or a recorded attempt")
)

// TimeOfDay is a wall-clock time without a date, kept separate from the
// reminder's date so the two fields combine to a single instant without
// timezone drift across the split representation.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses a "HH:MM" string into a TimeOfDay.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var hour, minute int
	if _, err := fmt.Sscanf(s, "%02d:%02d", &hour, &minute); err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	tod := TimeOfDay{Hour: hour, Minute: minute}
	if !tod.valid() {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return tod, nil
}

func (t TimeOfDay) valid() bool {
	return t.Hour >= 0 && t.Hour < 24 && t.Minute >= 0 && t.Minute < 60
}

// String returns the canonical "HH:MM" form.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// MarshalText implements encoding.TextMarshaler so the field renders
// as "HH:MM" in JSON.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *TimeOfDay) UnmarshalText(text []byte) error {
	parsed, err := ParseTimeOfDay(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Reminder represents a time-bound note that triggers one notification
// when its scheduled instant passes. Date and TimeOfDay are stored as
// separate semantic fields; DueAt combines them.
type Reminder struct {
	ID               uuid.UUID      `json:"id"`
	UserID           uuid.UUID      `json:"user_id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Date             time.Time      `json:"date"`
	TimeOfDay        TimeOfDay      `json:"time_of_day"`
	Active           bool           `json:"active"`
	Completed        bool           `json:"completed"`
	NotificationSent bool           `json:"notification_sent"`
	Status           ReminderStatus `json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	CompletedAt      *time.Time     `json:"completed_at,omitempty"`
	NotifiedAt       *time.Time     `json:"notified_at,omitempty"`
}

// NewReminder creates a new active Reminder owned by the given user.
// Only the year/month/day of date are significant.
// Returns an error if validation fails.
func NewReminder(userID uuid.UUID, title, description string, date time.Time, timeOfDay TimeOfDay) (*Reminder, error) {
	now := time.Now().UTC()
	reminder := &Reminder{
		ID:          uuid.New(),
		UserID:      userID,
		Title:       title,
		Description: description,
		Date:        date,
		TimeOfDay:   timeOfDay,
		Active:      true,
		Status:      ReminderStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := reminder.Validate(); err != nil {
		return nil, err
	}

	return reminder, nil
}

// Validate checks if the Reminder has valid data.
func (r *Reminder) Validate() error {
	if r.ID == uuid.Nil {
		return ErrEmptyReminderID
	}

	if r.UserID == uuid.Nil {
		return ErrEmptyReminderUserID
	}

	if r.Title == "" {
		return ErrEmptyReminderTitle
	}

	if len(r.Title) > MaxTitleLength {
		return ErrReminderTitleTooLong
	}

	if len(r.Description) > MaxDescriptionLength {
		return ErrReminderDescTooLong
	}

	if r.Date.IsZero() {
		return ErrZeroReminderDate
	}

	if !r.TimeOfDay.valid() {
		return ErrInvalidTimeOfDay
	}

	if !isValidReminderStatus(r.Status) {
		return ErrInvalidReminderStatus
	}

	if r.NotificationSent && r.NotifiedAt == nil && r.Status == ReminderStatusActive {
		return ErrNotifiedWhileActive
	}

	return nil
}

// DueAt combines the reminder's date and time-of-day into a single
// instant in the given location.
func (r *Reminder) DueAt(loc *time.Location) time.Time {
	return time.Date(
		r.Date.Year(), r.Date.Month(), r.Date.Day(),
		r.TimeOfDay.Hour, r.TimeOfDay.Minute, 0, 0,
		loc,
	)
}

// MarkCompleted flips the reminder into the completed state and sets
// the completion timestamp if it is not already recorded.
func (r *Reminder) MarkCompleted(now time.Time) {
	if r.Completed && r.CompletedAt != nil {
		return
	}
	completedAt := now.UTC()
	r.Completed = true
	r.Status = ReminderStatusCompleted
	r.CompletedAt = &completedAt
	r.UpdatedAt = now.UTC()
}

// Reopen returns a completed reminder to the active state, clearing
// the completion timestamp.
func (r *Reminder) Reopen(now time.Time) {
	r.Completed = false
	r.Status = ReminderStatusActive
	r.CompletedAt = nil
	r.UpdatedAt = now.UTC()
}

// MarkNotified records a successful notification delivery.
func (r *Reminder) MarkNotified(now time.Time) {
	notifiedAt := now.UTC()
	r.NotificationSent = true
	r.NotifiedAt = &notifiedAt
	r.UpdatedAt = now.UTC()
}

// Expire moves an undelivered reminder into the soft-terminal expired
// state so it is no longer considered by due scans.
func (r *Reminder) Expire(now time.Time) {
	r.Active = false
	r.Status = ReminderStatusExpired
	r.UpdatedAt = now.UTC()
}

// isValidReminderStatus checks if the given status is a valid ReminderStatus.
func isValidReminderStatus(status ReminderStatus) bool {
	switch status {
	case ReminderStatusActive, ReminderStatusCompleted, ReminderStatusExpired:
		return true
	default:
		return false
	}
}
