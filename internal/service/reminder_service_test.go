package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/servankarakurt/gorev-api/internal/domain"
	"github.com/servankarakurt/gorev-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReminderServiceForTest(t *testing.T, reminders store.ReminderStore, now time.Time) ReminderService {
	t.Helper()

	svc, err := NewReminderService(reminders, time.UTC, nil)
	require.NoError(t, err)
	svc.(*reminderServiceImpl).now = func() time.Time { return now }
	return svc
}

func activeReminder(id, userID uuid.UUID) *domain.Reminder {
	created := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	return &domain.Reminder{
		ID:        id,
		UserID:    userID,
		Title:     "Dentist appointment",
		Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		TimeOfDay: domain.TimeOfDay{Hour: 9, Minute: 30},
		Active:    true,
		Status:    domain.ReminderStatusActive,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestReminderService_CreateReminder(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	now := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)

	t.Run("creates an active reminder", func(t *testing.T) {
		t.Parallel()

		reminders := new(MockReminderStore)
		reminders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Reminder")).Return(nil)

		svc := newReminderServiceForTest(t, reminders, now)

		reminder, err := svc.CreateReminder(context.Background(), userID, CreateReminderInput{
			Title:     "Dentist appointment",
			Date:      time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			TimeOfDay: domain.TimeOfDay{Hour: 9, Minute: 30},
		})
		require.NoError(t, err)

		assert.True(t, reminder.Active)
		assert.False(t, reminder.Completed)
		assert.False(t, reminder.NotificationSent)
		assert.Equal(t, domain.ReminderStatusActive, reminder.Status)
		reminders.AssertExpectations(t)
	})

	t.Run("rejects a past schedule", func(t *testing.T) {
		t.Parallel()

		reminders := new(MockReminderStore)
		svc := newReminderServiceForTest(t, reminders, now)

		_, err := svc.CreateReminder(context.Background(), userID, CreateReminderInput{
			Title:     "Too late",
			Date:      now,
			TimeOfDay: domain.TimeOfDay{Hour: 11, Minute: 0},
		})
		assert.ErrorIs(t, err, ErrReminderInPast)
		reminders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("tolerates a schedule a few minutes back", func(t *testing.T) {
		t.Parallel()

		reminders := new(MockReminderStore)
		reminders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Reminder")).Return(nil)

		svc := newReminderServiceForTest(t, reminders, now)

		// 11:57 against a 12:00 clock sits inside the five minute window.
		_, err := svc.CreateReminder(context.Background(), userID, CreateReminderInput{
			Title:     "Just happened",
			Date:      now,
			TimeOfDay: domain.TimeOfDay{Hour: 11, Minute: 57},
		})
		assert.NoError(t, err)
	})

	t.Run("rejects invalid data without touching the store", func(t *testing.T) {
		t.Parallel()

		reminders := new(MockReminderStore)
		svc := newReminderServiceForTest(t, reminders, now)

		_, err := svc.CreateReminder(context.Background(), userID, CreateReminderInput{
			Title:     "",
			Date:      now.AddDate(0, 0, 1),
			TimeOfDay: domain.TimeOfDay{Hour: 9, Minute: 0},
		})
		assert.ErrorIs(t, err, domain.ErrEmptyReminderTitle)
		reminders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestReminderService_CompleteAndReopen(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	reminderID := uuid.New()
	now := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)

	t.Run("complete sets the flags and timestamp", func(t *testing.T) {
		t.Parallel()

		reminders := new(MockReminderStore)
		reminders.On("GetByID", mock.Anything, reminderID, userID).Return(activeReminder(reminderID, userID), nil)
		reminders.On("Update", mock.Anything, mock.AnythingOfType("*domain.Reminder")).Return(nil)

		svc := newReminderServiceForTest(t, reminders, now)

		reminder, err := svc.CompleteReminder(context.Background(), userID, reminderID)
		require.NoError(t, err)

		assert.True(t, reminder.Completed)
		assert.Equal(t, domain.ReminderStatusCompleted, reminder.Status)
		require.NotNil(t, reminder.CompletedAt)
		assert.Equal(t, now, *reminder.CompletedAt)
	})

	t.Run("reopen clears completion", func(t *testing.T) {
		t.Parallel()

		existing := activeReminder(reminderID, userID)
		existing.MarkCompleted(now.Add(-time.Hour))

		reminders := new(MockReminderStore)
		reminders.On("GetByID", mock.Anything, reminderID, userID).Return(existing, nil)
		reminders.On("Update", mock.Anything, mock.AnythingOfType("*domain.Reminder")).Return(nil)

		svc := newReminderServiceForTest(t, reminders, now)

		reminder, err := svc.ReopenReminder(context.Background(), userID, reminderID)
		require.NoError(t, err)

		assert.False(t, reminder.Completed)
		assert.Equal(t, domain.ReminderStatusActive, reminder.Status)
		assert.Nil(t, reminder.CompletedAt)
	})

	t.Run("missing reminder", func(t *testing.T) {
		t.Parallel()

		reminders := new(MockReminderStore)
		reminders.On("GetByID", mock.Anything, reminderID, userID).Return(nil, store.ErrReminderNotFound)

		svc := newReminderServiceForTest(t, reminders, now)

		_, err := svc.CompleteReminder(context.Background(), userID, reminderID)
		assert.ErrorIs(t, err, store.ErrReminderNotFound)
	})
}

func TestReminderService_UpdateReminder(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	reminderID := uuid.New()
	now := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)

	reminders := new(MockReminderStore)
	reminders.On("GetByID", mock.Anything, reminderID, userID).Return(activeReminder(reminderID, userID), nil)
	reminders.On("Update", mock.Anything, mock.AnythingOfType("*domain.Reminder")).Return(nil)

	svc := newReminderServiceForTest(t, reminders, now)

	reminder, err := svc.UpdateReminder(context.Background(), userID, reminderID, UpdateReminderInput{
		Title:       "Dentist appointment",
		Description: "Bring insurance card",
		Date:        time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
		TimeOfDay:   domain.TimeOfDay{Hour: 10, Minute: 0},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bring insurance card", reminder.Description)
	assert.Equal(t, domain.TimeOfDay{Hour: 10, Minute: 0}, reminder.TimeOfDay)
	assert.Equal(t, now.UTC(), reminder.UpdatedAt)
}

func TestIdentityAdapter_ResolveRecipient(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	t.Run("uses display name when present", func(t *testing.T) {
		t.Parallel()

		users := new(MockUserStore)
		users.On("GetByID", mock.Anything, userID).Return(&domain.User{
			ID:          userID,
			Email:       "ayse@example.com",
			DisplayName: "Ayse",
		}, nil)

		recipient, err := NewIdentityAdapter(users).ResolveRecipient(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, "ayse@example.com", recipient.Email)
		assert.Equal(t, "Ayse", recipient.Name)
	})

	t.Run("falls back to the email local part", func(t *testing.T) {
		t.Parallel()

		users := new(MockUserStore)
		users.On("GetByID", mock.Anything, userID).Return(&domain.User{
			ID:    userID,
			Email: "mehmet@example.com",
		}, nil)

		recipient, err := NewIdentityAdapter(users).ResolveRecipient(context.Background(), userID)
		require.NoError(t, err)
		assert.Equal(t, "mehmet", recipient.Name)
	})

	t.Run("propagates lookup failure", func(t *testing.T) {
		t.Parallel()

		users := new(MockUserStore)
		users.On("GetByID", mock.Anything, userID).Return(nil, store.ErrUserNotFound)

		_, err := NewIdentityAdapter(users).ResolveRecipient(context.Background(), userID)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})
}
