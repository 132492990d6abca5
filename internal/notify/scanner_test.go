package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/servankarakurt/gorev-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScannerConfig() ScannerConfig {
	return ScannerConfig{
		Interval:     10 * time.Millisecond,
		Retention:    24 * time.Hour,
		QueryTimeout: time.Second,
	}
}

func scheduledReminder(date time.Time, tod domain.TimeOfDay) *domain.Reminder {
	return &domain.Reminder{
		ID:        uuid.New(),
		UserID:    uuid.New(),
		Title:     "Dentist",
		Date:      date,
		TimeOfDay: tod,
		Active:    true,
		Status:    domain.ReminderStatusActive,
		CreatedAt: date.Add(-48 * time.Hour),
	}
}

func TestScanner_FlagsReminderAtDueInstant(t *testing.T) {
	t.Parallel()

	reminder := scheduledReminder(
		time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		domain.TimeOfDay{Hour: 9, Minute: 0},
	)
	source := &mockReminderSource{reminders: []*domain.Reminder{reminder}}
	sink := &recordingDispatcher{}

	scanner := NewScanner(source, sink, testScannerConfig(), discardLogger())

	tests := []struct {
		name    string
		now     time.Time
		wantDue bool
	}{
		{"one minute before", time.Date(2025, 1, 10, 8, 59, 0, 0, time.UTC), false},
		{"exactly at due instant", time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC), true},
		{"after due instant", time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		scanner.now = func() time.Time { return tt.now }
		before := sink.count()

		require.NoError(t, scanner.scanOnce(context.Background()))

		if tt.wantDue {
			assert.Greater(t, sink.count(), before, tt.name)
		} else {
			assert.Equal(t, before, sink.count(), tt.name)
		}
	}
}

func TestScanner_SkipsIneligibleReminders(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	date := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	tod := domain.TimeOfDay{Hour: 9, Minute: 0}

	eligible := scheduledReminder(date, tod)
	completed := scheduledReminder(date, tod)
	completed.MarkCompleted(now)
	alreadySent := scheduledReminder(date, tod)
	alreadySent.MarkNotified(now)
	inactive := scheduledReminder(date, tod)
	inactive.Expire(now)
	future := scheduledReminder(date, domain.TimeOfDay{Hour: 23, Minute: 0})

	source := &mockReminderSource{
		reminders: []*domain.Reminder{eligible, completed, alreadySent, inactive, future},
	}
	sink := &recordingDispatcher{}

	scanner := NewScanner(source, sink, testScannerConfig(), discardLogger())
	scanner.now = func() time.Time { return now }

	require.NoError(t, scanner.scanOnce(context.Background()))

	require.Equal(t, 1, sink.count())
	assert.Equal(t, eligible.ID, sink.dispatched[0].ID)
}

func TestScanner_SecondCycleIsIdempotent(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 10, 9, 5, 0, 0, time.UTC)
	reminder := scheduledReminder(
		time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		domain.TimeOfDay{Hour: 9, Minute: 0},
	)
	source := &mockReminderSource{reminders: []*domain.Reminder{reminder}}

	// Emulate the full round trip: dispatched reminders get their sent
	// flag persisted, which removes them from the next scan.
	sink := &recordingDispatcher{markOnArrival: true}

	scanner := NewScanner(source, sink, testScannerConfig(), discardLogger())
	scanner.now = func() time.Time { return now }

	require.NoError(t, scanner.scanOnce(context.Background()))
	require.Equal(t, 1, sink.count())

	require.NoError(t, scanner.scanOnce(context.Background()))
	assert.Equal(t, 1, sink.count(), "second cycle must produce zero new dispatches")
}

func TestScanner_ExpiresStaleUndeliveredReminders(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	stale := scheduledReminder(
		time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC),
		domain.TimeOfDay{Hour: 9, Minute: 0},
	)
	fresh := scheduledReminder(
		time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		domain.TimeOfDay{Hour: 8, Minute: 0},
	)

	source := &mockReminderSource{reminders: []*domain.Reminder{stale, fresh}}
	sink := &recordingDispatcher{}

	config := testScannerConfig()
	config.Retention = 24 * time.Hour

	scanner := NewScanner(source, sink, config, discardLogger())
	scanner.now = func() time.Time { return now }

	require.NoError(t, scanner.scanOnce(context.Background()))

	// The stale reminder was still due, so this cycle dispatches it one
	// last time and then expires it; the record itself survives.
	assert.Equal(t, domain.ReminderStatusExpired, stale.Status)
	assert.False(t, stale.Active)
	assert.Equal(t, domain.ReminderStatusActive, fresh.Status)

	// Once expired it leaves the scan set for good.
	before := sink.count()
	require.NoError(t, scanner.scanOnce(context.Background()))
	for _, r := range sink.dispatched[before:] {
		assert.NotEqual(t, stale.ID, r.ID)
	}
}

func TestScanner_StoreFailureAbortsOnlyCurrentCycle(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 10, 9, 5, 0, 0, time.UTC)
	reminder := scheduledReminder(
		time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		domain.TimeOfDay{Hour: 9, Minute: 0},
	)
	source := &mockReminderSource{
		reminders: []*domain.Reminder{reminder},
		findErr:   errors.New("connection reset"),
	}
	sink := &recordingDispatcher{}

	scanner := NewScanner(source, sink, testScannerConfig(), discardLogger())
	scanner.now = func() time.Time { return now }

	err := scanner.scanOnce(context.Background())
	require.Error(t, err)
	assert.Zero(t, sink.count())

	// The next cycle retries from scratch.
	source.mu.Lock()
	source.findErr = nil
	source.mu.Unlock()

	require.NoError(t, scanner.scanOnce(context.Background()))
	assert.Equal(t, 1, sink.count())
}

func TestScanner_RunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	source := &mockReminderSource{}
	sink := &recordingDispatcher{}
	scanner := NewScanner(source, sink, testScannerConfig(), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		scanner.Run(ctx)
		close(done)
	}()

	// Let at least one tick fire, then stop.
	require.Eventually(t, func() bool {
		source.mu.Lock()
		defer source.mu.Unlock()
		return source.findCalls >= 1
	}, 2*time.Second, 5*time.Millisecond)

	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scanner did not stop after context cancellation")
	}
}
