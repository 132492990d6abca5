package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/servankarakurt/gorev-api/internal/domain"
)

// mockIdentity implements IdentityProvider with a fixed recipient table.
type mockIdentity struct {
	mu         sync.Mutex
	recipients map[uuid.UUID]Recipient
	err        error
	calls      int
}

func newMockIdentity() *mockIdentity {
	return &mockIdentity{recipients: make(map[uuid.UUID]Recipient)}
}

func (m *mockIdentity) ResolveRecipient(ctx context.Context, userID uuid.UUID) (Recipient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return Recipient{}, m.err
	}
	return m.recipients[userID], nil
}

// mockDeliverer implements Deliverer, recording every payload it
// receives. An optional gate channel blocks deliveries until released,
// and deliverErr makes every attempt fail.
type mockDeliverer struct {
	mu         sync.Mutex
	delivered  []Payload
	deliverErr error
	gate       chan struct{}
	done       chan Payload
}

func newMockDeliverer() *mockDeliverer {
	return &mockDeliverer{done: make(chan Payload, 16)}
}

func (m *mockDeliverer) Deliver(ctx context.Context, payload Payload) error {
	if m.gate != nil {
		select {
		case <-m.gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	m.mu.Lock()
	err := m.deliverErr
	if err == nil {
		m.delivered = append(m.delivered, payload)
	}
	m.mu.Unlock()

	m.done <- payload
	return err
}

func (m *mockDeliverer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.delivered)
}

// mockReminderMarker implements ReminderMarker.
type mockReminderMarker struct {
	mu     sync.Mutex
	marked map[uuid.UUID]time.Time
	err    error
}

func newMockReminderMarker() *mockReminderMarker {
	return &mockReminderMarker{marked: make(map[uuid.UUID]time.Time)}
}

func (m *mockReminderMarker) MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.marked[id] = at
	return nil
}

func (m *mockReminderMarker) markedAt(id uuid.UUID) (time.Time, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	at, ok := m.marked[id]
	return at, ok
}

// mockReminderSource implements ReminderSource over an in-memory slice,
// applying the same eligibility predicate the SQL query applies so
// scanner tests exercise the real due semantics.
type mockReminderSource struct {
	mu        sync.Mutex
	reminders []*domain.Reminder
	findErr   error
	expireErr error
	findCalls int
}

func (m *mockReminderSource) FindDue(ctx context.Context, before time.Time) ([]*domain.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}

	var due []*domain.Reminder
	for _, r := range m.reminders {
		if r.Active && !r.Completed && !r.NotificationSent && !r.DueAt(time.UTC).After(before) {
			due = append(due, r)
		}
	}
	return due, nil
}

func (m *mockReminderSource) ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.expireErr != nil {
		return 0, m.expireErr
	}

	var expired int64
	for _, r := range m.reminders {
		if r.Active && !r.Completed && !r.NotificationSent && r.DueAt(time.UTC).Before(cutoff) {
			r.Expire(cutoff)
			expired++
		}
	}
	return expired, nil
}

// recordingDispatcher implements ReminderDispatcher, capturing the
// reminders the scanner hands over. Optionally marks dispatched
// reminders as notified to emulate a successful delivery round trip.
type recordingDispatcher struct {
	mu            sync.Mutex
	dispatched    []*domain.Reminder
	markOnArrival bool
}

func (d *recordingDispatcher) DispatchReminder(reminder *domain.Reminder) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dispatched = append(d.dispatched, reminder)
	if d.markOnArrival {
		reminder.MarkNotified(time.Now())
	}
}

func (d *recordingDispatcher) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.dispatched)
}
