package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/servankarakurt/gorev-api/internal/domain"
)

// IdentityProvider resolves an owner ID to a notification recipient.
type IdentityProvider interface {
	// ResolveRecipient returns the owner's address and display name.
	ResolveRecipient(ctx context.Context, userID uuid.UUID) (Recipient, error)
}

// ReminderMarker persists the delivered state of a reminder
// notification back to the store.
type ReminderMarker interface {
	MarkNotified(ctx context.Context, id uuid.UUID, at time.Time) error
}

// DispatcherConfig holds configuration for the dispatcher.
type DispatcherConfig struct {
	// QueueSize determines the buffer size of the in-memory dispatch queue.
	QueueSize int

	// WorkerCount determines how many concurrent workers deliver notifications.
	WorkerCount int

	// DispatchTimeout bounds one complete dispatch: recipient resolution,
	// the gateway call, and the delivered-state write.
	DispatchTimeout time.Duration

	// Location is the timezone used to render due timestamps in
	// reminder payloads. Defaults to time.Local.
	Location *time.Location
}

// DefaultDispatcherConfig returns a DispatcherConfig with reasonable defaults.
func DefaultDispatcherConfig() DispatcherConfig {
	return DispatcherConfig{
		QueueSize:       100,
		WorkerCount:     2,
		DispatchTimeout: 30 * time.Second,
		Location:        time.Local,
	}
}

// dispatchJob is one queued notification attempt. It carries a snapshot
// of the entity taken at enqueue time so workers never share mutable
// state with the write path.
type dispatchJob struct {
	key      string
	signal   domain.TransitionSignal
	task     *domain.Task
	reminder *domain.Reminder
}

// Dispatcher delivers notifications asynchronously from the writes that
// trigger them. Work flows through an explicit bounded queue consumed
// by a worker pool, so the triggering write returns as soon as its own
// persistence succeeds and shutdown can drain or abandon cleanly.
//
// Dispatches are serialized per entity: while a dispatch for an entity
// key is queued or running, further dispatches for the same key are
// coalesced into it. Dispatches for different entities run unordered
// and concurrently.
type Dispatcher struct {
	identity  IdentityProvider
	gateway   Deliverer
	reminders ReminderMarker
	config    DispatcherConfig

	jobs     chan dispatchJob
	inflight map[string]struct{}
	mu       sync.Mutex

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup

	logger *slog.Logger
	now    func() time.Time
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(
	identity IdentityProvider,
	gateway Deliverer,
	reminders ReminderMarker,
	config DispatcherConfig,
	logger *slog.Logger,
) *Dispatcher {
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultDispatcherConfig().QueueSize
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultDispatcherConfig().WorkerCount
	}
	if config.DispatchTimeout <= 0 {
		config.DispatchTimeout = DefaultDispatcherConfig().DispatchTimeout
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Dispatcher{
		identity:   identity,
		gateway:    gateway,
		reminders:  reminders,
		config:     config,
		jobs:       make(chan dispatchJob, config.QueueSize),
		inflight:   make(map[string]struct{}),
		ctx:        ctx,
		cancelFunc: cancel,
		logger:     logger.With(slog.String("component", "dispatcher")),
		now:        time.Now,
	}
}

// Start launches the worker pool.
func (d *Dispatcher) Start() {
	for i := 0; i < d.config.WorkerCount; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
	d.logger.Info("dispatcher started", slog.Int("worker_count", d.config.WorkerCount))
}

// Stop shuts the dispatcher down. Queued and in-flight dispatches may
// be abandoned; delivery is at-most-once effort during shutdown.
func (d *Dispatcher) Stop() {
	d.cancelFunc()
	d.wg.Wait()
	d.logger.Info("dispatcher stopped")
}

// DispatchTask enqueues a completion notification for the task if the
// signal warrants one. SignalNone and SignalTaskReopened are no-ops.
// The call never blocks: when the queue is full the dispatch is dropped
// and logged, and the triggering write is unaffected either way.
func (d *Dispatcher) DispatchTask(signal domain.TransitionSignal, task *domain.Task) {
	if signal != domain.SignalTaskCompleted {
		return
	}

	snapshot := *task
	d.enqueue(dispatchJob{
		key:    TaskKey(task.ID),
		signal: signal,
		task:   &snapshot,
	})
}

// DispatchReminder enqueues a due notification for the reminder. Like
// DispatchTask it never blocks and never reports failure to the caller.
func (d *Dispatcher) DispatchReminder(reminder *domain.Reminder) {
	snapshot := *reminder
	d.enqueue(dispatchJob{
		key:      ReminderKey(reminder.ID),
		signal:   domain.SignalReminderDue,
		reminder: &snapshot,
	})
}

// enqueue registers the job's entity key and queues it. A key already
// in flight means a dispatch for that entity is pending or running, so
// the new job is coalesced into it.
func (d *Dispatcher) enqueue(job dispatchJob) {
	d.mu.Lock()
	if _, pending := d.inflight[job.key]; pending {
		d.mu.Unlock()
		d.logger.Debug("dispatch already in flight for entity, coalescing",
			slog.String("entity", job.key))
		return
	}
	d.inflight[job.key] = struct{}{}
	d.mu.Unlock()

	select {
	case d.jobs <- job:
	default:
		d.release(job.key)
		d.logger.Warn("dispatch queue full, dropping notification",
			slog.String("entity", job.key),
			slog.String("signal", string(job.signal)),
			slog.Int("queue_cap", cap(d.jobs)))
	}
}

func (d *Dispatcher) release(key string) {
	d.mu.Lock()
	delete(d.inflight, key)
	d.mu.Unlock()
}

// worker consumes dispatch jobs until shutdown.
func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	d.logger.Debug("starting dispatch worker", slog.Int("worker_id", id))

	for {
		select {
		case <-d.ctx.Done():
			d.logger.Debug("stopping dispatch worker", slog.Int("worker_id", id))
			return

		case job := <-d.jobs:
			d.process(job)
			d.release(job.key)
		}
	}
}

// process performs one dispatch: resolve the recipient, build the
// payload, deliver it once, and for reminders persist the delivered
// state. Every failure is terminal here; nothing propagates back to
// the write that triggered the dispatch.
func (d *Dispatcher) process(job dispatchJob) {
	ctx, cancel := context.WithTimeout(d.ctx, d.config.DispatchTimeout)
	defer cancel()

	logger := d.logger.With(
		slog.String("entity", job.key),
		slog.String("signal", string(job.signal)),
	)

	recipient, err := d.identity.ResolveRecipient(ctx, d.ownerOf(job))
	if err != nil {
		logger.Warn("cannot resolve notification recipient, skipping", slog.String("error", err.Error()))
		return
	}

	payload, err := d.buildPayload(job, recipient)
	if err != nil {
		if errors.Is(err, ErrMissingRecipient) {
			logger.Warn("owner has no notifiable address, skipping")
		} else {
			logger.Error("failed to build notification payload", slog.String("error", err.Error()))
		}
		return
	}

	if err := d.gateway.Deliver(ctx, payload); err != nil {
		d.logDeliveryFailure(logger, err)
		return
	}

	logger.Info("notification delivered", slog.String("recipient", recipient.Email))

	if job.reminder != nil {
		if err := d.reminders.MarkNotified(ctx, job.reminder.ID, d.now()); err != nil {
			// The notification went out but the sent flag did not stick;
			// the next scan may redeliver (at-least-once).
			logger.Error("failed to record reminder notification as sent",
				slog.String("error", err.Error()))
		}
	}
}

func (d *Dispatcher) ownerOf(job dispatchJob) uuid.UUID {
	if job.task != nil {
		return job.task.UserID
	}
	return job.reminder.UserID
}

func (d *Dispatcher) buildPayload(job dispatchJob, recipient Recipient) (Payload, error) {
	if job.task != nil {
		return BuildTaskPayload(job.task, recipient)
	}
	return BuildReminderPayload(job.reminder, recipient, d.config.Location)
}

func (d *Dispatcher) logDeliveryFailure(logger *slog.Logger, err error) {
	var gatewayErr *GatewayError
	var transportErr *TransportError

	switch {
	case errors.As(err, &gatewayErr):
		logger.Error("notification rejected by gateway",
			slog.Int("status_code", gatewayErr.StatusCode),
			slog.String("body", gatewayErr.Body))
	case errors.As(err, &transportErr):
		logger.Error("notification gateway unreachable",
			slog.String("error", transportErr.Err.Error()))
	default:
		logger.Error("notification delivery failed", slog.String("error", err.Error()))
	}
}
