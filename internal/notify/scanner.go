package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/servankarakurt/gorev-api/internal/domain"
)

// ReminderSource is the store capability the scanner reads from.
type ReminderSource interface {
	// FindDue returns active, uncompleted, unnotified reminders whose
	// scheduled instant is at or before the given time.
	FindDue(ctx context.Context, before time.Time) ([]*domain.Reminder, error)

	// ExpireOlderThan soft-expires undelivered reminders scheduled
	// before the cutoff and returns how many were expired.
	ExpireOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ReminderDispatcher is the dispatch capability the scanner feeds.
type ReminderDispatcher interface {
	DispatchReminder(reminder *domain.Reminder)
}

// ScannerConfig holds configuration for the due-reminder scanner.
type ScannerConfig struct {
	// Interval is the time between scan cycles.
	Interval time.Duration

	// Retention is how long past its scheduled instant an undelivered
	// reminder stays eligible for scanning before being expired.
	Retention time.Duration

	// QueryTimeout bounds each store query within a cycle.
	QueryTimeout time.Duration
}

// DefaultScannerConfig returns a ScannerConfig with reasonable defaults.
func DefaultScannerConfig() ScannerConfig {
	return ScannerConfig{
		Interval:     time.Minute,
		Retention:    24 * time.Hour,
		QueryTimeout: 10 * time.Second,
	}
}

// Scanner periodically sweeps the store for reminders that have crossed
// their due instant and feeds them to the dispatcher. Cycles never
// overlap: each runs to completion inside the single scan goroutine
// before the next tick is considered.
type Scanner struct {
	source     ReminderSource
	dispatcher ReminderDispatcher
	config     ScannerConfig
	logger     *slog.Logger
	now        func() time.Time
}

// NewScanner creates a new Scanner.
func NewScanner(
	source ReminderSource,
	dispatcher ReminderDispatcher,
	config ScannerConfig,
	logger *slog.Logger,
) *Scanner {
	if config.Interval <= 0 {
		config.Interval = DefaultScannerConfig().Interval
	}
	if config.Retention <= 0 {
		config.Retention = DefaultScannerConfig().Retention
	}
	if config.QueryTimeout <= 0 {
		config.QueryTimeout = DefaultScannerConfig().QueryTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Scanner{
		source:     source,
		dispatcher: dispatcher,
		config:     config,
		logger:     logger.With(slog.String("component", "reminder_scanner")),
		now:        time.Now,
	}
}

// Run executes scan cycles on the configured interval until the context
// is cancelled. A failed cycle is logged and retried from scratch on
// the next tick.
func (s *Scanner) Run(ctx context.Context) {
	s.logger.Info("reminder scanner started",
		slog.Duration("interval", s.config.Interval),
		slog.Duration("retention", s.config.Retention))

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scanner stopped")
			return
		case <-ticker.C:
			if err := s.scanOnce(ctx); err != nil {
				s.logger.Error("scan cycle failed", slog.String("error", err.Error()))
			}
		}
	}
}

// scanOnce runs a single scan cycle: dispatch every due reminder, then
// expire undelivered reminders past the retention threshold. A store
// query failure aborts only the current cycle.
func (s *Scanner) scanOnce(ctx context.Context) error {
	now := s.now()

	queryCtx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	due, err := s.source.FindDue(queryCtx, now)
	cancel()
	if err != nil {
		return err
	}

	if len(due) > 0 {
		s.logger.Info("found due reminders", slog.Int("count", len(due)))
	}

	// Each match is independent; DispatchReminder never fails the batch.
	for _, reminder := range due {
		s.dispatcher.DispatchReminder(reminder)
	}

	sweepCtx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	expired, err := s.source.ExpireOlderThan(sweepCtx, now.Add(-s.config.Retention))
	cancel()
	if err != nil {
		return err
	}

	if expired > 0 {
		s.logger.Info("expired stale undelivered reminders", slog.Int64("count", expired))
	}

	return nil
}
