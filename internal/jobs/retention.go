package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/toolvizion/go-language-manager/internal/logging"
	"github.com/toolvizion/go-language-manager/internal/staging"
	"github.com/toolvizion/go-language-manager/pkg/interfaces"
)

// RetentionWorker prunes synced staging items that have aged past the
// retention window. One Process call performs one sweep; Run repeats
// sweeps on an interval until the context is cancelled.
type RetentionWorker struct {
	service    staging.Service
	logger     interfaces.Logger
	now        func() time.Time
	maxAgeDays int
	interval   time.Duration
}

type RetentionOption func(*RetentionWorker)

// WithClock overrides the time source, used by tests.
func WithClock(clock func() time.Time) RetentionOption {
	return func(w *RetentionWorker) {
		if clock != nil {
			w.now = clock
		}
	}
}

func WithLogger(logger interfaces.Logger) RetentionOption {
	return func(w *RetentionWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithMaxAgeDays overrides the retention window passed to the engine.
// Zero defers to the engine's configured default.
func WithMaxAgeDays(days int) RetentionOption {
	return func(w *RetentionWorker) {
		if days > 0 {
			w.maxAgeDays = days
		}
	}
}

// WithInterval changes the sweep cadence used by Run.
func WithInterval(interval time.Duration) RetentionOption {
	return func(w *RetentionWorker) {
		if interval > 0 {
			w.interval = interval
		}
	}
}

func NewRetentionWorker(service staging.Service, opts ...RetentionOption) *RetentionWorker {
	w := &RetentionWorker{
		service:  service,
		logger:   logging.NoOp(),
		now:      time.Now,
		interval: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Process runs a single retention sweep.
func (w *RetentionWorker) Process(ctx context.Context) error {
	if w.service == nil {
		return errors.New("jobs: staging service is nil")
	}
	started := w.now()
	removed, err := w.service.Cleanup(ctx, staging.CleanupRequest{MaxAgeDays: w.maxAgeDays})
	if err != nil {
		w.logger.Error("retention sweep failed", "error", err)
		return err
	}
	if removed > 0 {
		w.logger.Info("retention sweep removed synced items",
			"removed", removed,
			"duration", w.now().Sub(started).String(),
		)
	}
	return nil
}

// Run sweeps immediately and then on every interval tick until ctx is done.
func (w *RetentionWorker) Run(ctx context.Context) error {
	if err := w.Process(ctx); err != nil && !errors.Is(err, context.Canceled) {
		w.logger.Warn("initial retention sweep failed", "error", err)
	}
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Process(ctx); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.Warn("retention sweep failed", "error", err)
			}
		}
	}
}
