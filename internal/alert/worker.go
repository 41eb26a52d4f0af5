package alert

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/kikibot/aa-alert/internal/catalog"
	"github.com/kikibot/aa-alert/internal/schedule"
)

// Fetcher supplies the current event catalog.
type Fetcher interface {
	Fetch(ctx context.Context) ([]catalog.Entry, error)
}

// Dispatcher sends one firing decision.
type Dispatcher interface {
	Dispatch(ctx context.Context, f Firing) error
}

// Config carries the projection and evaluation parameters for the worker.
type Config struct {
	Region      string
	Targets     []string // lowercased monitored keys
	LeadMinutes []int
	Tolerance   time.Duration
}

// Worker runs the full fetch → project → evaluate → dispatch pipeline once
// per tick. The tick driver serializes invocations, so the worker itself
// holds no pipeline lock; the snapshot mutex only guards status reads.
type Worker struct {
	fetcher    Fetcher
	dispatcher Dispatcher
	store      Store
	cfg        Config
	logger     *slog.Logger

	mu       sync.RWMutex
	lastRun  time.Time
	lastProj []schedule.Projection
}

// NewWorker wires the pipeline.
func NewWorker(fetcher Fetcher, dispatcher Dispatcher, store Store, cfg Config, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		fetcher:    fetcher,
		dispatcher: dispatcher,
		store:      store,
		cfg:        cfg,
		logger:     logger,
	}
}

// RunTick executes one pipeline run. A catalog fetch failure aborts the tick
// with no side effects; dispatch failures are logged per firing and never
// abort the remaining firings.
func (w *Worker) RunTick(ctx context.Context) {
	now := time.Now().UTC()

	entries, err := w.fetcher.Fetch(ctx)
	if err != nil {
		w.logger.Error("tick aborted: catalog fetch failed", "error", err)
		return
	}

	projections := schedule.Project(entries, w.cfg.Targets, w.cfg.Region, now, w.logger)

	w.mu.Lock()
	w.lastRun = now
	w.lastProj = projections
	w.mu.Unlock()

	firings := Evaluate(projections, now, w.cfg.LeadMinutes, w.cfg.Tolerance, w.store)
	if len(firings) == 0 {
		return
	}

	w.logger.Info("tick produced firings",
		"count", len(firings), "projected", len(projections))

	for _, f := range firings {
		if err := w.dispatcher.Dispatch(ctx, f); err != nil {
			// The dedup key is already committed: this warning will not
			// be retried.
			w.logger.Error("dispatch failed, alert dropped",
				"error", err,
				"event", f.EventName,
				"occurrence", f.Occurrence.Format(time.RFC3339),
				"lead_minutes", f.LeadMinutes)
		}
	}
}

// Snapshot returns the last tick time and its projections for the status
// endpoint.
func (w *Worker) Snapshot() (time.Time, []schedule.Projection) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	proj := make([]schedule.Projection, len(w.lastProj))
	copy(proj, w.lastProj)
	return w.lastRun, proj
}

// StoreSize reports the dedup set size for the status endpoint.
func (w *Worker) StoreSize() int {
	return w.store.Len()
}
