// Package scheduler runs the periodic batch re-check in the background.
package scheduler

import (
	"context"
	"time"

	"github.com/dropalert/dropalert/internal/logger"
	"github.com/dropalert/dropalert/internal/tracker"
)

// Refresher is the slice of the tracker the scheduler drives.
type Refresher interface {
	RefreshAll(ctx context.Context) (tracker.Report, error)
}

// Rechecker triggers a batch re-check of all tracked products on a fixed
// interval. A failed run is logged and the next tick proceeds as usual.
type Rechecker struct {
	tracker  Refresher
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewRechecker creates a new periodic rechecker.
func NewRechecker(t Refresher, log logger.Logger, interval time.Duration) *Rechecker {
	return &Rechecker{
		tracker:  t,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic re-check loop. Unlike a config reloader there is
// no initial run: products are fresh when tracking starts, so the first pass
// only happens once the interval has elapsed.
func (rc *Rechecker) Start(ctx context.Context) {
	ticker := time.NewTicker(rc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rc.run(ctx)
			case <-rc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the rechecker.
func (rc *Rechecker) Stop() {
	close(rc.stopCh)
}

func (rc *Rechecker) run(ctx context.Context) {
	rc.logger.Info("scheduled re-check starting")
	report, err := rc.tracker.RefreshAll(ctx)
	if err != nil {
		rc.logger.Error("scheduled re-check failed",
			logger.Error(err))
		return
	}
	rc.logger.Info("scheduled re-check done",
		logger.Int("updated", report.Updated),
		logger.Int("total", report.Total),
		logger.Int("errors", len(report.Errors)))
}
