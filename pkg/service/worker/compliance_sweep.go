package worker

import (
	"context"
	"time"

	"github.com/secmon-lab/eoms/pkg/utils/logging"
)

// Sweeper recomputes non-compliance and notifies when the result changed
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time) (notified bool, err error)
}

// ComplianceSweepWorker periodically runs the non-compliance sweep
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - Change detection state lives in the sweeper, so a restart posts one digest again
type ComplianceSweepWorker struct {
	sweeper  Sweeper
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewComplianceSweepWorker creates a new sweep worker
func NewComplianceSweepWorker(sweeper Sweeper, interval time.Duration) *ComplianceSweepWorker {
	return &ComplianceSweepWorker{
		sweeper:  sweeper,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background sweep loop. The first sweep runs immediately
// in the background and does not block server startup.
func (w *ComplianceSweepWorker) Start(ctx context.Context) error {
	logging.Default().Info("Compliance sweep worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *ComplianceSweepWorker) Stop() {
	logging.Default().Info("Compliance sweep worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Compliance sweep worker stopped")
}

func (w *ComplianceSweepWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	w.sweep(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sweep(ctx)

		case <-w.stopCh:
			logging.Default().Info("Compliance sweep worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("Compliance sweep worker context cancelled")
			return
		}
	}
}

func (w *ComplianceSweepWorker) sweep(ctx context.Context) {
	start := time.Now()
	notified, err := w.sweeper.Sweep(ctx, w.now())
	if err != nil {
		logging.Default().Error("Compliance sweep failed (will retry next interval)",
			"error", err.Error())
		return
	}

	logging.Default().Info("Compliance sweep completed",
		"notified", notified,
		"duration", time.Since(start).String())
}
