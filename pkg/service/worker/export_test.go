package worker

import "time"

// SetNow replaces the clock used for sweeps
func (w *ComplianceSweepWorker) SetNow(now func() time.Time) {
	w.now = now
}
