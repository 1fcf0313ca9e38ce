package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/interfaces"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/service/compliance"
	"github.com/secmon-lab/eoms/pkg/utils/logging"
	"github.com/secmon-lab/eoms/pkg/utils/metrics"
	"golang.org/x/sync/errgroup"
)

// DashboardUseCase fetches collections and runs the compliance aggregator.
// Dashboards are readable by every role; the controller enforces authentication.
type DashboardUseCase struct {
	repo   interfaces.Repository
	notify *NotifyUseCase

	mu         sync.Mutex
	lastDigest string
	swept      bool
}

func NewDashboardUseCase(repo interfaces.Repository, notify *NotifyUseCase) *DashboardUseCase {
	return &DashboardUseCase{
		repo:   repo,
		notify: notify,
	}
}

// Snapshot reads every collection the aggregator needs. year 0 reads all
// submissions and no risks.
func (uc *DashboardUseCase) Snapshot(ctx context.Context, year int) (compliance.Snapshot, error) {
	var snap compliance.Snapshot
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		var err error
		if year > 0 {
			snap.Submissions, err = uc.repo.Submission().ListByYear(ctx, year)
		} else {
			snap.Submissions, err = uc.repo.Submission().List(ctx)
		}
		if err != nil {
			return goerr.Wrap(err, "failed to list submissions", goerr.V("year", year))
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		if snap.Units, err = uc.repo.Unit().List(ctx); err != nil {
			return goerr.Wrap(err, "failed to list units")
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		if snap.Campuses, err = uc.repo.Campus().List(ctx); err != nil {
			return goerr.Wrap(err, "failed to list campuses")
		}
		return nil
	})
	eg.Go(func() error {
		var err error
		if snap.Cycles, err = uc.repo.Cycle().List(ctx); err != nil {
			return goerr.Wrap(err, "failed to list cycles")
		}
		return nil
	})
	if year > 0 {
		eg.Go(func() error {
			var err error
			if snap.Risks, err = uc.repo.Risk().ListByYear(ctx, year); err != nil {
				return goerr.Wrap(err, "failed to list risks", goerr.V("year", year))
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return compliance.Snapshot{}, err
	}
	return snap, nil
}

// Build computes the dashboard for f and refreshes the campus compliance gauges
func (uc *DashboardUseCase) Build(ctx context.Context, f compliance.Filter) (*compliance.Dashboard, error) {
	if f.Year < 2000 || f.Year > 9999 {
		return nil, newValidationError("year", "must be between 2000 and 9999")
	}
	if f.Cycle != "" && !f.Cycle.IsValid() {
		return nil, newValidationError("cycle", "must be first or final")
	}

	snap, err := uc.Snapshot(ctx, f.Year)
	if err != nil {
		return nil, err
	}

	d := compliance.Build(snap, f)
	if f.UnitID == "" && f.Cycle == "" {
		for _, c := range d.Campuses {
			metrics.SetCampusCompliance(string(c.CampusID), f.Year, c.ProgressPercent)
		}
	}
	return d, nil
}

// NonCompliance lists units that missed required reports in cycles ended by now
func (uc *DashboardUseCase) NonCompliance(ctx context.Context, now time.Time, f compliance.Filter) ([]compliance.NonComplianceEntry, error) {
	snap, err := uc.Snapshot(ctx, 0)
	if err != nil {
		return nil, err
	}

	entries := compliance.NonCompliance(snap, f, now)
	if f.UnitID == "" {
		metrics.SetNonCompliantUnits(countUnits(entries))
	}
	return entries, nil
}

// Sweep recomputes non-compliance and posts a digest when the set differs
// from the previous sweep. The first sweep posts only when something is missing.
func (uc *DashboardUseCase) Sweep(ctx context.Context, now time.Time) (bool, error) {
	entries, err := uc.NonCompliance(ctx, now, compliance.Filter{})
	if err != nil {
		return false, err
	}

	digest := fingerprint(entries)

	uc.mu.Lock()
	changed := digest != uc.lastDigest || (!uc.swept && len(entries) > 0)
	uc.mu.Unlock()

	if !changed {
		logging.From(ctx).Debug("non-compliance unchanged", "entries", len(entries))
		return false, nil
	}

	if err := uc.notify.NonComplianceDigest(ctx, entries); err != nil {
		return false, err
	}

	uc.mu.Lock()
	uc.lastDigest = digest
	uc.swept = true
	uc.mu.Unlock()

	return uc.notify.Enabled(), nil
}

func countUnits(entries []compliance.NonComplianceEntry) int {
	seen := make(map[string]struct{})
	for _, e := range entries {
		seen[string(e.UnitID)] = struct{}{}
	}
	return len(seen)
}

func fingerprint(entries []compliance.NonComplianceEntry) string {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		missing := make([]string, len(e.Missing))
		for i, rt := range e.Missing {
			missing[i] = string(rt)
		}
		sort.Strings(missing)
		lines = append(lines, fmt.Sprintf("%s|%s|%s", model.CycleID(e.Year, e.Cycle), e.UnitID, strings.Join(missing, ",")))
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
