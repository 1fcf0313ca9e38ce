package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/service/compliance"
	"github.com/secmon-lab/eoms/pkg/usecase"
)

func submitAll(t *testing.T, uc *usecase.UseCases, unitID types.UnitID, rating types.RiskRating, approve bool) {
	t.Helper()
	for _, rt := range types.AllReportTypes() {
		if rating == types.RiskRatingLow && rt == types.ReportTypeActionPlan {
			continue
		}
		in := validInput(rt)
		in.UnitID = unitID
		if rt == types.ReportTypeRiskRegistry {
			in.RiskRating = rating
		}
		s, err := uc.Submission.Submit(unitCtx(unitID), in)
		gt.NoError(t, err).Required()
		if approve {
			_, err = uc.Submission.Approve(qaCtx(), s.ID, "")
			gt.NoError(t, err).Required()
		}
	}
}

func TestDashboardUseCase_Build(t *testing.T) {
	uc := usecase.New(newSeededRepo(t))
	submitAll(t, uc, unitCS, types.RiskRatingLow, true)

	d, err := uc.Dashboard.Build(context.Background(), compliance.Filter{Year: testYear, Cycle: types.CycleFirst})
	gt.NoError(t, err).Required()
	gt.Array(t, d.Units).Length(2).Required()

	cs := d.Units[0]
	gt.Value(t, cs.UnitID).Equal(unitCS)
	gt.Value(t, cs.ApprovedCount).Equal(5)
	gt.Value(t, cs.TotalRequired).Equal(5)
	gt.Value(t, cs.ProgressPercent).Equal(100.0)

	eng := d.Units[1]
	gt.Value(t, eng.ApprovedCount).Equal(0)
	gt.Value(t, eng.TotalRequired).Equal(6)

	t.Run("year is required", func(t *testing.T) {
		_, err := uc.Dashboard.Build(context.Background(), compliance.Filter{})
		gt.Error(t, err).Is(usecase.ErrValidation)
	})

	t.Run("invalid cycle", func(t *testing.T) {
		_, err := uc.Dashboard.Build(context.Background(), compliance.Filter{Year: testYear, Cycle: "mid"})
		gt.Error(t, err).Is(usecase.ErrValidation)
	})
}

func TestDashboardUseCase_NonCompliance(t *testing.T) {
	uc := usecase.New(newSeededRepo(t))
	submitAll(t, uc, unitCS, types.RiskRatingMedium, false)

	beforeEnd := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	entries, err := uc.Dashboard.NonCompliance(context.Background(), beforeEnd, compliance.Filter{})
	gt.NoError(t, err).Required()
	gt.Array(t, entries).Length(0)

	afterFirst := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)
	entries, err = uc.Dashboard.NonCompliance(context.Background(), afterFirst, compliance.Filter{})
	gt.NoError(t, err).Required()
	gt.Array(t, entries).Length(1).Required()
	gt.Value(t, entries[0].UnitID).Equal(unitEng)
	gt.Array(t, entries[0].Missing).Length(6)
}

func TestDashboardUseCase_Sweep(t *testing.T) {
	sl := &mockSlack{}
	uc := usecase.New(newSeededRepo(t), usecase.WithSlack(sl, "C0123"))
	ctx := context.Background()
	now := time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)

	notified, err := uc.Dashboard.Sweep(ctx, now)
	gt.NoError(t, err).Required()
	gt.Bool(t, notified).True()
	gt.Array(t, sl.Posts()).Length(1)

	notified, err = uc.Dashboard.Sweep(ctx, now)
	gt.NoError(t, err).Required()
	gt.Bool(t, notified).False()
	gt.Array(t, sl.Posts()).Length(1)

	submitAll(t, uc, unitCS, types.RiskRatingLow, false)

	notified, err = uc.Dashboard.Sweep(ctx, now)
	gt.NoError(t, err).Required()
	gt.Bool(t, notified).True()
	posts := sl.Posts()
	gt.Array(t, posts).Length(2).Required()
	gt.String(t, posts[1].text).Contains("1 unit-cycle")

	t.Run("slack failure is retried next sweep", func(t *testing.T) {
		submitAll(t, uc, unitEng, types.RiskRatingMedium, false)
		sl.mu.Lock()
		sl.err = context.DeadlineExceeded
		sl.mu.Unlock()

		_, err := uc.Dashboard.Sweep(ctx, now)
		gt.Value(t, err).NotNil()

		sl.mu.Lock()
		sl.err = nil
		sl.mu.Unlock()

		notified, err := uc.Dashboard.Sweep(ctx, now)
		gt.NoError(t, err).Required()
		gt.Bool(t, notified).True()
		last := sl.Posts()[len(sl.Posts())-1]
		gt.String(t, last.text).Contains("All units")
	})
}

func TestDashboardUseCase_SweepWithoutSlack(t *testing.T) {
	uc := usecase.New(newSeededRepo(t))
	notified, err := uc.Dashboard.Sweep(context.Background(), time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC))
	gt.NoError(t, err).Required()
	gt.Bool(t, notified).False()
}
