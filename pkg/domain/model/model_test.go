package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

func TestUnit_Validate(t *testing.T) {
	t.Run("valid unit", func(t *testing.T) {
		u := &model.Unit{ID: "registrar", Name: "Registrar", CampusIDs: []types.CampusID{"main"}}
		gt.NoError(t, u.Validate())
	})

	t.Run("no campus", func(t *testing.T) {
		u := &model.Unit{ID: "registrar", Name: "Registrar"}
		err := u.Validate()
		gt.Bool(t, errors.Is(err, model.ErrInvalidEntity)).True()
	})

	t.Run("bad campus ID", func(t *testing.T) {
		u := &model.Unit{ID: "registrar", Name: "Registrar", CampusIDs: []types.CampusID{"Main"}}
		gt.Error(t, u.Validate()).Is(model.ErrInvalidEntity)
	})
}

func TestUnit_CloneIsDeep(t *testing.T) {
	u := &model.Unit{ID: "registrar", Name: "Registrar", CampusIDs: []types.CampusID{"main"}}
	c := u.Clone()
	c.CampusIDs[0] = "north"
	gt.Value(t, u.CampusIDs[0]).Equal(types.CampusID("main"))
	gt.Bool(t, u.HasCampus("main")).True()
	gt.Bool(t, u.HasCampus("north")).False()
}

func TestCycle(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("end before start", func(t *testing.T) {
		c := &model.Cycle{Year: 2025, Cycle: types.CycleFirst, StartAt: end, EndAt: start}
		gt.Error(t, c.Validate()).Is(model.ErrInvalidEntity)
	})

	t.Run("ended", func(t *testing.T) {
		c := &model.Cycle{Year: 2025, Cycle: types.CycleFirst, StartAt: start, EndAt: end}
		gt.NoError(t, c.Validate())
		gt.Bool(t, c.Ended(end.Add(time.Hour))).True()
		gt.Bool(t, c.Ended(end.Add(-time.Hour))).False()
	})

	t.Run("zero end date never ends", func(t *testing.T) {
		c := &model.Cycle{Year: 2025, Cycle: types.CycleFinal}
		gt.Bool(t, c.Ended(time.Now())).False()
	})

	gt.Value(t, model.CycleID(2025, types.CycleFinal)).Equal("2025-final")
}

func TestRisk_Magnitude(t *testing.T) {
	tests := []struct {
		name string
		l, c int
		want int
		ok   bool
	}{
		{name: "max", l: 5, c: 5, want: 25, ok: true},
		{name: "min", l: 1, c: 1, want: 1, ok: true},
		{name: "zero likelihood", l: 0, c: 3, ok: false},
		{name: "consequence too high", l: 2, c: 6, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &model.Risk{Likelihood: tt.l, Consequence: tt.c}
			got, ok := r.Magnitude()
			gt.Value(t, ok).Equal(tt.ok)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestNewIDsAreUnique(t *testing.T) {
	a := model.NewSubmissionID()
	b := model.NewSubmissionID()
	gt.Value(t, a).NotEqual(b)
	gt.Number(t, len(a.String())).Equal(36)
}
