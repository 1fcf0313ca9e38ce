package usecase_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/service/compliance"
	"github.com/secmon-lab/eoms/pkg/usecase"
)

func riskInput(l, c int) usecase.RiskInput {
	return usecase.RiskInput{
		UnitID:      unitCS,
		CampusID:    campusMain,
		Year:        testYear,
		Type:        types.RiskTypeRisk,
		Likelihood:  l,
		Consequence: c,
		Description: "Lab equipment failure",
		Treatment:   "Preventive maintenance schedule",
	}
}

func TestRiskUseCase_Register(t *testing.T) {
	uc := usecase.New(newSeededRepo(t))

	tests := []struct {
		name   string
		l, c   int
		rating types.RiskRating
	}{
		{"low band", 2, 2, types.RiskRatingLow},
		{"medium band", 3, 4, types.RiskRatingMedium},
		{"high band", 5, 3, types.RiskRatingHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk, err := uc.Risk.Register(unitCtx(unitCS), riskInput(tt.l, tt.c))
			gt.NoError(t, err).Required()
			gt.Value(t, risk.Rating).Equal(tt.rating)
			gt.Value(t, risk.Status).Equal(types.RiskStatusOpen)
		})
	}

	t.Run("out of range factors", func(t *testing.T) {
		_, err := uc.Risk.Register(unitCtx(unitCS), riskInput(0, 6))
		var ve *usecase.ValidationError
		gt.Bool(t, errors.As(err, &ve)).True()
		gt.Map(t, ve.Fields).HasKey("likelihood")
		gt.Map(t, ve.Fields).HasKey("consequence")
	})

	t.Run("other unit denied", func(t *testing.T) {
		_, err := uc.Risk.Register(unitCtx(unitEng), riskInput(1, 1))
		gt.Error(t, err).Is(usecase.ErrPermissionDenied)
	})
}

func TestRiskUseCase_UpdateStatus(t *testing.T) {
	uc := usecase.New(newSeededRepo(t))

	risk, err := uc.Risk.Register(unitCtx(unitCS), riskInput(4, 4))
	gt.NoError(t, err).Required()

	r, err := uc.Risk.UpdateStatus(unitCtx(unitCS), risk.ID, types.RiskStatusInProgress)
	gt.NoError(t, err).Required()
	gt.Value(t, r.Status).Equal(types.RiskStatusInProgress)

	_, err = uc.Risk.UpdateStatus(unitCtx(unitCS), risk.ID, types.RiskStatusOpen)
	gt.Error(t, err).Is(usecase.ErrInvalidTransition)

	r, err = uc.Risk.UpdateStatus(qaCtx(), risk.ID, types.RiskStatusClosed)
	gt.NoError(t, err).Required()
	gt.Value(t, r.Status).Equal(types.RiskStatusClosed)

	_, err = uc.Risk.UpdateStatus(qaCtx(), risk.ID, types.RiskStatusInProgress)
	gt.Error(t, err).Is(usecase.ErrInvalidTransition)

	t.Run("open may close directly", func(t *testing.T) {
		other, err := uc.Risk.Register(unitCtx(unitCS), riskInput(1, 2))
		gt.NoError(t, err).Required()
		_, err = uc.Risk.UpdateStatus(unitCtx(unitCS), other.ID, types.RiskStatusClosed)
		gt.NoError(t, err)
	})
}

func TestRiskUseCase_MatrixAndFunnel(t *testing.T) {
	uc := usecase.New(newSeededRepo(t))

	for _, lc := range [][2]int{{5, 5}, {5, 5}, {1, 2}} {
		_, err := uc.Risk.Register(unitCtx(unitCS), riskInput(lc[0], lc[1]))
		gt.NoError(t, err).Required()
	}
	in := riskInput(3, 3)
	in.UnitID = unitEng
	in.Type = types.RiskTypeOpportunity
	_, err := uc.Risk.Register(unitCtx(unitEng), in)
	gt.NoError(t, err).Required()

	m, err := uc.Risk.Matrix(viewerCtx(), compliance.Filter{Year: testYear})
	gt.NoError(t, err).Required()
	gt.Value(t, m.Total).Equal(4)
	gt.Array(t, m.Points).Length(3).Required()
	gt.Value(t, m.Points[0].Magnitude).Equal(25)
	gt.Value(t, m.Points[0].Count).Equal(2)

	csOnly, err := uc.Risk.Matrix(viewerCtx(), compliance.Filter{Year: testYear, UnitID: unitCS})
	gt.NoError(t, err).Required()
	gt.Value(t, csOnly.Total).Equal(3)

	funnel, err := uc.Risk.Funnel(viewerCtx(), compliance.Filter{Year: testYear})
	gt.NoError(t, err).Required()
	gt.Array(t, funnel).Length(2)
}
