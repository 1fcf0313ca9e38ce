package compliance_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/domain/model"
	"github.com/secmon-lab/eoms/pkg/domain/types"
	"github.com/secmon-lab/eoms/pkg/service/compliance"
)

func risk(id model.RiskID, rt types.RiskType, st types.RiskStatus, l, c int) *model.Risk {
	return &model.Risk{ID: id, UnitID: "registrar", Year: 2025, Type: rt, Status: st, Likelihood: l, Consequence: c}
}

func TestBuildRiskMatrix(t *testing.T) {
	risks := []*model.Risk{
		risk("a", types.RiskTypeRisk, types.RiskStatusOpen, 1, 2),
		risk("b", types.RiskTypeRisk, types.RiskStatusOpen, 5, 3),
		risk("c", types.RiskTypeRisk, types.RiskStatusOpen, 3, 5),
		risk("d", types.RiskTypeOpportunity, types.RiskStatusClosed, 3, 5),
		risk("e", types.RiskTypeRisk, types.RiskStatusOpen, 2, 3),
		risk("f", types.RiskTypeRisk, types.RiskStatusOpen, 0, 3),
		risk("g", types.RiskTypeRisk, types.RiskStatusOpen, 6, 1),
	}
	other := risk("h", types.RiskTypeRisk, types.RiskStatusOpen, 5, 5)
	other.Year = 2024
	risks = append(risks, other)

	m := compliance.BuildRiskMatrix(risks, compliance.Filter{Year: 2025})
	gt.Value(t, m.Total).Equal(5)
	gt.Value(t, m.Skipped).Equal(2)
	gt.Value(t, m.ByRating[types.RiskRatingHigh]).Equal(3)
	gt.Value(t, m.ByRating[types.RiskRatingMedium]).Equal(1)
	gt.Value(t, m.ByRating[types.RiskRatingLow]).Equal(1)

	gt.Array(t, m.Points).Length(4).Required()
	// 5x3 and 3x5 are both 15; higher likelihood first
	gt.Value(t, m.Points[0].Likelihood).Equal(5)
	gt.Value(t, m.Points[0].Magnitude).Equal(15)
	gt.Value(t, m.Points[1].Likelihood).Equal(3)
	gt.Value(t, m.Points[1].Count).Equal(2)
	gt.Value(t, m.Points[1].RiskIDs).Equal([]model.RiskID{"c", "d"})
	gt.Value(t, m.Points[2].Magnitude).Equal(6)
	gt.Value(t, m.Points[2].Rating).Equal(types.RiskRatingMedium)
	gt.Value(t, m.Points[3].Magnitude).Equal(2)
	gt.Value(t, m.Points[3].Rating).Equal(types.RiskRatingLow)
}

func TestBuildRiskMatrix_Empty(t *testing.T) {
	m := compliance.BuildRiskMatrix(nil, compliance.Filter{Year: 2025})
	gt.Value(t, m.Total).Equal(0)
	gt.Array(t, m.Points).Length(0)
	gt.Value(t, m.ByRating[types.RiskRatingLow]).Equal(0)
}

func TestBuildRiskFunnel(t *testing.T) {
	risks := []*model.Risk{
		risk("a", types.RiskTypeRisk, types.RiskStatusOpen, 1, 1),
		risk("b", types.RiskTypeRisk, types.RiskStatusOpen, 1, 1),
		risk("c", types.RiskTypeRisk, types.RiskStatusClosed, 1, 1),
		risk("d", types.RiskTypeOpportunity, types.RiskStatusInProgress, 1, 1),
		risk("e", types.RiskTypeOpportunity, types.RiskStatus("Archived"), 1, 1),
	}

	got := compliance.BuildRiskFunnel(risks, compliance.Filter{Year: 2025})
	gt.Array(t, got).Length(2).Required()

	gt.Value(t, got[0].Type).Equal(types.RiskTypeRisk)
	gt.Value(t, got[0].Total).Equal(3)
	gt.Value(t, got[0].Stages).Equal([]compliance.FunnelStage{
		{Status: types.RiskStatusOpen, Count: 2},
		{Status: types.RiskStatusInProgress, Count: 0},
		{Status: types.RiskStatusClosed, Count: 1},
	})

	gt.Value(t, got[1].Type).Equal(types.RiskTypeOpportunity)
	gt.Value(t, got[1].Total).Equal(1)
	gt.Value(t, got[1].Stages[1].Count).Equal(1)
}

func TestBuildRiskFunnel_UnitFilter(t *testing.T) {
	r := risk("x", types.RiskTypeRisk, types.RiskStatusOpen, 2, 2)
	r.UnitID = "library"
	got := compliance.BuildRiskFunnel([]*model.Risk{r}, compliance.Filter{Year: 2025, UnitID: "registrar"})
	gt.Value(t, got[0].Total).Equal(0)
}
