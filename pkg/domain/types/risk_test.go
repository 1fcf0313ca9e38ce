package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

func TestRiskStatus_CanTransitionTo(t *testing.T) {
	gt.Bool(t, types.RiskStatusOpen.CanTransitionTo(types.RiskStatusInProgress)).True()
	gt.Bool(t, types.RiskStatusOpen.CanTransitionTo(types.RiskStatusClosed)).True()
	gt.Bool(t, types.RiskStatusInProgress.CanTransitionTo(types.RiskStatusClosed)).True()
	gt.Bool(t, types.RiskStatusInProgress.CanTransitionTo(types.RiskStatusOpen)).False()
	gt.Bool(t, types.RiskStatusClosed.CanTransitionTo(types.RiskStatusOpen)).False()
	gt.Bool(t, types.RiskStatusOpen.CanTransitionTo(types.RiskStatusOpen)).False()
}

func TestParseRiskType(t *testing.T) {
	got, err := types.ParseRiskType("Opportunity")
	gt.NoError(t, err)
	gt.Value(t, got).Equal(types.RiskTypeOpportunity)

	_, err = types.ParseRiskType("opportunity")
	gt.Error(t, err)
}

func TestParseRiskStatus(t *testing.T) {
	got, err := types.ParseRiskStatus("In Progress")
	gt.NoError(t, err)
	gt.Value(t, got).Equal(types.RiskStatusInProgress)

	_, err = types.ParseRiskStatus("Done")
	gt.Error(t, err)
}

func TestFindingKind(t *testing.T) {
	k, err := types.ParseFindingKind("nonconformity")
	gt.NoError(t, err)
	gt.Value(t, k).Equal(types.FindingKindNonconformity)

	_, err = types.ParseFindingKind("major")
	gt.Error(t, err)

	gt.Bool(t, types.FindingStatusCAPSubmitted.IsValid()).True()
	gt.Bool(t, types.CAPStatus("draft").IsValid()).False()
}
