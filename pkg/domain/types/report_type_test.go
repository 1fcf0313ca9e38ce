package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

func TestAllReportTypes(t *testing.T) {
	all := types.AllReportTypes()
	gt.Array(t, all).Length(types.RequiredReportCount)

	seen := map[types.ReportType]bool{}
	for _, r := range all {
		gt.Bool(t, r.IsValid()).True()
		gt.Value(t, r.Label()).NotEqual(string(r))
		gt.Bool(t, seen[r]).False()
		seen[r] = true
	}
}

func TestParseReportType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.ReportType
		wantErr bool
	}{
		{name: "registry", input: "risk-registry", want: types.ReportTypeRiskRegistry},
		{name: "swot", input: "swot", want: types.ReportTypeSWOT},
		{name: "label is not an id", input: "SWOT Analysis", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseReportType(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestReportType_Label(t *testing.T) {
	gt.Value(t, types.ReportTypeActionPlan.Label()).Equal("Risk and Opportunity Action Plan")
	gt.Value(t, types.ReportTypeQualityObjectives.Label()).Equal("Quality Objectives Monitoring")
	gt.Value(t, types.ReportType("custom").Label()).Equal("custom")
}
