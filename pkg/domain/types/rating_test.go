package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

func TestRatingFromMagnitude(t *testing.T) {
	tests := []struct {
		magnitude int
		want      types.RiskRating
		ok        bool
	}{
		{magnitude: 0, ok: false},
		{magnitude: 1, want: types.RiskRatingLow, ok: true},
		{magnitude: 4, want: types.RiskRatingLow, ok: true},
		{magnitude: 5, want: types.RiskRatingMedium, ok: true},
		{magnitude: 12, want: types.RiskRatingMedium, ok: true},
		{magnitude: 15, want: types.RiskRatingHigh, ok: true},
		{magnitude: 25, want: types.RiskRatingHigh, ok: true},
		{magnitude: 26, ok: false},
	}

	for _, tt := range tests {
		got, ok := types.RatingFromMagnitude(tt.magnitude)
		gt.Value(t, ok).Equal(tt.ok)
		gt.Value(t, got).Equal(tt.want)
	}
}

func TestParseRiskRating(t *testing.T) {
	got, err := types.ParseRiskRating("LOW")
	gt.NoError(t, err)
	gt.Value(t, got).Equal(types.RiskRatingLow)

	_, err = types.ParseRiskRating("critical")
	gt.Error(t, err)
}
