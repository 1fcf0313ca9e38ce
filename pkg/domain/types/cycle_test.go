package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

func TestParseCycle(t *testing.T) {
	tests := []struct {
		input   string
		want    types.Cycle
		wantErr bool
	}{
		{input: "first", want: types.CycleFirst},
		{input: "Final", want: types.CycleFinal},
		{input: " FIRST ", want: types.CycleFirst},
		{input: "second", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := types.ParseCycle(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}

func TestAllCycles(t *testing.T) {
	cycles := types.AllCycles()
	gt.Array(t, cycles).Length(2)
	gt.Value(t, cycles[0]).Equal(types.CycleFirst)
	gt.Value(t, cycles[1]).Equal(types.CycleFinal)
	gt.Value(t, types.CycleFinal.Label()).Equal("Final Cycle")
}
