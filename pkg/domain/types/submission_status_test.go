package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

func TestSubmissionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from types.SubmissionStatus
		to   types.SubmissionStatus
		want bool
	}{
		{name: "pending to submitted", from: types.SubmissionStatusPending, to: types.SubmissionStatusSubmitted, want: true},
		{name: "submitted to approved", from: types.SubmissionStatusSubmitted, to: types.SubmissionStatusApproved, want: true},
		{name: "submitted to rejected", from: types.SubmissionStatusSubmitted, to: types.SubmissionStatusRejected, want: true},
		{name: "rejected to submitted", from: types.SubmissionStatusRejected, to: types.SubmissionStatusSubmitted, want: true},
		{name: "pending to approved", from: types.SubmissionStatusPending, to: types.SubmissionStatusApproved, want: false},
		{name: "approved to rejected", from: types.SubmissionStatusApproved, to: types.SubmissionStatusRejected, want: false},
		{name: "approved to submitted", from: types.SubmissionStatusApproved, to: types.SubmissionStatusSubmitted, want: false},
		{name: "rejected to approved", from: types.SubmissionStatusRejected, to: types.SubmissionStatusApproved, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.from.CanTransitionTo(tt.to)).Equal(tt.want)
		})
	}
}

func TestSubmissionStatus_IsPresent(t *testing.T) {
	gt.Bool(t, types.SubmissionStatusPending.IsPresent()).False()
	gt.Bool(t, types.SubmissionStatusSubmitted.IsPresent()).True()
	gt.Bool(t, types.SubmissionStatusApproved.IsPresent()).True()
	gt.Bool(t, types.SubmissionStatusRejected.IsPresent()).False()
	gt.Bool(t, types.SubmissionStatus("draft").IsPresent()).False()
}

func TestParseSubmissionStatus(t *testing.T) {
	got, err := types.ParseSubmissionStatus("approved")
	gt.NoError(t, err)
	gt.Value(t, got).Equal(types.SubmissionStatusApproved)

	_, err = types.ParseSubmissionStatus("Approved")
	gt.Error(t, err)
}
