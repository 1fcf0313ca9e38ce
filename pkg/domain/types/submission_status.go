package types

import "fmt"

// SubmissionStatus represents the review state of a submitted report
type SubmissionStatus string

const (
	SubmissionStatusPending   SubmissionStatus = "pending"
	SubmissionStatusSubmitted SubmissionStatus = "submitted"
	SubmissionStatusApproved  SubmissionStatus = "approved"
	SubmissionStatusRejected  SubmissionStatus = "rejected"
)

// AllSubmissionStatuses returns all valid submission statuses
func AllSubmissionStatuses() []SubmissionStatus {
	return []SubmissionStatus{
		SubmissionStatusPending,
		SubmissionStatusSubmitted,
		SubmissionStatusApproved,
		SubmissionStatusRejected,
	}
}

// IsValid checks if the submission status is valid
func (s SubmissionStatus) IsValid() bool {
	switch s {
	case SubmissionStatusPending,
		SubmissionStatusSubmitted,
		SubmissionStatusApproved,
		SubmissionStatusRejected:
		return true
	default:
		return false
	}
}

// IsPresent reports whether a submission in this status counts as "handed in":
// submitted or approved. Unsent drafts (pending) and rejected submissions do not.
func (s SubmissionStatus) IsPresent() bool {
	return s == SubmissionStatusSubmitted || s == SubmissionStatusApproved
}

// CanTransitionTo reports whether the review workflow allows moving to next
func (s SubmissionStatus) CanTransitionTo(next SubmissionStatus) bool {
	switch s {
	case SubmissionStatusPending:
		return next == SubmissionStatusSubmitted
	case SubmissionStatusSubmitted:
		return next == SubmissionStatusApproved || next == SubmissionStatusRejected
	case SubmissionStatusRejected:
		return next == SubmissionStatusSubmitted
	default:
		return false
	}
}

func (s SubmissionStatus) String() string {
	return string(s)
}

// ParseSubmissionStatus parses a string into a SubmissionStatus
func ParseSubmissionStatus(s string) (SubmissionStatus, error) {
	status := SubmissionStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid submission status: %s", s)
	}
	return status, nil
}
