package types

import "fmt"

// RiskType separates threats from opportunities in the registry
type RiskType string

const (
	RiskTypeRisk        RiskType = "Risk"
	RiskTypeOpportunity RiskType = "Opportunity"
)

// AllRiskTypes returns all risk types
func AllRiskTypes() []RiskType {
	return []RiskType{RiskTypeRisk, RiskTypeOpportunity}
}

// IsValid checks if the risk type is valid
func (r RiskType) IsValid() bool {
	return r == RiskTypeRisk || r == RiskTypeOpportunity
}

func (r RiskType) String() string {
	return string(r)
}

// ParseRiskType parses a string into a RiskType
func ParseRiskType(s string) (RiskType, error) {
	r := RiskType(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid risk type: %s", s)
	}
	return r, nil
}

// RiskStatus is the treatment lifecycle state of a risk
type RiskStatus string

const (
	RiskStatusOpen       RiskStatus = "Open"
	RiskStatusInProgress RiskStatus = "In Progress"
	RiskStatusClosed     RiskStatus = "Closed"
)

// AllRiskStatuses returns risk statuses in lifecycle order
func AllRiskStatuses() []RiskStatus {
	return []RiskStatus{RiskStatusOpen, RiskStatusInProgress, RiskStatusClosed}
}

// IsValid checks if the risk status is valid
func (s RiskStatus) IsValid() bool {
	switch s {
	case RiskStatusOpen, RiskStatusInProgress, RiskStatusClosed:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the treatment lifecycle allows moving to next.
// A risk may skip In Progress and be closed directly.
func (s RiskStatus) CanTransitionTo(next RiskStatus) bool {
	switch s {
	case RiskStatusOpen:
		return next == RiskStatusInProgress || next == RiskStatusClosed
	case RiskStatusInProgress:
		return next == RiskStatusClosed
	default:
		return false
	}
}

func (s RiskStatus) String() string {
	return string(s)
}

// ParseRiskStatus parses a string into a RiskStatus
func ParseRiskStatus(s string) (RiskStatus, error) {
	status := RiskStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid risk status: %s", s)
	}
	return status, nil
}
