package types

import "fmt"

// FindingKind classifies an internal audit finding
type FindingKind string

const (
	FindingKindNonconformity FindingKind = "nonconformity"
	FindingKindObservation   FindingKind = "observation"
	FindingKindOpportunity   FindingKind = "opportunity"
)

// IsValid checks if the finding kind is valid
func (k FindingKind) IsValid() bool {
	switch k {
	case FindingKindNonconformity, FindingKindObservation, FindingKindOpportunity:
		return true
	default:
		return false
	}
}

func (k FindingKind) String() string {
	return string(k)
}

// ParseFindingKind parses a string into a FindingKind
func ParseFindingKind(s string) (FindingKind, error) {
	k := FindingKind(s)
	if !k.IsValid() {
		return "", fmt.Errorf("invalid finding kind: %s", s)
	}
	return k, nil
}

// FindingStatus tracks an audit finding through the corrective action workflow
type FindingStatus string

const (
	FindingStatusOpen         FindingStatus = "open"
	FindingStatusCAPSubmitted FindingStatus = "cap-submitted"
	FindingStatusClosed       FindingStatus = "closed"
)

// IsValid checks if the finding status is valid
func (s FindingStatus) IsValid() bool {
	switch s {
	case FindingStatusOpen, FindingStatusCAPSubmitted, FindingStatusClosed:
		return true
	default:
		return false
	}
}

func (s FindingStatus) String() string {
	return string(s)
}

// CAPStatus is the review state of a corrective action plan
type CAPStatus string

const (
	CAPStatusSubmitted CAPStatus = "submitted"
	CAPStatusApproved  CAPStatus = "approved"
	CAPStatusRejected  CAPStatus = "rejected"
)

// IsValid checks if the CAP status is valid
func (s CAPStatus) IsValid() bool {
	switch s {
	case CAPStatusSubmitted, CAPStatusApproved, CAPStatusRejected:
		return true
	default:
		return false
	}
}

func (s CAPStatus) String() string {
	return string(s)
}
