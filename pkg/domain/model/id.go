package model

import "github.com/google/uuid"

// newID returns a time-ordered UUID so that documents sort by creation
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}

type SubmissionID string

func NewSubmissionID() SubmissionID { return SubmissionID(newID()) }

func (x SubmissionID) String() string { return string(x) }

type RiskID string

func NewRiskID() RiskID { return RiskID(newID()) }

func (x RiskID) String() string { return string(x) }

type FindingID string

func NewFindingID() FindingID { return FindingID(newID()) }

func (x FindingID) String() string { return string(x) }

type CAPID string

func NewCAPID() CAPID { return CAPID(newID()) }

func (x CAPID) String() string { return string(x) }

type ChatLogID string

func NewChatLogID() ChatLogID { return ChatLogID(newID()) }

func (x ChatLogID) String() string { return string(x) }
