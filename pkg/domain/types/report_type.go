package types

import "fmt"

// ReportType is one of the six document categories a unit submits every cycle
type ReportType string

const (
	ReportTypeOperationalPlan   ReportType = "operational-plan"
	ReportTypeQualityObjectives ReportType = "quality-objectives"
	ReportTypeRiskRegistry      ReportType = "risk-registry"
	ReportTypeActionPlan        ReportType = "action-plan"
	ReportTypeRiskMonitoring    ReportType = "risk-monitoring"
	ReportTypeSWOT              ReportType = "swot"
)

// RequiredReportCount is the number of report types a unit owes per cycle
const RequiredReportCount = 6

// AllReportTypes returns every report type in display order
func AllReportTypes() []ReportType {
	return []ReportType{
		ReportTypeOperationalPlan,
		ReportTypeQualityObjectives,
		ReportTypeRiskRegistry,
		ReportTypeActionPlan,
		ReportTypeRiskMonitoring,
		ReportTypeSWOT,
	}
}

// IsValid checks if the report type is valid
func (r ReportType) IsValid() bool {
	switch r {
	case ReportTypeOperationalPlan,
		ReportTypeQualityObjectives,
		ReportTypeRiskRegistry,
		ReportTypeActionPlan,
		ReportTypeRiskMonitoring,
		ReportTypeSWOT:
		return true
	default:
		return false
	}
}

func (r ReportType) String() string {
	return string(r)
}

// Label returns the human readable name used on forms and dashboards
func (r ReportType) Label() string {
	switch r {
	case ReportTypeOperationalPlan:
		return "Operational Plan"
	case ReportTypeQualityObjectives:
		return "Quality Objectives Monitoring"
	case ReportTypeRiskRegistry:
		return "Risk and Opportunity Registry"
	case ReportTypeActionPlan:
		return "Risk and Opportunity Action Plan"
	case ReportTypeRiskMonitoring:
		return "Risk and Opportunity Monitoring"
	case ReportTypeSWOT:
		return "SWOT Analysis"
	default:
		return string(r)
	}
}

// ParseReportType parses a string into a ReportType
func ParseReportType(s string) (ReportType, error) {
	r := ReportType(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid report type: %s", s)
	}
	return r, nil
}
