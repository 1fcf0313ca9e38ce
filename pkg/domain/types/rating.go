package types

import (
	"fmt"
	"strings"
)

// RiskRating is the pre-treatment rating band of a risk, also declared on
// Risk and Opportunity Registry submissions
type RiskRating string

const (
	RiskRatingLow    RiskRating = "low"
	RiskRatingMedium RiskRating = "medium"
	RiskRatingHigh   RiskRating = "high"
)

// AllRiskRatings returns the rating bands from lowest to highest
func AllRiskRatings() []RiskRating {
	return []RiskRating{RiskRatingLow, RiskRatingMedium, RiskRatingHigh}
}

// IsValid checks if the rating is valid
func (r RiskRating) IsValid() bool {
	switch r {
	case RiskRatingLow, RiskRatingMedium, RiskRatingHigh:
		return true
	default:
		return false
	}
}

func (r RiskRating) String() string {
	return string(r)
}

// ParseRiskRating parses a string into a RiskRating. Matching is case-insensitive.
func ParseRiskRating(s string) (RiskRating, error) {
	r := RiskRating(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("invalid risk rating: %s", s)
	}
	return r, nil
}

// RatingFromMagnitude maps likelihood x consequence (1-25) into a band.
// 1-4 is low, 5-12 is medium and 15-25 is high. Magnitudes outside 1-25
// return false.
func RatingFromMagnitude(magnitude int) (RiskRating, bool) {
	switch {
	case magnitude < 1 || magnitude > 25:
		return "", false
	case magnitude <= 4:
		return RiskRatingLow, true
	case magnitude <= 12:
		return RiskRatingMedium, true
	default:
		return RiskRatingHigh, true
	}
}
