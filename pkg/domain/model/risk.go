package model

import (
	"time"

	"github.com/secmon-lab/eoms/pkg/domain/types"
)

// Risk is an entry of a unit's risk and opportunity registry
type Risk struct {
	ID          RiskID
	UnitID      types.UnitID
	CampusID    types.CampusID
	Year        int
	Type        types.RiskType
	Status      types.RiskStatus
	Likelihood  int
	Consequence int
	// Rating is derived from Likelihood x Consequence when the risk is registered
	Rating      types.RiskRating
	Description string
	Treatment   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Magnitude returns likelihood x consequence. ok is false when either factor
// is outside 1-5.
func (r *Risk) Magnitude() (int, bool) {
	if r.Likelihood < 1 || r.Likelihood > 5 || r.Consequence < 1 || r.Consequence > 5 {
		return 0, false
	}
	return r.Likelihood * r.Consequence, true
}

// Clone returns a copy of the risk
func (r *Risk) Clone() *Risk {
	c := *r
	return &c
}
