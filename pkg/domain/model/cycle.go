package model

import (
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

// Cycle is a submission window of a year. There is at most one per
// (year, cycle) pair, so the ID is derived from both.
type Cycle struct {
	ID        string
	Year      int
	Cycle     types.Cycle
	Name      string
	StartAt   time.Time
	EndAt     time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CycleID builds the canonical ID of a cycle, e.g. "2025-first"
func CycleID(year int, cycle types.Cycle) string {
	return fmt.Sprintf("%d-%s", year, cycle)
}

// Ended reports whether the cycle end date has passed. Cycles without an end
// date never end.
func (c *Cycle) Ended(now time.Time) bool {
	if c.EndAt.IsZero() {
		return false
	}
	return now.After(c.EndAt)
}

// Validate checks required fields and the date range
func (c *Cycle) Validate() error {
	if c.Year < 2000 || c.Year > 9999 {
		return goerr.Wrap(ErrInvalidEntity, "cycle year out of range", goerr.V(EntityKey, "cycle"), goerr.V("year", c.Year))
	}
	if !c.Cycle.IsValid() {
		return goerr.Wrap(ErrInvalidEntity, "invalid cycle", goerr.V(EntityKey, "cycle"), goerr.V("cycle", c.Cycle))
	}
	if !c.StartAt.IsZero() && !c.EndAt.IsZero() && !c.EndAt.After(c.StartAt) {
		return goerr.Wrap(ErrInvalidEntity, "cycle end must be after start",
			goerr.V(EntityKey, "cycle"),
			goerr.V("start_at", c.StartAt),
			goerr.V("end_at", c.EndAt))
	}
	return nil
}
