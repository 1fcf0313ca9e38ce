package types

import (
	"fmt"
	"strings"
)

// Cycle is a submission period within a year
type Cycle string

const (
	CycleFirst Cycle = "first"
	CycleFinal Cycle = "final"
)

// AllCycles returns the cycles of a year in chronological order
func AllCycles() []Cycle {
	return []Cycle{CycleFirst, CycleFinal}
}

// IsValid checks if the cycle is valid
func (c Cycle) IsValid() bool {
	switch c {
	case CycleFirst, CycleFinal:
		return true
	default:
		return false
	}
}

func (c Cycle) String() string {
	return string(c)
}

// Label returns the display name of the cycle
func (c Cycle) Label() string {
	switch c {
	case CycleFirst:
		return "First Cycle"
	case CycleFinal:
		return "Final Cycle"
	default:
		return string(c)
	}
}

// ParseCycle parses a string into a Cycle. Matching is case-insensitive.
func ParseCycle(s string) (Cycle, error) {
	c := Cycle(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("invalid cycle: %s", s)
	}
	return c, nil
}
