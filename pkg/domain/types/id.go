package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

var idPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// CampusID is the human readable identifier of a campus (e.g. "main", "north")
type CampusID string

// Validate checks if the CampusID is valid
func (c CampusID) Validate() error {
	if c == "" {
		return goerr.New("campus ID cannot be empty")
	}
	if !idPattern.MatchString(string(c)) {
		return goerr.New("campus ID must be lowercase alphanumeric with hyphens", goerr.V("id", c))
	}
	return nil
}

func (c CampusID) String() string {
	return string(c)
}

// UnitID is the human readable identifier of an organizational unit
type UnitID string

// Validate checks if the UnitID is valid
func (u UnitID) Validate() error {
	if u == "" {
		return goerr.New("unit ID cannot be empty")
	}
	if !idPattern.MatchString(string(u)) {
		return goerr.New("unit ID must be lowercase alphanumeric with hyphens", goerr.V("id", u))
	}
	return nil
}

func (u UnitID) String() string {
	return string(u)
}
