package model

import (
	"slices"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

// Unit is an organizational unit (office, college, department) that owes
// the cycle reports. A unit may operate on several campuses.
type Unit struct {
	ID        types.UnitID
	Name      string
	CampusIDs []types.CampusID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCampus reports whether the unit belongs to the given campus
func (u *Unit) HasCampus(id types.CampusID) bool {
	return slices.Contains(u.CampusIDs, id)
}

// Validate checks required fields. Campus existence is checked by the caller.
func (u *Unit) Validate() error {
	if err := u.ID.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidEntity, "invalid unit ID", goerr.V(EntityKey, "unit"), goerr.V("cause", err.Error()))
	}
	if u.Name == "" {
		return goerr.Wrap(ErrInvalidEntity, "unit name is required", goerr.V(EntityKey, "unit"), goerr.V(FieldKey, "name"))
	}
	if len(u.CampusIDs) == 0 {
		return goerr.Wrap(ErrInvalidEntity, "unit must belong to at least one campus", goerr.V(EntityKey, "unit"), goerr.V(FieldKey, "campus_ids"))
	}
	for _, id := range u.CampusIDs {
		if err := id.Validate(); err != nil {
			return goerr.Wrap(ErrInvalidEntity, "invalid campus ID in unit", goerr.V(EntityKey, "unit"), goerr.V("campus_id", id))
		}
	}
	return nil
}

// Clone returns a deep copy
func (u *Unit) Clone() *Unit {
	c := *u
	c.CampusIDs = slices.Clone(u.CampusIDs)
	return &c
}
