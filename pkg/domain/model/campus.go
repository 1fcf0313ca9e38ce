package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/eoms/pkg/domain/types"
)

// Campus is a physical campus of the university
type Campus struct {
	ID        types.CampusID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks required fields
func (c *Campus) Validate() error {
	if err := c.ID.Validate(); err != nil {
		return goerr.Wrap(ErrInvalidEntity, "invalid campus ID", goerr.V(EntityKey, "campus"), goerr.V("cause", err.Error()))
	}
	if c.Name == "" {
		return goerr.Wrap(ErrInvalidEntity, "campus name is required", goerr.V(EntityKey, "campus"), goerr.V(FieldKey, "name"))
	}
	return nil
}
