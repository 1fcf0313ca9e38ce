package model

import "github.com/m-mizutani/goerr/v2"

// ErrNotFound is returned by repositories when a document does not exist
var ErrNotFound = goerr.New("not found")

// ErrConflict is returned by repositories when a stored record no longer
// matches the state a combined write expects
var ErrConflict = goerr.New("conflicting update")

// Entity validation errors
var (
	ErrInvalidEntity = goerr.New("invalid entity")
)

// Context keys for error values
const (
	EntityKey = "entity"
	FieldKey  = "field"
)
