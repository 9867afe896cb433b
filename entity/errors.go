package entity

import "errors"

var (
	// ErrInvalidArgument reports a rejected call; the entity keeps its previous state
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEntityNotFound  = errors.New("entity not found")
	ErrDestroyed       = errors.New("entity destroyed")
)

// Correction kinds, counted and logged when an invalid state is healed in place
const (
	correctionNonFiniteState          = "non_finite_state"
	correctionInvalidPhysicalProperty = "invalid_physical_property"
)
