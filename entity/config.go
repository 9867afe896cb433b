package entity

import (
	"fmt"
	"math"

	"github.com/spf13/viper"
)

// ShapePolicy decides what AttachBody does with the shapes of an existing body
type ShapePolicy string

const (
	// ShapePolicyAccumulate adds the new shape next to the existing ones
	ShapePolicyAccumulate ShapePolicy = "accumulate"
	// ShapePolicyReplace detaches the existing shapes first
	ShapePolicyReplace ShapePolicy = "replace"
)

type Config struct {
	// InitialMass is the mass of a newly created entity
	InitialMass float64
	// FallbackMass replaces a non-positive mass when a body is attached
	FallbackMass float64
	// ContactOffset and RestOffset tune the contact margins of attached shapes
	ContactOffset float64
	RestOffset    float64
	// SleepThreshold is the mass-normalized kinetic energy under which a body may sleep
	SleepThreshold float64
	ShapePolicy    ShapePolicy
}

func DefaultConfig() Config {
	return Config{
		InitialMass:    10.0,
		FallbackMass:   1.0,
		ContactOffset:  0.02,
		RestOffset:     0.0,
		SleepThreshold: 0.2,
		ShapePolicy:    ShapePolicyAccumulate,
	}
}

func (c Config) Validate() error {
	if !(c.InitialMass > 0) || math.IsInf(c.InitialMass, 0) {
		return fmt.Errorf("initial_mass %v must be positive: %w", c.InitialMass, ErrInvalidArgument)
	}
	if !(c.FallbackMass > 0) || math.IsInf(c.FallbackMass, 0) {
		return fmt.Errorf("fallback_mass %v must be positive: %w", c.FallbackMass, ErrInvalidArgument)
	}
	if !(c.RestOffset >= 0) || !(c.ContactOffset > c.RestOffset) {
		return fmt.Errorf("contact_offset %v must be greater than rest_offset %v >= 0: %w", c.ContactOffset, c.RestOffset, ErrInvalidArgument)
	}
	if !(c.SleepThreshold >= 0) {
		return fmt.Errorf("sleep_threshold %v must be >= 0: %w", c.SleepThreshold, ErrInvalidArgument)
	}
	switch c.ShapePolicy {
	case ShapePolicyAccumulate, ShapePolicyReplace:
	default:
		return fmt.Errorf("shape_policy %q must be %q or %q: %w", c.ShapePolicy, ShapePolicyAccumulate, ShapePolicyReplace, ErrInvalidArgument)
	}

	return nil
}

// LoadConfig reads the "entity" section, falling back to DefaultConfig for missing keys
func LoadConfig(config *viper.Viper) (Config, error) {
	defaults := DefaultConfig()
	config.SetDefault("entity.initial_mass", defaults.InitialMass)
	config.SetDefault("entity.fallback_mass", defaults.FallbackMass)
	config.SetDefault("entity.contact_offset", defaults.ContactOffset)
	config.SetDefault("entity.rest_offset", defaults.RestOffset)
	config.SetDefault("entity.sleep_threshold", defaults.SleepThreshold)
	config.SetDefault("entity.shape_policy", string(defaults.ShapePolicy))

	c := Config{
		InitialMass:    config.GetFloat64("entity.initial_mass"),
		FallbackMass:   config.GetFloat64("entity.fallback_mass"),
		ContactOffset:  config.GetFloat64("entity.contact_offset"),
		RestOffset:     config.GetFloat64("entity.rest_offset"),
		SleepThreshold: config.GetFloat64("entity.sleep_threshold"),
		ShapePolicy:    ShapePolicy(config.GetString("entity.shape_policy")),
	}

	return c, c.Validate()
}
