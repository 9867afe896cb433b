package entity

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig_IsValid(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
	}{
		{"zero initial mass", func(c *Config) { c.InitialMass = 0 }},
		{"negative fallback mass", func(c *Config) { c.FallbackMass = -1 }},
		{"negative rest offset", func(c *Config) { c.RestOffset = -0.01 }},
		{"contact offset not above rest offset", func(c *Config) { c.ContactOffset = 0.01; c.RestOffset = 0.01 }},
		{"negative sleep threshold", func(c *Config) { c.SleepThreshold = -1 }},
		{"unknown shape policy", func(c *Config) { c.ShapePolicy = "merge" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.modify(&config)

			assert.ErrorIs(t, config.Validate(), ErrInvalidArgument)
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(viper.New())

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadConfig_FromYAML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
entity:
  initial_mass: 25
  contact_offset: 0.05
  shape_policy: replace
`)))

	config, err := LoadConfig(v)

	require.NoError(t, err)
	assert.Equal(t, 25.0, config.InitialMass)
	assert.Equal(t, 0.05, config.ContactOffset)
	assert.Equal(t, ShapePolicyReplace, config.ShapePolicy)
	assert.Equal(t, DefaultConfig().FallbackMass, config.FallbackMass)
}

func TestLoadConfig_Invalid(t *testing.T) {
	v := viper.New()
	v.Set("entity.fallback_mass", 0)

	_, err := LoadConfig(v)

	assert.ErrorIs(t, err, ErrInvalidArgument)
}
