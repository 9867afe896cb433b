package visual

import (
	"strings"
	"testing"

	"github.com/akmonengine/rayforce/actor"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_ResolveRegistered(t *testing.T) {
	registry := NewRegistry()
	material := &actor.Material{StaticFriction: 0.9, DynamicFriction: 0.8, Restitution: 0.1}
	registry.Register("crate", &Model{Name: "Crate", Mesh: "crate.obj"}, material)

	resource := registry.ResolveModel("crate")
	require.NotNil(t, resource)
	assert.Equal(t, ModelID("crate"), resource.ModelID())
	assert.Same(t, resource, registry.ResolveModel("crate"), "resolution must return the shared resource")
	assert.Same(t, material, registry.ResolveMaterial("crate"))
	assert.True(t, registry.Has("crate"))
	assert.Equal(t, 1, registry.Len())
}

func TestRegistry_UnknownFallsBack(t *testing.T) {
	registry := NewRegistry()

	resource := registry.ResolveModel("missing")
	require.NotNil(t, resource)
	assert.Equal(t, PlaceholderID, resource.ModelID())

	material := registry.ResolveMaterial("missing")
	require.NotNil(t, material)
	assert.Equal(t, *actor.DefaultMaterial(), *material)
}

func TestRegistry_NilModelAndMaterial(t *testing.T) {
	registry := NewRegistry()
	registry.Register("ghost", nil, nil)

	assert.Equal(t, ModelID("ghost"), registry.ResolveModel("ghost").ModelID())
	assert.Equal(t, *actor.DefaultMaterial(), *registry.ResolveMaterial("ghost"))
}

func TestLoadRegistry(t *testing.T) {
	config := viper.New()
	config.SetConfigType("yaml")
	require.NoError(t, config.ReadConfig(strings.NewReader(`
models:
  crate:
    name: Wooden crate
    mesh: meshes/crate.obj
    static_friction: 0.6
    dynamic_friction: 0.4
    restitution: 0.2
  barrel:
    mesh: meshes/barrel.obj
`)))

	registry, err := LoadRegistry(config)
	require.NoError(t, err)
	assert.Equal(t, 2, registry.Len())

	crate := registry.ResolveModel("crate").(*Model)
	assert.Equal(t, "Wooden crate", crate.Name)
	assert.Equal(t, "meshes/crate.obj", crate.Mesh)
	assert.InDelta(t, 0.6, registry.ResolveMaterial("crate").StaticFriction, 1e-12)
	assert.InDelta(t, 0.2, registry.ResolveMaterial("crate").Restitution, 1e-12)

	barrel := registry.ResolveModel("barrel").(*Model)
	assert.Equal(t, "barrel", barrel.Name)
	assert.InDelta(t, actor.DefaultMaterial().DynamicFriction, registry.ResolveMaterial("barrel").DynamicFriction, 1e-12)
}

func TestRegistry_IdentifiersIgnoreCase(t *testing.T) {
	registry := NewRegistry()
	registry.Register("Crate", &Model{Name: "Crate"}, nil)

	assert.True(t, registry.Has("CRATE"))
	assert.Same(t, registry.ResolveModel("crate"), registry.ResolveModel("Crate"))
	assert.Equal(t, ModelID("crate"), registry.ResolveModel("Crate").ModelID())
}

func TestLoadRegistry_MixedCaseKeys(t *testing.T) {
	config := viper.New()
	config.SetConfigType("yaml")
	require.NoError(t, config.ReadConfig(strings.NewReader(`
models:
  WoodenCrate:
    mesh: meshes/crate.obj
`)))

	registry, err := LoadRegistry(config)
	require.NoError(t, err)

	model := registry.ResolveModel("WoodenCrate")
	assert.NotEqual(t, PlaceholderID, model.ModelID())
	assert.Equal(t, "meshes/crate.obj", model.(*Model).Mesh)
}

func TestLoadRegistry_InvalidRestitution(t *testing.T) {
	config := viper.New()
	config.Set("models.rubber.restitution", 1.5)

	_, err := LoadRegistry(config)
	assert.Error(t, err)
}
