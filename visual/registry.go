package visual

import (
	"fmt"
	"strings"
	"sync"

	"github.com/akmonengine/rayforce/actor"
	"github.com/spf13/viper"
)

// PlaceholderID identifies the model returned for unknown identifiers
const PlaceholderID ModelID = "placeholder"

type entry struct {
	model    *Model
	material *actor.Material
}

// Registry resolves model identifiers to shared models and physical materials.
// Identifiers are case-insensitive, since configuration keys come back lowercased.
// Unknown identifiers resolve to a placeholder model and the default material.
type Registry struct {
	mu          sync.RWMutex
	entries     map[ModelID]entry
	placeholder *Model
}

func NewRegistry() *Registry {
	return &Registry{
		entries:     make(map[ModelID]entry),
		placeholder: &Model{ID: PlaceholderID, Name: "placeholder", Mesh: "cube"},
	}
}

// Register adds or replaces a model. A nil material resolves to the default material.
func (r *Registry) Register(id ModelID, model *Model, material *actor.Material) {
	id = normalize(id)
	if model == nil {
		model = &Model{ID: id, Name: string(id)}
	}
	model.ID = id

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = entry{model: model, material: material}
}

func (r *Registry) Has(id ModelID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[normalize(id)]
	return ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// ResolveModel returns the model registered under id, or the placeholder
func (r *Registry) ResolveModel(id ModelID) Resource {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.entries[normalize(id)]; ok {
		return e.model
	}
	return r.placeholder
}

// ResolveMaterial returns the material registered under id, or a default material
func (r *Registry) ResolveMaterial(id ModelID) *actor.Material {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if e, ok := r.entries[normalize(id)]; ok && e.material != nil {
		return e.material
	}
	return actor.DefaultMaterial()
}

func normalize(id ModelID) ModelID {
	return ModelID(strings.ToLower(string(id)))
}

// LoadRegistry builds a registry from the "models" section of the configuration:
//
//	models:
//	  crate:
//	    name: Wooden crate
//	    mesh: meshes/crate.obj
//	    static_friction: 0.6
//	    dynamic_friction: 0.4
//	    restitution: 0.2
func LoadRegistry(config *viper.Viper) (*Registry, error) {
	registry := NewRegistry()

	models := config.GetStringMap("models")
	for key := range models {
		sub := config.Sub("models." + key)
		if sub == nil {
			return nil, fmt.Errorf("model %q: expected a map", key)
		}

		defaults := actor.DefaultMaterial()
		sub.SetDefault("name", key)
		sub.SetDefault("static_friction", defaults.StaticFriction)
		sub.SetDefault("dynamic_friction", defaults.DynamicFriction)
		sub.SetDefault("restitution", defaults.Restitution)

		material := &actor.Material{
			StaticFriction:  sub.GetFloat64("static_friction"),
			DynamicFriction: sub.GetFloat64("dynamic_friction"),
			Restitution:     sub.GetFloat64("restitution"),
		}
		if material.Restitution < 0 || material.Restitution > 1 {
			return nil, fmt.Errorf("model %q: restitution %v out of [0, 1]", key, material.Restitution)
		}

		id := ModelID(key)
		registry.Register(id, &Model{Name: sub.GetString("name"), Mesh: sub.GetString("mesh")}, material)
	}

	return registry, nil
}
