// Package visual holds the render-side collaborators of entities: the model registry that
// resolves model identifiers, and the per-frame instancing buffer.
package visual

// ModelID is the opaque key of a model asset and its physical material
type ModelID string

// Resource is a drawable owned by a Registry. Holders borrow it and never release it.
type Resource interface {
	ModelID() ModelID
}

// Model is the registry's drawable resource
type Model struct {
	ID   ModelID
	Name string
	Mesh string
}

func (m *Model) ModelID() ModelID {
	return m.ID
}
