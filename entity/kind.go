package entity

// Updatable is implemented by entity kinds with per-frame logic
type Updatable interface {
	Update(e *Entity, dt float64)
}

// Initializable is implemented by entity kinds needing setup once the entity exists
type Initializable interface {
	Init(e *Entity) error
}
