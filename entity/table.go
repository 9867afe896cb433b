package entity

import (
	"errors"
	"fmt"

	"github.com/akmonengine/rayforce/visual"
	"github.com/go-gl/mathgl/mgl64"
	"go.uber.org/zap"
)

type slot struct {
	entity     *Entity
	generation uint32
}

// Table stores entities in an arena addressed by generation-checked ids, and carries the
// collaborators shared by its entities
type Table struct {
	world    PhysicalWorld
	registry VisualRegistry
	buffer   RenderBuffer

	config  Config
	logger  *zap.Logger
	metrics *Metrics

	slots []slot
	free  []uint32
	live  int
}

type Option func(t *Table)

func WithConfig(config Config) Option {
	return func(t *Table) {
		t.config = config
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(t *Table) {
		t.logger = logger
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(t *Table) {
		t.metrics = metrics
	}
}

func NewTable(world PhysicalWorld, registry VisualRegistry, buffer RenderBuffer, opts ...Option) (*Table, error) {
	if world == nil || registry == nil || buffer == nil {
		return nil, fmt.Errorf("new table: world, registry and buffer are required: %w", ErrInvalidArgument)
	}

	t := &Table{
		world:    world,
		registry: registry,
		buffer:   buffer,
		config:   DefaultConfig(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := t.config.Validate(); err != nil {
		return nil, fmt.Errorf("new table: %w", err)
	}
	if t.logger == nil {
		t.logger = zap.NewNop()
	}

	return t, nil
}

type createOptions struct {
	kind any
}

type CreateOption func(o *createOptions)

// WithKind attaches a concrete entity kind, dispatched through Updatable and Initializable
func WithKind(kind any) CreateOption {
	return func(o *createOptions) {
		o.kind = kind
	}
}

// Create adds an entity at position, resolving its resource from modelID.
// An Init failure is logged and the entity is kept.
func (t *Table) Create(position mgl64.Vec3, modelID visual.ModelID, opts ...CreateOption) *Entity {
	e, err := t.CreateWithInit(position, modelID, opts...)
	if err != nil {
		t.logger.Warn("entity init failed", zap.Uint32("entity", e.id.Index), zap.String("model", string(modelID)), zap.Error(err))
	}

	return e
}

// CreateWithInit is Create returning the kind's Init error to the caller
func (t *Table) CreateWithInit(position mgl64.Vec3, modelID visual.ModelID, opts ...CreateOption) (*Entity, error) {
	o := createOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Entity{
		table:       t,
		kind:        o.kind,
		position:    position,
		orientation: mgl64.QuatIdent(),
		scale:       mgl64.Vec3{1, 1, 1},
		mass:        t.config.InitialMass,
		modelID:     modelID,
	}
	if resource := t.registry.ResolveModel(modelID); !isNil(resource) {
		e.resource = resource
	}
	e.RefreshWorldMatrix()
	e.id = t.insert(e)

	if initializable, ok := o.kind.(Initializable); ok {
		if err := initializable.Init(e); err != nil {
			return e, fmt.Errorf("init entity %d: %w", e.id.Index, err)
		}
	}

	return e, nil
}

func (t *Table) insert(e *Entity) ID {
	var index uint32
	if n := len(t.free); n > 0 {
		index = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		index = uint32(len(t.slots))
		t.slots = append(t.slots, slot{})
	}

	s := &t.slots[index]
	s.generation++
	s.entity = e
	t.live++

	return ID{Index: index, Generation: s.generation}
}

func (t *Table) Get(id ID) (*Entity, bool) {
	if id.Generation == 0 || int(id.Index) >= len(t.slots) {
		return nil, false
	}

	s := t.slots[id.Index]
	if s.entity == nil || s.generation != id.Generation {
		return nil, false
	}

	return s.entity, true
}

// Resolve finds the entity owning a body from the body's user data.
// Stale data from a destroyed entity resolves to nothing.
func (t *Table) Resolve(userData uint64) (*Entity, bool) {
	return t.Get(UnpackID(userData))
}

// Destroy releases the entity's body from the world, exactly once, then frees the slot.
// The slot is freed even when the release fails.
func (t *Table) Destroy(id ID) error {
	e, ok := t.Get(id)
	if !ok {
		return fmt.Errorf("destroy entity %d/%d: %w", id.Index, id.Generation, ErrEntityNotFound)
	}

	var err error
	if e.body != nil {
		bodyID := e.body.id
		e.body = nil
		t.metrics.bodyReleased()
		if releaseErr := t.world.ReleaseBody(bodyID); releaseErr != nil {
			t.logger.Error("release body failed", zap.Uint32("entity", id.Index), zap.Uint32("body", bodyID.Index), zap.Error(releaseErr))
			err = fmt.Errorf("destroy entity %d: %w", id.Index, releaseErr)
		}
	}

	e.destroyed = true
	t.slots[id.Index].entity = nil
	t.free = append(t.free, id.Index)
	t.live--

	return err
}

func (t *Table) Len() int {
	return t.live
}

// Each calls fn on live entities in slot order until fn returns false
func (t *Table) Each(fn func(e *Entity) bool) {
	for i := range t.slots {
		if e := t.slots[i].entity; e != nil {
			if !fn(e) {
				return
			}
		}
	}
}

// Update runs the per-frame logic of every Updatable kind
func (t *Table) Update(dt float64) {
	t.Each(func(e *Entity) bool {
		if updatable, ok := e.kind.(Updatable); ok {
			updatable.Update(e, dt)
		}
		return true
	})
}

// PullSyncAll pulls every entity, continuing past failures
func (t *Table) PullSyncAll() error {
	var errs []error
	t.Each(func(e *Entity) bool {
		if err := e.PullSync(); err != nil {
			errs = append(errs, err)
		}
		return true
	})

	return errors.Join(errs...)
}

// RenderAll submits every entity. Call it after PullSyncAll in the same frame.
func (t *Table) RenderAll() {
	t.Each(func(e *Entity) bool {
		e.RenderSubmit()
		return true
	})
}

// Close destroys every entity
func (t *Table) Close() error {
	var errs []error
	t.Each(func(e *Entity) bool {
		if err := t.Destroy(e.id); err != nil {
			errs = append(errs, err)
		}
		return true
	})

	return errors.Join(errs...)
}

func (t *Table) entityFields(e *Entity) []zap.Field {
	fields := []zap.Field{
		zap.Uint32("entity", e.id.Index),
		zap.String("model", string(e.modelID)),
	}
	if e.body != nil {
		fields = append(fields, zap.Uint32("body", e.body.id.Index))
	}
	return fields
}
