package rayforce

import (
	"errors"
	"fmt"

	"github.com/akmonengine/rayforce/actor"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	DEFAULT_WORKERS    = 1
	DEFAULT_SUBSTEPS   = 1
	DEFAULT_CELL_SIZE  = 2.0
	DEFAULT_CELLS      = 1024
	DEFAULT_SLEEP_TIME = 0.1 // seconds under the sleep threshold before a body sleeps
)

var (
	ErrBodyNotFound  = errors.New("body not found")
	ErrNonFinitePose = errors.New("pose is not finite")
)

type bodySlot struct {
	body       *actor.RigidBody
	generation uint32
}

type World struct {
	// Gravity acceleration (m/s², or N/kg)
	Gravity     mgl64.Vec3
	Substeps    int
	Workers     int
	SleepTime   float64
	SpatialGrid *SpatialGrid

	Events Events

	// Bodies is the dense list of live bodies, in creation order
	Bodies []*actor.RigidBody

	slots []bodySlot
	free  []uint32
}

type Option func(w *World)

func WithGravity(gravity mgl64.Vec3) Option {
	return func(w *World) {
		w.Gravity = gravity
	}
}

func WithSubsteps(substeps int) Option {
	return func(w *World) {
		w.Substeps = substeps
	}
}

func WithWorkers(workers int) Option {
	return func(w *World) {
		w.Workers = workers
	}
}

func WithSpatialGrid(cellSize float64, numCells int) Option {
	return func(w *World) {
		w.SpatialGrid = NewSpatialGrid(cellSize, numCells)
	}
}

func WithSleepTime(seconds float64) Option {
	return func(w *World) {
		w.SleepTime = seconds
	}
}

func NewWorld(opts ...Option) *World {
	w := &World{
		Gravity:     mgl64.Vec3{0, -9.81, 0},
		Substeps:    DEFAULT_SUBSTEPS,
		Workers:     DEFAULT_WORKERS,
		SleepTime:   DEFAULT_SLEEP_TIME,
		SpatialGrid: NewSpatialGrid(DEFAULT_CELL_SIZE, DEFAULT_CELLS),
		Events:      NewEvents(),
	}
	for _, opt := range opts {
		opt(w)
	}

	return w
}

// CreateBody adds a new body at pose and returns its handle.
// The caller owns the body and must release it with ReleaseBody.
func (w *World) CreateBody(pose actor.Pose) (actor.BodyID, error) {
	if !pose.IsFinite() {
		return actor.BodyID{}, fmt.Errorf("create body at %v: %w", pose.Position, ErrNonFinitePose)
	}

	var index uint32
	if n := len(w.free); n > 0 {
		index = w.free[n-1]
		w.free = w.free[:n-1]
	} else {
		index = uint32(len(w.slots))
		w.slots = append(w.slots, bodySlot{})
	}

	slot := &w.slots[index]
	slot.generation++
	id := actor.BodyID{Index: index, Generation: slot.generation}

	body := actor.NewRigidBody(pose)
	body.ID = id
	slot.body = body
	w.Bodies = append(w.Bodies, body)

	return id, nil
}

// ReleaseBody removes the body from the simulation. The id is stale afterwards.
func (w *World) ReleaseBody(id actor.BodyID) error {
	body, err := w.lookup(id)
	if err != nil {
		return err
	}

	for i, b := range w.Bodies {
		if b == body {
			w.Bodies = append(w.Bodies[:i], w.Bodies[i+1:]...)
			break
		}
	}

	body.DetachShapes()
	w.Events.forget(body)

	slot := &w.slots[id.Index]
	slot.body = nil
	w.free = append(w.free, id.Index)

	return nil
}

// Body returns the live body behind id
func (w *World) Body(id actor.BodyID) (*actor.RigidBody, bool) {
	body, err := w.lookup(id)
	return body, err == nil
}

func (w *World) BodyCount() int {
	return len(w.Bodies)
}

func (w *World) lookup(id actor.BodyID) (*actor.RigidBody, error) {
	if id.IsZero() || int(id.Index) >= len(w.slots) {
		return nil, fmt.Errorf("body %d/%d: %w", id.Index, id.Generation, ErrBodyNotFound)
	}

	slot := w.slots[id.Index]
	if slot.body == nil || slot.generation != id.Generation {
		return nil, fmt.Errorf("body %d/%d: %w", id.Index, id.Generation, ErrBodyNotFound)
	}

	return slot.body, nil
}

func (w *World) GetPose(id actor.BodyID) (actor.Pose, error) {
	body, err := w.lookup(id)
	if err != nil {
		return actor.Pose{}, err
	}

	return body.Pose, nil
}

// SetPose teleports the body
func (w *World) SetPose(id actor.BodyID, pose actor.Pose) error {
	body, err := w.lookup(id)
	if err != nil {
		return err
	}
	if !pose.IsFinite() {
		return fmt.Errorf("set pose %v: %w", pose.Position, ErrNonFinitePose)
	}

	body.SetPose(pose)

	return nil
}

func (w *World) GetLinearVelocity(id actor.BodyID) (mgl64.Vec3, error) {
	body, err := w.lookup(id)
	if err != nil {
		return mgl64.Vec3{}, err
	}

	return body.Velocity, nil
}

func (w *World) SetLinearVelocity(id actor.BodyID, velocity mgl64.Vec3) error {
	body, err := w.lookup(id)
	if err != nil {
		return err
	}

	body.SetLinearVelocity(velocity)

	return nil
}

func (w *World) SetAngularVelocity(id actor.BodyID, velocity mgl64.Vec3) error {
	body, err := w.lookup(id)
	if err != nil {
		return err
	}

	body.SetAngularVelocity(velocity)

	return nil
}

// AttachShape builds an exclusive shape from geometry and material and attaches it to the body
func (w *World) AttachShape(id actor.BodyID, geometry actor.Geometry, material *actor.Material, contactOffset, restOffset float64) error {
	body, err := w.lookup(id)
	if err != nil {
		return err
	}

	shape, err := actor.NewShape(geometry, material, contactOffset, restOffset)
	if err != nil {
		return err
	}

	return body.AttachShape(shape)
}

func (w *World) DetachShapes(id actor.BodyID) error {
	body, err := w.lookup(id)
	if err != nil {
		return err
	}

	body.DetachShapes()

	return nil
}

func (w *World) SetMassAndUpdateInertia(id actor.BodyID, mass float64) error {
	body, err := w.lookup(id)
	if err != nil {
		return err
	}

	return body.SetMassAndUpdateInertia(mass)
}

func (w *World) SetSleepThreshold(id actor.BodyID, threshold float64) error {
	body, err := w.lookup(id)
	if err != nil {
		return err
	}

	body.SleepThreshold = threshold

	return nil
}

func (w *World) SetUserData(id actor.BodyID, data uint64) error {
	body, err := w.lookup(id)
	if err != nil {
		return err
	}

	body.UserData = data

	return nil
}

func (w *World) UserData(id actor.BodyID) (uint64, error) {
	body, err := w.lookup(id)
	if err != nil {
		return 0, err
	}

	return body.UserData, nil
}

// AddForce accumulates a force on the body until the next step
func (w *World) AddForce(id actor.BodyID, force mgl64.Vec3) error {
	body, err := w.lookup(id)
	if err != nil {
		return err
	}

	body.AddForce(force)

	return nil
}

// AddTorque accumulates a torque on the body until the next step
func (w *World) AddTorque(id actor.BodyID, torque mgl64.Vec3) error {
	body, err := w.lookup(id)
	if err != nil {
		return err
	}

	body.AddTorque(torque)

	return nil
}

func (w *World) Step(dt float64) {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	w.Substeps = max(DEFAULT_SUBSTEPS, w.Substeps)
	h := dt / float64(w.Substeps)

	for _i := 0; _i < w.Substeps; _i++ {
		w.integrate(h)

		// Broad phase on the spatial grid, then per-shape bounds test
		w.Events.recordContacts(w.detectContacts())

		w.trySleep(h)
	}

	w.Events.processSleepEvents(w.Bodies)
	w.Events.flush()
}

func (w *World) integrate(h float64) {
	task(w.Workers, w.Bodies, func(body *actor.RigidBody) {
		body.Integrate(h, w.Gravity)
	})
}

func (w *World) detectContacts() []Pair {
	return NarrowPhase(BroadPhase(w.SpatialGrid, w.Bodies, w.Workers))
}

// trySleep sets the body to sleep if its energy is lower than its threshold, for a given duration
// this method is too simple to use a task, it slows down in multiple goroutines
func (w *World) trySleep(h float64) {
	for _, body := range w.Bodies {
		body.TrySleep(h, w.SleepTime)
	}
}
