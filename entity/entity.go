// Package entity keeps a game object's transform in step with its rigid body.
//
// An Entity holds the gameplay/visual view of an object (position, orientation, scale,
// velocity, world matrix) and optionally owns one body in a PhysicalWorld. PullSync copies
// the simulated pose into the entity, PushSync teleports the body to the entity's pose.
// A frame runs as: world step, PullSync on every entity, RenderSubmit on every entity.
//
// Entities are not safe for concurrent use.
package entity

import (
	"github.com/akmonengine/rayforce/actor"
	"github.com/akmonengine/rayforce/visual"
	"github.com/go-gl/mathgl/mgl64"
)

// ID is a generation-checked handle into a Table
type ID struct {
	Index      uint32
	Generation uint32
}

// Pack encodes the id in the opaque user data of a physical body
func (id ID) Pack() uint64 {
	return uint64(id.Generation)<<32 | uint64(id.Index)
}

func UnpackID(data uint64) ID {
	return ID{Index: uint32(data), Generation: uint32(data >> 32)}
}

// ownedBody is the exclusive handle on the entity's physical body.
// It is unexported so only the entity teardown can release the body.
type ownedBody struct {
	id actor.BodyID
}

type Entity struct {
	id    ID
	table *Table
	kind  any

	position    mgl64.Vec3
	orientation mgl64.Quat
	// degrees, derived from orientation
	orientationEuler mgl64.Vec3
	scale            mgl64.Vec3
	velocity         mgl64.Vec3
	mass             float64

	worldMatrix mgl64.Mat4

	modelID  visual.ModelID
	resource visual.Resource

	body      *ownedBody
	destroyed bool
}

func (e *Entity) ID() ID {
	return e.id
}

// Kind returns the concrete entity kind given at creation, or nil
func (e *Entity) Kind() any {
	return e.kind
}

func (e *Entity) Position() mgl64.Vec3 {
	return e.position
}

// SetPosition moves the entity. The body follows only on PushSync.
func (e *Entity) SetPosition(position mgl64.Vec3) {
	e.position = position
}

func (e *Entity) Orientation() mgl64.Quat {
	return e.orientation
}

// SetOrientation normalizes q and refreshes the Euler angles
func (e *Entity) SetOrientation(q mgl64.Quat) {
	e.orientation = q.Normalize()
	e.orientationEuler = eulerDegrees(e.orientation)
}

// OrientationEuler returns the orientation as Euler angles in degrees
func (e *Entity) OrientationEuler() mgl64.Vec3 {
	return e.orientationEuler
}

// SetOrientationEuler sets the orientation from Euler angles in degrees.
// The quaternion stays canonical: the stored angles are derived back from it.
func (e *Entity) SetOrientationEuler(degrees mgl64.Vec3) {
	e.SetOrientation(quatFromEulerDegrees(degrees))
}

func (e *Entity) Scale() mgl64.Vec3 {
	return e.scale
}

func (e *Entity) SetScale(scale mgl64.Vec3) {
	e.scale = scale
}

func (e *Entity) Velocity() mgl64.Vec3 {
	return e.velocity
}

func (e *Entity) SetVelocity(velocity mgl64.Vec3) {
	e.velocity = velocity
}

func (e *Entity) Mass() float64 {
	return e.mass
}

// SetMass takes effect on the next AttachBody
func (e *Entity) SetMass(mass float64) {
	e.mass = mass
}

// WorldMatrix returns the matrix derived by the last PullSync or RefreshWorldMatrix
func (e *Entity) WorldMatrix() mgl64.Mat4 {
	return e.worldMatrix
}

// RefreshWorldMatrix derives the world matrix from the entity's own position and orientation.
// Entities driven by gameplay rather than by a body call it before rendering.
func (e *Entity) RefreshWorldMatrix() {
	e.worldMatrix = actor.Pose{Position: e.position, Rotation: e.orientation}.Mat4()
}

func (e *Entity) ModelID() visual.ModelID {
	return e.modelID
}

// Resource returns the borrowed visual resource
func (e *Entity) Resource() visual.Resource {
	return e.resource
}

func (e *Entity) HasBody() bool {
	return e.body != nil
}

// BodyID returns the id of the owned body
func (e *Entity) BodyID() (actor.BodyID, bool) {
	if e.body == nil {
		return actor.BodyID{}, false
	}
	return e.body.id, true
}

func (e *Entity) Destroyed() bool {
	return e.destroyed
}

// Destroy releases the owned body and frees the entity's slot
func (e *Entity) Destroy() error {
	if e.destroyed {
		return ErrDestroyed
	}
	return e.table.Destroy(e.id)
}
