package entity

import (
	"github.com/akmonengine/rayforce/actor"
	"github.com/akmonengine/rayforce/visual"
	"github.com/go-gl/mathgl/mgl64"
)

// PhysicalWorld owns the rigid bodies and steps the simulation.
// An entity creates at most one body through it and is the only caller allowed to release it.
type PhysicalWorld interface {
	CreateBody(pose actor.Pose) (actor.BodyID, error)
	ReleaseBody(id actor.BodyID) error

	GetPose(id actor.BodyID) (actor.Pose, error)
	SetPose(id actor.BodyID, pose actor.Pose) error
	GetLinearVelocity(id actor.BodyID) (mgl64.Vec3, error)
	SetLinearVelocity(id actor.BodyID, velocity mgl64.Vec3) error
	SetAngularVelocity(id actor.BodyID, velocity mgl64.Vec3) error

	AttachShape(id actor.BodyID, geometry actor.Geometry, material *actor.Material, contactOffset, restOffset float64) error
	DetachShapes(id actor.BodyID) error
	SetMassAndUpdateInertia(id actor.BodyID, mass float64) error
	SetSleepThreshold(id actor.BodyID, threshold float64) error
	SetUserData(id actor.BodyID, data uint64) error
}

// VisualRegistry resolves model identifiers. Returned resources are borrowed.
type VisualRegistry interface {
	ResolveModel(id visual.ModelID) visual.Resource
	ResolveMaterial(id visual.ModelID) *actor.Material
}

// RenderBuffer accepts the instances drawn this frame
type RenderBuffer interface {
	Submit(resource visual.Resource, world mgl64.Mat4)
}
