package actor

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrInvalidMass = errors.New("mass must be positive and finite")

// RigidBody represents a dynamic rigid body in the physics simulation
type RigidBody struct {
	ID BodyID
	// UserData is an opaque value set by the body's owner, typically a packed handle
	// used to resolve the owner from event listeners. The world never interprets it.
	UserData uint64

	// Spatial properties
	PreviousPose Pose
	Pose         Pose

	// Linear motion
	Velocity mgl64.Vec3 // Linear velocity (m/s)

	// Angular motion
	AngularVelocity     mgl64.Vec3 // rad/s
	InertiaLocal        mgl64.Mat3
	InverseInertiaLocal mgl64.Mat3

	LinearDamping  float64 // 0.0 - 1.0, typical: 0.01
	AngularDamping float64 // 0.0 - 1.0, typical: 0.05

	accumulatedForce  mgl64.Vec3
	accumulatedTorque mgl64.Vec3

	IsSleeping bool
	SleepTimer float64
	// SleepThreshold is the mass-normalized kinetic energy below which the body may sleep
	SleepThreshold float64

	mass   float64
	shapes []*Shape
}

// NewRigidBody creates a body at rest with a unit mass and no shapes
func NewRigidBody(pose Pose) *RigidBody {
	rb := &RigidBody{
		PreviousPose: pose,
		Pose:         pose,
	}
	rb.setInertia(1.0, isotropicInertia(1.0))

	return rb
}

func isotropicInertia(mass float64) mgl64.Mat3 {
	// unit-radius solid sphere
	i := (2.0 / 5.0) * mass

	return mgl64.Diag3(mgl64.Vec3{i, i, i})
}

func (rb *RigidBody) setInertia(mass float64, inertia mgl64.Mat3) {
	rb.mass = mass
	rb.InertiaLocal = inertia
	rb.InverseInertiaLocal = inertia.Inv()
}

// AttachShape gives exclusive ownership of shape to the body
func (rb *RigidBody) AttachShape(shape *Shape) error {
	if shape == nil || shape.Geometry == nil {
		return ErrNilGeometry
	}
	if shape.owner != nil {
		return ErrShapeShared
	}

	shape.owner = rb
	shape.ComputeAABB(rb.Pose)
	rb.shapes = append(rb.shapes, shape)

	return nil
}

// DetachShapes removes every shape from the body
func (rb *RigidBody) DetachShapes() {
	for _, shape := range rb.shapes {
		shape.owner = nil
	}
	rb.shapes = rb.shapes[:0]
}

func (rb *RigidBody) Shapes() []*Shape {
	return rb.shapes
}

func (rb *RigidBody) Mass() float64 {
	return rb.mass
}

func (rb *RigidBody) InverseMass() float64 {
	return 1.0 / rb.mass
}

// SetMassAndUpdateInertia distributes mass over the attached shapes proportionally to their
// volume and sums their inertia tensors
func (rb *RigidBody) SetMassAndUpdateInertia(mass float64) error {
	if mass <= 0 || !isFinite(mass) {
		return fmt.Errorf("mass %v: %w", mass, ErrInvalidMass)
	}

	totalVolume := 0.0
	for _, shape := range rb.shapes {
		totalVolume += shape.Geometry.Volume()
	}
	if totalVolume <= 0 {
		rb.setInertia(mass, isotropicInertia(mass))
		return nil
	}

	inertia := mgl64.Mat3{}
	for _, shape := range rb.shapes {
		shapeMass := mass * shape.Geometry.Volume() / totalVolume
		inertia = inertia.Add(shape.Geometry.ComputeInertia(shapeMass))
	}
	rb.setInertia(mass, inertia)

	return nil
}

// SetPose teleports the body. The previous pose is reset so no velocity is derived from the jump.
func (rb *RigidBody) SetPose(pose Pose) {
	pose.Rotation = pose.Rotation.Normalize()
	rb.Pose = pose
	rb.PreviousPose = pose
	rb.computeAABB()
	rb.Awake()
}

func (rb *RigidBody) SetLinearVelocity(velocity mgl64.Vec3) {
	rb.Velocity = velocity
	if velocity.Len() > 0 {
		rb.Awake()
	}
}

func (rb *RigidBody) SetAngularVelocity(velocity mgl64.Vec3) {
	rb.AngularVelocity = velocity
	if velocity.Len() > 0 {
		rb.Awake()
	}
}

// KineticEnergy returns the mass-normalized kinetic energy of the body
func (rb *RigidBody) KineticEnergy() float64 {
	linear := 0.5 * rb.Velocity.Dot(rb.Velocity)
	angular := 0.5 * rb.AngularVelocity.Dot(rb.GetInertiaWorld().Mul3x1(rb.AngularVelocity)) / rb.mass

	return linear + angular
}

// TrySleep puts the body to sleep once its energy stayed under the threshold for timeThreshold
func (rb *RigidBody) TrySleep(dt float64, timeThreshold float64) {
	if rb.IsSleeping {
		return
	}

	if rb.KineticEnergy() < rb.SleepThreshold {
		rb.SleepTimer += dt
		if rb.SleepTimer >= timeThreshold {
			rb.Sleep()
		}
	} else {
		rb.SleepTimer = 0.0
	}
}

func (rb *RigidBody) Sleep() {
	rb.IsSleeping = true
	rb.SleepTimer = 0.0

	rb.computeAABB()
	rb.ClearForces()
	rb.Velocity = mgl64.Vec3{}
	rb.AngularVelocity = mgl64.Vec3{}
}

func (rb *RigidBody) Awake() {
	rb.IsSleeping = false
	rb.SleepTimer = 0.0
}

// Integrate advances the body by dt with semi-implicit Euler
func (rb *RigidBody) Integrate(dt float64, gravity mgl64.Vec3) {
	if rb.IsSleeping {
		return
	}

	rb.PreviousPose = rb.Pose

	// linear
	acceleration := gravity.Add(rb.accumulatedForce.Mul(rb.InverseMass()))
	rb.Velocity = rb.Velocity.Add(acceleration.Mul(dt))
	rb.Velocity = rb.Velocity.Mul(math.Exp(-rb.LinearDamping * dt))
	rb.Pose.Position = rb.Pose.Position.Add(rb.Velocity.Mul(dt))

	// angular
	angularAccel := rb.GetInverseInertiaWorld().Mul3x1(rb.accumulatedTorque)
	rb.AngularVelocity = rb.AngularVelocity.Add(angularAccel.Mul(dt))
	rb.AngularVelocity = rb.AngularVelocity.Mul(math.Exp(-rb.AngularDamping * dt))

	omegaQuat := mgl64.Quat{V: rb.AngularVelocity, W: 0}
	qDot := omegaQuat.Mul(rb.Pose.Rotation).Scale(0.5)
	rb.Pose.Rotation = rb.Pose.Rotation.Add(qDot.Scale(dt)).Normalize()

	rb.computeAABB()
	rb.ClearForces()
}

// AddForce accumulates a force (N) applied at the center of mass until the next step
func (rb *RigidBody) AddForce(force mgl64.Vec3) {
	rb.Awake()
	rb.accumulatedForce = rb.accumulatedForce.Add(force)
}

// AddTorque accumulates a torque (N⋅m) until the next step
func (rb *RigidBody) AddTorque(torque mgl64.Vec3) {
	rb.Awake()
	rb.accumulatedTorque = rb.accumulatedTorque.Add(torque)
}

func (rb *RigidBody) ClearForces() {
	rb.accumulatedForce = mgl64.Vec3{0, 0, 0}
	rb.accumulatedTorque = mgl64.Vec3{0, 0, 0}
}

func (rb *RigidBody) computeAABB() {
	for _, shape := range rb.shapes {
		shape.ComputeAABB(rb.Pose)
	}
}

// AABB returns the union of the shapes' bounds, or a degenerate box at the body position
// when no shape is attached
func (rb *RigidBody) AABB() AABB {
	if len(rb.shapes) == 0 {
		return AABB{Min: rb.Pose.Position, Max: rb.Pose.Position}
	}

	aabb := rb.shapes[0].GetAABB()
	for _, shape := range rb.shapes[1:] {
		aabb = aabb.Union(shape.GetAABB())
	}

	return aabb
}

// GetInertiaWorld returns R * I_local * R^T
func (rb *RigidBody) GetInertiaWorld() mgl64.Mat3 {
	R := rb.Pose.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InertiaLocal).Mul3(R.Transpose())
}

// GetInverseInertiaWorld returns R * I_local^(-1) * R^T
func (rb *RigidBody) GetInverseInertiaWorld() mgl64.Mat3 {
	R := rb.Pose.Rotation.Mat4().Mat3()
	return R.Mul3(rb.InverseInertiaLocal).Mul3(R.Transpose())
}
