package entity

import (
	"fmt"
	"math"

	"github.com/akmonengine/rayforce/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// PullSync copies the body's pose and linear velocity into the entity and derives the Euler
// angles and the world matrix. Without a body it does nothing.
func (e *Entity) PullSync() error {
	if e.body == nil {
		return nil
	}

	world := e.table.world
	pose, err := world.GetPose(e.body.id)
	if err != nil {
		return fmt.Errorf("pull sync entity %d: %w", e.id.Index, err)
	}
	velocity, err := world.GetLinearVelocity(e.body.id)
	if err != nil {
		return fmt.Errorf("pull sync entity %d: %w", e.id.Index, err)
	}

	e.position = pose.Position
	e.orientation = pose.Rotation
	e.orientationEuler = eulerDegrees(pose.Rotation)
	e.worldMatrix = pose.Mat4()
	e.velocity = velocity
	e.table.metrics.sync("pull")

	return nil
}

// PushSync teleports the body to the entity's position and orientation and overwrites its
// linear velocity. Angular velocity is left to the world. Without a body it does nothing.
func (e *Entity) PushSync() error {
	if e.body == nil {
		return nil
	}

	world := e.table.world
	pose := actor.Pose{Position: e.position, Rotation: e.orientation}
	if err := world.SetPose(e.body.id, pose); err != nil {
		return fmt.Errorf("push sync entity %d: %w", e.id.Index, err)
	}
	if err := world.SetLinearVelocity(e.body.id, e.velocity); err != nil {
		return fmt.Errorf("push sync entity %d: %w", e.id.Index, err)
	}
	e.table.metrics.sync("push")

	return nil
}

// eulerDegrees converts q to per-axis rotations (x, y, z) in degrees.
// Near ±90° pitch the x and z angles are not unique.
func eulerDegrees(q mgl64.Quat) mgl64.Vec3 {
	x, y, z, w := q.V.X(), q.V.Y(), q.V.Z(), q.W

	roll := math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))
	pitch := math.Asin(mgl64.Clamp(2*(w*y-z*x), -1, 1))
	yaw := math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))

	return mgl64.Vec3{
		mgl64.RadToDeg(roll),
		mgl64.RadToDeg(pitch),
		mgl64.RadToDeg(yaw),
	}
}

// quatFromEulerDegrees is the inverse of eulerDegrees
func quatFromEulerDegrees(degrees mgl64.Vec3) mgl64.Quat {
	hx := mgl64.DegToRad(degrees.X()) / 2
	hy := mgl64.DegToRad(degrees.Y()) / 2
	hz := mgl64.DegToRad(degrees.Z()) / 2

	cx, sx := math.Cos(hx), math.Sin(hx)
	cy, sy := math.Cos(hy), math.Sin(hy)
	cz, sz := math.Cos(hz), math.Sin(hz)

	return mgl64.Quat{
		W: cx*cy*cz + sx*sy*sz,
		V: mgl64.Vec3{
			sx*cy*cz - cx*sy*sz,
			cx*sy*cz + sx*cy*sz,
			cx*cy*sz - sx*sy*cz,
		},
	}.Normalize()
}
