package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Pose places a rigid body in world space
type Pose struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewPose creates a pose at position with an identity rotation
func NewPose(position mgl64.Vec3) Pose {
	return Pose{
		Position: position,
		Rotation: mgl64.QuatIdent(),
	}
}

// Mat4 returns the column-major homogeneous transform of the pose.
// Columns 0-2 hold the rotation basis, column 3 the translation. No scale is composed in.
func (p Pose) Mat4() mgl64.Mat4 {
	m := p.Rotation.Normalize().Mat4()
	m[12] = p.Position.X()
	m[13] = p.Position.Y()
	m[14] = p.Position.Z()
	m[15] = 1.0

	return m
}

// TransformPoint maps a local-space point to world space
func (p Pose) TransformPoint(local mgl64.Vec3) mgl64.Vec3 {
	return p.Rotation.Rotate(local).Add(p.Position)
}

func (p Pose) IsFinite() bool {
	return IsFiniteVec3(p.Position) &&
		isFinite(p.Rotation.W) && IsFiniteVec3(p.Rotation.V)
}

// IsFiniteVec3 reports whether no component is NaN or infinite
func IsFiniteVec3(v mgl64.Vec3) bool {
	return isFinite(v.X()) && isFinite(v.Y()) && isFinite(v.Z())
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// BodyID is a generation-checked index into a world's body table.
// The zero value never refers to a live body.
type BodyID struct {
	Index      uint32
	Generation uint32
}

func (id BodyID) IsZero() bool {
	return id.Generation == 0
}
