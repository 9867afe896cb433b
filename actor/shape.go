package actor

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	ErrNilGeometry    = errors.New("shape geometry is nil")
	ErrInvalidOffsets = errors.New("contact offset must be greater than rest offset, rest offset must be >= 0")
	ErrShapeShared    = errors.New("shape is already attached to a body")
)

// Shape couples a geometry with a material and contact tuning.
// A shape belongs to at most one body.
type Shape struct {
	Geometry Geometry
	Material *Material

	// ContactOffset is the margin at which contacts start being generated
	ContactOffset float64
	// RestOffset is the distance at which two shapes come to rest
	RestOffset float64

	owner *RigidBody
	aabb  AABB
}

// NewShape builds a shape from geometry and material.
// A nil material falls back to DefaultMaterial.
func NewShape(geometry Geometry, material *Material, contactOffset, restOffset float64) (*Shape, error) {
	if geometry == nil {
		return nil, ErrNilGeometry
	}
	if restOffset < 0 || contactOffset <= restOffset {
		return nil, fmt.Errorf("contact=%v rest=%v: %w", contactOffset, restOffset, ErrInvalidOffsets)
	}
	if material == nil {
		material = DefaultMaterial()
	}

	return &Shape{
		Geometry:      geometry,
		Material:      material,
		ContactOffset: contactOffset,
		RestOffset:    restOffset,
	}, nil
}

// Owner returns the body the shape is attached to, or nil
func (s *Shape) Owner() *RigidBody {
	return s.owner
}

// ComputeAABB refreshes the cached bounds, inflated by the contact offset
func (s *Shape) ComputeAABB(pose Pose) {
	s.aabb = s.Geometry.ComputeAABB(pose).Inflate(s.ContactOffset)
}

func (s *Shape) GetAABB() AABB {
	return s.aabb
}

func (s *Shape) pose() Pose {
	if s.owner == nil {
		return NewPose(mgl64.Vec3{})
	}
	return s.owner.Pose
}

// Support returns the farthest world-space point along direction, at the owner's pose and
// inflated by the contact offset
func (s *Shape) Support(direction mgl64.Vec3) mgl64.Vec3 {
	pose := s.pose()
	local := pose.Rotation.Conjugate().Rotate(direction)
	point := pose.TransformPoint(s.Geometry.Support(local))

	return point.Add(unitOrX(direction).Mul(s.ContactOffset))
}

// Center returns the shape origin in world space
func (s *Shape) Center() mgl64.Vec3 {
	return s.pose().Position
}
