package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Geometry is the simplified geometric proxy a collision shape is built from
type Geometry interface {
	// ComputeAABB calculates the world-space bounding box at the given pose
	ComputeAABB(pose Pose) AABB
	Volume() float64
	// ComputeInertia returns the local inertia tensor for a solid of the given mass
	ComputeInertia(mass float64) mgl64.Mat3
	// Support returns the farthest local point along a local direction
	Support(direction mgl64.Vec3) mgl64.Vec3
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// Box represents an oriented box geometry
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b *Box) ComputeAABB(pose Pose) AABB {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()
	corners := [8]mgl64.Vec3{
		{-hx, -hy, -hz},
		{+hx, -hy, -hz},
		{-hx, +hy, -hz},
		{+hx, +hy, -hz},
		{-hx, -hy, +hz},
		{+hx, -hy, +hz},
		{-hx, +hy, +hz},
		{+hx, +hy, +hz},
	}

	worldCorner := pose.TransformPoint(corners[0])
	aabb := AABB{Min: worldCorner, Max: worldCorner}
	for i := 1; i < 8; i++ {
		worldCorner = pose.TransformPoint(corners[i])
		aabb = aabb.Union(AABB{Min: worldCorner, Max: worldCorner})
	}

	return aabb
}

func (b *Box) Volume() float64 {
	// full dimensions are 2*halfExtents
	return 8.0 * b.HalfExtents.X() * b.HalfExtents.Y() * b.HalfExtents.Z()
}

func (b *Box) ComputeInertia(mass float64) mgl64.Mat3 {
	x := b.HalfExtents.X() * 2
	y := b.HalfExtents.Y() * 2
	z := b.HalfExtents.Z() * 2

	// I = (m/12) * (d1² + d2²)
	factor := mass / 12.0

	return mgl64.Diag3(mgl64.Vec3{
		factor * (y*y + z*z),
		factor * (x*x + z*z),
		factor * (x*x + y*y),
	})
}

func (b *Box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		sign(direction.X()) * b.HalfExtents.X(),
		sign(direction.Y()) * b.HalfExtents.Y(),
		sign(direction.Z()) * b.HalfExtents.Z(),
	}
}

// Sphere represents a spherical geometry
type Sphere struct {
	Radius float64
}

// ComputeAABB is not affected by rotation, only by position
func (s *Sphere) ComputeAABB(pose Pose) AABB {
	r := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	return AABB{
		Min: pose.Position.Sub(r),
		Max: pose.Position.Add(r),
	}
}

func (s *Sphere) Volume() float64 {
	return (4.0 / 3.0) * math.Pi * math.Pow(s.Radius, 3)
}

func (s *Sphere) ComputeInertia(mass float64) mgl64.Mat3 {
	// I = (2/5) * m * r²
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius

	return mgl64.Diag3(mgl64.Vec3{i, i, i})
}

func (s *Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	return unitOrX(direction).Mul(s.Radius)
}

func unitOrX(direction mgl64.Vec3) mgl64.Vec3 {
	length := direction.Len()
	if length < 1e-12 {
		return mgl64.Vec3{1, 0, 0}
	}
	return direction.Mul(1 / length)
}

// Capsule is a cylinder capped by two hemispheres, aligned on the local Y axis.
// HalfHeight is half the length of the cylindrical part.
type Capsule struct {
	Radius     float64
	HalfHeight float64
}

func (c *Capsule) ComputeAABB(pose Pose) AABB {
	top := pose.TransformPoint(mgl64.Vec3{0, c.HalfHeight, 0})
	bottom := pose.TransformPoint(mgl64.Vec3{0, -c.HalfHeight, 0})

	segment := AABB{Min: top, Max: top}.Union(AABB{Min: bottom, Max: bottom})

	return segment.Inflate(c.Radius)
}

func (c *Capsule) Support(direction mgl64.Vec3) mgl64.Vec3 {
	tip := mgl64.Vec3{0, sign(direction.Y()) * c.HalfHeight, 0}
	return tip.Add(unitOrX(direction).Mul(c.Radius))
}

func (c *Capsule) Volume() float64 {
	return c.cylinderVolume() + c.capsVolume()
}

func (c *Capsule) cylinderVolume() float64 {
	return math.Pi * c.Radius * c.Radius * 2 * c.HalfHeight
}

func (c *Capsule) capsVolume() float64 {
	return (4.0 / 3.0) * math.Pi * math.Pow(c.Radius, 3)
}

func (c *Capsule) ComputeInertia(mass float64) mgl64.Mat3 {
	volume := c.Volume()
	if volume == 0 {
		return mgl64.Mat3{}
	}

	r2 := c.Radius * c.Radius
	h := 2 * c.HalfHeight
	mc := mass * c.cylinderVolume() / volume
	ms := mass * c.capsVolume() / volume

	iy := mc*r2/2 + ms*2*r2/5
	ixz := mc*(h*h/12+r2/4) + ms*(2*r2/5+h*h/4+3*h*c.Radius/8)

	return mgl64.Diag3(mgl64.Vec3{ixz, iy, ixz})
}
