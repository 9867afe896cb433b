package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// Union returns the smallest AABB enclosing both boxes
func (a AABB) Union(other AABB) AABB {
	return AABB{
		Min: mgl64.Vec3{
			math.Min(a.Min.X(), other.Min.X()),
			math.Min(a.Min.Y(), other.Min.Y()),
			math.Min(a.Min.Z(), other.Min.Z()),
		},
		Max: mgl64.Vec3{
			math.Max(a.Max.X(), other.Max.X()),
			math.Max(a.Max.Y(), other.Max.Y()),
			math.Max(a.Max.Z(), other.Max.Z()),
		},
	}
}

// Inflate grows the box by margin on every side
func (a AABB) Inflate(margin float64) AABB {
	m := mgl64.Vec3{margin, margin, margin}

	return AABB{Min: a.Min.Sub(m), Max: a.Max.Add(m)}
}
