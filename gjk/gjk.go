// Package gjk implements the Gilbert-Johnson-Keerthi overlap test between convex volumes.
//
// GJK checks whether the Minkowski difference A - B contains the origin. It only needs a
// support function per volume and grows a simplex (point, segment, triangle, tetrahedron)
// toward the origin, usually in a handful of iterations.
//
// References:
//   - Gilbert, Johnson, Keerthi: "A Fast Procedure for Computing the Distance Between
//     Complex Objects in Three-Dimensional Space" (1988)
//   - Van den Bergen: "Collision Detection in Interactive 3D Environments" (2003)
package gjk

import (
	"github.com/go-gl/mathgl/mgl64"
)

const maxIterations = 32

// Convex is a convex volume placed in world space
type Convex interface {
	// Support returns the farthest world-space point of the volume along direction
	Support(direction mgl64.Vec3) mgl64.Vec3
	// Center is any interior point, used to seed the search direction
	Center() mgl64.Vec3
}

// Simplex holds the 1 to 4 most recent support points of A - B
type Simplex struct {
	Points [4]mgl64.Vec3
	Count  int
}

func (s *Simplex) push(p mgl64.Vec3) {
	s.Points[s.Count] = p
	s.Count++
}

func (s *Simplex) set(points ...mgl64.Vec3) {
	s.Count = copy(s.Points[:], points)
}

// MinkowskiSupport returns the support point of A - B along direction
func MinkowskiSupport(a, b Convex, direction mgl64.Vec3) mgl64.Vec3 {
	return a.Support(direction).Sub(b.Support(direction.Mul(-1)))
}

// Intersect reports whether a and b overlap
func Intersect(a, b Convex) bool {
	var simplex Simplex
	return IntersectSimplex(a, b, &simplex)
}

// IntersectSimplex is Intersect reusing the caller's simplex. On overlap the simplex
// encloses the origin.
func IntersectSimplex(a, b Convex, simplex *Simplex) bool {
	direction := b.Center().Sub(a.Center())
	if direction.LenSqr() < 1e-8 {
		direction = mgl64.Vec3{1, 0, 0}
	}

	simplex.set(MinkowskiSupport(a, b, direction))
	direction = simplex.Points[0].Mul(-1)
	if direction.LenSqr() < 1e-16 {
		return true
	}

	for _i := 0; _i < maxIterations; _i++ {
		point := MinkowskiSupport(a, b, direction)
		// the origin lies beyond the farthest reachable point: separated
		if point.Dot(direction) <= 0 {
			return false
		}

		simplex.push(point)
		if reduce(simplex, &direction) {
			return true
		}
	}

	return false
}

// reduce keeps the simplex feature closest to the origin and points direction at it.
// It returns true once the origin is enclosed.
func reduce(simplex *Simplex, direction *mgl64.Vec3) bool {
	switch simplex.Count {
	case 2:
		return segment(simplex, direction)
	case 3:
		return triangle(simplex, direction)
	case 4:
		return tetrahedron(simplex, direction)
	}

	return false
}

// the newest point is always last
func segment(simplex *Simplex, direction *mgl64.Vec3) bool {
	a, b := simplex.Points[1], simplex.Points[0]
	ab := b.Sub(a)
	ao := a.Mul(-1)

	if ab.LenSqr() < 1e-8 {
		if ao.LenSqr() < 1e-8 {
			return true
		}
		simplex.set(a)
		*direction = ao
		return false
	}

	if ab.Dot(ao) <= 0 {
		simplex.set(a)
		*direction = ao
		return false
	}

	perp := ab.Cross(ao).Cross(ab)
	if perp.LenSqr() < 1e-12 {
		// origin on the segment
		return true
	}
	*direction = perp

	return false
}

func triangle(simplex *Simplex, direction *mgl64.Vec3) bool {
	a, b, c := simplex.Points[2], simplex.Points[1], simplex.Points[0]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ao := a.Mul(-1)
	normal := ab.Cross(ac)

	// collinear points
	if normal.LenSqr() < 1e-10 {
		simplex.set(b, a)
		return segment(simplex, direction)
	}

	if ab.Cross(normal).Dot(ao) > 0 {
		simplex.set(b, a)
		*direction = ab.Cross(ao).Cross(ab)
		return false
	}
	if normal.Cross(ac).Dot(ao) > 0 {
		simplex.set(c, a)
		*direction = ac.Cross(ao).Cross(ac)
		return false
	}

	if normal.Dot(ao) > 0 {
		*direction = normal
	} else {
		// keep the winding so the normal faces the origin
		simplex.set(a, c, b)
		*direction = normal.Mul(-1)
	}

	return false
}

func tetrahedron(simplex *Simplex, direction *mgl64.Vec3) bool {
	a, b, c, d := simplex.Points[3], simplex.Points[2], simplex.Points[1], simplex.Points[0]
	ab := b.Sub(a)
	ac := c.Sub(a)
	ad := d.Sub(a)
	ao := a.Mul(-1)

	// face normals, pointing away from the opposite vertex
	abc := outward(ab.Cross(ac), ad)
	acd := outward(ac.Cross(ad), ab)
	adb := outward(ad.Cross(ab), ac)

	if abc.LenSqr() < 1e-10 || acd.LenSqr() < 1e-10 || adb.LenSqr() < 1e-10 {
		simplex.set(c, b, a)
		return triangle(simplex, direction)
	}

	switch {
	case abc.Dot(ao) > 0:
		simplex.set(c, b, a)
	case acd.Dot(ao) > 0:
		simplex.set(d, c, a)
	case adb.Dot(ao) > 0:
		simplex.set(b, d, a)
	default:
		return true
	}

	return triangle(simplex, direction)
}

func outward(normal, towardOpposite mgl64.Vec3) mgl64.Vec3 {
	if normal.Dot(towardOpposite) > 0 {
		return normal.Mul(-1)
	}
	return normal
}
