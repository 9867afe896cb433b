package rayforce

import (
	"sort"

	"github.com/akmonengine/rayforce/actor"
	"github.com/akmonengine/rayforce/gjk"
)

// BroadPhase inserts every body in the spatial grid and streams the pairs whose bounds overlap
func BroadPhase(spatialGrid *SpatialGrid, bodies []*actor.RigidBody, workersCount int) <-chan Pair {
	spatialGrid.Clear()
	for i, body := range bodies {
		spatialGrid.Insert(i, body)
	}
	spatialGrid.SortCells()

	return spatialGrid.FindPairsParallel(bodies, workersCount)
}

// NarrowPhase keeps the pairs where at least one shape of each body overlaps, within the
// shapes' contact offsets.
// The result is sorted by body index so event order does not depend on worker scheduling.
func NarrowPhase(pairs <-chan Pair) []Pair {
	contacts := make([]Pair, 0)
	for pair := range pairs {
		if shapesOverlap(pair.BodyA, pair.BodyB) {
			contacts = append(contacts, pair)
		}
	}

	sort.Slice(contacts, func(i, j int) bool {
		a, b := makePairKey(contacts[i].BodyA, contacts[i].BodyB), makePairKey(contacts[j].BodyA, contacts[j].BodyB)
		if a.bodyA.ID.Index != b.bodyA.ID.Index {
			return a.bodyA.ID.Index < b.bodyA.ID.Index
		}
		return a.bodyB.ID.Index < b.bodyB.ID.Index
	})

	return contacts
}

func shapesOverlap(bodyA, bodyB *actor.RigidBody) bool {
	var simplex gjk.Simplex
	for _, shapeA := range bodyA.Shapes() {
		for _, shapeB := range bodyB.Shapes() {
			if !shapeA.GetAABB().Overlaps(shapeB.GetAABB()) {
				continue
			}
			if gjk.IntersectSimplex(shapeA, shapeB, &simplex) {
				return true
			}
		}
	}

	return false
}
