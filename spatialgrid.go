package rayforce

import (
	"math"
	"sort"
	"sync"

	"github.com/akmonengine/rayforce/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// CellKey is the integer coordinate of a grid cell
type CellKey struct {
	X, Y, Z int
}

// Cell holds the indices of the bodies overlapping it
type Cell struct {
	bodyIndices []int
}

// Pair of bodies whose bounds overlap
type Pair struct {
	BodyA *actor.RigidBody
	BodyB *actor.RigidBody
}

// SpatialGrid is a uniform hashed grid used for the broad phase
type SpatialGrid struct {
	cellSize float64
	cells    []Cell
	cellMask int
}

// NewSpatialGrid creates a grid; numCells is rounded up to a power of two
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].bodyIndices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert adds the body to every cell its bounds cover
func (sg *SpatialGrid) Insert(bodyIndex int, body *actor.RigidBody) {
	sg.forEachCell(body.AABB(), func(cellIdx int) {
		sg.cells[cellIdx].bodyIndices = append(sg.cells[cellIdx].bodyIndices, bodyIndex)
	})
}

func (sg *SpatialGrid) forEachCell(aabb actor.AABB, fn func(cellIdx int)) {
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				fn(sg.hashCell(CellKey{x, y, z}))
			}
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].bodyIndices = sg.cells[i].bodyIndices[:0]
	}
}

func (sg *SpatialGrid) SortCells() {
	for i := range sg.cells {
		if len(sg.cells[i].bodyIndices) > 1 {
			sort.Ints(sg.cells[i].bodyIndices)
		}
	}
}

func candidate(bodyA, bodyB *actor.RigidBody) bool {
	if len(bodyA.Shapes()) == 0 || len(bodyB.Shapes()) == 0 {
		return false
	}
	if bodyA.IsSleeping && bodyB.IsSleeping {
		return false
	}

	return bodyA.AABB().Overlaps(bodyB.AABB())
}

// FindPairs is the sequential version of FindPairsParallel
func (sg *SpatialGrid) FindPairs(bodies []*actor.RigidBody) []Pair {
	pairs := make([]Pair, 0, len(bodies)/2)
	seen := make([]bool, len(bodies))

	for bodyIdx, bodyA := range bodies {
		clear(seen)
		sg.forEachCell(bodyA.AABB(), func(cellIdx int) {
			for _, otherIdx := range sg.cells[cellIdx].bodyIndices {
				// deterministic order, avoids (A,B) and (B,A)
				if otherIdx <= bodyIdx || seen[otherIdx] {
					continue
				}
				seen[otherIdx] = true

				if bodyB := bodies[otherIdx]; candidate(bodyA, bodyB) {
					pairs = append(pairs, Pair{BodyA: bodyA, BodyB: bodyB})
				}
			}
		})
	}

	return pairs
}

// FindPairsParallel splits the bodies between workers and streams the candidate pairs
func (sg *SpatialGrid) FindPairsParallel(bodies []*actor.RigidBody, numWorkers int) <-chan Pair {
	var wg sync.WaitGroup
	pairsChan := make(chan Pair, numWorkers*10)

	bodiesPerWorker := len(bodies) / numWorkers
	if bodiesPerWorker == 0 {
		bodiesPerWorker = 1
	}

	for w := 0; w < numWorkers; w++ {
		startIdx := w * bodiesPerWorker
		endIdx := startIdx + bodiesPerWorker
		if w == numWorkers-1 {
			endIdx = len(bodies)
		}
		if startIdx >= len(bodies) {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			seen := make([]bool, len(bodies))
			for bodyIdx := start; bodyIdx < end; bodyIdx++ {
				clear(seen)
				bodyA := bodies[bodyIdx]

				sg.forEachCell(bodyA.AABB(), func(cellIdx int) {
					for _, otherIdx := range sg.cells[cellIdx].bodyIndices {
						if otherIdx <= bodyIdx || seen[otherIdx] {
							continue
						}
						seen[otherIdx] = true

						if bodyB := bodies[otherIdx]; candidate(bodyA, bodyB) {
							pairsChan <- Pair{BodyA: bodyA, BodyB: bodyB}
						}
					}
				})
			}
		}(startIdx, endIdx)
	}

	go func() {
		wg.Wait()
		close(pairsChan)
	}()

	return pairsChan
}

func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
