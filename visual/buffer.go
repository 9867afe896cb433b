package visual

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Batch is the list of instance transforms drawn with one resource
type Batch struct {
	Resource  Resource
	Instances []mgl32.Mat4
}

// InstanceBuffer collects the world matrices submitted during one frame, grouped by resource
// in first-submission order. Matrices are narrowed to float32 for upload.
type InstanceBuffer struct {
	batches []Batch
	index   map[Resource]int
}

func NewInstanceBuffer() *InstanceBuffer {
	return &InstanceBuffer{
		index: make(map[Resource]int),
	}
}

// Submit appends an instance of resource for the current frame
func (b *InstanceBuffer) Submit(resource Resource, world mgl64.Mat4) {
	if resource == nil {
		return
	}

	i, ok := b.index[resource]
	if !ok {
		i = len(b.batches)
		b.index[resource] = i
		b.batches = append(b.batches, Batch{Resource: resource})
	}

	b.batches[i].Instances = append(b.batches[i].Instances, toMat32(world))
}

func toMat32(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

func (b *InstanceBuffer) Batches() []Batch {
	return b.batches
}

func (b *InstanceBuffer) Instances(resource Resource) []mgl32.Mat4 {
	if i, ok := b.index[resource]; ok {
		return b.batches[i].Instances
	}
	return nil
}

// Len returns the number of submitted instances
func (b *InstanceBuffer) Len() int {
	n := 0
	for _, batch := range b.batches {
		n += len(batch.Instances)
	}
	return n
}

// Reset clears the frame, keeping the allocated batches
func (b *InstanceBuffer) Reset() {
	for i := range b.batches {
		b.batches[i].Instances = b.batches[i].Instances[:0]
	}
}
