package rayforce

import (
	"testing"

	"github.com/akmonengine/rayforce/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func createTestSphere(t *testing.T, index uint32, position mgl64.Vec3, radius, contactOffset float64) *actor.RigidBody {
	t.Helper()

	body := actor.NewRigidBody(actor.NewPose(position))
	body.ID = actor.BodyID{Index: index, Generation: 1}

	shape, err := actor.NewShape(&actor.Sphere{Radius: radius}, nil, contactOffset, 0)
	if err != nil {
		t.Fatalf("NewShape() error = %v", err)
	}
	if err := body.AttachShape(shape); err != nil {
		t.Fatalf("AttachShape() error = %v", err)
	}

	return body
}

func pairsOf(pairs ...Pair) <-chan Pair {
	ch := make(chan Pair, len(pairs))
	for _, p := range pairs {
		ch <- p
	}
	close(ch)

	return ch
}

func TestNarrowPhase(t *testing.T) {
	tests := []struct {
		name string
		a, b *actor.RigidBody
		want bool
	}{
		{
			name: "overlapping spheres",
			a:    createTestSphere(t, 0, mgl64.Vec3{0, 0, 0}, 1, 0.02),
			b:    createTestSphere(t, 1, mgl64.Vec3{1.5, 0, 0}, 1, 0.02),
			want: true,
		},
		{
			name: "bounds overlap but spheres do not",
			a:    createTestSphere(t, 0, mgl64.Vec3{0, 0, 0}, 1, 0.02),
			b:    createTestSphere(t, 1, mgl64.Vec3{1.6, 1.6, 0}, 1, 0.02),
			want: false,
		},
		{
			name: "gap within contact offsets",
			a:    createTestSphere(t, 0, mgl64.Vec3{0, 0, 0}, 1, 0.02),
			b:    createTestSphere(t, 1, mgl64.Vec3{2.03, 0, 0}, 1, 0.02),
			want: true,
		},
		{
			name: "gap beyond contact offsets",
			a:    createTestSphere(t, 0, mgl64.Vec3{0, 0, 0}, 1, 0.02),
			b:    createTestSphere(t, 1, mgl64.Vec3{2.1, 0, 0}, 1, 0.02),
			want: false,
		},
		{
			name: "box against sphere",
			a:    createTestBox(t, 0, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}),
			b:    createTestSphere(t, 1, mgl64.Vec3{0, 1.5, 0}, 1, 0.02),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contacts := NarrowPhase(pairsOf(Pair{BodyA: tt.a, BodyB: tt.b}))
			if got := len(contacts) == 1; got != tt.want {
				t.Errorf("NarrowPhase() contact = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNarrowPhase_SortedByBodyIndex(t *testing.T) {
	bodies := []*actor.RigidBody{
		createTestBox(t, 0, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}),
		createTestBox(t, 1, mgl64.Vec3{1.5, 0, 0}, mgl64.Vec3{1, 1, 1}),
		createTestBox(t, 2, mgl64.Vec3{3, 0, 0}, mgl64.Vec3{1, 1, 1}),
	}

	contacts := NarrowPhase(pairsOf(
		Pair{BodyA: bodies[2], BodyB: bodies[1]},
		Pair{BodyA: bodies[1], BodyB: bodies[0]},
	))

	if len(contacts) != 2 {
		t.Fatalf("NarrowPhase() returned %d contacts, want 2", len(contacts))
	}
	first := makePairKey(contacts[0].BodyA, contacts[0].BodyB)
	if first.bodyA != bodies[0] || first.bodyB != bodies[1] {
		t.Errorf("first contact is %d-%d, want 0-1", first.bodyA.ID.Index, first.bodyB.ID.Index)
	}
}

func TestBroadPhase_ThenNarrowPhase(t *testing.T) {
	bodies := []*actor.RigidBody{
		createTestSphere(t, 0, mgl64.Vec3{0, 0, 0}, 1, 0.02),
		createTestSphere(t, 1, mgl64.Vec3{1.6, 1.6, 0}, 1, 0.02),
		createTestSphere(t, 2, mgl64.Vec3{-1.5, 0, 0}, 1, 0.02),
	}

	contacts := NarrowPhase(BroadPhase(NewSpatialGrid(2.0, 128), bodies, 2))

	if len(contacts) != 1 {
		t.Fatalf("got %d contacts, want 1", len(contacts))
	}
	key := makePairKey(contacts[0].BodyA, contacts[0].BodyB)
	if key.bodyA != bodies[0] || key.bodyB != bodies[2] {
		t.Errorf("contact is %d-%d, want 0-2", key.bodyA.ID.Index, key.bodyB.ID.Index)
	}
}
