package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestNewPose(t *testing.T) {
	pose := NewPose(mgl64.Vec3{1, 2, 3})

	if pose.Position != (mgl64.Vec3{1, 2, 3}) {
		t.Errorf("Position = %v, want (1,2,3)", pose.Position)
	}
	if !quatAlmostEqual(pose.Rotation, mgl64.QuatIdent(), 1e-12) {
		t.Errorf("Rotation = %v, want identity", pose.Rotation)
	}
}

func TestPoseMat4_IdentityRotation(t *testing.T) {
	m := NewPose(mgl64.Vec3{1, 2, 3}).Mat4()

	if m.Col(3) != (mgl64.Vec4{1, 2, 3, 1}) {
		t.Errorf("translation column = %v, want (1,2,3,1)", m.Col(3))
	}
	if !mat3AlmostEqual(m.Mat3(), mgl64.Ident3(), 1e-12) {
		t.Errorf("rotation block = %v, want identity", m.Mat3())
	}
	for col := 0; col < 3; col++ {
		if m.At(3, col) != 0 {
			t.Errorf("bottom element of column %d = %v, want 0", col, m.At(3, col))
		}
	}
}

func TestPoseMat4_TransformsLocalPoints(t *testing.T) {
	pose := Pose{
		Position: mgl64.Vec3{10, 0, -5},
		Rotation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1}),
	}

	local := mgl64.Vec3{1, 0, 0}
	world := pose.Mat4().Mul4x1(local.Vec4(1)).Vec3()

	want := mgl64.Vec3{10, 1, -5}
	if !vec3AlmostEqual(world, want, 1e-9) {
		t.Errorf("Mat4 * local = %v, want %v", world, want)
	}
	if !vec3AlmostEqual(pose.TransformPoint(local), want, 1e-9) {
		t.Errorf("TransformPoint = %v, want %v", pose.TransformPoint(local), want)
	}
}

func TestPoseIsFinite(t *testing.T) {
	tests := []struct {
		name string
		pose Pose
		want bool
	}{
		{"finite", NewPose(mgl64.Vec3{1, 2, 3}), true},
		{"NaN position", NewPose(mgl64.Vec3{math.NaN(), 0, 0}), false},
		{"Inf position", NewPose(mgl64.Vec3{0, math.Inf(-1), 0}), false},
		{"NaN rotation", Pose{Rotation: mgl64.Quat{W: math.NaN()}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pose.IsFinite(); got != tt.want {
				t.Errorf("IsFinite() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBodyIDIsZero(t *testing.T) {
	if !(BodyID{}).IsZero() {
		t.Error("zero BodyID should be zero")
	}
	if (BodyID{Index: 0, Generation: 1}).IsZero() {
		t.Error("BodyID with a generation should not be zero")
	}
}
