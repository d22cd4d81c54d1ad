package pmove

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestClipVelocityNeverGainsSpeed(t *testing.T) {
	normals := []mgl32.Vec3{
		{1, 0, 0},
		{0, 0, 1},
		{-0.6, 0.8, 0},
		{0.5773503, 0.5773503, 0.5773503},
	}
	for _, n := range normals {
		for yaw := float32(0); yaw < 360; yaw += 15 {
			for _, pitch := range []float32{-60, -20, 0, 20, 60} {
				in, _, _ := angleVectors(mgl32.Vec3{pitch, yaw, 0})
				in = in.Mul(320)
				out := clipVelocity(in, n, DefaultConfig().ClipBounce)
				if length(out) > length(in)+1e-3 {
					t.Fatalf("clip against %v gained speed: %v -> %v", n, length(in), length(out))
				}
				if dot(in, n) < 0 && dot(out, n) < 0 {
					t.Fatalf("clip against %v still points into the plane: %v", n, out)
				}
			}
		}
	}
}

func TestClipToPlanesTripleLock(t *testing.T) {
	planes := []mgl32.Vec3{
		{1, 0, 0},
		{-0.6, 0.8, 0},
		{0, 0, 1},
	}
	vel, locked := clipToPlanes(mgl32.Vec3{-1, -0.5, -1}, planes, 1.01)
	if !locked {
		t.Fatalf("expected a lock, got velocity %v", vel)
	}
	if vel != (mgl32.Vec3{}) {
		t.Fatalf("expected zero velocity, got %v", vel)
	}
}

func TestClipToPlanesCrease(t *testing.T) {
	planes := []mgl32.Vec3{
		{1, 0, 0},
		{-0.6, 0.8, 0},
	}
	vel, locked := clipToPlanes(mgl32.Vec3{-1, -0.5, -1}, planes, 1.01)
	if locked {
		t.Fatalf("two planes must never lock")
	}
	// The crease of the two walls is vertical.
	if vel[0] != 0 || vel[1] != 0 || math32.Abs(vel[2]+1) > 1e-6 {
		t.Fatalf("expected motion along the crease, got %v", vel)
	}
}

func TestClipToPlanesLeavesFreeVelocity(t *testing.T) {
	in := mgl32.Vec3{3, 4, 0}
	vel, locked := clipToPlanes(in, []mgl32.Vec3{{1, 0, 0}}, 1.01)
	if locked || vel != in {
		t.Fatalf("velocity leaving the plane must be untouched, got %v", vel)
	}
}

func TestNormalizeZero(t *testing.T) {
	dir, l := normalize(mgl32.Vec3{})
	if l != 0 || dir != (mgl32.Vec3{}) {
		t.Fatalf("expected zero direction, got %v (%v)", dir, l)
	}
}

func TestAngleVectors(t *testing.T) {
	forward, right, up := angleVectors(mgl32.Vec3{0, 90, 0})
	if !forward.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-6) {
		t.Fatalf("yaw 90 should face +y, got %v", forward)
	}
	if !right.ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-6) {
		t.Fatalf("yaw 90 should have +x on the right, got %v", right)
	}
	if !up.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-6) {
		t.Fatalf("level view should have +z up, got %v", up)
	}

	forward, _, _ = angleVectors(mgl32.Vec3{45, 0, 0})
	if forward[2] >= 0 {
		t.Fatalf("positive pitch must look down, got %v", forward)
	}
}

func TestNormalizeAngle(t *testing.T) {
	cases := map[float32]float32{
		0:    0,
		180:  180,
		-180: 180,
		270:  -90,
		-450: -90,
		725:  5,
	}
	for in, want := range cases {
		if got := normalizeAngle(in); math32.Abs(got-want) > 1e-4 {
			t.Errorf("normalizeAngle(%v) = %v, want %v", in, got, want)
		}
	}
}
