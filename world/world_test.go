package world

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/pmove"
)

func floor() *World {
	return New(Solid(cube.Box(-1024, -1024, -64, 1024, 1024, 0)))
}

func TestTraceOntoFloor(t *testing.T) {
	tr := floor().Trace(mgl32.Vec3{0, 0, 100}, mgl32.Vec3{0, 0, 0}, pmove.PlayerBounds)
	if !tr.Hit() {
		t.Fatalf("expected to hit the floor, got %+v", tr)
	}
	if tr.Plane.Normal != (mgl32.Vec3{0, 0, 1}) {
		t.Fatalf("expected an upward facing plane, got %v", tr.Plane.Normal)
	}
	if want := 24 + float32(DistEpsilon); math32.Abs(tr.End[2]-want) > 1e-3 {
		t.Fatalf("expected to stop at z=%v, got %v", want, tr.End[2])
	}
	if tr.Entity != pmove.EntityWorld {
		t.Fatalf("floor belongs to the world, got entity %d", tr.Entity)
	}
	if tr.StartSolid || tr.AllSolid {
		t.Fatalf("sweep started in the open, got %+v", tr)
	}
}

func TestTraceMiss(t *testing.T) {
	end := mgl32.Vec3{50, 0, 100}
	tr := floor().Trace(mgl32.Vec3{0, 0, 100}, end, pmove.PlayerBounds)
	if tr.Hit() || tr.Fraction != 1 {
		t.Fatalf("expected a clear sweep, got %+v", tr)
	}
	if tr.End != end {
		t.Fatalf("expected to reach %v, got %v", end, tr.End)
	}
}

func TestTraceStartSolid(t *testing.T) {
	w := floor()

	tr := w.Trace(mgl32.Vec3{0, 0, -30}, mgl32.Vec3{0, 0, 100}, pmove.PlayerBounds)
	if !tr.StartSolid || tr.AllSolid {
		t.Fatalf("expected start solid only, got %+v", tr)
	}

	tr = w.Trace(mgl32.Vec3{0, 0, -30}, mgl32.Vec3{0, 0, -40}, pmove.PlayerBounds)
	if !tr.AllSolid || tr.Fraction != 0 {
		t.Fatalf("expected all solid, got %+v", tr)
	}
}

func TestTraceNearestBrushWins(t *testing.T) {
	w := floor()
	w.Add(Brush{Box: cube.Box(100, -50, 0, 120, 50, 100), Contents: pmove.ContentsSolid, Entity: 7})
	w.Add(Solid(cube.Box(200, -50, 0, 220, 50, 100)))

	tr := w.Trace(mgl32.Vec3{0, 0, 40}, mgl32.Vec3{300, 0, 40}, pmove.PlayerBounds)
	if tr.Entity != 7 {
		t.Fatalf("expected to hit entity 7 first, got %d", tr.Entity)
	}
	if tr.Plane.Normal != (mgl32.Vec3{-1, 0, 0}) {
		t.Fatalf("expected to hit the near face, got %v", tr.Plane.Normal)
	}
	if math32.Abs(tr.End[0]-(84-DistEpsilon)) > 1e-3 {
		t.Fatalf("unexpected stop position %v", tr.End)
	}
}

func TestLiquidIsNotSolid(t *testing.T) {
	w := floor()
	w.Add(Liquid(cube.Box(-100, -100, 0, 100, 100, 64), pmove.ContentsWater))

	if c := w.PointContents(mgl32.Vec3{0, 0, 10}); c&pmove.ContentsWater == 0 {
		t.Fatalf("expected water, got %#x", c)
	}
	if c := w.PointContents(mgl32.Vec3{0, 0, 80}); c != 0 {
		t.Fatalf("expected empty space, got %#x", c)
	}
	tr := w.Trace(mgl32.Vec3{0, 0, 100}, mgl32.Vec3{0, 0, 50}, pmove.PlayerBounds)
	if tr.Hit() {
		t.Fatalf("water must not block sweeps, got %+v", tr)
	}
}

func TestRemoveEntity(t *testing.T) {
	w := floor()
	w.Add(
		Brush{Box: cube.Box(0, 0, 0, 10, 10, 10), Contents: pmove.ContentsSolid, Entity: 9},
		Brush{Box: cube.Box(20, 0, 0, 30, 10, 10), Contents: pmove.ContentsSolid, Entity: 9},
	)
	if w.Len() != 3 {
		t.Fatalf("expected 3 brushes, got %d", w.Len())
	}
	w.RemoveEntity(9)
	if w.Len() != 1 {
		t.Fatalf("expected only the floor to remain, got %d", w.Len())
	}
}

func TestTraceEndRoundsProducts(t *testing.T) {
	start, end := mgl32.Vec3{0.1, -3.7, 100.3}, mgl32.Vec3{17.9, 2.2, 0.7}
	f := float32(0.3312)

	got := lerp(start, end, f)
	for i := range got {
		if want := start[i] + float32((end[i]-start[i])*f); got[i] != want {
			t.Fatalf("axis %d: got %x, want %x", i, got[i], want)
		}
	}
}
