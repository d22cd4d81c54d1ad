package pmove

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// wallOnce hits a plane with normal halfway through the first sweep and finds
// open space afterwards.
func wallOnce(normal mgl32.Vec3) *scriptedWorld {
	hit := false
	return &scriptedWorld{trace: func(start, end mgl32.Vec3) Trace {
		if hit || start == end {
			return Trace{Fraction: 1, End: end}
		}
		hit = true
		return Trace{
			Fraction: 0.5,
			End:      start.Add(end.Sub(start).Mul(0.5)),
			Plane:    Plane{Normal: normal},
			Entity:   EntityWorld,
		}
	}}
}

func TestSlideMoveSinglePlaneNeverGainsSpeed(t *testing.T) {
	normals := []mgl32.Vec3{{-1, 0, 0}, {0, -1, 0}, {-0.6, -0.8, 0}, {0, 0, 1}}
	velocities := []mgl32.Vec3{{320, 0, 0}, {200, 200, 0}, {50, 300, -100}, {0, 0, -600}, {300, 10, -20}}

	for _, n := range normals {
		for _, v := range velocities {
			if dot(v, n) >= 0 {
				continue
			}
			state := NewMovementState(mgl32.Vec3{})
			state.Velocity = v

			ctx := newTestCtx(wallOnce(n), state, Command{Msec: 16})
			ctx.slideMove()
			if got := length(ctx.s.Velocity); got > length(v) {
				t.Errorf("normal %v velocity %v: speed grew from %v to %v", n, v, length(v), got)
			}
			putCtx(ctx)
		}
	}
}

func TestSlideMoveUnobstructed(t *testing.T) {
	state := NewMovementState(mgl32.Vec3{})
	state.Velocity = mgl32.Vec3{100, 0, 0}

	ctx := newTestCtx(&scriptedWorld{}, state, Command{Msec: 10})
	defer putCtx(ctx)

	if !ctx.slideMove() {
		t.Fatalf("open space must not report an obstruction")
	}
	if !ctx.s.Origin.ApproxEqual(mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("expected to travel 1 unit, got %v", ctx.s.Origin)
	}
}

func TestSlideMoveTrappedDropsVerticalSpeed(t *testing.T) {
	w := &scriptedWorld{trace: func(start, end mgl32.Vec3) Trace {
		return Trace{End: start, AllSolid: true, StartSolid: true, Entity: EntityWorld}
	}}
	state := NewMovementState(mgl32.Vec3{})
	state.Velocity = mgl32.Vec3{10, 0, -300}

	ctx := newTestCtx(w, state, Command{Msec: 16})
	defer putCtx(ctx)

	ctx.slideMove()
	if ctx.s.Velocity[2] != 0 || ctx.s.Origin != (mgl32.Vec3{}) {
		t.Fatalf("trapped actor moved or kept falling: %v %v", ctx.s.Origin, ctx.s.Velocity)
	}
}

// planeSequence hits the given planes one after another, a quarter of the way
// into each sweep, and finds open space once they run out.
type planeSequence struct {
	normals []mgl32.Vec3
	last    mgl32.Vec3
}

func (p *planeSequence) trace(start, end mgl32.Vec3) Trace {
	if len(p.normals) == 0 || start == end {
		return Trace{Fraction: 1, End: end}
	}
	n := p.normals[0]
	p.normals = p.normals[1:]
	p.last = start.Add(end.Sub(start).Mul(0.25))
	return Trace{Fraction: 0.25, End: p.last, Plane: Plane{Normal: n}, Entity: EntityWorld}
}

func TestSlideMoveTripleLockStops(t *testing.T) {
	// The crease of the first and last planes runs down into the middle one.
	seq := &planeSequence{normals: []mgl32.Vec3{
		{-0.6, 0.8, 0},
		{0, -0.6, 0.8},
		{1, 0, 0},
	}}
	w := &scriptedWorld{trace: seq.trace}
	state := NewMovementState(mgl32.Vec3{})
	state.Velocity = mgl32.Vec3{-100, -50, -20}

	ctx := newTestCtx(w, state, Command{Msec: 16})
	defer putCtx(ctx)

	ctx.slideMove()
	if w.traces != 3 {
		t.Fatalf("expected to stop on the third plane, traced %d times", w.traces)
	}
	if ctx.s.Velocity != (mgl32.Vec3{}) {
		t.Fatalf("expected a wedged actor to stop, got velocity %v", ctx.s.Velocity)
	}
	if ctx.s.Origin != seq.last {
		t.Fatalf("expected to rest where the last plane was hit, got %v want %v", ctx.s.Origin, seq.last)
	}

	wedged := ctx.s.Origin
	ctx.slideMove()
	if ctx.s.Origin != wedged || ctx.s.Velocity != (mgl32.Vec3{}) {
		t.Fatalf("a wedged actor must not move again, got %v %v", ctx.s.Origin, ctx.s.Velocity)
	}
}
