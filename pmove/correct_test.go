package pmove

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCorrectPositionLeavesClearOriginAlone(t *testing.T) {
	w := &scriptedWorld{}
	ctx := newTestCtx(w, NewMovementState(mgl32.Vec3{5, 6, 7}), Command{Msec: 16})
	defer putCtx(ctx)

	ctx.correctPosition()
	if ctx.s.Origin != (mgl32.Vec3{5, 6, 7}) {
		t.Fatalf("origin moved to %v", ctx.s.Origin)
	}
	if w.traces != 1 {
		t.Fatalf("expected a single occupancy test, got %d traces", w.traces)
	}
}

func TestCorrectPositionPicksFirstReachableNudge(t *testing.T) {
	embedded := mgl32.Vec3{10, 0, 0}
	w := &scriptedWorld{trace: func(start, end mgl32.Vec3) Trace {
		if start == end {
			return Trace{Fraction: 1, End: end, StartSolid: end == embedded}
		}
		if end == (mgl32.Vec3{11, 0, 0}) || end == (mgl32.Vec3{10, 1, 0}) {
			return Trace{Fraction: 1, End: end}
		}
		return Trace{Fraction: 0.5, End: start.Add(end.Sub(start).Mul(0.5)), Entity: EntityWorld}
	}}

	ctx := newTestCtx(w, NewMovementState(mgl32.Vec3{}), Command{Msec: 16})
	defer putCtx(ctx)
	ctx.s.Origin = embedded

	ctx.correctPosition()
	// X varies fastest, so +x is reached before +y.
	if ctx.s.Origin != (mgl32.Vec3{11, 0, 0}) {
		t.Fatalf("expected nudge to {11 0 0}, got %v", ctx.s.Origin)
	}
}

func TestCorrectPositionRevertsWhenBoxedIn(t *testing.T) {
	w := &scriptedWorld{trace: func(start, end mgl32.Vec3) Trace {
		return Trace{Fraction: 0, End: start, StartSolid: true, AllSolid: true, Entity: EntityWorld}
	}}
	start := mgl32.Vec3{1, 2, 3}
	ctx := newTestCtx(w, NewMovementState(start), Command{Msec: 16})
	defer putCtx(ctx)
	ctx.s.Origin = mgl32.Vec3{40, 40, 40}

	ctx.correctPosition()
	if ctx.s.Origin != start {
		t.Fatalf("expected revert to %v, got %v", start, ctx.s.Origin)
	}
}
