package pmove

import "github.com/go-gl/mathgl/mgl32"

// scriptedWorld answers collision queries through callbacks. Nil callbacks
// describe empty space.
type scriptedWorld struct {
	trace    func(start, end mgl32.Vec3) Trace
	contents func(point mgl32.Vec3) Contents
	traces   int
}

func (w *scriptedWorld) Trace(start, end mgl32.Vec3, _ Bounds) Trace {
	w.traces++
	if w.trace == nil {
		return Trace{Fraction: 1, End: end}
	}
	return w.trace(start, end)
}

func (w *scriptedWorld) PointContents(point mgl32.Vec3) Contents {
	if w.contents == nil {
		return 0
	}
	return w.contents(point)
}

func newTestCtx(w World, state MovementState, cmd Command) *moveContext {
	sim := &Simulator{World: w, Config: DefaultConfig()}
	ctx := newCtx(sim, state, cmd)
	ctx.init()
	ctx.clampAngles()
	return ctx
}
