package pmove

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// MaxClipPlanes bounds the planes a single slide can collide with.
const MaxClipPlanes = 6

// impactedPlane reports whether normal was already recorded during this slide.
func impactedPlane(planes []mgl32.Vec3, normal mgl32.Vec3, epsilon float32) bool {
	for _, p := range planes {
		if dot(normal, p) > 1-epsilon {
			return true
		}
	}
	return false
}

// slideMove moves the actor along its velocity for the duration of the tick,
// sliding along everything it hits. It returns true when the move was not
// obstructed.
func (ctx *moveContext) slideMove() bool {
	var planes [MaxClipPlanes]mgl32.Vec3
	numPlanes := 0
	if ctx.s.Flags.Has(FlagOnGround) {
		planes[numPlanes] = ctx.groundPlane.Normal
		numPlanes++
	}

	remaining := ctx.dt
	bump := 0
	for ; bump < int(ctx.cfg.MaxBumps); bump++ {
		if remaining <= 0 {
			break
		}

		end := ma(ctx.s.Origin, remaining, ctx.s.Velocity)
		tr := ctx.trace(ctx.s.Origin, end)
		if tr.AllSolid {
			// Trapped: never build up vertical speed while stuck.
			ctx.s.Velocity[2] = 0
			ctx.sim.debugf("slideMove: trapped in solid at %v", ctx.s.Origin)
			return true
		}

		if tr.Fraction > 0 {
			ctx.s.Origin = tr.End
		}
		if tr.Fraction == 1 {
			break
		}
		remaining -= float32(remaining * tr.Fraction)
		ctx.touch(tr.Entity)

		// Hitting the same plane again: nudge off it instead of clipping twice.
		if impactedPlane(planes[:numPlanes], tr.Plane.Normal, ctx.cfg.StopEpsilon) {
			ctx.s.Velocity = ctx.s.Velocity.Add(tr.Plane.Normal)
			continue
		}
		if numPlanes == MaxClipPlanes {
			ctx.s.Velocity = mgl32.Vec3{}
			return true
		}
		planes[numPlanes] = tr.Plane.Normal
		numPlanes++

		vel, locked := clipToPlanes(ctx.s.Velocity, planes[:numPlanes], ctx.cfg.ClipBounce)
		ctx.s.Velocity = vel
		if locked {
			ctx.sim.debugf("slideMove: wedged between %d planes", numPlanes)
			return true
		}
	}
	return bump == 0
}

// stepSlideMove slides the actor and, when blocked, retries the move from one
// step higher, keeping whichever attempt covered more horizontal ground.
func (ctx *moveContext) stepSlideMove() {
	org0, vel0 := ctx.s.Origin, ctx.s.Velocity

	if ctx.slideMove() {
		// Stay glued to stairs and slopes when walking down them.
		if ctx.s.Flags.Has(FlagOnGround) && ctx.cmd.Up <= 0 {
			down := ctx.s.Origin
			down[2] -= ctx.cfg.StepHeight + ctx.cfg.GroundDist
			if tr := ctx.trace(ctx.s.Origin, down); ctx.checkStep(tr) {
				ctx.stepDown(tr)
			}
		}
		return
	}

	org1, vel1 := ctx.s.Origin, ctx.s.Velocity

	// Nothing left to gain from stepping when the obstruction only ate vertical motion.
	if horizontalLengthSqr(vel0) == 0 {
		return
	}

	up := org0
	up[2] += ctx.cfg.StepHeight
	tr := ctx.trace(org0, up)
	if tr.AllSolid || tr.StartSolid {
		return
	}

	ctx.s.Origin, ctx.s.Velocity = tr.End, vel0
	ctx.slideMove()

	down := ctx.s.Origin
	down[2] -= ctx.cfg.StepHeight + ctx.cfg.GroundDist
	tr = ctx.trace(ctx.s.Origin, down)

	if ctx.checkStep(tr) && horizontalLengthSqr(tr.End.Sub(org0)) > horizontalLengthSqr(org1.Sub(org0)) {
		if ctx.s.Flags.Has(FlagOnGround) || vel0[2] < ctx.cfg.SpeedUp {
			ctx.stepDown(tr)
		} else {
			// Rising actors keep the height they gained.
			ctx.setStep()
		}
		return
	}

	ctx.s.Origin, ctx.s.Velocity = org1, vel1
}

// checkStep reports whether tr landed on a walkable plane different from the
// one the actor is standing on.
func (ctx *moveContext) checkStep(tr Trace) bool {
	if tr.AllSolid || tr.StartSolid || !tr.Hit() {
		return false
	}
	if tr.Plane.Normal[2] < ctx.cfg.StepNormal {
		return false
	}
	return tr.Entity != ctx.s.GroundEntity || tr.Plane.Dist != ctx.groundPlane.Dist
}

func (ctx *moveContext) stepDown(tr Trace) {
	ctx.s.Origin = tr.End
	ctx.setStep()
}

func (ctx *moveContext) setStep() {
	step := ctx.s.Origin[2] - ctx.previousOrigin[2]
	if math32.Abs(step) < ctx.cfg.StepHeightMin {
		return
	}
	ctx.s.Flags |= FlagOnStairs
	ctx.step = step
}
