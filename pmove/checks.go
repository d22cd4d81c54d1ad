package pmove

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func standingViewHeight(b Bounds) float32 {
	return b.Mins[2] + float32(b.Height()*0.9)
}

func duckedViewHeight(b Bounds) float32 {
	return b.Mins[2] + float32(b.Height()*0.5)
}

// checkLadder flags the actor as climbing when a ladder is right in front of it.
func (ctx *moveContext) checkLadder() {
	if ctx.s.Timer.Active() || ctx.s.Mode == ModeHookPull {
		return
	}

	end := ma(ctx.s.Origin, ctx.cfg.LadderDist, ctx.forwardXY)
	tr := ctx.trace(ctx.s.Origin, end)
	if tr.Hit() && tr.Contents&ContentsLadder != 0 {
		ctx.s.Flags |= FlagOnLadder
		ctx.ladderPlane = tr.Plane
		ctx.s.GroundEntity = EntityNone
	}
}

// checkHook applies the grappling hook, which either reels the actor straight
// in or tethers it to a rope of variable length.
func (ctx *moveContext) checkHook() {
	switch ctx.s.Mode {
	case ModeHookPull:
		if ctx.cmd.Buttons&ButtonHook == 0 {
			ctx.s.Mode = ModeNormal
			return
		}
		ctx.cmd.Forward, ctx.cmd.Right = 0, 0

		dir, dist := normalize(ctx.s.HookPosition.Sub(ctx.s.Origin))
		ctx.s.HookLength = dist
		if dist > ctx.cfg.HookMinLength {
			ctx.s.Velocity = dir.Mul(ctx.cfg.SpeedHookPull)
		} else {
			ctx.s.Velocity = mgl32.Vec3{}
		}
	case ModeHookSwing:
		held := ctx.cmd.Buttons&ButtonHook != 0
		if !ctx.s.Flags.Has(FlagHookReleased) {
			if !held {
				ctx.s.Flags |= FlagHookReleased
			}
		} else if held {
			// A second press lets go of the rope.
			ctx.s.Mode = ModeNormal
			ctx.s.Flags &^= FlagHookReleased
			return
		}

		reel := float32(ctx.cfg.SpeedHookReel * ctx.dt)
		switch {
		case ctx.cmd.Up > 0:
			ctx.s.HookLength -= reel
		case ctx.cmd.Up < 0:
			ctx.s.HookLength += reel
		}
		ctx.s.HookLength = clamp(ctx.s.HookLength, ctx.cfg.HookMinLength, ctx.cfg.HookMaxLength)
		ctx.cmd.Up = 0

		dir, dist := normalize(ctx.s.HookPosition.Sub(ctx.s.Origin))
		if dist <= ctx.s.HookLength || ctx.dt == 0 {
			return
		}
		if away := dot(ctx.s.Velocity, dir); away < 0 {
			ctx.s.Velocity = ma(ctx.s.Velocity, -away, dir)
		}
		pull := math32.Min((dist-ctx.s.HookLength)/ctx.dt, ctx.cfg.SpeedHookPull)
		ctx.s.Velocity = ma(ctx.s.Velocity, pull, dir)
	default:
		ctx.s.Flags &^= FlagHookReleased
	}
}

// checkDuck resolves crouching and eases the view height toward its target.
func (ctx *moveContext) checkDuck() {
	if ctx.s.Mode == ModeDead {
		if ctx.s.Flags.Has(FlagGiblet) {
			ctx.s.ViewOffset[2] = 0
		} else {
			ctx.s.ViewOffset[2] = -16
		}
		ctx.bounds = BoundsFor(ctx.s)
		return
	}

	ducking := ctx.s.Flags.Has(FlagDucked)
	wantsDuck := ctx.cmd.Up < 0 && !ctx.s.Flags.Has(FlagOnLadder)
	if !ducking && wantsDuck {
		ctx.s.Flags |= FlagDucked
	} else if ducking && !wantsDuck {
		tr := ctx.world.Trace(ctx.s.Origin, ctx.s.Origin, PlayerBounds)
		if !tr.AllSolid && !tr.StartSolid {
			ctx.s.Flags &^= FlagDucked
		}
	}
	ctx.bounds = BoundsFor(ctx.s)

	rate := float32(ctx.dt * ctx.cfg.SpeedDuckStand)
	if ctx.s.Flags.Has(FlagDucked) {
		target := duckedViewHeight(PlayerBounds)
		ctx.s.ViewOffset[2] = math32.Max(ctx.s.ViewOffset[2]-rate, target)
	} else {
		target := standingViewHeight(PlayerBounds)
		ctx.s.ViewOffset[2] = math32.Min(ctx.s.ViewOffset[2]+rate, target)
	}
}

// checkWater samples the world at the feet, the origin and the eyes.
func (ctx *moveContext) checkWater() {
	ctx.s.WaterLevel, ctx.s.WaterType = WaterNone, 0

	pos := ctx.s.Origin
	pos[2] = ctx.s.Origin[2] + ctx.bounds.Mins[2] + ctx.cfg.GroundDist
	contents := ctx.world.PointContents(pos)
	if contents&MaskLiquid == 0 {
		return
	}
	ctx.s.WaterType = contents
	ctx.s.WaterLevel = WaterFeet

	if ctx.world.PointContents(ctx.s.Origin)&MaskLiquid == 0 {
		return
	}
	ctx.s.WaterLevel = WaterWaist

	pos[2] = ctx.s.Origin[2] + ctx.s.ViewOffset[2] + 1
	if ctx.world.PointContents(pos)&MaskLiquid == 0 {
		return
	}
	ctx.s.WaterLevel = WaterUnder
	ctx.s.Flags |= FlagUnderWater
}

// checkTrickJump reports whether an airborne actor is rising toward a ledge
// fast enough that the ground probe should look ahead along its velocity.
func (ctx *moveContext) checkTrickJump() bool {
	if ctx.hadGround || ctx.s.Timer.Active() {
		return false
	}
	if ctx.previousVelocity[2] < ctx.cfg.SpeedUp {
		return false
	}
	return ctx.cmd.Up >= 1 && !ctx.s.Flags.Has(FlagJumpHeld)
}

// checkGround probes beneath the actor for a walkable plane, handling landings.
func (ctx *moveContext) checkGround() {
	if ctx.s.Flags.Has(FlagJumped|FlagOnLadder) || ctx.s.Timer.Is(TimedPushed) {
		ctx.loseGround()
		return
	}
	if ctx.s.Mode == ModeHookPull && ctx.s.Velocity[2] > 0 {
		ctx.loseGround()
		return
	}

	var end mgl32.Vec3
	if ctx.checkTrickJump() {
		end = ma(ctx.s.Origin, ctx.dt, ctx.s.Velocity)
		end[2] -= ctx.cfg.GroundDistTrick
	} else {
		end = ctx.s.Origin
		end[2] -= ctx.cfg.GroundDist
	}

	tr := ctx.trace(ctx.s.Origin, end)
	ctx.groundPlane, ctx.groundSurface, ctx.groundContents = tr.Plane, tr.Surface, tr.Contents

	if !tr.Hit() || tr.AllSolid || tr.Plane.Normal[2] < ctx.cfg.StepNormal {
		ctx.loseGround()
		return
	}

	if !ctx.hadGround {
		ctx.land()
	}
	ctx.hadGround = true
	ctx.s.Flags |= FlagOnGround
	ctx.s.GroundEntity = tr.Entity

	// Trick jumps keep their upward momentum for the brief grace window.
	if !ctx.s.Timer.Is(TimedTrickJump) {
		ctx.s.Origin = tr.End
		ctx.s.Velocity = clipVelocity(ctx.s.Velocity, tr.Plane.Normal, ctx.cfg.ClipBounce)
	}
	ctx.touch(tr.Entity)
}

func (ctx *moveContext) loseGround() {
	ctx.hadGround = false
	ctx.s.Flags &^= FlagOnGround
	ctx.s.GroundEntity = EntityNone
}

// land arms the landing timers from the speed the actor came down with.
func (ctx *moveContext) land() {
	if ctx.s.Timer.Is(TimedWaterJump) {
		ctx.s.Timer = Timed{}
	}
	if ctx.s.Timer.Active() {
		return
	}

	vz := ctx.previousVelocity[2]
	switch {
	case vz <= ctx.cfg.SpeedFallFar:
		ctx.s.Timer = NewTimed(TimedLand, ctx.cfg.TimeLandFallFar)
	case vz <= ctx.cfg.SpeedFall:
		ctx.s.Timer = NewTimed(TimedLand, ctx.cfg.TimeLandFall)
	case vz <= ctx.cfg.SpeedLand:
		ctx.s.Timer = NewTimed(TimedLand, ctx.cfg.TimeLand)
	case vz > ctx.cfg.SpeedUp:
		ctx.s.Timer = NewTimed(TimedTrickJump, ctx.cfg.TimeTrickJump)
	}
}

// checkJump launches the actor when it asks to jump and nothing prevents it.
func (ctx *moveContext) checkJump() bool {
	if ctx.s.Timer.Is(TimedLand) || ctx.s.Flags.Has(FlagJumpHeld) || ctx.cmd.Up < 1 {
		return false
	}

	jump := ctx.cfg.SpeedJump
	switch ctx.s.WaterLevel {
	case WaterFeet:
		jump *= 0.75
	case WaterWaist, WaterUnder:
		jump *= 0.5
	}
	if ctx.s.Timer.Is(TimedTrickJump) {
		jump += ctx.cfg.SpeedTrickJump
		ctx.s.Timer = Timed{}
	}

	if ctx.s.Velocity[2] < 0 {
		ctx.s.Velocity[2] = jump
	} else {
		ctx.s.Velocity[2] += jump
	}

	ctx.s.Flags |= FlagJumped | FlagJumpHeld
	ctx.loseGround()
	return true
}

// checkWaterJump pops a waist-deep actor out onto a ledge it is swimming into.
func (ctx *moveContext) checkWaterJump() bool {
	if ctx.s.Timer.Active() || ctx.s.WaterLevel != WaterWaist {
		return false
	}
	if ctx.cmd.Up < 1 && ctx.cmd.Forward < 1 {
		return false
	}

	wall := ctx.trace(ctx.s.Origin, ma(ctx.s.Origin, ctx.cfg.WaterJumpDist, ctx.forwardXY))
	if !wall.Hit() || wall.AllSolid || wall.Plane.Normal[2] >= ctx.cfg.StepNormal {
		return false
	}

	raised := ctx.s.Origin
	raised[2] += ctx.cfg.StepHeight
	if ctx.trace(ctx.s.Origin, raised).Fraction < 1 {
		return false
	}
	if ctx.trace(raised, ma(raised, ctx.cfg.WaterJumpDist, ctx.forwardXY)).Fraction < 1 {
		return false
	}

	ctx.s.Velocity = ctx.forwardXY.Mul(50)
	ctx.s.Velocity[2] = ctx.cfg.SpeedWaterJump
	ctx.s.Timer = NewTimed(TimedWaterJump, ctx.cfg.TimeWaterJump)
	return true
}
