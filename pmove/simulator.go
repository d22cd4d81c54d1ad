package pmove

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Simulator advances movement states through commands against a World.
// Simulate is a pure function of its inputs, so the same Simulator value can be
// shared by the authoritative and predictive executors.
type Simulator struct {
	World  World
	Config Config

	// Debugf receives internal simulation trace logs for callers that need deep diagnostics.
	Debugf func(format string, args ...any)
}

// Result is the outcome of simulating a single command.
type Result struct {
	State MovementState
	// Touched lists the entities the actor collided with, each at most once.
	Touched []Entity
	// Step is the vertical distance covered by stepping this tick. It is meant for
	// view smoothing only.
	Step float32
	// Bounds is the collision box in effect at the end of the tick.
	Bounds Bounds
}

// Move simulates cmd from state in world using DefaultConfig.
func Move(state MovementState, cmd Command, world World) Result {
	sim := Simulator{World: world, Config: DefaultConfig()}
	return sim.Simulate(state, cmd)
}

// Simulate runs one tick of cmd starting from state.
func (s *Simulator) Simulate(state MovementState, cmd Command) Result {
	ctx := newCtx(s, state, cmd)
	defer putCtx(ctx)

	ctx.init()
	ctx.clampAngles()

	switch ctx.s.Mode {
	case ModeFreeze:
		return ctx.result()
	case ModeSpectator:
		ctx.spectatorMove()
		return ctx.result()
	case ModeDead:
		ctx.cmd.Forward, ctx.cmd.Right, ctx.cmd.Up = 0, 0, 0
	}

	ctx.checkLadder()
	ctx.checkHook()
	ctx.checkDuck()
	ctx.checkWater()
	ctx.checkGround()

	switch {
	case ctx.s.Timer.Is(TimedTeleport):
		// Held in place until the pause expires.
	case ctx.s.Timer.Is(TimedWaterJump):
		ctx.waterJumpMove()
	case ctx.s.Flags.Has(FlagOnLadder):
		ctx.ladderMove()
	case ctx.s.Flags.Has(FlagOnGround):
		ctx.walkMove()
	case ctx.s.WaterLevel > WaterFeet:
		ctx.waterMove()
	default:
		ctx.airMove()
	}

	ctx.correctPosition()
	ctx.checkGround()
	ctx.checkWater()
	ctx.snapToWalls()
	return ctx.result()
}

func (s *Simulator) debugf(format string, args ...any) {
	if s.Debugf != nil {
		s.Debugf(format, args...)
	}
}

func (ctx *moveContext) result() Result {
	return Result{
		State:   ctx.s,
		Touched: slices.Clone(ctx.touched),
		Step:    ctx.step,
		Bounds:  ctx.bounds,
	}
}

// ViewOrigin is where the actor's eyes are.
func (r Result) ViewOrigin() mgl32.Vec3 {
	return r.State.Origin.Add(r.State.ViewOffset)
}
