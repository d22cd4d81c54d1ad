package pmove

import (
	"slices"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// moveContext carries the scratch values of a single tick. Nothing in it
// survives into the next tick except through s.
type moveContext struct {
	sim   *Simulator
	cfg   *Config
	world World

	s      MovementState
	cmd    Command
	bounds Bounds

	dt float32

	previousOrigin   mgl32.Vec3
	previousVelocity mgl32.Vec3
	// hadGround is whether the actor stood on ground as of the latest ground check.
	hadGround bool

	forward, right, up mgl32.Vec3
	forwardXY, rightXY mgl32.Vec3

	groundPlane    Plane
	groundSurface  Surface
	groundContents Contents
	ladderPlane    Plane

	touched []Entity
	step    float32
}

var ctxPool = sync.Pool{
	New: func() any {
		return &moveContext{touched: make([]Entity, 0, 8)}
	},
}

func newCtx(sim *Simulator, state MovementState, cmd Command) *moveContext {
	ctx := ctxPool.Get().(*moveContext)
	ctx.sim = sim
	ctx.cfg = &sim.Config
	ctx.world = sim.World
	ctx.s = state
	ctx.cmd = cmd
	return ctx
}

func putCtx(ctx *moveContext) {
	ctx.reset()
	ctxPool.Put(ctx)
}

func (ctx *moveContext) reset() {
	*ctx = moveContext{touched: ctx.touched[:0]}
}

// init clears per-tick flags and advances the timer.
func (ctx *moveContext) init() {
	ctx.bounds = BoundsFor(ctx.s)
	ctx.hadGround = ctx.s.Flags.Has(FlagOnGround)

	if ctx.cmd.Up < 1 {
		ctx.s.Flags &^= FlagJumpHeld
	}
	ctx.s.Flags &^= tickFlags
	ctx.s.Timer = ctx.s.Timer.Tick(uint32(ctx.cmd.Msec))

	ctx.dt = float32(ctx.cmd.Msec) * 0.001
	ctx.previousOrigin = ctx.s.Origin
	ctx.previousVelocity = ctx.s.Velocity
}

// clampAngles resolves the view angles of the command and derives the
// direction vectors used for this tick.
func (ctx *moveContext) clampAngles() {
	angles := ctx.cmd.Angles.Add(ctx.s.DeltaAngles)
	for i := range angles {
		angles[i] = normalizeAngle(angles[i])
	}
	angles[0] = clamp(angles[0], -90, 90)
	ctx.s.Angles = angles

	ctx.forward, ctx.right, ctx.up = angleVectors(angles)
	ctx.forwardXY, _ = normalize(mgl32.Vec3{ctx.forward[0], ctx.forward[1], 0})
	ctx.rightXY, _ = normalize(mgl32.Vec3{ctx.right[0], ctx.right[1], 0})
}

func (ctx *moveContext) trace(start, end mgl32.Vec3) Trace {
	return ctx.world.Trace(start, end, ctx.bounds)
}

// touch records ent as collided with this tick.
func (ctx *moveContext) touch(ent Entity) {
	if ent == EntityNone || ent == EntityWorld || slices.Contains(ctx.touched, ent) {
		return
	}
	ctx.touched = append(ctx.touched, ent)
}
