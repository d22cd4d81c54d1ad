package pmove

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// friction slows the actor according to the medium it moves through. On the
// ground and in the air only horizontal speed is affected.
func (ctx *moveContext) friction() {
	if ctx.s.Mode == ModeHookPull {
		return
	}

	vel := ctx.s.Velocity
	horizontal := ctx.s.Mode != ModeSpectator && !ctx.s.Flags.Has(FlagOnLadder) && ctx.s.WaterLevel <= WaterFeet
	if horizontal {
		vel[2] = 0
	}

	speed := length(vel)
	if speed < 1 {
		ctx.s.Velocity[0], ctx.s.Velocity[1] = 0, 0
		return
	}

	var friction float32
	control := speed
	switch {
	case ctx.s.Mode == ModeSpectator:
		friction = ctx.cfg.FrictSpectator
	case ctx.s.Flags.Has(FlagOnLadder):
		friction = ctx.cfg.FrictLadder
	case ctx.s.WaterLevel > WaterFeet:
		friction = ctx.cfg.FrictWater
	case ctx.s.Flags.Has(FlagOnGround):
		if ctx.groundSurface&SurfaceSlick != 0 {
			friction = ctx.cfg.FrictGroundSlick
		} else {
			friction = ctx.cfg.FrictGround
		}
		// Slow movers on the ground come to rest quickly.
		control = math32.Max(ctx.cfg.SpeedStop, speed)
	default:
		friction = ctx.cfg.FrictAir
	}

	drop := float32(float32(control*friction) * ctx.dt)
	scale := math32.Max(speed-drop, 0) / speed

	if horizontal {
		ctx.s.Velocity[0] *= scale
		ctx.s.Velocity[1] *= scale
	} else {
		ctx.s.Velocity = ctx.s.Velocity.Mul(scale)
	}
}

// accelerate adds velocity along dir until the actor moves at speed along it.
func (ctx *moveContext) accelerate(dir mgl32.Vec3, speed, accel float32) {
	current := dot(ctx.s.Velocity, dir)
	add := speed - current
	if add <= 0 {
		return
	}
	accelSpeed := math32.Min(float32(float32(accel*ctx.dt)*speed), add)
	ctx.s.Velocity = ma(ctx.s.Velocity, accelSpeed, dir)
}

func (ctx *moveContext) gravity() {
	if ctx.s.Mode == ModeHookPull {
		return
	}
	g := ctx.s.Gravity
	if ctx.s.WaterLevel > WaterWaist {
		g *= ctx.cfg.GravityWater
	}
	ctx.s.Velocity[2] -= float32(g * ctx.dt)
}

var currentDirections = [...]struct {
	contents Contents
	dir      mgl32.Vec3
}{
	{ContentsCurrent0, mgl32.Vec3{1, 0, 0}},
	{ContentsCurrent90, mgl32.Vec3{0, 1, 0}},
	{ContentsCurrent180, mgl32.Vec3{-1, 0, 0}},
	{ContentsCurrent270, mgl32.Vec3{0, -1, 0}},
	{ContentsCurrentUp, mgl32.Vec3{0, 0, 1}},
	{ContentsCurrentDn, mgl32.Vec3{0, 0, -1}},
}

// currents adds water currents and conveyor surfaces to the wish velocity.
func (ctx *moveContext) currents(vel mgl32.Vec3) mgl32.Vec3 {
	var contents Contents
	if ctx.s.WaterLevel > WaterNone {
		contents |= ctx.s.WaterType & MaskCurrent
	}
	if ctx.s.Flags.Has(FlagOnGround) {
		contents |= ctx.groundContents & MaskCurrent
	}
	if contents == 0 {
		return vel
	}

	var current mgl32.Vec3
	for _, c := range currentDirections {
		if contents&c.contents != 0 {
			current = current.Add(c.dir)
		}
	}
	dir, _ := normalize(current)
	return ma(vel, ctx.cfg.SpeedCurrent, dir)
}

func (ctx *moveContext) walkMove() {
	if ctx.checkJump() {
		if ctx.s.WaterLevel > WaterFeet {
			ctx.waterMove()
		} else {
			ctx.airMove()
		}
		return
	}

	ctx.friction()

	normal := ctx.groundPlane.Normal
	forward, _ := normalize(clipVelocity(ctx.forwardXY, normal, ctx.cfg.ClipBounce))
	right, _ := normalize(clipVelocity(ctx.rightXY, normal, ctx.cfg.ClipBounce))

	vel := ma(forward.Mul(ctx.cmd.Forward), ctx.cmd.Right, right)
	vel = ctx.currents(vel)

	dir, speed := normalize(vel)
	maxSpeed := ctx.cfg.SpeedRun
	if ctx.s.Flags.Has(FlagDucked) {
		maxSpeed = ctx.cfg.SpeedDucked
	}
	if ctx.cmd.Buttons&ButtonWalk != 0 {
		maxSpeed *= ctx.cfg.SpeedWalkFactor
	}
	speed = math32.Min(speed, maxSpeed)

	accel := ctx.cfg.AccelGround
	if ctx.groundSurface&SurfaceSlick != 0 {
		accel = ctx.cfg.AccelGroundSlick
	}
	ctx.accelerate(dir, speed, accel)

	// Follow the slope without losing speed to it.
	speed = length(ctx.s.Velocity)
	clipped, _ := normalize(clipVelocity(ctx.s.Velocity, normal, ctx.cfg.ClipBounce))
	ctx.s.Velocity = clipped.Mul(speed)

	ctx.stepSlideMove()
}

func (ctx *moveContext) airMove() {
	ctx.friction()
	// The launch tick keeps the full jump impulse.
	if !ctx.s.Flags.Has(FlagJumped) {
		ctx.gravity()
	}

	vel := ma(ctx.forwardXY.Mul(ctx.cmd.Forward), ctx.cmd.Right, ctx.rightXY)
	vel[2] = 0

	dir, speed := normalize(vel)
	speed = math32.Min(speed, ctx.cfg.SpeedAir)

	accel := ctx.cfg.AccelAir
	if ctx.s.Flags.Has(FlagDucked) {
		accel *= ctx.cfg.AccelAirDuckedMod
	}
	ctx.accelerate(dir, speed, accel)

	ctx.stepSlideMove()
}

func (ctx *moveContext) waterMove() {
	if ctx.checkWaterJump() {
		ctx.waterJumpMove()
		return
	}

	ctx.friction()
	ctx.gravity()

	vel := ma(ctx.forward.Mul(ctx.cmd.Forward), ctx.cmd.Right, ctx.right)
	vel[2] += ctx.cmd.Up
	if ctx.cmd.Idle() {
		vel[2] += ctx.cfg.SpeedWaterSink
	}
	vel = ctx.currents(vel)

	dir, speed := normalize(vel)
	maxSpeed := ctx.cfg.SpeedWater
	if ctx.s.Flags.Has(FlagDucked) {
		maxSpeed = math32.Min(maxSpeed, ctx.cfg.SpeedDucked)
	}
	speed = math32.Min(speed, maxSpeed)
	ctx.accelerate(dir, speed, ctx.cfg.AccelWater)

	if ctx.cmd.Up > 0 {
		ctx.slideMove()
	} else {
		ctx.stepSlideMove()
	}
}

// waterJumpMove follows the trajectory set by checkWaterJump until the actor
// starts falling.
func (ctx *moveContext) waterJumpMove() {
	ctx.gravity()
	if ctx.s.Velocity[2] <= 0 {
		ctx.s.Timer = Timed{}
	}
	ctx.stepSlideMove()
}

func (ctx *moveContext) ladderMove() {
	// Jumping while steering away from the ladder pushes the actor off it.
	wish := ma(ctx.forwardXY.Mul(ctx.cmd.Forward), ctx.cmd.Right, ctx.rightXY)
	if ctx.cmd.Up >= 1 && dot(wish, ctx.ladderPlane.Normal) > 0 {
		ctx.s.Velocity = ctx.ladderPlane.Normal.Mul(ctx.cfg.SpeedJump)
		ctx.s.Velocity[2] = ctx.cfg.SpeedJump * 0.5
		ctx.s.Flags &^= FlagOnLadder
		ctx.s.Flags |= FlagJumpHeld
		ctx.s.Timer = NewTimed(TimedPushed, ctx.cfg.TimePushed)
		ctx.airMove()
		return
	}

	ctx.friction()

	vel := wish
	limit := float32(ctx.cfg.SpeedLadder * 0.125)
	vel[0] = clamp(vel[0], -limit, limit)
	vel[1] = clamp(vel[1], -limit, limit)

	pitch := ctx.s.Angles[0]
	switch {
	case ctx.cmd.Forward > 0 && pitch <= -15:
		vel[2] = ctx.cfg.SpeedLadder
	case ctx.cmd.Forward > 0 && pitch >= 15:
		vel[2] = -ctx.cfg.SpeedLadder
	case ctx.cmd.Up > 0:
		vel[2] = ctx.cfg.SpeedLadder
	case ctx.cmd.Up < 0:
		vel[2] = -ctx.cfg.SpeedLadder
	}

	dir, speed := normalize(vel)
	speed = math32.Min(speed, ctx.cfg.SpeedLadder)
	ctx.accelerate(dir, speed, ctx.cfg.AccelLadder)

	ctx.stepSlideMove()
}

// spectatorMove flies freely through the world.
func (ctx *moveContext) spectatorMove() {
	ctx.friction()

	vel := ma(ctx.forward.Mul(ctx.cmd.Forward), ctx.cmd.Right, ctx.right)
	vel[2] += ctx.cmd.Up

	dir, speed := normalize(vel)
	speed = math32.Min(speed, ctx.cfg.SpeedSpectator)
	ctx.accelerate(dir, speed, ctx.cfg.AccelSpectator)

	ctx.s.Origin = ma(ctx.s.Origin, ctx.dt, ctx.s.Velocity)
}
