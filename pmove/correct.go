package pmove

import "github.com/go-gl/mathgl/mgl32"

var nudges = [3]float32{0, -1, 1}

// clear reports whether the actor's box fits at pos.
func (ctx *moveContext) clear(pos mgl32.Vec3) bool {
	tr := ctx.trace(pos, pos)
	return !tr.StartSolid && !tr.AllSolid
}

// correctPosition makes sure the actor does not end the tick embedded in solid.
// Nearby positions are tried in a fixed order and the first one reachable from
// the tick's starting origin wins; failing that the actor is put back where it
// started.
func (ctx *moveContext) correctPosition() {
	if ctx.clear(ctx.s.Origin) {
		return
	}

	origin := ctx.s.Origin
	for _, z := range nudges {
		for _, y := range nudges {
			for _, x := range nudges {
				pos := ma(origin, ctx.cfg.NudgeDist, mgl32.Vec3{x, y, z})
				tr := ctx.trace(ctx.previousOrigin, pos)
				if tr.StartSolid || tr.AllSolid || tr.Fraction < 1 {
					continue
				}
				ctx.sim.debugf("correctPosition: nudged %v -> %v", origin, pos)
				ctx.s.Origin = pos
				return
			}
		}
	}

	ctx.sim.debugf("correctPosition: no room near %v, reverting to %v", origin, ctx.previousOrigin)
	ctx.s.Origin = ctx.previousOrigin
}

var snapAxes = [4]mgl32.Vec3{{1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0}}

// snapToWalls keeps a small gap between the actor and any wall it is flush
// against, so that rounding of the published origin cannot put it inside.
func (ctx *moveContext) snapToWalls() {
	if ctx.cfg.SnapDist <= 0 {
		return
	}
	for _, axis := range snapAxes {
		tr := ctx.trace(ctx.s.Origin, ma(ctx.s.Origin, ctx.cfg.SnapDist, axis))
		if tr.AllSolid || tr.StartSolid || !tr.Hit() {
			continue
		}
		// Only walls facing straight back along the probe.
		if dot(tr.Plane.Normal, axis) > ctx.cfg.StopEpsilon-1 {
			continue
		}

		gap := float32(ctx.cfg.SnapDist * tr.Fraction)
		push := ma(ctx.s.Origin, gap-ctx.cfg.SnapDist, axis)
		back := ctx.trace(ctx.s.Origin, push)
		if !back.AllSolid && !back.StartSolid {
			ctx.s.Origin = back.End
		}
	}
}
