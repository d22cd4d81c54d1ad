package world

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/pmove"
)

// DistEpsilon is how far short of a face a sweep stops, so that the next
// sweep from the resulting position never starts inside the brush.
const DistEpsilon = 0.03125

// lerp returns the point f of the way from start to end. Each product is
// rounded on its own so no platform fuses it into the addition.
func lerp(start, end mgl32.Vec3, f float32) mgl32.Vec3 {
	return mgl32.Vec3{
		start[0] + float32((end[0]-start[0])*f),
		start[1] + float32((end[1]-start[1])*f),
		start[2] + float32((end[2]-start[2])*f),
	}
}

// clipBrush narrows tr if the box swept from start to end enters b earlier than
// anything found so far. The brush is expanded by the box and the sweep reduced
// to a point, then clipped against the six faces of the expanded brush.
func clipBrush(tr *pmove.Trace, b Brush, start, end mgl32.Vec3, bounds pmove.Bounds) {
	lo := b.Box.Min().Sub(bounds.Maxs)
	hi := b.Box.Max().Sub(bounds.Mins)

	enterFrac, leaveFrac := float32(-1), float32(1)
	var clipNormal mgl32.Vec3
	var clipDist float32
	startOut, getOut := false, false

	for axis := 0; axis < 3; axis++ {
		for _, side := range [2]float32{-1, 1} {
			var d1, d2, dist float32
			if side > 0 {
				dist = hi[axis]
				d1, d2 = start[axis]-dist, end[axis]-dist
			} else {
				dist = -lo[axis]
				d1, d2 = lo[axis]-start[axis], lo[axis]-end[axis]
			}

			if d2 > 0 {
				getOut = true
			}
			if d1 > 0 {
				startOut = true
			}

			// Entirely in front of this face: the sweep cannot touch the brush.
			if d1 > 0 && (d2 >= DistEpsilon || d2 >= d1) {
				return
			}
			if d1 <= 0 && d2 <= 0 {
				continue
			}

			if d1 > d2 {
				f := (d1 - DistEpsilon) / (d1 - d2)
				if f > enterFrac {
					enterFrac = f
					clipNormal = mgl32.Vec3{}
					clipNormal[axis] = side
					clipDist = dist
				}
			} else {
				f := (d1 + DistEpsilon) / (d1 - d2)
				if f < leaveFrac {
					leaveFrac = f
				}
			}
		}
	}

	ent := b.Entity
	if ent == pmove.EntityNone {
		ent = pmove.EntityWorld
	}

	if !startOut {
		tr.StartSolid = true
		tr.Contents |= b.Contents
		tr.Entity = ent
		if !getOut {
			tr.AllSolid = true
			tr.Fraction = 0
		}
		return
	}

	if enterFrac < leaveFrac && enterFrac > -1 && enterFrac < tr.Fraction {
		if enterFrac < 0 {
			enterFrac = 0
		}
		tr.Fraction = enterFrac
		tr.Plane = pmove.Plane{Normal: clipNormal, Dist: clipDist}
		tr.Surface = b.Surface
		tr.Contents = b.Contents
		tr.Entity = ent
	}
}
