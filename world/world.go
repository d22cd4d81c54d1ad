package world

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/pmove"
	"github.com/sasha-s/go-deadlock"
)

// Brush is an axis aligned box of uniform contents.
type Brush struct {
	Box      cube.BBox
	Contents pmove.Contents
	Surface  pmove.Surface
	// Entity owns the brush. Brushes without an owner belong to the world.
	Entity pmove.Entity
}

// Solid returns a world brush that blocks movement.
func Solid(box cube.BBox) Brush {
	return Brush{Box: box, Contents: pmove.ContentsSolid, Entity: pmove.EntityWorld}
}

// Slick returns a solid brush with a low friction surface.
func Slick(box cube.BBox) Brush {
	b := Solid(box)
	b.Surface = pmove.SurfaceSlick
	return b
}

// Ladder returns a solid brush that can be climbed.
func Ladder(box cube.BBox) Brush {
	return Brush{Box: box, Contents: pmove.ContentsSolid | pmove.ContentsLadder, Entity: pmove.EntityWorld}
}

// Liquid returns a non-solid volume such as water, optionally with currents.
func Liquid(box cube.BBox, contents pmove.Contents) Brush {
	return Brush{Box: box, Contents: contents, Entity: pmove.EntityWorld}
}

// World is a collection of brushes implementing pmove.World. It is safe for
// concurrent use, so the same World can back every executor of a server.
type World struct {
	brushes []Brush

	deadlock.RWMutex
}

// New returns a World made of brushes.
func New(brushes ...Brush) *World {
	return &World{brushes: append([]Brush(nil), brushes...)}
}

// Add inserts brushes into the world.
func (w *World) Add(brushes ...Brush) {
	w.Lock()
	defer w.Unlock()
	w.brushes = append(w.brushes, brushes...)
}

// RemoveEntity drops every brush owned by ent.
func (w *World) RemoveEntity(ent pmove.Entity) {
	w.Lock()
	defer w.Unlock()

	kept := w.brushes[:0]
	for _, b := range w.brushes {
		if b.Entity != ent {
			kept = append(kept, b)
		}
	}
	clear(w.brushes[len(kept):])
	w.brushes = kept
}

// Len returns the number of brushes.
func (w *World) Len() int {
	w.RLock()
	defer w.RUnlock()
	return len(w.brushes)
}

// PointContents returns the union of the contents of every brush containing point.
func (w *World) PointContents(point mgl32.Vec3) pmove.Contents {
	w.RLock()
	defer w.RUnlock()

	var contents pmove.Contents
	for _, b := range w.brushes {
		if b.Box.Vec3Within(point) {
			contents |= b.Contents
		}
	}
	return contents
}

// Trace sweeps bounds from start to end and reports the first player-solid
// brush it runs into.
func (w *World) Trace(start, end mgl32.Vec3, bounds pmove.Bounds) pmove.Trace {
	w.RLock()
	defer w.RUnlock()

	tr := pmove.Trace{Fraction: 1}
	for _, b := range w.brushes {
		if b.Contents&pmove.MaskPlayerSolid == 0 {
			continue
		}
		clipBrush(&tr, b, start, end, bounds)
		if tr.AllSolid {
			break
		}
	}

	if tr.Fraction == 1 {
		tr.End = end
	} else {
		tr.End = lerp(start, end, tr.Fraction)
	}
	return tr
}
