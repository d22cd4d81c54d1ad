package pmove

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"
)

// Contents is a bitmask describing what occupies a point of the world.
type Contents uint32

const (
	ContentsSolid      Contents = 0x1
	ContentsWindow     Contents = 0x2
	ContentsLava       Contents = 0x8
	ContentsSlime      Contents = 0x10
	ContentsWater      Contents = 0x20
	ContentsMist       Contents = 0x40
	ContentsPlayerClip Contents = 0x10000
	ContentsCurrent0   Contents = 0x40000
	ContentsCurrent90  Contents = 0x80000
	ContentsCurrent180 Contents = 0x100000
	ContentsCurrent270 Contents = 0x200000
	ContentsCurrentUp  Contents = 0x400000
	ContentsCurrentDn  Contents = 0x800000
	ContentsLadder     Contents = 0x20000000

	MaskLiquid      = ContentsWater | ContentsLava | ContentsSlime
	MaskCurrent     = ContentsCurrent0 | ContentsCurrent90 | ContentsCurrent180 | ContentsCurrent270 | ContentsCurrentUp | ContentsCurrentDn
	MaskPlayerSolid = ContentsSolid | ContentsWindow | ContentsPlayerClip
)

// Surface carries material flags of the plane a trace stopped on.
type Surface uint32

const (
	SurfaceLight Surface = 0x1
	SurfaceSlick Surface = 0x2
	SurfaceSky   Surface = 0x4
)

// Entity identifies whatever a trace hit. EntityNone means nothing was hit.
type Entity int32

const (
	EntityNone Entity = iota
	EntityWorld
)

// Plane is a collision plane in Hessian normal form.
type Plane struct {
	Normal mgl32.Vec3
	Dist   float32
}

// Trace is the result of sweeping a box through the world.
type Trace struct {
	// Fraction of the requested motion completed before the first impact, 1 when
	// nothing was hit.
	Fraction float32
	End      mgl32.Vec3
	Plane    Plane
	Surface  Surface
	Contents Contents
	// AllSolid is set when the whole sweep happened inside solid.
	AllSolid bool
	// StartSolid is set when the box started inside solid.
	StartSolid bool
	Entity     Entity
}

// Hit reports whether the trace stopped on something.
func (t Trace) Hit() bool {
	return t.Fraction < 1 && t.Entity != EntityNone
}

// World answers collision queries for the solver. Implementations must be
// deterministic: equal inputs always yield bit-identical traces.
type World interface {
	// Trace sweeps bounds from start to end against every player-solid brush.
	Trace(start, end mgl32.Vec3, bounds Bounds) Trace
	// PointContents returns the combined contents of everything at point.
	PointContents(point mgl32.Vec3) Contents
}

// Bounds is a collision box relative to an actor's origin.
type Bounds struct {
	Mins, Maxs mgl32.Vec3
}

var (
	PlayerBounds = Bounds{Mins: mgl32.Vec3{-16, -16, -24}, Maxs: mgl32.Vec3{16, 16, 32}}
	GibletBounds = Bounds{Mins: mgl32.Vec3{-8, -8, -8}, Maxs: mgl32.Vec3{8, 8, 8}}
)

// At returns the box in world space around origin.
func (b Bounds) At(origin mgl32.Vec3) cube.BBox {
	return cube.Box(
		origin[0]+b.Mins[0], origin[1]+b.Mins[1], origin[2]+b.Mins[2],
		origin[0]+b.Maxs[0], origin[1]+b.Maxs[1], origin[2]+b.Maxs[2],
	)
}

func (b Bounds) Height() float32 {
	return b.Maxs[2] - b.Mins[2]
}

// Ducked returns b with its top lowered by half of its depth below the origin.
func (b Bounds) Ducked() Bounds {
	b.Maxs[2] += float32(b.Mins[2]*0.5)
	return b
}

// BoundsFor selects the collision box of state.
func BoundsFor(state MovementState) Bounds {
	if state.Flags.Has(FlagGiblet) {
		return GibletBounds
	}
	if state.Flags.Has(FlagDucked) {
		return PlayerBounds.Ducked()
	}
	return PlayerBounds
}
