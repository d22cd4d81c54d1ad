package pmove

import (
	"bytes"
	"encoding/binary"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/internal"
	"github.com/oomph-ac/pmove/oerror"
	"github.com/zeebo/xxh3"
)

// Flags are the persistent and per-tick condition bits of an actor.
type Flags uint16

const (
	FlagDucked Flags = 1 << iota
	FlagJumped
	FlagJumpHeld
	FlagOnGround
	FlagOnStairs
	FlagOnLadder
	FlagUnderWater
	FlagGiblet
	FlagHookReleased
)

// tickFlags are recomputed from scratch every tick.
const tickFlags = FlagOnGround | FlagOnStairs | FlagOnLadder | FlagJumped | FlagUnderWater

func (f Flags) Has(flag Flags) bool {
	return f&flag != 0
}

// Mode selects the movement rules an actor is subject to.
type Mode uint8

const (
	ModeNormal Mode = iota
	ModeHookPull
	ModeHookSwing
	ModeSpectator
	ModeDead
	ModeFreeze
)

func (m Mode) String() string {
	switch m {
	case ModeHookPull:
		return "hook pull"
	case ModeHookSwing:
		return "hook swing"
	case ModeSpectator:
		return "spectator"
	case ModeDead:
		return "dead"
	case ModeFreeze:
		return "freeze"
	}
	return "normal"
}

// WaterLevel is how deep an actor is submerged.
type WaterLevel uint8

const (
	WaterNone WaterLevel = iota
	WaterFeet
	WaterWaist
	WaterUnder
)

const DefaultGravity = 800

// MovementState is everything the solver needs to carry from one tick to the
// next. It is a plain value: the solver never retains it.
type MovementState struct {
	Mode Mode

	Origin     mgl32.Vec3
	Velocity   mgl32.Vec3
	ViewOffset mgl32.Vec3

	// Angles are the resolved view angles of the last tick, DeltaAngles the offset
	// added to every command's raw angles.
	Angles      mgl32.Vec3
	DeltaAngles mgl32.Vec3

	Flags   Flags
	Timer   Timed
	Gravity float32

	HookPosition mgl32.Vec3
	HookLength   float32

	WaterLevel   WaterLevel
	WaterType    Contents
	GroundEntity Entity
}

// NewMovementState returns a standing actor at origin.
func NewMovementState(origin mgl32.Vec3) MovementState {
	return MovementState{
		Origin:     origin,
		ViewOffset: mgl32.Vec3{0, 0, standingViewHeight(PlayerBounds)},
		Gravity:    DefaultGravity,
	}
}

// wireState is the fixed size binary layout of MovementState.
type wireState struct {
	Mode         uint8
	Origin       mgl32.Vec3
	Velocity     mgl32.Vec3
	ViewOffset   mgl32.Vec3
	Angles       mgl32.Vec3
	DeltaAngles  mgl32.Vec3
	Flags        uint16
	TimerKind    uint8
	TimerMsec    uint32
	Gravity      float32
	HookPosition mgl32.Vec3
	HookLength   float32
	WaterLevel   uint8
	WaterType    uint32
	GroundEntity int32
}

// MarshalBinary encodes the state as little endian, field by field.
func (s MovementState) MarshalBinary() ([]byte, error) {
	buf := internal.Buffer()
	defer internal.Release(buf)

	if err := s.write(buf); err != nil {
		return nil, err
	}
	return bytes.Clone(buf.Bytes()), nil
}

func (s MovementState) write(buf *bytes.Buffer) error {
	return binary.Write(buf, binary.LittleEndian, wireState{
		Mode:         uint8(s.Mode),
		Origin:       s.Origin,
		Velocity:     s.Velocity,
		ViewOffset:   s.ViewOffset,
		Angles:       s.Angles,
		DeltaAngles:  s.DeltaAngles,
		Flags:        uint16(s.Flags),
		TimerKind:    uint8(s.Timer.kind),
		TimerMsec:    s.Timer.remaining,
		Gravity:      s.Gravity,
		HookPosition: s.HookPosition,
		HookLength:   s.HookLength,
		WaterLevel:   uint8(s.WaterLevel),
		WaterType:    uint32(s.WaterType),
		GroundEntity: int32(s.GroundEntity),
	})
}

// UnmarshalBinary decodes a state produced by MarshalBinary.
func (s *MovementState) UnmarshalBinary(data []byte) error {
	var w wireState
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, &w); err != nil {
		return oerror.New("pmove: decode movement state: %v", err)
	}
	if TimedKind(w.TimerKind) > TimedTeleport {
		return oerror.New("pmove: unknown timer kind %d", w.TimerKind)
	}
	*s = MovementState{
		Mode:         Mode(w.Mode),
		Origin:       w.Origin,
		Velocity:     w.Velocity,
		ViewOffset:   w.ViewOffset,
		Angles:       w.Angles,
		DeltaAngles:  w.DeltaAngles,
		Flags:        Flags(w.Flags),
		Timer:        NewTimed(TimedKind(w.TimerKind), w.TimerMsec),
		Gravity:      w.Gravity,
		HookPosition: w.HookPosition,
		HookLength:   w.HookLength,
		WaterLevel:   WaterLevel(w.WaterLevel),
		WaterType:    Contents(w.WaterType),
		GroundEntity: Entity(w.GroundEntity),
	}
	return nil
}

// StateSize is the length of a marshalled MovementState.
var StateSize = binary.Size(wireState{})

// Checksum hashes the bit patterns of the whole state. Two peers that simulated
// the same commands from the same state produce the same checksum.
func (s MovementState) Checksum() uint64 {
	buf := internal.Buffer()
	defer internal.Release(buf)

	_ = s.write(buf)
	return xxh3.Hash(buf.Bytes())
}
