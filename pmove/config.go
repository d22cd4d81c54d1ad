package pmove

import (
	"encoding/binary"

	"github.com/oomph-ac/pmove/internal"
	"github.com/oomph-ac/pmove/oerror"
	"github.com/zeebo/xxh3"
)

// Config holds every tunable of the movement solver. Client and server must run
// with identical values; Fingerprint is exchanged so either side can notice when
// they do not.
type Config struct {
	AccelAir          float32
	AccelAirDuckedMod float32
	AccelGround       float32
	AccelGroundSlick  float32
	AccelLadder       float32
	AccelSpectator    float32
	AccelWater        float32

	// ClipBounce scales how far velocity is pushed off a plane it is clipped against.
	ClipBounce float32

	FrictAir         float32
	FrictGround      float32
	FrictGroundSlick float32
	FrictLadder      float32
	FrictSpectator   float32
	FrictWater       float32

	// GravityWater scales gravity while fully submerged.
	GravityWater float32

	SpeedAir        float32
	SpeedCurrent    float32
	SpeedDuckStand  float32
	SpeedDucked     float32
	SpeedFall       float32
	SpeedFallFar    float32
	SpeedHookPull   float32
	SpeedHookReel   float32
	SpeedJump       float32
	SpeedLadder     float32
	SpeedLand       float32
	SpeedRun        float32
	SpeedSpectator  float32
	SpeedStop       float32
	SpeedTrickJump  float32
	SpeedUp         float32
	SpeedWater      float32
	SpeedWaterJump  float32
	SpeedWaterSink  float32
	SpeedWalkFactor float32

	StepHeight    float32
	StepHeightMin float32
	// StepNormal is the minimum normal Z of a plane that can be stood on.
	StepNormal float32

	StopEpsilon float32

	GroundDist      float32
	GroundDistTrick float32
	LadderDist      float32
	NudgeDist       float32
	SnapDist        float32
	WaterJumpDist   float32

	HookMinLength float32
	HookMaxLength float32

	TimeLand        uint32
	TimeLandFall    uint32
	TimeLandFallFar uint32
	TimePushed      uint32
	TimeTrickJump   uint32
	TimeWaterJump   uint32

	MaxBumps int32
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		AccelAir:          2.1,
		AccelAirDuckedMod: 0.3,
		AccelGround:       10,
		AccelGroundSlick:  4.375,
		AccelLadder:       16,
		AccelSpectator:    2.5,
		AccelWater:        2.8,

		ClipBounce: 1.01,

		FrictAir:         0.075,
		FrictGround:      6,
		FrictGroundSlick: 2,
		FrictLadder:      5,
		FrictSpectator:   2.5,
		FrictWater:       2,

		GravityWater: 0.33,

		SpeedAir:        425,
		SpeedCurrent:    100,
		SpeedDuckStand:  200,
		SpeedDucked:     140,
		SpeedFall:       -700,
		SpeedFallFar:    -900,
		SpeedHookPull:   800,
		SpeedHookReel:   300,
		SpeedJump:       270,
		SpeedLadder:     125,
		SpeedLand:       -280,
		SpeedRun:        300,
		SpeedSpectator:  500,
		SpeedStop:       100,
		SpeedTrickJump:  30,
		SpeedUp:         0.1,
		SpeedWater:      118,
		SpeedWaterJump:  420,
		SpeedWaterSink:  -16,
		SpeedWalkFactor: 0.5,

		StepHeight:    16,
		StepHeightMin: 4,
		StepNormal:    0.7,

		StopEpsilon: 0.1,

		GroundDist:      0.25,
		GroundDistTrick: 16,
		LadderDist:      1,
		NudgeDist:       1,
		SnapDist:        0.125,
		WaterJumpDist:   16,

		HookMinLength: 32,
		HookMaxLength: 2048,

		TimeLand:        1,
		TimeLandFall:    16,
		TimeLandFallFar: 256,
		TimePushed:      240,
		TimeTrickJump:   32,
		TimeWaterJump:   2000,

		MaxBumps: 4,
	}
}

// Validate reports the first tunable that would make the solver misbehave.
func (c Config) Validate() error {
	switch {
	case c.MaxBumps < 1:
		return oerror.New("pmove: MaxBumps must be at least 1, got %d", c.MaxBumps)
	case c.ClipBounce < 1:
		return oerror.New("pmove: ClipBounce below 1 lets velocity re-enter clipped planes (%v)", c.ClipBounce)
	case c.StepNormal <= 0 || c.StepNormal > 1:
		return oerror.New("pmove: StepNormal must be in (0, 1], got %v", c.StepNormal)
	case c.StepHeight < 0 || c.StepHeightMin > c.StepHeight:
		return oerror.New("pmove: invalid step heights %v/%v", c.StepHeightMin, c.StepHeight)
	case c.StopEpsilon <= 0 || c.StopEpsilon >= 1:
		return oerror.New("pmove: StopEpsilon must be in (0, 1), got %v", c.StopEpsilon)
	case c.GroundDist <= 0:
		return oerror.New("pmove: GroundDist must be positive, got %v", c.GroundDist)
	case c.HookMinLength > c.HookMaxLength:
		return oerror.New("pmove: hook length range is empty (%v > %v)", c.HookMinLength, c.HookMaxLength)
	}
	return nil
}

// Fingerprint hashes the binary form of the configuration.
func (c Config) Fingerprint() uint64 {
	buf := internal.Buffer()
	defer internal.Release(buf)

	// Config only holds fixed size fields, so this cannot fail.
	_ = binary.Write(buf, binary.LittleEndian, c)
	return xxh3.Hash(buf.Bytes())
}
