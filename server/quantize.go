package server

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Quantum is the number of steps per world unit positions and velocities are
// rounded to on the wire.
const Quantum = 8

// Quantize rounds v to the nearest multiple of 1/Quantum.
func Quantize(v mgl32.Vec3) [3]int32 {
	return [3]int32{
		int32(math32.Round(v[0] * Quantum)),
		int32(math32.Round(v[1] * Quantum)),
		int32(math32.Round(v[2] * Quantum)),
	}
}

func Dequantize(q [3]int32) mgl32.Vec3 {
	return mgl32.Vec3{float32(q[0]) / Quantum, float32(q[1]) / Quantum, float32(q[2]) / Quantum}
}

// Quantized returns the snapshot as a client receives it after transmission.
func (s Snapshot) Quantized() Snapshot {
	s.State.Origin = Dequantize(Quantize(s.State.Origin))
	s.State.Velocity = Dequantize(Quantize(s.State.Velocity))
	return s
}
