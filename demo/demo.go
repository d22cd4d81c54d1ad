// Package demo records the commands applied to an actor together with a
// checksum of every resulting state, and replays such recordings to verify the
// movement code still produces bit-identical results.
package demo

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/oomph-ac/pmove/internal"
	"github.com/oomph-ac/pmove/oerror"
	"github.com/oomph-ac/pmove/pmove"
)

// Version is the format version written by Recorder.
const Version uint16 = 1

var magic = [4]byte{'P', 'M', 'D', 'M'}

var (
	ErrBadMagic        = oerror.New("demo: not a movement demo")
	ErrVersionMismatch = oerror.New("demo: unsupported version")
	// ErrConfigMismatch is returned when a demo was recorded with different
	// movement tunables than it is replayed with.
	ErrConfigMismatch = oerror.New("demo: movement config differs from recording")
)

type header struct {
	Magic       [4]byte
	Version     uint16
	Fingerprint uint64
}

type frame struct {
	Sequence uint32
	Msec     uint8
	Angles   [3]float32
	Forward  float32
	Right    float32
	Up       float32
	Buttons  uint8
	Checksum uint64
}

// Recorder appends frames to a demo.
type Recorder struct {
	w      io.Writer
	frames int
}

// NewRecorder writes a demo header for an actor simulated with cfg and starting
// at initial.
func NewRecorder(w io.Writer, cfg pmove.Config, initial pmove.MovementState) (*Recorder, error) {
	buf := internal.Buffer()
	defer internal.Release(buf)

	_ = binary.Write(buf, binary.LittleEndian, header{Magic: magic, Version: Version, Fingerprint: cfg.Fingerprint()})
	state, err := initial.MarshalBinary()
	if err != nil {
		return nil, err
	}
	buf.Write(state)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("demo: write header: %w", err)
	}
	return &Recorder{w: w}, nil
}

// Record appends a frame for cmd, which moved the actor to result.
func (r *Recorder) Record(seq uint32, cmd pmove.Command, result pmove.MovementState) error {
	buf := internal.Buffer()
	defer internal.Release(buf)

	_ = binary.Write(buf, binary.LittleEndian, frame{
		Sequence: seq,
		Msec:     cmd.Msec,
		Angles:   cmd.Angles,
		Forward:  cmd.Forward,
		Right:    cmd.Right,
		Up:       cmd.Up,
		Buttons:  uint8(cmd.Buttons),
		Checksum: result.Checksum(),
	})
	if _, err := r.w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("demo: write frame %d: %w", r.frames, err)
	}
	r.frames++
	return nil
}

// Frames returns the number of frames recorded.
func (r *Recorder) Frames() int {
	return r.frames
}

// MismatchError reports the first frame whose replayed state differs from the
// recording.
type MismatchError struct {
	Frame    int
	Sequence uint32
	Want     uint64
	Got      uint64
	State    pmove.MovementState
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("demo: frame %d (seq %d) recorded checksum %x, replay produced %x at %v", e.Frame, e.Sequence, e.Want, e.Got, e.State.Origin)
}

// Summary describes a successfully replayed demo.
type Summary struct {
	Frames int
	Final  pmove.MovementState
}

// Replay re-simulates a demo in world with cfg. It stops at the first frame
// whose checksum differs and returns a *MismatchError.
func Replay(r io.Reader, world pmove.World, cfg pmove.Config) (Summary, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return Summary{}, fmt.Errorf("demo: read header: %w", err)
	}
	if h.Magic != magic {
		return Summary{}, ErrBadMagic
	}
	if h.Version != Version {
		return Summary{}, fmt.Errorf("%w: %d", ErrVersionMismatch, h.Version)
	}
	if h.Fingerprint != cfg.Fingerprint() {
		return Summary{}, ErrConfigMismatch
	}

	raw := make([]byte, pmove.StateSize)
	if _, err := io.ReadFull(r, raw); err != nil {
		return Summary{}, fmt.Errorf("demo: read initial state: %w", err)
	}
	var state pmove.MovementState
	if err := state.UnmarshalBinary(raw); err != nil {
		return Summary{}, err
	}

	sim := &pmove.Simulator{World: world, Config: cfg}
	sum := Summary{Final: state}
	for {
		var f frame
		if err := binary.Read(r, binary.LittleEndian, &f); err != nil {
			if errors.Is(err, io.EOF) {
				return sum, nil
			}
			return sum, fmt.Errorf("demo: read frame %d: %w", sum.Frames, err)
		}
		cmd := pmove.Command{
			Msec:    f.Msec,
			Angles:  f.Angles,
			Forward: f.Forward,
			Right:   f.Right,
			Up:      f.Up,
			Buttons: pmove.Buttons(f.Buttons),
		}
		sum.Final = sim.Simulate(sum.Final, cmd).State
		if got := sum.Final.Checksum(); got != f.Checksum {
			return sum, &MismatchError{Frame: sum.Frames, Sequence: f.Sequence, Want: f.Checksum, Got: got, State: sum.Final}
		}
		sum.Frames++
	}
}
