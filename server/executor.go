// Package server runs the authoritative side of movement: one Executor per
// actor consuming that actor's commands at a fixed rate.
package server

import (
	"fmt"
	"io"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/pmove/command"
	"github.com/oomph-ac/pmove/demo"
	"github.com/oomph-ac/pmove/pmove"
	"github.com/oomph-ac/pmove/utils"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
)

// Snapshot is what the server tells the owning client after a tick.
type Snapshot struct {
	// Sequence is the last command folded into State, zero before the first.
	Sequence uint32
	State    pmove.MovementState
	// Fingerprint identifies the movement configuration State was simulated with.
	Fingerprint uint64
}

// Executor applies one actor's commands to its authoritative state, exactly
// one command per tick.
type Executor struct {
	id  uint32
	log *logrus.Logger
	sim *pmove.Simulator

	commands *command.Buffer
	state    pmove.MovementState
	sequence uint32
	touched  []pmove.Entity
	recorder *demo.Recorder

	deadlock.Mutex
}

// NewExecutor returns an Executor for actor id starting from state. Commands
// are numbered from 1.
func NewExecutor(id uint32, log *logrus.Logger, sim *pmove.Simulator, state pmove.MovementState, capacity int) *Executor {
	return &Executor{
		id:       id,
		log:      log,
		sim:      sim,
		commands: command.NewBuffer(capacity),
		state:    state,
	}
}

func (e *Executor) ID() uint32 {
	return e.id
}

// Enqueue hands a command received from the client to the executor.
func (e *Executor) Enqueue(seq uint32, cmd pmove.Command) error {
	e.Lock()
	defer e.Unlock()

	if err := e.commands.Push(seq, cmd); err != nil {
		extra := orderedmap.NewOrderedMap[string, any]()
		extra.Set("actor", e.id)
		extra.Set("seq", seq)
		extra.Set("processed", e.sequence)
		extra.Set("queued", e.commands.Len())
		e.log.Warnf("dropped command: %v %s", err, utils.OrderedMapToString(extra))
		return fmt.Errorf("executor %d: enqueue %d: %w", e.id, seq, err)
	}
	return nil
}

// Tick simulates the oldest queued command. It returns false when no command
// was waiting.
func (e *Executor) Tick() bool {
	e.Lock()
	defer e.Unlock()

	entry, ok := e.commands.Pop()
	if !ok {
		return false
	}
	res := e.sim.Simulate(e.state, entry.Command)
	e.state = res.State
	e.sequence = entry.Sequence
	e.touched = res.Touched

	if e.recorder != nil {
		if err := e.recorder.Record(entry.Sequence, entry.Command, res.State); err != nil {
			e.log.Errorf("actor %d: stopped recording: %v", e.id, err)
			e.recorder = nil
		}
	}
	return true
}

// StartRecording writes a demo of every command executed from now on to w.
func (e *Executor) StartRecording(w io.Writer) error {
	e.Lock()
	defer e.Unlock()

	if e.recorder != nil {
		return fmt.Errorf("executor %d: already recording", e.id)
	}
	rec, err := demo.NewRecorder(w, e.sim.Config, e.state)
	if err != nil {
		return err
	}
	e.recorder = rec
	return nil
}

// StopRecording stops the current recording and returns how many frames it
// holds.
func (e *Executor) StopRecording() int {
	e.Lock()
	defer e.Unlock()

	if e.recorder == nil {
		return 0
	}
	n := e.recorder.Frames()
	e.recorder = nil
	return n
}

// Snapshot returns the current authoritative state.
func (e *Executor) Snapshot() Snapshot {
	e.Lock()
	defer e.Unlock()
	return Snapshot{
		Sequence:    e.sequence,
		State:       e.state,
		Fingerprint: e.sim.Config.Fingerprint(),
	}
}

// Touched returns the entities collided with during the last tick.
func (e *Executor) Touched() []pmove.Entity {
	e.Lock()
	defer e.Unlock()
	return e.touched
}

// Pending returns the number of commands waiting to be simulated.
func (e *Executor) Pending() int {
	e.Lock()
	defer e.Unlock()
	return e.commands.Len()
}

// SetState replaces the authoritative state, e.g. on respawn or teleport.
func (e *Executor) SetState(state pmove.MovementState) {
	e.Lock()
	defer e.Unlock()
	e.state = state
	e.log.Debugf("actor %d state set to %v (%v)", e.id, state.Origin, state.Mode)
}
