// Package predict runs the client side of movement: it replays the actor's
// unacknowledged commands on top of the last authoritative state every frame and
// folds corrections back into the view without a visible snap.
package predict

import (
	"errors"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/oomph-ac/pmove/command"
	"github.com/oomph-ac/pmove/oerror"
	"github.com/oomph-ac/pmove/pmove"
	"github.com/oomph-ac/pmove/server"
	"github.com/oomph-ac/pmove/utils"
	"github.com/sirupsen/logrus"
)

var (
	// ErrBacklogOverflow is returned by Predict while more commands are
	// unacknowledged than the predictor is willing to replay.
	ErrBacklogOverflow = oerror.New("predict: command backlog overflow")
	// ErrConfigMismatch is returned by Predict when the server simulates with
	// different movement tunables.
	ErrConfigMismatch = oerror.New("predict: server movement config differs")
)

// Frame is the predicted state to display for one rendered frame.
type Frame struct {
	// Sequence is the last issued command included in State.
	Sequence uint32
	State    pmove.MovementState
	// Step is the stair step taken by the last replayed command.
	Step    float32
	Touched []pmove.Entity
	// Frozen is set when prediction was abandoned and State is the last frame
	// that could be predicted.
	Frozen bool
}

// Predictor re-derives the local actor's state from the latest authoritative
// snapshot and every command issued since.
type Predictor struct {
	log    *logrus.Logger
	sim    *pmove.Simulator
	source Source
	cfg    Config

	commands *command.Buffer
	history  *History

	base   server.Snapshot
	issued uint32
	// evicted is the newest command dropped from the buffer before the server
	// acknowledged it. Prediction cannot run until the base passes it.
	evicted uint32
	last    Frame

	overflowing bool
	mismatched  bool
}

// NewPredictor returns a Predictor for an actor starting at initial, before
// any command has been acknowledged.
func NewPredictor(log *logrus.Logger, sim *pmove.Simulator, source Source, cfg Config, initial pmove.MovementState) *Predictor {
	base := server.Snapshot{State: initial, Fingerprint: sim.Config.Fingerprint()}
	return &Predictor{
		log:      log,
		sim:      sim,
		source:   source,
		cfg:      cfg,
		commands: command.NewBuffer(cfg.Capacity),
		history:  NewHistory(cfg.Capacity * 2),
		base:     base,
		last:     Frame{State: initial},
	}
}

// History returns the predicted origins recorded so far, for use by a
// Reconciler.
func (p *Predictor) History() *History {
	return p.history
}

// Issue records a command the client has just sent and predicts the frame it
// leads to. Sequences must be strictly increasing.
func (p *Predictor) Issue(seq uint32, cmd pmove.Command) (Frame, error) {
	err := p.commands.Push(seq, cmd)
	if errors.Is(err, command.ErrFull) {
		// Past capacity the oldest command is no longer needed: prediction stays
		// frozen until the server acknowledges beyond it.
		if e, ok := p.commands.Pop(); ok && e.Sequence > p.base.Sequence {
			p.evicted = e.Sequence
		}
		err = p.commands.Push(seq, cmd)
	}
	if err != nil {
		return p.last, err
	}
	p.issued = seq
	return p.Predict()
}

// Backlog returns how many buffered commands the server has not acknowledged.
// Sequence numbers may have gaps, so this counts commands, not numbers.
func (p *Predictor) Backlog() int {
	n := 0
	for e := range p.commands.Pending() {
		if e.Sequence > p.base.Sequence {
			n++
		}
	}
	return n
}

// overflowed reports whether a command the server has not acknowledged yet
// was dropped to make room for newer ones.
func (p *Predictor) overflowed() bool {
	return p.evicted > p.base.Sequence
}

// Acknowledged returns the latest authoritative snapshot prediction starts from.
func (p *Predictor) Acknowledged() server.Snapshot {
	return p.base
}

// Predict rebuilds the displayed state from scratch. When prediction cannot run
// the last frame is returned with Frozen set, along with the reason.
func (p *Predictor) Predict() (Frame, error) {
	if snap, ok := p.source.Authoritative(); ok && snap.Sequence >= p.base.Sequence {
		if snap.Fingerprint != p.sim.Config.Fingerprint() {
			if !p.mismatched {
				p.mismatched = true
				p.log.Errorf("server movement config %x differs from local %x, prediction disabled", snap.Fingerprint, p.sim.Config.Fingerprint())
			}
			return p.freeze(ErrConfigMismatch)
		}
		p.mismatched = false
		p.base = snap
		p.commands.Ack(snap.Sequence)
	}

	if p.overflowed() {
		if !p.overflowing {
			p.overflowing = true
			extra := orderedmap.NewOrderedMap[string, any]()
			extra.Set("issued", p.issued)
			extra.Set("acked", p.base.Sequence)
			extra.Set("evicted", p.evicted)
			extra.Set("capacity", p.cfg.Capacity)
			p.log.Warnf("prediction frozen: %v %s", ErrBacklogOverflow, utils.OrderedMapToString(extra))
		}
		return p.freeze(ErrBacklogOverflow)
	}
	if p.overflowing {
		p.overflowing = false
		p.log.Infof("prediction resumed at backlog %d", p.Backlog())
	}

	frame := Frame{Sequence: p.base.Sequence, State: p.base.State}
	for e := range p.commands.Pending() {
		if e.Sequence <= p.base.Sequence {
			continue
		}
		res := p.sim.Simulate(frame.State, e.Command)
		frame.Sequence = e.Sequence
		frame.State = res.State
		frame.Step = res.Step
		frame.Touched = res.Touched
		p.history.Put(Record{Sequence: e.Sequence, Origin: res.State.Origin, Checksum: res.State.Checksum()})
	}
	p.last = frame
	return frame, nil
}

func (p *Predictor) freeze(err error) (Frame, error) {
	frame := p.last
	frame.Frozen = true
	frame.Step = 0
	return frame, err
}
