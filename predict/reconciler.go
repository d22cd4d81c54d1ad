package predict

import (
	"time"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/oomph-ac/pmove/omath"
	"github.com/oomph-ac/pmove/utils"
	"github.com/sirupsen/logrus"
)

// Outcome is what a reconciliation did with an authoritative origin.
type Outcome uint8

const (
	// OutcomeUnmatched means no prediction was recorded for the sequence.
	OutcomeUnmatched Outcome = iota
	// OutcomeBlended means the error was added to the visible error and will
	// fade out.
	OutcomeBlended
	// OutcomeDiscarded means the error was too large to be a misprediction and
	// the view snaps to the new state.
	OutcomeDiscarded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnmatched:
		return "unmatched"
	case OutcomeBlended:
		return "blended"
	case OutcomeDiscarded:
		return "discarded"
	}
	return "unknown"
}

// errorSamples is how many recent error magnitudes are kept for Stats.
const errorSamples = 128

// Stats summarises recent prediction errors.
type Stats struct {
	Mean, StandardDeviation, Max float64
	Samples                      int
}

// Reconciler compares authoritative origins with what was predicted for the
// same command and turns the difference into a view offset that decays
// linearly to zero.
type Reconciler struct {
	log     *logrus.Logger
	history *History
	cfg     Config

	err   mgl32.Vec3
	errAt time.Time

	errors *omath.Window
}

func NewReconciler(log *logrus.Logger, history *History, cfg Config) *Reconciler {
	return &Reconciler{
		log:     log,
		history: history,
		cfg:     cfg,
		errors:  omath.NewWindow(errorSamples),
	}
}

// Reconcile folds the authoritative origin for seq into the visible error.
func (r *Reconciler) Reconcile(seq uint32, origin mgl32.Vec3, now time.Time) Outcome {
	rec, ok := r.history.Get(seq)
	if !ok {
		return OutcomeUnmatched
	}

	delta := rec.Origin.Sub(origin)
	dist := delta.Len()
	r.errors.Add(float64(dist))

	if dist > r.cfg.TeleportThreshold {
		r.err, r.errAt = mgl32.Vec3{}, time.Time{}
		if r.log.IsLevelEnabled(logrus.DebugLevel) {
			extra := orderedmap.NewOrderedMap[string, any]()
			extra.Set("seq", seq)
			extra.Set("predicted", rec.Origin)
			extra.Set("authoritative", origin)
			extra.Set("distance", dist)
			r.log.Debugf("prediction error discarded %s", utils.OrderedMapToString(extra))
		}
		return OutcomeDiscarded
	}

	r.err = r.Error(now).Add(delta)
	r.errAt = now
	return OutcomeBlended
}

// Error returns the offset to add to the predicted origin when rendering at
// now. It shrinks linearly and reaches zero DecayMillis after the last
// correction.
func (r *Reconciler) Error(now time.Time) mgl32.Vec3 {
	if r.errAt.IsZero() || r.cfg.DecayMillis == 0 {
		return mgl32.Vec3{}
	}
	decay := time.Duration(r.cfg.DecayMillis) * time.Millisecond
	elapsed := now.Sub(r.errAt)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= decay {
		return mgl32.Vec3{}
	}
	return r.err.Mul(1 - float32(elapsed)/float32(decay))
}

// Stats returns statistics over the most recent error magnitudes, including
// discarded ones.
func (r *Reconciler) Stats() Stats {
	return Stats{
		Mean:              r.errors.Mean(),
		StandardDeviation: r.errors.StandardDeviation(),
		Max:               r.errors.Max(),
		Samples:           r.errors.Len(),
	}
}

// Reset drops the visible error, e.g. after a level change.
func (r *Reconciler) Reset() {
	r.err, r.errAt = mgl32.Vec3{}, time.Time{}
	r.errors.Clear()
}
