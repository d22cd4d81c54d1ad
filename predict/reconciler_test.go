package predict

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

func reconcilerWith(records ...Record) *Reconciler {
	h := NewHistory(16)
	for _, rec := range records {
		h.Put(rec)
	}
	return NewReconciler(discardLogger(), h, DefaultConfig())
}

func TestReconcileTeleportDiscarded(t *testing.T) {
	r := reconcilerWith(Record{Sequence: 1, Origin: mgl32.Vec3{0, 0, 0}})
	now := time.Unix(100, 0)

	if got := r.Reconcile(1, mgl32.Vec3{1000, 0, 0}, now); got != OutcomeDiscarded {
		t.Fatalf("expected discard, got %v", got)
	}
	if e := r.Error(now); e != (mgl32.Vec3{}) {
		t.Fatalf("discarded error must not be shown, got %v", e)
	}
	if s := r.Stats(); s.Samples != 1 || s.Max != 1000 {
		t.Fatalf("unexpected stats %+v", s)
	}
}

func TestReconcileUnmatched(t *testing.T) {
	r := reconcilerWith()
	if got := r.Reconcile(9, mgl32.Vec3{}, time.Unix(100, 0)); got != OutcomeUnmatched {
		t.Fatalf("expected unmatched, got %v", got)
	}
}

func TestReconcileBlendDecays(t *testing.T) {
	r := reconcilerWith(Record{Sequence: 1, Origin: mgl32.Vec3{4, 0, 0}})
	start := time.Unix(100, 0)

	if got := r.Reconcile(1, mgl32.Vec3{0, 0, 0}, start); got != OutcomeBlended {
		t.Fatalf("expected blend, got %v", got)
	}
	if e := r.Error(start); e != (mgl32.Vec3{4, 0, 0}) {
		t.Fatalf("expected the full error at first, got %v", e)
	}

	prev := float32(4)
	decay := time.Duration(DefaultConfig().DecayMillis) * time.Millisecond
	for at := time.Duration(0); at <= decay; at += 5 * time.Millisecond {
		l := r.Error(start.Add(at)).Len()
		if l > prev {
			t.Fatalf("error grew from %v to %v at %v", prev, l, at)
		}
		prev = l
	}
	if e := r.Error(start.Add(decay)); e != (mgl32.Vec3{}) {
		t.Fatalf("error must be gone after the decay window, got %v", e)
	}
	if e := r.Error(start.Add(decay / 2)); e != (mgl32.Vec3{2, 0, 0}) {
		t.Fatalf("expected half the error halfway, got %v", e)
	}
}

func TestReconcileAccumulates(t *testing.T) {
	r := reconcilerWith(
		Record{Sequence: 1, Origin: mgl32.Vec3{2, 0, 0}},
		Record{Sequence: 2, Origin: mgl32.Vec3{0, 2, 0}},
	)
	start := time.Unix(100, 0)
	r.Reconcile(1, mgl32.Vec3{}, start)
	mid := start.Add(50 * time.Millisecond)
	r.Reconcile(2, mgl32.Vec3{}, mid)

	if e := r.Error(mid); e != (mgl32.Vec3{1, 2, 0}) {
		t.Fatalf("expected the residual plus the new error, got %v", e)
	}

	r.Reset()
	if e := r.Error(mid); e != (mgl32.Vec3{}) {
		t.Fatalf("reset must clear the error, got %v", e)
	}
}
