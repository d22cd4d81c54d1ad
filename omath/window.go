package omath

import (
	"slices"

	"github.com/oomph-ac/pmove/assert"
	"github.com/oomph-ac/pmove/utils"
)

// Window keeps the most recent samples of a series, dropping the oldest once
// full, and summarises them.
type Window struct {
	samples *utils.CircularQueue[float64]
}

func NewWindow(size int) *Window {
	assert.IsTrue(size > 0, "omath: window size must be positive, got %d", size)
	return &Window{samples: utils.NewCircularQueue[float64](size)}
}

// Add records v, evicting the oldest sample when the window is full.
func (w *Window) Add(v float64) {
	_ = w.samples.Append(v)
}

func (w *Window) Len() int {
	return w.samples.Len()
}

// Values returns the samples from oldest to newest.
func (w *Window) Values() []float64 {
	return slices.Collect(w.samples.Iter())
}

func (w *Window) Mean() float64 {
	return Mean(w.Values())
}

func (w *Window) StandardDeviation() float64 {
	return StandardDeviation(w.Values())
}

func (w *Window) Max() float64 {
	return Max(w.Values())
}

func (w *Window) Clear() {
	w.samples.Clear()
}
