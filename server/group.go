package server

import (
	"maps"
	"slices"
	"sync"

	"github.com/oomph-ac/pmove/worker"
	"github.com/sasha-s/go-deadlock"
	"github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Stats counts what a Group has done since it was created.
type Stats struct {
	Ticks     uint64
	Processed uint64
	// Starved counts executor ticks that found no command waiting.
	Starved uint64
}

// Group ticks every executor it holds in parallel on a worker pool.
type Group struct {
	log  *logrus.Logger
	pool *worker.Pool

	mu        deadlock.RWMutex
	executors map[uint32]*Executor

	ticks     atomic.Uint64
	processed atomic.Uint64
	starved   atomic.Uint64
}

func NewGroup(log *logrus.Logger, pool *worker.Pool) *Group {
	return &Group{log: log, pool: pool, executors: make(map[uint32]*Executor)}
}

// Add registers e, replacing any executor with the same ID.
func (g *Group) Add(e *Executor) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.executors[e.ID()] = e
}

func (g *Group) Remove(id uint32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.executors, id)
}

func (g *Group) Executor(id uint32) (*Executor, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	e, ok := g.executors[id]
	return e, ok
}

// Tick advances every executor by one command and waits for all of them.
func (g *Group) Tick() {
	g.mu.RLock()
	executors := slices.Collect(maps.Values(g.executors))
	g.mu.RUnlock()

	var wg sync.WaitGroup
	wg.Add(len(executors))
	for _, e := range executors {
		g.pool.Submit(func() {
			defer wg.Done()
			if e.Tick() {
				g.processed.Inc()
			} else {
				g.starved.Inc()
			}
		})
	}
	wg.Wait()

	if n := g.ticks.Inc(); n%1000 == 0 {
		g.log.Debugf("group: %d ticks, %d commands, %d starved", n, g.processed.Load(), g.starved.Load())
	}
}

// Snapshots returns the current snapshot of every executor keyed by actor ID.
func (g *Group) Snapshots() map[uint32]Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make(map[uint32]Snapshot, len(g.executors))
	for id, e := range g.executors {
		out[id] = e.Snapshot()
	}
	return out
}

func (g *Group) Stats() Stats {
	return Stats{
		Ticks:     g.ticks.Load(),
		Processed: g.processed.Load(),
		Starved:   g.starved.Load(),
	}
}
