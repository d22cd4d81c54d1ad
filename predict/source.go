package predict

import (
	"github.com/oomph-ac/pmove/server"
	"github.com/sasha-s/go-deadlock"
)

// Source supplies the latest authoritative snapshot of the predicted actor.
type Source interface {
	// Authoritative returns the latest snapshot, or false if none is known yet.
	Authoritative() (server.Snapshot, bool)
}

// NetworkSource holds the latest snapshot echoed by a remote server. Receive
// may be called from the goroutine reading the connection.
type NetworkSource struct {
	mu   deadlock.Mutex
	snap server.Snapshot
	ok   bool
}

// Receive stores snap unless a snapshot for a later sequence has already
// arrived.
func (s *NetworkSource) Receive(snap server.Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ok && snap.Sequence < s.snap.Sequence {
		return false
	}
	s.snap, s.ok = snap, true
	return true
}

func (s *NetworkSource) Authoritative() (server.Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap, s.ok
}

// LocalSource reads snapshots straight from an executor running in the same
// process, as a listen server or bot does.
type LocalSource struct {
	Executor *server.Executor
}

func (s LocalSource) Authoritative() (server.Snapshot, bool) {
	return s.Executor.Snapshot(), true
}
