// Package command holds the ordered, bounded queue of player commands shared by
// the authoritative and predictive executors.
package command

import (
	"iter"

	"github.com/oomph-ac/pmove/assert"
	"github.com/oomph-ac/pmove/oerror"
	"github.com/oomph-ac/pmove/pmove"
	"github.com/oomph-ac/pmove/utils"
)

var (
	// ErrOutOfOrder is returned when a sequence number does not follow the last one pushed.
	ErrOutOfOrder = oerror.New("command: sequence out of order")
	// ErrFull is returned when the buffer has no room for another command.
	ErrFull = oerror.New("command: buffer full")
)

// Entry is a command tagged with its sequence number.
type Entry struct {
	Sequence uint32
	Command  pmove.Command
}

// Buffer queues commands in strictly increasing sequence order.
type Buffer struct {
	queue *utils.CircularQueue[Entry]

	last    uint32
	started bool
}

// NewBuffer returns a Buffer holding at most capacity commands.
func NewBuffer(capacity int) *Buffer {
	assert.IsTrue(capacity > 0, "command: buffer capacity must be positive, got %d", capacity)
	return &Buffer{queue: utils.NewCircularQueue[Entry](capacity)}
}

// Push appends cmd under seq. seq must be greater than every sequence pushed
// before it.
func (b *Buffer) Push(seq uint32, cmd pmove.Command) error {
	if b.started && seq <= b.last {
		return ErrOutOfOrder
	}
	if b.queue.Full() {
		return ErrFull
	}
	_ = b.queue.Append(Entry{Sequence: seq, Command: cmd})
	b.last, b.started = seq, true
	return nil
}

// Pop removes the oldest command.
func (b *Buffer) Pop() (Entry, bool) {
	return b.queue.Pop()
}

// Peek returns the oldest command without removing it.
func (b *Buffer) Peek() (Entry, bool) {
	return b.queue.Peek()
}

// Ack drops every command with a sequence up to and including seq and returns
// how many were dropped.
func (b *Buffer) Ack(seq uint32) int {
	n := 0
	for {
		e, ok := b.queue.Peek()
		if !ok || e.Sequence > seq {
			return n
		}
		b.queue.Pop()
		n++
	}
}

// Pending yields the queued commands from oldest to newest.
func (b *Buffer) Pending() iter.Seq[Entry] {
	return b.queue.Iter()
}

// Last returns the sequence of the most recently pushed command.
func (b *Buffer) Last() (uint32, bool) {
	return b.last, b.started
}

func (b *Buffer) Len() int {
	return b.queue.Len()
}

func (b *Buffer) Cap() int {
	return b.queue.Cap()
}

// Reset empties the buffer and forgets the last sequence.
func (b *Buffer) Reset() {
	b.queue.Clear()
	b.last, b.started = 0, false
}
