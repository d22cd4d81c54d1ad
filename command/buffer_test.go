package command

import (
	"errors"
	"slices"
	"testing"

	"github.com/oomph-ac/pmove/pmove"
)

func sequences(b *Buffer) []uint32 {
	var out []uint32
	for e := range b.Pending() {
		out = append(out, e.Sequence)
	}
	return out
}

func TestPushKeepsOrder(t *testing.T) {
	b := NewBuffer(4)
	for _, seq := range []uint32{3, 4, 9} {
		if err := b.Push(seq, pmove.Command{Msec: 16}); err != nil {
			t.Fatal(err)
		}
	}
	if err := b.Push(9, pmove.Command{}); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("expected ErrOutOfOrder for a duplicate, got %v", err)
	}
	if err := b.Push(2, pmove.Command{}); !errors.Is(err, ErrOutOfOrder) {
		t.Fatalf("expected ErrOutOfOrder for an old sequence, got %v", err)
	}
	if got := sequences(b); !slices.Equal(got, []uint32{3, 4, 9}) {
		t.Fatalf("unexpected pending %v", got)
	}
	if last, ok := b.Last(); !ok || last != 9 {
		t.Fatalf("expected last 9, got %d", last)
	}
}

func TestPushRejectsWhenFull(t *testing.T) {
	b := NewBuffer(2)
	_ = b.Push(1, pmove.Command{})
	_ = b.Push(2, pmove.Command{})
	if err := b.Push(3, pmove.Command{}); !errors.Is(err, ErrFull) {
		t.Fatalf("expected ErrFull, got %v", err)
	}
	if b.Len() != 2 {
		t.Fatalf("a rejected push must not change the buffer")
	}
	// The rejected sequence may be retried once there is room.
	b.Pop()
	if err := b.Push(3, pmove.Command{}); err != nil {
		t.Fatalf("retry after Pop failed: %v", err)
	}
}

func TestAckDropsAcknowledged(t *testing.T) {
	b := NewBuffer(8)
	for seq := uint32(1); seq <= 5; seq++ {
		_ = b.Push(seq, pmove.Command{})
	}
	if n := b.Ack(3); n != 3 {
		t.Fatalf("expected 3 dropped, got %d", n)
	}
	if got := sequences(b); !slices.Equal(got, []uint32{4, 5}) {
		t.Fatalf("unexpected pending %v", got)
	}
	if n := b.Ack(3); n != 0 {
		t.Fatalf("acking twice must be a no-op, dropped %d", n)
	}
}

func TestReset(t *testing.T) {
	b := NewBuffer(2)
	_ = b.Push(10, pmove.Command{})
	b.Reset()
	if err := b.Push(1, pmove.Command{}); err != nil {
		t.Fatalf("reset buffer must accept any sequence: %v", err)
	}
}
