package utils

import (
	"iter"

	"github.com/oomph-ac/pmove/oerror"
)

// CircularQueue is a fixed capacity FIFO. Appending to a full queue overwrites
// the oldest element.
type CircularQueue[T any] struct {
	items []T
	head  int
	tail  int
	size  int
}

// NewCircularQueue returns an empty queue able to hold capacity items.
func NewCircularQueue[T any](capacity int) *CircularQueue[T] {
	return &CircularQueue[T]{items: make([]T, capacity)}
}

// At returns the element index positions after the oldest one.
func (q *CircularQueue[T]) At(index int) (item T, ok bool) {
	if index < 0 || index >= q.size {
		return item, false
	}
	return q.items[q.slot(index)], true
}

// Update replaces the element index positions after the oldest one. It
// reports false if index is out of range.
func (q *CircularQueue[T]) Update(index int, item T) bool {
	if index < 0 || index >= q.size {
		return false
	}
	q.items[q.slot(index)] = item
	return true
}

func (q *CircularQueue[T]) slot(index int) int {
	return (q.head + index) % len(q.items)
}

// Iter yields the elements from oldest to newest.
func (q *CircularQueue[T]) Iter() iter.Seq[T] {
	return func(yield func(T) bool) {
		for index := range q.size {
			if !yield(q.items[q.slot(index)]) {
				return
			}
		}
	}
}

// Len returns the number of queued elements.
func (q *CircularQueue[T]) Len() int {
	return q.size
}

// Cap returns the maximum number of items the queue can hold.
func (q *CircularQueue[T]) Cap() int {
	return len(q.items)
}

func (q *CircularQueue[T]) Full() bool {
	return q.size == len(q.items)
}

// Peek returns the oldest element without removing it.
func (q *CircularQueue[T]) Peek() (item T, ok bool) {
	if q.size == 0 {
		return item, false
	}
	return q.items[q.head], true
}

// Back returns the newest element without removing it.
func (q *CircularQueue[T]) Back() (item T, ok bool) {
	if q.size == 0 {
		return item, false
	}
	return q.items[(q.tail-1+len(q.items))%len(q.items)], true
}

// Pop removes and returns the oldest element. The boolean ok is false if the
// queue is empty.
func (q *CircularQueue[T]) Pop() (item T, ok bool) {
	if q.size == 0 {
		return item, false
	}
	var zero T
	item = q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.size--
	return item, true
}

// Append appends an item or returns an error if the queue has zero capacity.
func (q *CircularQueue[T]) Append(item T) error {
	if len(q.items) == 0 {
		return oerror.New("circularqueue: append on zero-capacity queue")
	}

	q.items[q.tail] = item
	if q.size == len(q.items) {
		// Full: the oldest element at head is overwritten.
		q.head = (q.head + 1) % len(q.items)
	} else {
		q.size++
	}
	q.tail = (q.tail + 1) % len(q.items)
	return nil
}

// Clear empties the queue.
func (q *CircularQueue[T]) Clear() {
	clear(q.items)
	q.head, q.tail, q.size = 0, 0, 0
}
