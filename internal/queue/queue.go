// Package queue is the hand-off between input-hook producers and the
// stream consumer.
package queue

import (
	"sync"

	list "github.com/bahlo/generic-list-go"
)

// Queue is an unbounded, concurrency-safe FIFO. Push never blocks on
// capacity and TryPop never waits for an item.
type Queue[T any] struct {
	mu    sync.Mutex
	items *list.List[T]
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{items: list.New[T]()}
}

// Push appends v.
func (q *Queue[T]) Push(v T) {
	q.mu.Lock()
	q.items.PushBack(v)
	q.mu.Unlock()
}

// TryPop removes and returns the oldest item. ok is false when the queue
// is empty.
func (q *Queue[T]) TryPop() (v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	front := q.items.Front()
	if front == nil {
		return v, false
	}
	return q.items.Remove(front), true
}

// Drain removes and returns every queued item in order.
func (q *Queue[T]) Drain() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]T, 0, q.items.Len())
	for e := q.items.Front(); e != nil; e = q.items.Front() {
		out = append(out, q.items.Remove(e))
	}
	return out
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}
