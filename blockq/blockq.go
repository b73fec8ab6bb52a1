// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package blockq provides a bounded FIFO queue whose producers block while it
// is full and whose consumers block while it is empty.
package blockq

import (
	"context"
	"sync"

	"github.com/gammazero/deque"
	"github.com/petenewcomb/wordcount-go/internal/cerr"
	"github.com/petenewcomb/wordcount-go/internal/state"
)

// ErrQueueClosed is returned by [Queue.Enqueue] after [Queue.Close], and by
// [Queue.Dequeue] once a closed queue has been drained.
const ErrQueueClosed = cerr.Error("queue closed")

// A Queue must be created with [New]. It is safe for any number of concurrent
// producers and consumers.
type Queue[T any] struct {
	capacity int

	mu      sync.Mutex
	items   deque.Deque[T]
	closed  bool
	changes state.Generation // advanced on every state change
}

// New creates a queue that holds at most capacity items. Panics if capacity is
// less than one.
func New[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		panic("capacity must be positive")
	}
	q := &Queue[T]{capacity: capacity}
	q.items.SetBaseCap(capacity)
	return q
}

// Enqueue appends v, waiting while the queue is full. Returns ctx.Err() if ctx
// ends first and [ErrQueueClosed] if the queue is closed.
func (q *Queue[T]) Enqueue(ctx context.Context, v T) error {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return ErrQueueClosed
		}
		if q.items.Len() < q.capacity {
			q.items.PushBack(v)
			q.changes.Advance()
			q.mu.Unlock()
			return nil
		}
		_, changed := q.changes.Load()
		q.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Dequeue removes and returns the item at the front, waiting while the queue
// is empty. Items still queued when the queue is closed are returned before
// [ErrQueueClosed].
func (q *Queue[T]) Dequeue(ctx context.Context) (T, error) {
	for {
		q.mu.Lock()
		if q.items.Len() > 0 {
			v := q.items.PopFront()
			q.changes.Advance()
			q.mu.Unlock()
			return v, nil
		}
		if q.closed {
			q.mu.Unlock()
			var zero T
			return zero, ErrQueueClosed
		}
		_, changed := q.changes.Load()
		q.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Close stops the queue from accepting items and wakes every waiter. Calling
// Close more than once has no additional effect.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		q.changes.Advance()
	}
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// Cap returns the capacity the queue was created with.
func (q *Queue[T]) Cap() int {
	return q.capacity
}
