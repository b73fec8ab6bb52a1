// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package workpool runs submitted units of work on an elastic set of
// goroutines. Submission never blocks: a pool without a limit starts a new
// goroutine for every unit, and a limited pool parks units it cannot start
// yet in an unbounded backlog that its workers drain before exiting.
package workpool

import (
	"sync"

	"github.com/gammazero/deque"
)

// A Pool must be created with [New].
type Pool struct {
	limit int

	mu      sync.Mutex
	running int
	backlog deque.Deque[func()]
	closed  bool

	wg sync.WaitGroup
}

// New creates a pool that runs at most limit units at the same time. A
// negative limit means no limit.
//
// Panics if limit is zero, since such a pool could never run anything.
func New(limit int) *Pool {
	if limit == 0 {
		panic("worker limit must be non-zero")
	}
	return &Pool{limit: limit}
}

// Submit hands unit to the pool to be run asynchronously. There is no
// ordering guarantee between units. Submit never blocks waiting for capacity.
//
// Panics if unit is nil or if the pool has been shut down.
func (p *Pool) Submit(unit func()) {
	if unit == nil {
		panic("unit must be non-nil")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		panic("submit after shutdown")
	}

	p.wg.Add(1)
	if p.limit > 0 && p.running >= p.limit {
		p.backlog.PushBack(unit)
		return
	}
	p.running++
	go p.work(unit)
}

// Shutdown stops the pool from accepting new units. Units already submitted,
// including those still in the backlog, run to completion. Calling Shutdown
// more than once has no additional effect.
func (p *Pool) Shutdown() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

// Wait blocks until every submitted unit has finished. It should only be
// called after [Pool.Shutdown].
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Running returns the number of live worker goroutines.
func (p *Pool) Running() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Pending returns the number of units waiting in the backlog.
func (p *Pool) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.backlog.Len()
}

func (p *Pool) work(unit func()) {
	for unit != nil {
		p.run(unit)
		unit = p.next()
	}
}

func (p *Pool) run(unit func()) {
	defer p.wg.Done()
	unit()
}

// next returns the next backlog unit for a worker that just finished one, or
// nil after retiring the worker if the backlog is empty.
func (p *Pool) next() func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.backlog.Len() > 0 {
		return p.backlog.PopFront()
	}
	p.running--
	return nil
}
