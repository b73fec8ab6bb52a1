// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package state

import "sync/atomic"

// Generation is a counter that starts at zero and only moves forward. Each
// value comes with a channel that is closed when the counter advances past it,
// so any number of goroutines can wait for the next advance without polling
// and without missing one that races with their decision to wait.
//
// The zero value is ready to use.
type Generation struct {
	state atomic.Pointer[genState]
}

type genState struct {
	value    int
	advanced chan struct{}
}

func newGenState(v int) *genState {
	return &genState{
		value:    v,
		advanced: make(chan struct{}),
	}
}

// Load returns the current value together with the channel that will be closed
// when the value next advances. The two always belong to the same generation.
func (g *Generation) Load() (int, <-chan struct{}) {
	s := g.load()
	return s.value, s.advanced
}

// Advance moves the counter forward by one, releases every goroutine waiting on
// the previous value's channel, and returns the new value.
func (g *Generation) Advance() int {
	for {
		oldState := g.load()
		newState := newGenState(oldState.value + 1)
		if g.state.CompareAndSwap(oldState, newState) {
			close(oldState.advanced)
			return newState.value
		}
	}
}

func (g *Generation) load() *genState {
	s := g.state.Load()
	if s == nil {
		s = newGenState(0)
		if !g.state.CompareAndSwap(nil, s) {
			s = g.state.Load()
		}
	}
	return s
}
