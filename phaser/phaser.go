// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package phaser provides a reusable synchronization barrier whose set of
// participants may change while it is in use. Unlike [sync.WaitGroup], parties
// can be registered at any time, including while other parties are arriving
// and while a goroutine is already waiting for the current phase to complete,
// and the barrier can be cycled through any number of phases.
//
// A phase completes when every registered party has arrived. Completion
// releases all goroutines waiting on that phase, resets the arrival count, and
// advances the phase number by one. A party that arrives with
// [Phaser.ArriveAndDeregister] leaves the barrier for good; once the last
// party has deregistered the phaser terminates and all further waits return
// immediately.
//
// Misuse of the arrival protocol, such as arriving when every registered party
// has already arrived or using a [Party] after it deregistered, is a
// programming error and panics rather than being silently absorbed.
package phaser

import (
	"context"
	"sync"

	"github.com/petenewcomb/wordcount-go/internal/state"
)

// A Phaser must be created with [New].
type Phaser struct {
	mu         sync.Mutex
	parties    int
	arrived    int
	phase      state.Generation
	terminated chan struct{}
}

// New creates a Phaser in phase zero with the given number of parties already
// registered. Starting with a party for the goroutine that will eventually
// wait ensures the phase cannot complete before that goroutine has finished
// registering everyone else.
//
// Panics if parties is negative.
func New(parties int) *Phaser {
	if parties < 0 {
		panic("negative number of parties")
	}
	return &Phaser{
		parties:    parties,
		terminated: make(chan struct{}),
	}
}

// Register adds one party to the current phase and returns the phase number.
// It is safe to call concurrently with any other method.
//
// Panics if the phaser has terminated.
func (p *Phaser) Register() int {
	return p.BulkRegister(1)
}

// BulkRegister adds n parties to the current phase and returns the phase
// number. Registering zero parties only reports the phase.
//
// Panics if n is negative or if the phaser has terminated.
func (p *Phaser) BulkRegister(n int) int {
	if n < 0 {
		panic("negative number of parties")
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.panicIfTerminated()
	p.parties += n
	phase, _ := p.phase.Load()
	return phase
}

// Arrive records the arrival of one party without waiting for the others and
// returns the number of the phase it arrived in. The party stays registered
// for the next phase.
//
// Panics if every registered party has already arrived in the current phase.
func (p *Phaser) Arrive() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.arriveLocked(false)
}

// ArriveAndDeregister records the arrival of one party and removes it from the
// phaser, returning the number of the phase it arrived in. If this was the
// last party, the phaser terminates.
//
// Panics if every registered party has already arrived in the current phase.
func (p *Phaser) ArriveAndDeregister() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.arriveLocked(true)
}

// ArriveAndAwaitAdvance records the arrival of one party and then waits for
// the phase it arrived in to complete. Returns the new phase number.
func (p *Phaser) ArriveAndAwaitAdvance() int {
	return p.AwaitAdvance(p.Arrive())
}

// AwaitAdvance waits until the phaser has moved past the given phase and
// returns the phase number it observes afterwards. If the phaser is already
// past the given phase, or has terminated, it returns immediately.
//
// AwaitAdvance does not count as an arrival. Any goroutine may call it,
// registered or not.
func (p *Phaser) AwaitAdvance(phase int) int {
	current, advanced := p.phase.Load()
	if current != phase {
		return current
	}
	select {
	case <-advanced:
	case <-p.terminated:
	}
	current, _ = p.phase.Load()
	return current
}

// AwaitAdvanceContext is like [Phaser.AwaitAdvance] but gives up when ctx is
// done, returning ctx.Err(). Giving up has no effect on the phaser: the
// registrations and arrivals of all parties are left as they were and the
// phase still completes once everyone arrives.
func (p *Phaser) AwaitAdvanceContext(ctx context.Context, phase int) (int, error) {
	current, advanced := p.phase.Load()
	if current != phase {
		return current, nil
	}
	select {
	case <-advanced:
	case <-p.terminated:
	case <-ctx.Done():
		return current, ctx.Err()
	}
	current, _ = p.phase.Load()
	return current, nil
}

// Phase returns the current phase number.
func (p *Phaser) Phase() int {
	phase, _ := p.phase.Load()
	return phase
}

// Registered returns the number of registered parties.
func (p *Phaser) Registered() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.parties
}

// Arrived returns the number of parties that have arrived in the current phase.
func (p *Phaser) Arrived() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.arrived
}

// Unarrived returns the number of registered parties that have not yet
// arrived in the current phase.
func (p *Phaser) Unarrived() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.parties - p.arrived
}

// IsTerminated reports whether the last party has deregistered.
func (p *Phaser) IsTerminated() bool {
	select {
	case <-p.terminated:
		return true
	default:
		return false
	}
}

// Terminated returns a channel that is closed when the phaser terminates.
func (p *Phaser) Terminated() <-chan struct{} {
	return p.terminated
}

func (p *Phaser) arriveLocked(deregister bool) int {
	if p.parties-p.arrived <= 0 {
		panic("arrival with no unarrived parties")
	}
	phase, _ := p.phase.Load()
	if deregister {
		p.parties--
	} else {
		p.arrived++
	}
	if p.arrived == p.parties {
		p.advanceLocked()
	}
	return phase
}

// advanceLocked completes the current phase. The phase channel is closed while
// p.mu is held, so every counter update made by an arriving party happens
// before any waiter it releases returns.
func (p *Phaser) advanceLocked() {
	p.arrived = 0
	p.phase.Advance()
	if p.parties == 0 {
		close(p.terminated)
	}
}

func (p *Phaser) panicIfTerminated() {
	if p.IsTerminated() {
		panic("phaser is terminated")
	}
}
