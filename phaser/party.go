// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package phaser

// A Party is a handle for one registered participant. Going through a Party
// rather than calling the [Phaser] arrival methods directly lets the phaser
// detect a participant that arrives twice in the same phase or keeps using
// the barrier after deregistering, both of which panic.
//
// A Party is meant to be used by one goroutine at a time.
type Party struct {
	p            *Phaser
	deregistered bool
	lastArrival  int // phase of the most recent arrival, or -1
}

// Join registers a new party and returns its handle.
//
// Panics if the phaser has terminated.
func (p *Phaser) Join() *Party {
	p.Register()
	return &Party{p: p, lastArrival: -1}
}

// Arrive is [Phaser.Arrive] on behalf of this party.
func (pt *Party) Arrive() int {
	return pt.arrive(false)
}

// ArriveAndDeregister is [Phaser.ArriveAndDeregister] on behalf of this party.
// The handle may not be used afterwards.
func (pt *Party) ArriveAndDeregister() int {
	return pt.arrive(true)
}

// ArriveAndAwaitAdvance is [Phaser.ArriveAndAwaitAdvance] on behalf of this
// party.
func (pt *Party) ArriveAndAwaitAdvance() int {
	return pt.p.AwaitAdvance(pt.Arrive())
}

// Phaser returns the phaser the party belongs to.
func (pt *Party) Phaser() *Phaser {
	return pt.p
}

func (pt *Party) arrive(deregister bool) int {
	p := pt.p
	p.mu.Lock()
	defer p.mu.Unlock()

	if pt.deregistered {
		panic("party already deregistered")
	}
	if current, _ := p.phase.Load(); pt.lastArrival == current {
		panic("party already arrived in this phase")
	}
	phase := p.arriveLocked(deregister)
	pt.lastArrival = phase
	pt.deregistered = deregister
	return phase
}
