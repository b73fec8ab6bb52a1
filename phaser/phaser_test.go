// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package phaser_test

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/petenewcomb/wordcount-go/phaser"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"pgregory.net/rapid"
)

const (
	settle = 50 * time.Millisecond
	tick   = time.Millisecond
)

func TestNewNegativePartiesPanic(t *testing.T) {
	chk := require.New(t)
	chk.PanicsWithValue("negative number of parties", func() {
		phaser.New(-1)
	})
}

func TestBulkRegisterNegativePanic(t *testing.T) {
	chk := require.New(t)
	p := phaser.New(1)
	chk.PanicsWithValue("negative number of parties", func() {
		p.BulkRegister(-1)
	})
	chk.Equal(1, p.Registered())
}

func TestArriveWithoutRegisterPanic(t *testing.T) {
	chk := require.New(t)
	p := phaser.New(0)
	chk.PanicsWithValue("arrival with no unarrived parties", func() {
		p.Arrive()
	})
	chk.PanicsWithValue("arrival with no unarrived parties", func() {
		p.ArriveAndDeregister()
	})
}

func TestArriveBeyondRegisteredPanic(t *testing.T) {
	chk := require.New(t)
	p := phaser.New(2)
	chk.Equal(0, p.Arrive())
	chk.Equal(1, p.Unarrived())

	// The second arrival completes phase 0; both parties remain registered.
	chk.Equal(0, p.Arrive())
	chk.Equal(1, p.Phase())
	chk.Equal(2, p.Unarrived())

	chk.Equal(1, p.ArriveAndDeregister())
	chk.Equal(1, p.ArriveAndDeregister())
	chk.True(p.IsTerminated())
	chk.PanicsWithValue("arrival with no unarrived parties", func() {
		p.Arrive()
	})
}

func TestPartyDoubleArrivePanic(t *testing.T) {
	chk := require.New(t)
	p := phaser.New(1)
	party := p.Join()

	chk.Equal(0, party.Arrive())
	chk.PanicsWithValue("party already arrived in this phase", func() {
		party.Arrive()
	})
	chk.Equal(1, p.Arrived(), "rejected arrival must not be counted")
}

func TestPartyUseAfterDeregisterPanic(t *testing.T) {
	chk := require.New(t)
	p := phaser.New(1)
	party := p.Join()

	chk.Equal(0, party.ArriveAndDeregister())
	chk.PanicsWithValue("party already deregistered", func() {
		party.ArriveAndDeregister()
	})
	chk.PanicsWithValue("party already deregistered", func() {
		party.Arrive()
	})
	chk.Equal(1, p.Registered())
}

func TestPartyArrivesOncePerPhase(t *testing.T) {
	chk := require.New(t)
	p := phaser.New(0)
	party := p.Join()

	// A lone party completes each phase by itself.
	chk.Equal(1, party.ArriveAndAwaitAdvance())
	chk.Equal(2, party.ArriveAndAwaitAdvance())
	chk.Equal(2, party.ArriveAndDeregister())
	chk.Equal(3, p.Phase())
	chk.True(p.IsTerminated())
}

func TestRegisterAfterTerminationPanic(t *testing.T) {
	chk := require.New(t)
	p := phaser.New(1)
	p.ArriveAndDeregister()
	chk.True(p.IsTerminated())
	chk.PanicsWithValue("phaser is terminated", func() {
		p.Register()
	})
	chk.PanicsWithValue("phaser is terminated", func() {
		p.Join()
	})
}

func TestAwaitAdvanceAfterTermination(t *testing.T) {
	chk := require.New(t)
	p := phaser.New(1)
	p.ArriveAndDeregister()

	// Waiting on the current phase of a terminated phaser must not block.
	chk.Equal(1, p.AwaitAdvance(p.Phase()))
	select {
	case <-p.Terminated():
	default:
		chk.Fail("expected terminated channel to be closed")
	}
}

func TestAwaitAdvancePastPhaseReturnsImmediately(t *testing.T) {
	chk := require.New(t)
	p := phaser.New(1)
	chk.Equal(1, p.ArriveAndAwaitAdvance())
	chk.Equal(1, p.AwaitAdvance(0))
	chk.Equal(1, p.AwaitAdvance(7))
}

// A lone traverser party completes immediately: the empty-tree case.
func TestSelfRegistrationOnly(t *testing.T) {
	chk := require.New(t)
	p := phaser.New(1)
	done := make(chan int)
	go func() {
		done <- p.ArriveAndAwaitAdvance()
	}()
	select {
	case phase := <-done:
		chk.Equal(1, phase)
	case <-time.After(5 * time.Second):
		chk.Fail("lone party did not complete its phase")
	}
	p.ArriveAndDeregister()
	chk.True(p.IsTerminated())
}

// Parties registered while the awaiting goroutine is already blocked must
// still be waited for.
func TestRegisterWhileAwaiting(t *testing.T) {
	chk := require.New(t)
	p := phaser.New(1)
	first := p.Join()

	released := make(chan int, 1)
	go func() {
		released <- p.ArriveAndAwaitAdvance()
	}()
	chk.Eventually(func() bool { return p.Arrived() == 1 }, 5*time.Second, tick)

	second := p.Join()
	first.ArriveAndDeregister()
	chk.Never(func() bool { return len(released) > 0 }, settle, tick,
		"waiter released with a registered party outstanding")

	second.ArriveAndDeregister()
	chk.Eventually(func() bool { return len(released) > 0 }, 5*time.Second, tick)
	chk.Equal(1, <-released)

	p.ArriveAndDeregister()
	chk.True(p.IsTerminated())
}

// M concurrent registrations followed by M arrivals release every waiter of
// the phase exactly once, and not before the last arrival.
func TestConcurrentRegistrationAndArrival(t *testing.T) {
	for _, m := range []int{1, 2, 16, 500} {
		t.Run(strconv.Itoa(m), func(t *testing.T) {
			chk := require.New(t)
			p := phaser.New(0)

			parties := make([]*phaser.Party, m)
			var g errgroup.Group
			for i := range m {
				g.Go(func() error {
					parties[i] = p.Join()
					return nil
				})
			}
			chk.NoError(g.Wait())
			chk.Equal(m, p.Registered())

			const waiters = 4
			var released sync.WaitGroup
			var mu sync.Mutex
			var phases []int
			released.Add(waiters)
			for range waiters {
				go func() {
					defer released.Done()
					phase := p.AwaitAdvance(0)
					mu.Lock()
					phases = append(phases, phase)
					mu.Unlock()
				}()
			}
			releasedCount := func() int {
				mu.Lock()
				defer mu.Unlock()
				return len(phases)
			}

			for _, party := range parties[:m-1] {
				g.Go(func() error {
					party.ArriveAndDeregister()
					return nil
				})
			}
			chk.NoError(g.Wait())
			chk.Equal(1, p.Unarrived())
			chk.Never(func() bool { return releasedCount() > 0 }, settle, tick)

			parties[m-1].ArriveAndDeregister()
			released.Wait()
			chk.Equal([]int{1, 1, 1, 1}, phases)
			chk.True(p.IsTerminated())
		})
	}
}

func TestAwaitAdvanceContextTimeout(t *testing.T) {
	chk := require.New(t)
	p := phaser.New(1)
	party := p.Join()
	phase := p.Arrive()

	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()
	current, err := p.AwaitAdvanceContext(ctx, phase)
	chk.ErrorIs(err, context.DeadlineExceeded)
	chk.Equal(0, current)

	// Timing out left the registrations untouched.
	chk.Equal(2, p.Registered())
	chk.Equal(1, p.Arrived())

	party.ArriveAndDeregister()
	current, err = p.AwaitAdvanceContext(t.Context(), phase)
	chk.NoError(err)
	chk.Equal(1, current)
}

// TestPhaserWithRapid drives a phaser through arbitrary single-threaded
// sequences of registrations and arrivals and checks it against a model.
func TestPhaserWithRapid(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initial := rapid.IntRange(0, 3).Draw(t, "initial")
		p := phaser.New(initial)

		parties := initial
		arrived := 0
		phase := 0
		terminated := false

		arrive := func(deregister bool) {
			if deregister {
				parties--
			} else {
				arrived++
			}
			if arrived == parties {
				arrived = 0
				phase++
				terminated = parties == 0
			}
		}

		t.Repeat(map[string]func(*rapid.T){
			"register": func(t *rapid.T) {
				if terminated {
					require.PanicsWithValue(t, "phaser is terminated", func() { p.Register() })
					return
				}
				n := rapid.IntRange(0, 3).Draw(t, "n")
				require.Equal(t, phase, p.BulkRegister(n))
				parties += n
			},
			"arrive": func(t *rapid.T) {
				if parties-arrived == 0 {
					require.PanicsWithValue(t, "arrival with no unarrived parties", func() { p.Arrive() })
					return
				}
				require.Equal(t, phase, p.Arrive())
				arrive(false)
			},
			"arriveAndDeregister": func(t *rapid.T) {
				if parties-arrived == 0 {
					require.PanicsWithValue(t, "arrival with no unarrived parties", func() { p.ArriveAndDeregister() })
					return
				}
				require.Equal(t, phase, p.ArriveAndDeregister())
				arrive(true)
			},
			"": func(t *rapid.T) {
				require.Equal(t, phase, p.Phase())
				require.Equal(t, parties, p.Registered())
				require.Equal(t, arrived, p.Arrived())
				require.Equal(t, parties-arrived, p.Unarrived())
				require.Equal(t, terminated, p.IsTerminated())
				if phase > 0 {
					require.Equal(t, phase, p.AwaitAdvance(phase-1))
				}
			},
		})
	})
}
