// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package phaser_test

import (
	"fmt"
	"sync"

	"github.com/petenewcomb/wordcount-go/phaser"
)

// Three hikers walk to base camp and then to the summit, waiting for each
// other at both stops. One of them stays at base camp and leaves the group,
// so the summit phase completes without waiting for them.
func Example_hiking() {
	p := phaser.New(1) // the guide

	var wg sync.WaitGroup
	hike := func(stopAtBaseCamp bool) {
		party := p.Join()
		wg.Add(1)
		go func() {
			defer wg.Done()
			party.ArriveAndAwaitAdvance() // base camp
			if stopAtBaseCamp {
				party.ArriveAndDeregister()
				return
			}
			party.ArriveAndAwaitAdvance() // summit
			party.ArriveAndDeregister()
		}()
	}
	hike(false)
	hike(true)
	hike(false)

	for range 2 {
		phase := p.Phase()
		p.ArriveAndAwaitAdvance()
		fmt.Printf("phase %d completed\n", phase)
	}
	p.ArriveAndDeregister()
	wg.Wait()
	fmt.Println("terminated:", p.IsTerminated())

	// Output:
	// phase 0 completed
	// phase 1 completed
	// terminated: true
}

// The usual pattern for waiting on a dynamically growing set of workers: the
// coordinator holds its own registration while it hands out work, so the phase
// cannot complete early, and every worker is registered before it is started.
func Example_fanOut() {
	p := phaser.New(1)

	var mu sync.Mutex
	total := 0
	for i := 1; i <= 4; i++ {
		party := p.Join()
		go func() {
			mu.Lock()
			total += i
			mu.Unlock()
			party.ArriveAndDeregister()
		}()
	}
	p.ArriveAndAwaitAdvance()
	p.ArriveAndDeregister()

	mu.Lock()
	fmt.Println(total)
	mu.Unlock()

	// Output:
	// 10
}
