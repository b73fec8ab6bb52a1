// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package state

import (
	"sync/atomic"
)

// Aggregate is a running total that any number of goroutines may add to
// concurrently. No addition is ever lost. The value returned by Load reflects
// every Add that happened before it, so readers must first synchronize with
// the writers (for instance through a phaser) to observe a final total.
type Aggregate struct {
	v atomic.Int64
}

// Add folds delta into the total and returns the new total. Panics if delta is
// negative or if the total overflows.
func (a *Aggregate) Add(delta int64) int64 {
	if delta < 0 {
		panic("negative delta added to aggregate")
	}
	newValue := a.v.Add(delta)
	if newValue < 0 {
		panic("overflow: aggregate exceeded max int64")
	}
	return newValue
}

func (a *Aggregate) Load() int64 {
	return a.v.Load()
}
