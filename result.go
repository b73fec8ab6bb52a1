// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package wordcount

import (
	"cmp"
	"slices"
	"sync"

	"github.com/addrummond/heap"
	"go.uber.org/multierr"
)

// Result describes a completed run.
type Result struct {
	// Total is the number of tokens across all files that were read
	// successfully.
	Total int64

	// Files is the number of files counted successfully.
	Files int

	// Failed is the number of matching files that could not be read.
	Failed int

	// Dirs is the number of directories listed, including the root.
	Dirs int

	// Top holds the largest files by token count, largest first, with ties
	// ordered by path. It is empty unless requested with [WithTop].
	Top []FileCount

	// Errs holds a *FileError or *DirError for every path that could not be
	// processed, in no particular order.
	Errs []error
}

// Err combines all recorded errors into one, or returns nil if there were
// none.
func (r Result) Err() error {
	return multierr.Combine(r.Errs...)
}

// FileCount is the token count of a single file.
type FileCount struct {
	Path   string
	Tokens int64
}

// rankedFile orders files so that the file to evict first from a bounded
// min-heap sorts lowest: fewest tokens, then the path that sorts last.
type rankedFile struct {
	FileCount
}

func (a *rankedFile) Cmp(b *rankedFile) int {
	if c := cmp.Compare(a.Tokens, b.Tokens); c != 0 {
		return c
	}
	return cmp.Compare(b.Path, a.Path)
}

// collector accumulates per-path outcomes reported concurrently by workers
// and the traverser. The token total is not kept here; it lives in the
// run's aggregate.
type collector struct {
	mu      sync.Mutex
	result  Result
	top     int
	ranked  heap.Heap[rankedFile, heap.Min]
	rankLen int
}

func (c *collector) fileCounted(path string, tokens int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result.Files++
	if c.top <= 0 {
		return
	}
	heap.PushOrderable(&c.ranked, rankedFile{FileCount{Path: path, Tokens: tokens}})
	c.rankLen++
	if c.rankLen > c.top {
		_, _ = heap.PopOrderable(&c.ranked)
		c.rankLen--
	}
}

func (c *collector) fileFailed(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result.Failed++
	c.result.Errs = append(c.result.Errs, err)
}

func (c *collector) dirListed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result.Dirs++
}

func (c *collector) dirFailed(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.result.Errs = append(c.result.Errs, err)
}

// finish returns the collected result with the given total. It must only be
// called once every worker has reported.
func (c *collector) finish(total int64) Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.result
	r.Total = total
	for {
		f, ok := heap.PopOrderable(&c.ranked)
		if !ok {
			break
		}
		r.Top = append(r.Top, f.FileCount)
	}
	c.rankLen = 0
	slices.Reverse(r.Top)
	return r
}
