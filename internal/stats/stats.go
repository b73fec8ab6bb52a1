// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package stats publishes counters describing word-count runs through expvar.
// When the standard expvar HTTP handler is registered they are available at
// /debug/vars under the prefix given to [New]:
//
//   - files.total: matching files submitted for counting
//   - files.errors: files that could not be opened or read
//   - dirs.total: directories listed
//   - dirs.errors: directories that could not be listed
//   - tokens.total: tokens counted across all files
//
// All methods are safe for concurrent use and are no-ops on a nil *Stats.
package stats

import (
	"expvar"
	"iter"
	"maps"
	"slices"
)

// Stats is one published set of run counters. A nil *Stats is valid and
// discards every update.
type Stats struct {
	prefix string
	files  *expvar.Map
	dirs   *expvar.Map
	tokens *expvar.Map
}

// New publishes a new set of counters under prefix. expvar panics when the
// same name is published twice, so tests should use a unique prefix.
func New(prefix string) *Stats {
	root := expvar.NewMap(prefix)
	files := new(expvar.Map).Init()
	dirs := new(expvar.Map).Init()
	tokens := new(expvar.Map).Init()

	files.Add("total", 0)
	files.Add("errors", 0)
	dirs.Add("total", 0)
	dirs.Add("errors", 0)
	tokens.Add("total", 0)

	root.Set("files", files)
	root.Set("dirs", dirs)
	root.Set("tokens", tokens)

	return &Stats{
		prefix: prefix,
		files:  files,
		dirs:   dirs,
		tokens: tokens,
	}
}

func (s *Stats) IncFiles() {
	if s != nil {
		s.files.Add("total", 1)
	}
}

func (s *Stats) IncErrFiles() {
	if s != nil {
		s.files.Add("errors", 1)
	}
}

func (s *Stats) IncDirs() {
	if s != nil {
		s.dirs.Add("total", 1)
	}
}

func (s *Stats) IncErrDirs() {
	if s != nil {
		s.dirs.Add("errors", 1)
	}
}

func (s *Stats) AddTokens(n int64) {
	if s != nil {
		s.tokens.Add("total", n)
	}
}

// Get returns the current value of a single counter by its reported name, for
// instance "files_total". The boolean result is false for an unknown name.
func (s *Stats) Get(name string) (string, bool) {
	for k, v := range s.Stats() {
		if k == s.prefix+"_"+name {
			return v, true
		}
	}
	return "", false
}

// Stats iterates over all counters in alphabetical order, yielding names of
// the form <prefix>_<group>_<counter>.
func (s *Stats) Stats() iter.Seq2[string, string] {
	if s == nil {
		return func(func(string, string) bool) {}
	}
	stats := make(map[string]string, 5)
	collect := func(group string, m *expvar.Map) {
		m.Do(func(kv expvar.KeyValue) {
			stats[group+"_"+kv.Key] = kv.Value.String()
		})
	}
	collect("files", s.files)
	collect("dirs", s.dirs)
	collect("tokens", s.tokens)

	keys := slices.Sorted(maps.Keys(stats))
	return func(yield func(string, string) bool) {
		for _, key := range keys {
			if !yield(s.prefix+"_"+key, stats[key]) {
				return
			}
		}
	}
}
