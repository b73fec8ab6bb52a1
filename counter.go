// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package wordcount

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/petenewcomb/wordcount-go/internal/state"
	"github.com/petenewcomb/wordcount-go/internal/stats"
	"github.com/petenewcomb/wordcount-go/internal/workpool"
	"github.com/petenewcomb/wordcount-go/phaser"
	"go.uber.org/zap"
)

const (
	// DefaultSuffix is the file name suffix counted when [WithSuffix] is not
	// given.
	DefaultSuffix = ".txt"

	// DefaultMaxLineSize is the longest line, in bytes, that a file may
	// contain before reading it fails.
	DefaultMaxLineSize = 1 << 20
)

// A Counter counts tokens in directory trees. It holds only configuration, so
// one Counter may run any number of counts, concurrently or not. Create one
// with [New].
type Counter struct {
	suffix      string
	workers     int
	top         int
	maxLineSize int
	logger      *zap.Logger
	stats       *stats.Stats
}

// An Option configures a [Counter].
type Option func(*Counter)

// WithSuffix sets the file name suffix that identifies text files. Panics if
// suffix is empty.
func WithSuffix(suffix string) Option {
	if suffix == "" {
		panic("suffix must be non-empty")
	}
	return func(c *Counter) {
		c.suffix = suffix
	}
}

// WithWorkers limits the number of files counted at the same time. A negative
// value, the default, starts a worker for every file as soon as it is
// discovered. Panics if n is zero.
func WithWorkers(n int) Option {
	if n == 0 {
		panic("worker limit must be non-zero")
	}
	return func(c *Counter) {
		c.workers = n
	}
}

// WithTop asks for the n largest files to be reported in [Result.Top].
func WithTop(n int) Option {
	if n < 0 {
		panic("top count must not be negative")
	}
	return func(c *Counter) {
		c.top = n
	}
}

// WithMaxLineSize sets the longest line a file may contain. Files with longer
// lines fail with [bufio.ErrTooLong].
func WithMaxLineSize(n int) Option {
	if n <= 0 {
		panic("max line size must be positive")
	}
	return func(c *Counter) {
		c.maxLineSize = n
	}
}

// WithLogger sets the logger used to report progress and recovered failures.
// The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Counter) {
		c.logger = logger
	}
}

// WithStats publishes counters for every run through s. The stats package is
// internal, so this option is only reachable from the wordcount command; other
// callers read the same figures from [Result].
func WithStats(s *stats.Stats) Option {
	return func(c *Counter) {
		c.stats = s
	}
}

// New creates a Counter with the given options applied over the defaults.
func New(opts ...Option) *Counter {
	c := &Counter{
		suffix:      DefaultSuffix,
		workers:     -1,
		maxLineSize: DefaultMaxLineSize,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// CountDir is [Counter.Count] over the operating system directory dir.
func (c *Counter) CountDir(ctx context.Context, dir string) (Result, error) {
	return c.Count(ctx, os.DirFS(dir), dir)
}

// Count walks fsys from its root and returns once every matching file found
// has been counted. name identifies fsys in logs and errors; paths in the
// result are fsys paths prefixed with name.
//
// Failures to read individual files or list individual directories are
// recorded in the result and do not stop the walk. The returned error is
// non-nil only if ctx ends during the walk, in which case no further files
// are discovered but every file already discovered is still counted and
// included in the returned partial result.
func (c *Counter) Count(ctx context.Context, fsys fs.FS, name string) (Result, error) {
	r := &run{
		Counter: c,
		fsys:    fsys,
		name:    name,
		phaser:  phaser.New(1),
		pool:    workpool.New(c.workers),
		logger:  c.logger.With(zap.String("root", name)),
		results: collector{top: c.top},
	}
	return r.execute(ctx)
}

// run holds the state of one call to Count.
type run struct {
	*Counter
	fsys    fs.FS
	name    string
	phaser  *phaser.Phaser
	pool    *workpool.Pool
	total   state.Aggregate
	logger  *zap.Logger
	results collector
}

func (r *run) execute(ctx context.Context) (Result, error) {
	start := time.Now()
	r.logger.Debug("starting count", zap.String("suffix", r.suffix), zap.Int("workers", r.workers))

	err := r.walk(ctx, ".")

	// Every file has been registered by now. Arrive as the traverser's own
	// party and wait for the workers, then leave the phaser for good.
	r.phaser.ArriveAndAwaitAdvance()
	r.phaser.ArriveAndDeregister()
	r.pool.Shutdown()
	r.pool.Wait()

	result := r.results.finish(r.total.Load())
	r.logger.Info("all files counted",
		zap.Int64("tokens", result.Total),
		zap.Int("files", result.Files),
		zap.Int("failed", result.Failed),
		zap.Int("dirs", result.Dirs),
		zap.Duration("duration", time.Since(start)))
	return result, err
}

// display returns the path reported for the fsys path p.
func (r *run) display(p string) string {
	return filepath.Join(r.name, filepath.FromSlash(p))
}
