// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package wordcount

import (
	"context"
	"io/fs"
	"path"
	"strings"

	"go.uber.org/zap"
)

// walk lists dir and handles its entries in order: subdirectories are walked
// recursively on the calling goroutine before moving on, and matching regular
// files are submitted for counting. Symlinks and other irregular files are
// skipped. It returns a non-nil error only when ctx ended before the walk
// finished.
func (r *run) walk(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// fs.ReadDir may return the entries it managed to read along with an
	// error, so record the failure but keep going with what was returned.
	entries, err := fs.ReadDir(r.fsys, dir)
	if err != nil {
		r.dirFailed(dir, err)
	} else {
		r.results.dirListed()
		r.stats.IncDirs()
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		p := path.Join(dir, entry.Name())
		switch {
		case entry.IsDir():
			if err := r.walk(ctx, p); err != nil {
				return err
			}
		case entry.Type().IsRegular() && strings.HasSuffix(entry.Name(), r.suffix):
			r.submit(p)
		}
	}
	return nil
}

// submit registers the file with the phaser and only then hands it to the
// pool. Registering first guarantees that the phaser's party count already
// covers the file by the time its worker can arrive, so the phase cannot
// complete while the file is still outstanding.
func (r *run) submit(p string) {
	party := r.phaser.Join()
	r.stats.IncFiles()
	r.logger.Debug("registered file", zap.String("path", r.display(p)))

	r.pool.Submit(func() {
		r.countFile(p, party)
	})
}

func (r *run) dirFailed(dir string, err error) {
	display := r.display(dir)
	r.stats.IncErrDirs()
	r.logger.Warn("failed to list directory", zap.String("path", display), zap.Error(err))
	r.results.dirFailed(&DirError{Path: display, Err: err})
}
