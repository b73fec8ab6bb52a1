// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package wordcount

import (
	"bufio"
	"io/fs"

	"github.com/petenewcomb/wordcount-go/phaser"
	"go.uber.org/zap"
)

// countFile is the unit of work submitted for every matching file. Whatever
// happens while reading, it folds exactly one subtotal into the run total and
// then arrives exactly once, so a failed file can never leave the phaser
// waiting for it.
func (r *run) countFile(p string, party *phaser.Party) {
	display := r.display(p)
	tokens, err := countTokensInFile(r.fsys, p, r.maxLineSize)
	if err != nil {
		tokens = 0
		r.stats.IncErrFiles()
		r.logger.Warn("failed to count file", zap.String("path", display), zap.Error(err))
		r.results.fileFailed(&FileError{Path: display, Err: err})
	} else {
		r.stats.AddTokens(tokens)
		r.logger.Debug("file counted", zap.String("path", display), zap.Int64("tokens", tokens))
		r.results.fileCounted(display, tokens)
	}

	r.total.Add(tokens)
	r.logger.Debug("file deregistered", zap.String("path", display))
	party.ArriveAndDeregister()
}

// countTokensInFile returns the number of tokens in the named file, reading it
// line by line. On error the partial count is discarded.
func countTokensInFile(fsys fs.FS, name string, maxLineSize int) (int64, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, min(64*1024, maxLineSize)), maxLineSize)
	var n int64
	for scanner.Scan() {
		n += int64(CountTokens(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return n, nil
}
