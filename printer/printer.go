// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

// Package printer models a shared printer with a limited paper tray. Print
// jobs wait while the tray is empty and resume when it is refilled.
package printer

import (
	"context"
	"sync"
	"time"

	"github.com/petenewcomb/wordcount-go/internal/cerr"
	"github.com/petenewcomb/wordcount-go/internal/state"
	"go.uber.org/zap"
)

// ErrPrinterClosed is returned by [Printer.Print] once the printer is closed.
const ErrPrinterClosed = cerr.Error("printer closed")

// A Printer must be created with [New].
type Printer struct {
	capacity  int
	printTime time.Duration
	logger    *zap.Logger

	mu      sync.Mutex
	paper   int
	printed []string
	closed  bool
	refills state.Generation
}

// Option configures a [Printer].
type Option func(*Printer)

// WithPrintTime sets how long each page takes to print. Panics if d is
// negative.
func WithPrintTime(d time.Duration) Option {
	if d < 0 {
		panic("print time must be non-negative")
	}
	return func(p *Printer) {
		p.printTime = d
	}
}

// WithLogger sets the logger that reports printed pages and refills. Panics if
// logger is nil.
func WithLogger(logger *zap.Logger) Option {
	if logger == nil {
		panic("logger must be non-nil")
	}
	return func(p *Printer) {
		p.logger = logger
	}
}

// New creates a printer holding paper sheets in a tray that fits capacity.
// Panics if capacity is not positive or paper is outside [0, capacity].
func New(paper, capacity int, opts ...Option) *Printer {
	if capacity < 1 {
		panic("capacity must be positive")
	}
	if paper < 0 || paper > capacity {
		panic("paper must be between zero and capacity")
	}
	p := &Printer{
		capacity: capacity,
		paper:    paper,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Print prints doc on one sheet, waiting while the tray is empty. Returns
// ctx.Err() if ctx ends before a sheet is available or before the page has
// finished printing, and [ErrPrinterClosed] if the printer is closed while
// waiting.
func (p *Printer) Print(ctx context.Context, doc string) error {
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return ErrPrinterClosed
		}
		if p.paper > 0 {
			p.paper--
			p.printed = append(p.printed, doc)
			remaining := p.paper
			p.mu.Unlock()
			p.logger.Info("printing", zap.String("doc", doc), zap.Int("paperLeft", remaining))
			return p.feed(ctx)
		}
		_, refilled := p.refills.Load()
		p.mu.Unlock()

		p.logger.Debug("out of paper, waiting", zap.String("doc", doc))
		select {
		case <-refilled:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (p *Printer) feed(ctx context.Context) error {
	if p.printTime == 0 {
		return nil
	}
	t := time.NewTimer(p.printTime)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Refill fills the tray to capacity and wakes every waiting job.
func (p *Printer) Refill() {
	p.mu.Lock()
	p.paper = p.capacity
	p.refills.Advance()
	p.mu.Unlock()
	p.logger.Info("paper refilled", zap.Int("paper", p.capacity))
}

// Close fails all waiting and future jobs with [ErrPrinterClosed].
func (p *Printer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		p.refills.Advance()
	}
}

// Paper returns the number of sheets left in the tray.
func (p *Printer) Paper() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paper
}

// Printed returns the documents printed so far, in the order they took a
// sheet.
func (p *Printer) Printed() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.printed...)
}
