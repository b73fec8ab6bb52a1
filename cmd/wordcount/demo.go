// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/petenewcomb/wordcount-go/blockq"
	"github.com/petenewcomb/wordcount-go/printer"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newPrinterCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "printer",
		Short: "Simulate users sharing a printer while a technician refills its paper",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.runPrinter(cmd)
		},
	}
}

func (a *app) runPrinter(cmd *cobra.Command) error {
	pc := a.cfg.Printer
	logger := a.logger.Named("printer")
	p := printer.New(pc.Paper, pc.Capacity,
		printer.WithPrintTime(pc.PrintTime),
		printer.WithLogger(logger))

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	technicianDone := make(chan struct{})
	go func() {
		defer close(technicianDone)
		tick := time.NewTicker(pc.RefillEvery)
		defer tick.Stop()
		for {
			select {
			case <-tick.C:
				p.Refill()
			case <-ctx.Done():
				return
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	for u := 1; u <= pc.Users; u++ {
		user := fmt.Sprintf("user-%d", u)
		g.Go(func() error {
			for d := 1; d <= pc.Documents; d++ {
				doc := fmt.Sprintf("%s/document-%d", user, d)
				if err := p.Print(gctx, doc); err != nil {
					return err
				}
			}
			logger.Debug("user finished", zap.String("user", user))
			return nil
		})
	}
	err := g.Wait()
	cancel()
	<-technicianDone
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "printed %d documents, %d sheets left\n", len(p.Printed()), p.Paper())
	return nil
}

func newQueueCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "queue",
		Short: "Move items from producers to consumers through a bounded blocking queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.runQueue(cmd)
		},
	}
}

func (a *app) runQueue(cmd *cobra.Command) error {
	qc := a.cfg.Queue
	logger := a.logger.Named("queue")
	q := blockq.New[int](qc.Capacity)

	consumers, cctx := errgroup.WithContext(cmd.Context())
	removed := make([]int, qc.Consumers)
	for c := range qc.Consumers {
		consumers.Go(func() error {
			for {
				v, err := q.Dequeue(cctx)
				if errors.Is(err, blockq.ErrQueueClosed) {
					return nil
				}
				if err != nil {
					return err
				}
				removed[c]++
				logger.Info("removed an element", zap.Int("consumer", c), zap.Int("value", v))
			}
		})
	}

	producers, pctx := errgroup.WithContext(cmd.Context())
	for p := range qc.Producers {
		producers.Go(func() error {
			for i := range qc.Items {
				v := p*qc.Items + i
				if err := q.Enqueue(pctx, v); err != nil {
					return err
				}
				logger.Info("added an element", zap.Int("producer", p), zap.Int("value", v))
			}
			return nil
		})
	}
	perr := producers.Wait()
	q.Close()
	if err := multierr.Combine(perr, consumers.Wait()); err != nil {
		return err
	}

	total := 0
	for _, n := range removed {
		total += n
	}
	fmt.Fprintf(cmd.OutOrStdout(), "moved %d items through a queue of capacity %d\n", total, q.Cap())
	return nil
}
