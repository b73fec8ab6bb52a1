// Copyright (c) Peter Newcomb. All rights reserved.
// Licensed under the MIT License.

package main

import (
	"context"
	"fmt"
	"sync"
	"text/tabwriter"

	"github.com/petenewcomb/wordcount-go"
	"github.com/petenewcomb/wordcount-go/internal/logging"
	"github.com/petenewcomb/wordcount-go/internal/stats"
	"github.com/spf13/cobra"
)

// expvar names are process-global, so every run shares one set of counters.
var processStats = sync.OnceValue(func() *stats.Stats {
	return stats.New("wordcount")
})

func newCountCommand(a *app) *cobra.Command {
	var (
		suffix      string
		workers     int
		top         int
		maxLineSize int
		showStats   bool
	)
	cmd := &cobra.Command{
		Use:   "count [dir]",
		Short: "Print the total number of tokens in the matching files below dir",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := &a.cfg.Count
			if len(args) == 1 {
				cc.Root = args[0]
			}
			flags := cmd.Flags()
			if flags.Changed("suffix") {
				cc.Suffix = suffix
			}
			if flags.Changed("workers") {
				cc.Workers = workers
			}
			if flags.Changed("top") {
				cc.Top = top
			}
			if flags.Changed("max-line-size") {
				cc.MaxLineSize = maxLineSize
			}
			if flags.Changed("stats") {
				cc.Stats = showStats
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			return a.runCount(cmd)
		},
	}
	cmd.Flags().StringVar(&suffix, "suffix", "", "count only files whose names end with this suffix")
	cmd.Flags().IntVar(&workers, "workers", 0, "maximum concurrent file counts (negative for unbounded)")
	cmd.Flags().IntVar(&top, "top", 0, "also list the N files with the most tokens")
	cmd.Flags().IntVar(&maxLineSize, "max-line-size", 0, "longest line accepted, in bytes")
	cmd.Flags().BoolVar(&showStats, "stats", false, "print traversal counters")
	return cmd
}

func (a *app) runCount(cmd *cobra.Command) error {
	cc := a.cfg.Count
	opts := []wordcount.Option{
		wordcount.WithSuffix(cc.Suffix),
		wordcount.WithWorkers(cc.Workers),
		wordcount.WithTop(cc.Top),
		wordcount.WithMaxLineSize(cc.MaxLineSize),
		wordcount.WithLogger(a.logger),
	}
	var st *stats.Stats
	if cc.Stats {
		st = processStats()
		opts = append(opts, wordcount.WithStats(st))
	}
	counter := wordcount.New(opts...)

	res, err := logging.Timed(cmd.Context(), a.logger, "count", func(ctx context.Context) (wordcount.Result, error) {
		return counter.CountDir(ctx, cc.Root)
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, res.Total)
	if len(res.Top) > 0 {
		tw := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
		for _, fc := range res.Top {
			fmt.Fprintf(tw, "%d\t%s\n", fc.Tokens, fc.Path)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if st != nil {
		for name, value := range st.Stats() {
			fmt.Fprintf(out, "%s %s\n", name, value)
		}
	}
	if err := res.Err(); err != nil {
		return fmt.Errorf("%d paths could not be read: %w", len(res.Errs), err)
	}
	return nil
}
