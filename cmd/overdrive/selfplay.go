package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/brensch/overdrive/config"
	"github.com/brensch/overdrive/executor/search"
	"github.com/brensch/overdrive/executor/selfplay"
)

var (
	flagMatches int
	flagWorkers int
	flagSeed    int64
	flagOutDir  string
	flagTUI     bool
	flagP2      string
)

var selfplayCmd = &cobra.Command{
	Use:   "selfplay",
	Short: "Play local matches between two deciders and archive every round",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// The TUI owns the terminal, so console logs are dropped; log.file
		// still gets everything.
		var console io.Writer
		if flagTUI {
			console = io.Discard
		}
		cfg, closeLog, err := setup(console)
		if err != nil {
			return err
		}
		defer closeLog()
		applySelfPlayFlags(cmd, &cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		p1, _, err := cfg.LoadWeights()
		if err != nil {
			return err
		}
		p2 := p1
		if flagP2 != "" {
			if p2, err = search.LoadWeights(flagP2); err != nil {
				return err
			}
		}
		opts := selfplay.Options{Weights: [2]search.Weights{p1, p2}}

		if !flagTUI {
			sum, err := selfplay.Run(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), sum)
			return nil
		}

		updates := make(chan selfplay.MatchUpdate, cfg.SelfPlay.Matches)
		var rounds atomic.Int64
		opts.Updates, opts.Rounds = updates, &rounds

		var sum selfplay.Summary
		runCtx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		g, ctx := errgroup.WithContext(runCtx)
		g.Go(func() error {
			var err error
			sum, err = selfplay.Run(ctx, cfg, opts)
			return err
		})
		p := tea.NewProgram(selfplay.NewProgressModel(cfg.SelfPlay.Matches, updates, &rounds), tea.WithContext(ctx))
		_, tuiErr := p.Run()
		// Quitting the TUI early stops the remaining matches.
		cancel()
		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		if tuiErr != nil && !errors.Is(tuiErr, tea.ErrProgramKilled) {
			return fmt.Errorf("tui: %w", tuiErr)
		}
		printSummary(cmd.OutOrStdout(), sum)
		return nil
	},
}

func init() {
	f := selfplayCmd.Flags()
	f.IntVar(&flagMatches, "matches", 0, "Matches to play (overrides config)")
	f.IntVar(&flagWorkers, "workers", 0, "Parallel matches (overrides config)")
	f.Int64Var(&flagSeed, "seed", 0, "Seed of the first match (overrides config)")
	f.StringVar(&flagOutDir, "out-dir", "", "Archive directory (overrides config)")
	f.BoolVar(&flagTUI, "tui", false, "Show live progress")
	f.StringVar(&flagP2, "p2-weights", "", "Weights file for player 2 (default: same as player 1)")
}

func applySelfPlayFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("matches") {
		cfg.SelfPlay.Matches = flagMatches
	}
	if f.Changed("workers") {
		cfg.SelfPlay.Workers = flagWorkers
	}
	if f.Changed("seed") {
		cfg.SelfPlay.Seed = flagSeed
	}
	if f.Changed("out-dir") {
		cfg.SelfPlay.OutDir = flagOutDir
	}
}

func printSummary(w io.Writer, sum selfplay.Summary) {
	accuracy := 0.0
	if sum.Inferred > 0 {
		accuracy = 100 * float64(sum.Correct) / float64(sum.Inferred)
	}
	fmt.Fprintf(w, "matches %d  p1 %d  p2 %d  draws %d  inference %.1f%%\n",
		sum.Matches, sum.Wins[1], sum.Wins[2], sum.Wins[0], accuracy)
	if sum.Path != "" {
		fmt.Fprintf(w, "archive %s\n", sum.Path)
	}
}
