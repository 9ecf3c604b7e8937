package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/brensch/overdrive/executor/bot"
	"github.com/brensch/overdrive/executor/convert"
	"github.com/brensch/overdrive/executor/selfplay"
	"github.com/brensch/overdrive/game"
	"github.com/brensch/overdrive/logging"
)

var flagBoard bool

var decideCmd = &cobra.Command{
	Use:   "decide <state.json>",
	Short: "Decide a single snapshot and print the command and its sequence",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closeLog, err := setup(nil)
		if err != nil {
			return err
		}
		defer closeLog()

		snap, err := convert.ReadFile(args[0])
		if err != nil {
			return err
		}
		track := game.NewTrack(cfg.Track.Length, cfg.Track.Lanes)
		state, err := convert.ToState(snap, track)
		if err != nil {
			return err
		}

		self, opp, err := cfg.LoadWeights()
		if err != nil {
			return err
		}
		d := bot.NewDecider(cfg, self, opp)
		d.Logger = logging.Component("decide")
		dec, err := d.Step(snap.CurrentRound, &state, snap.OpponentHidden())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if flagBoard {
			fmt.Fprint(out, selfplay.RenderWindow(state, state.View.MinX, state.View.MaxX))
		}
		fmt.Fprintln(out, convert.FormatCommand(snap.CurrentRound, dec.Command))
		fmt.Fprintf(out, "sequence %v depth %d opp depth %d cache %d/%d\n",
			dec.Sequence, dec.Depth, dec.OppDepth, dec.Stats.Hits, dec.Stats.Hits+dec.Stats.Misses)
		return nil
	},
}

func init() {
	decideCmd.Flags().BoolVar(&flagBoard, "board", false, "Print the visible window before the command")
}
