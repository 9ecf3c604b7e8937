package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/brensch/overdrive/executor/bot"
	"github.com/brensch/overdrive/game"
	"github.com/brensch/overdrive/logging"
)

var flagRoundsDir string

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Read round numbers from stdin and answer each with a command",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closeLog, err := setup(nil)
		if err != nil {
			return err
		}
		defer closeLog()

		self, opp, err := cfg.LoadWeights()
		if err != nil {
			return err
		}
		d := bot.NewDecider(cfg, self, opp)
		d.Logger = logging.Component("bot")
		r := &bot.Runner{
			Decider:   d,
			Track:     game.NewTrack(cfg.Track.Length, cfg.Track.Lanes),
			RoundsDir: flagRoundsDir,
			In:        os.Stdin,
			Out:       os.Stdout,
		}
		return r.Run(cmd.Context())
	},
}

func init() {
	runCmd.Flags().StringVar(&flagRoundsDir, "rounds-dir", "rounds", "Directory holding <round>/state.json")
}
