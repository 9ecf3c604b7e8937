// overdrive is a bot for a two-player lane racing game.
//
// Usage:
//
//	overdrive run                 - Play rounds read from stdin
//	overdrive decide <state.json> - Decide one snapshot and print the command
//	overdrive selfplay            - Play local matches and archive them
//
// Global flags:
//
//	--config <path>     - YAML config (default: built-in defaults)
//	--log-level <level> - Override log.level
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/brensch/overdrive/config"
	"github.com/brensch/overdrive/logging"
)

var (
	flagConfig   string
	flagLogLevel string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "overdrive",
	Short:         "Decision bot for a two-player lane racing game",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML config")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (overrides config)")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(decideCmd)
	rootCmd.AddCommand(selfplayCmd)
}

// setup loads config and starts logging. console receives human-readable
// logs; nil means stderr.
func setup(console io.Writer) (config.Config, func() error, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, nil, err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	closeLog, err := logging.Init(logging.Options{
		Level: cfg.Log.Level,
		File:  cfg.Log.File,
		Out:   console,
	})
	if err != nil {
		return cfg, nil, err
	}
	return cfg, closeLog, nil
}
