package bot

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/brensch/overdrive/executor/convert"
	"github.com/brensch/overdrive/game"
)

// Runner is the round loop: it reads round numbers, loads each round's
// snapshot and writes the command line for it.
type Runner struct {
	Decider   *Decider
	Track     *game.Track
	RoundsDir string
	In        io.Reader
	Out       io.Writer
}

func (r *Runner) Run(ctx context.Context) error {
	sc := bufio.NewScanner(r.In)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		round, err := strconv.Atoi(line)
		if err != nil {
			r.Decider.Logger.Warn().Str("line", line).Msg("ignoring non-numeric round")
			continue
		}
		cmd, skip, err := r.round(round)
		if err != nil {
			return fmt.Errorf("round %d: %w", round, err)
		}
		if skip {
			continue
		}
		if _, err := fmt.Fprintln(r.Out, convert.FormatCommand(round, cmd)); err != nil {
			return fmt.Errorf("write command: %w", err)
		}
	}
	return sc.Err()
}

func (r *Runner) round(round int) (game.Command, bool, error) {
	path := filepath.Join(r.RoundsDir, strconv.Itoa(round), "state.json")
	snap, err := convert.ReadFile(path)
	if err != nil {
		return game.NOP, false, err
	}
	if snap.Finished() {
		r.Decider.Logger.Info().Int("round", round).Msg("finished")
		return game.NOP, true, nil
	}
	state, err := convert.ToState(snap, r.Track)
	if err != nil {
		return game.NOP, false, err
	}
	dec, err := r.Decider.Step(round, &state, snap.OpponentHidden())
	if err != nil {
		return game.NOP, false, err
	}
	return dec.Command, false, nil
}
