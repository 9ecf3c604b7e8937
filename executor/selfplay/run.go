package selfplay

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/brensch/overdrive/config"
	"github.com/brensch/overdrive/executor/search"
	"github.com/brensch/overdrive/store"
)

// MatchUpdate is sent once per finished match.
type MatchUpdate struct {
	MatchID  string
	Winner   int
	Rounds   int
	Inferred int
	Correct  int
}

type Options struct {
	Weights [2]search.Weights
	// Updates, when set, receives every finished match and is closed when
	// Run returns. Sends never block.
	Updates chan<- MatchUpdate
	// Rounds counts refereed rounds across all matches.
	Rounds *atomic.Int64
}

type Summary struct {
	Matches int
	// Wins is indexed by winner id; Wins[0] counts draws.
	Wins     [3]int
	Inferred int
	Correct  int
	Path     string
}

// Run plays cfg.SelfPlay.Matches matches on cfg.SelfPlay.Workers workers and
// writes all rounds into one parquet batch under cfg.SelfPlay.OutDir.
// Match i uses seed cfg.SelfPlay.Seed+i.
func Run(ctx context.Context, cfg config.Config, opts Options) (Summary, error) {
	if opts.Updates != nil {
		defer close(opts.Updates)
	}
	sp := cfg.SelfPlay
	w, err := store.NewBatchWriter(sp.OutDir, "selfplay")
	if err != nil {
		return Summary{}, err
	}

	var (
		mu  sync.Mutex
		sum Summary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sp.Workers)
	for i := 0; i < sp.Matches; i++ {
		m := Match{
			ID:      fmt.Sprintf("match_%d_%d", sp.Seed, i),
			Seed:    sp.Seed + int64(i),
			Config:  cfg,
			Weights: opts.Weights,
		}
		if opts.Rounds != nil {
			m.OnRound = func() { opts.Rounds.Add(1) }
		}
		g.Go(func() error {
			res, err := PlayMatch(gctx, m)
			if err != nil {
				return fmt.Errorf("%s: %w", m.ID, err)
			}

			mu.Lock()
			defer mu.Unlock()
			if err := w.WriteMatch(res.Rows); err != nil {
				return err
			}
			sum.Matches++
			sum.Wins[res.Winner]++
			sum.Inferred += res.Inferred
			sum.Correct += res.Correct
			log.Info().
				Str("match", res.MatchID).
				Int("winner", res.Winner).
				Int("rounds", res.Rounds).
				Msg("match done")

			if opts.Updates != nil {
				select {
				case opts.Updates <- MatchUpdate{
					MatchID:  res.MatchID,
					Winner:   res.Winner,
					Rounds:   res.Rounds,
					Inferred: res.Inferred,
					Correct:  res.Correct,
				}:
				default:
				}
			}
			return nil
		})
	}

	runErr := g.Wait()
	path, err := w.Finalize()
	if runErr != nil {
		return sum, runErr
	}
	if err != nil {
		return sum, err
	}
	sum.Path = path
	log.Info().Str("path", path).Int("matches", sum.Matches).Msg("self-play archived")
	return sum, nil
}
