// Package selfplay referees local matches between two deciders and
// archives every round.
package selfplay

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/brensch/overdrive/config"
	"github.com/brensch/overdrive/executor/bot"
	"github.com/brensch/overdrive/executor/search"
	"github.com/brensch/overdrive/game"
	"github.com/brensch/overdrive/rules"
	"github.com/brensch/overdrive/store"
)

// Match describes one game. Player 1 is the referee's Self.
type Match struct {
	ID      string
	Seed    int64
	Config  config.Config
	Weights [2]search.Weights
	// Terrain defaults to game.DefaultTerrainSettings.
	Terrain *game.TerrainSettings
	// OnRound is called after every refereed round.
	OnRound func()
	Logger  *zerolog.Logger
}

type Result struct {
	MatchID string
	Seed    int64
	// Winner is 1 or 2, or 0 for a draw.
	Winner int
	Rounds int
	Final  game.State
	Rows   []store.RoundRow
	// Inferred counts opponent commands the deciders explained; Correct
	// counts those that matched what was actually played.
	Inferred int
	Correct  int
}

// PlayMatch runs a match to the finish line or the round limit. A
// cancelled context aborts it with the context's error.
func PlayMatch(ctx context.Context, m Match) (Result, error) {
	cfg := m.Config
	sp := cfg.SelfPlay
	logger := log.Logger
	if m.Logger != nil {
		logger = *m.Logger
	}
	logger = logger.With().Str("match", m.ID).Logger()

	terrain := game.DefaultTerrainSettings
	if m.Terrain != nil {
		terrain = *m.Terrain
	}
	rng := rand.New(rand.NewSource(m.Seed))
	track := game.GenerateTrack(cfg.Track.Length, cfg.Track.Lanes, rng, terrain)

	lanes := [2]int{1, cfg.Track.Lanes}
	if sp.FlipLanes && rng.Intn(2) == 1 {
		lanes[0], lanes[1] = lanes[1], lanes[0]
	}
	ref := game.State{
		View: game.NewView(track, 1, track.Length()),
		Self: game.Player{ID: 1, X: 1, Lane: lanes[0], Speed: game.SpeedInit},
		Opp:  game.Player{ID: 2, X: 1, Lane: lanes[1], Speed: game.SpeedInit},
	}

	settings := cfg.RuleSettings()
	var deciders [2]*bot.Decider
	var known [2]*game.Track
	for i := range deciders {
		deciders[i] = bot.NewDecider(cfg, m.Weights[i], m.Weights[1-i])
		deciders[i].Logger = logger.With().Int("player", i+1).Logger()
		known[i] = game.NewTrack(track.Length(), track.Lanes())
	}

	res := Result{MatchID: m.ID, Seed: m.Seed}
	var played [2][]game.Command
	var lastInferred [2]string

	for round := 1; round <= sp.MaxRounds; round++ {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		var cmds [2]game.Command
		var seats [2]game.State
		for i := range deciders {
			seat := ref
			if i == 1 {
				seat = ref.Switch()
			}
			seats[i] = seat
			obs, err := observe(seat, known[i], sp.ViewBehind, sp.ViewAhead)
			if err != nil {
				return res, fmt.Errorf("player %d round %d: %w", i+1, round, err)
			}
			dec, err := deciders[i].Step(round, &obs, true)
			if err != nil {
				return res, fmt.Errorf("player %d round %d: %w", i+1, round, err)
			}
			cmds[i] = dec.Command
			lastInferred[i] = ""
			for _, inf := range dec.Inferred {
				res.Inferred++
				if actual := played[1-i]; inf.Round-2 < len(actual) && actual[inf.Round-2] == inf.Command {
					res.Correct++
				}
				lastInferred[i] = inf.Command.String()
			}
		}
		for i := range seats {
			res.Rows = append(res.Rows, roundRow(m, round, seats[i].Self, cmds[i], lastInferred[i]))
			played[i] = append(played[i], cmds[i])
		}

		ref = rules.NextStateWithSettings(ref, cmds[0], cmds[1], settings)
		ref.View.Commit()
		res.Rounds = round
		if m.OnRound != nil {
			m.OnRound()
		}
		if ref.Self.X >= track.Length() || ref.Opp.X >= track.Length() {
			break
		}
	}

	res.Final = ref
	res.Winner = winner(ref.Self, ref.Opp, track.Length())
	for i := range res.Rows {
		res.Rows[i].Winner = int32(res.Winner)
	}
	logger.Debug().Int("winner", res.Winner).Int("rounds", res.Rounds).Msg("match finished")
	return res, nil
}

// observe reveals what a player can see of the referee's track into its own
// copy and returns the state as the game would report it: the opponent's
// resources, damage and boost state are withheld.
func observe(seat game.State, known *game.Track, behind, ahead int) (game.State, error) {
	minX := max(seat.Self.X-behind, 1)
	maxX := min(seat.Self.X+ahead, known.Length())
	for lane := 1; lane <= known.Lanes(); lane++ {
		for x := minX; x <= maxX; x++ {
			p := game.Pos{X: x, Lane: lane}
			if err := known.Reveal(p, seat.View.At(p)); err != nil {
				return game.State{}, err
			}
		}
	}
	o := seat.Opp
	return game.State{
		View: game.NewView(known, minX, maxX),
		Self: seat.Self,
		Opp:  game.Player{ID: o.ID, X: o.X, Lane: o.Lane, Speed: o.Speed, Score: o.Score},
	}, nil
}

// winner ranks finishers first, then speed, then score. Without a finisher
// the furthest car leads.
func winner(a, b game.Player, finish int) int {
	af, bf := a.X >= finish, b.X >= finish
	switch {
	case af && !bf:
		return a.ID
	case bf && !af:
		return b.ID
	case !af && a.X != b.X:
		if a.X > b.X {
			return a.ID
		}
		return b.ID
	case a.Speed != b.Speed:
		if a.Speed > b.Speed {
			return a.ID
		}
		return b.ID
	case a.Score != b.Score:
		if a.Score > b.Score {
			return a.ID
		}
		return b.ID
	}
	return 0
}

func roundRow(m Match, round int, p game.Player, cmd game.Command, inferred string) store.RoundRow {
	return store.RoundRow{
		MatchID:      m.ID,
		Seed:         m.Seed,
		Round:        int32(round),
		PlayerID:     int32(p.ID),
		X:            int32(p.X),
		Lane:         int32(p.Lane),
		Speed:        int32(p.Speed),
		Damage:       int32(p.Damage),
		Score:        int32(p.Score),
		Boosting:     p.Boosting,
		BoostCounter: int32(p.BoostCounter),
		Boosts:       int32(p.Boosts),
		Oils:         int32(p.Oils),
		Lizards:      int32(p.Lizards),
		Tweets:       int32(p.Tweets),
		EMPs:         int32(p.EMPs),
		Command:      cmd.String(),
		OppCommand:   inferred,
	}
}
