// Package bot turns round snapshots into commands. A Decider carries what
// it has learned about the opponent from one round to the next.
package bot

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/brensch/overdrive/config"
	"github.com/brensch/overdrive/executor/search"
	"github.com/brensch/overdrive/game"
	"github.com/brensch/overdrive/rules"
)

// transition is an observed round. from and to are shared with the
// neighbouring transitions, so repairs to hidden opponent fields made while
// explaining one round carry into the next.
type transition struct {
	from   *game.State
	self   game.Command
	to     *game.State
	hidden bool
	// round is when to was observed.
	round int
}

// Inference is an opponent command explained from the transition into
// Round, so the command itself was issued the round before.
type Inference struct {
	Round   int
	Command game.Command
}

// Decision is the outcome of one Step.
type Decision struct {
	Round    int
	Command  game.Command
	Sequence []game.Command
	Depth    int
	OppDepth int
	Stats    search.Stats

	// Inferred holds the opponent commands explained this step, oldest
	// first.
	Inferred []Inference
	// Unexplained counts transitions inference gave up on.
	Unexplained int
}

type Decider struct {
	Search   config.Search
	Settings rules.Settings
	Weights  search.Weights
	// OppWeights drive the opponent predictor until the ensemble has data.
	OppWeights search.Weights
	Ensemble   *search.Ensemble
	Logger     zerolog.Logger

	backlog []transition
	prev    *game.State
	prevCmd game.Command
}

// NewDecider builds a decider from config. The ensemble is nil when
// disabled.
func NewDecider(cfg config.Config, self, opp search.Weights) *Decider {
	d := &Decider{
		Search:     cfg.Search,
		Settings:   cfg.RuleSettings(),
		Weights:    self,
		OppWeights: opp,
		Logger:     log.Logger,
	}
	if cfg.Ensemble.Enabled {
		d.Ensemble = search.NewEnsemble(cfg.Ensemble.Grid)
	}
	return d
}

// Step decides the command for cur. cur is kept and may be amended in
// later rounds when hidden opponent fields are inferred.
func (d *Decider) Step(round int, cur *game.State, oppHidden bool) (Decision, error) {
	dec := Decision{Round: round}

	if d.prev != nil {
		if oppHidden {
			carryHidden(&cur.Opp, d.prev.Opp)
		}
		d.backlog = append(d.backlog, transition{from: d.prev, self: d.prevCmd, to: cur, hidden: oppHidden, round: round})
	}
	d.drainBacklog(cur, &dec)

	oppWeights := d.OppWeights
	if d.Ensemble != nil {
		if w, ok := d.Ensemble.Best(); ok {
			oppWeights = w
		}
	}

	dec.Depth, dec.OppDepth = d.Search.Depths(cur.Self.Speed)
	engine := search.NewEngine(d.Settings)
	pred := search.NewMirrorPredictor(engine, oppWeights, dec.OppDepth, *cur)
	best, err := engine.Best(*cur, pred, d.Weights, dec.Depth)
	if err != nil {
		return dec, err
	}
	dec.Sequence = best.Commands
	dec.Command = best.Commands[0]
	if dec.Command == game.NOP {
		dec.Command = engine.Offensive(*cur, best.Commands, pred)
	}
	dec.Stats = engine.Stats()

	d.prev, d.prevCmd = cur, dec.Command

	d.Logger.Debug().
		Int("round", round).
		Stringer("cmd", dec.Command).
		Str("seq", fmt.Sprint(dec.Sequence)).
		Int("depth", dec.Depth).
		Int("cache_hits", dec.Stats.Hits).
		Int("cache_misses", dec.Stats.Misses).
		Int("predictions", dec.Stats.Predictions).
		Msg("decided")
	return dec, nil
}

// drainBacklog explains every queued transition whose opponent end point
// is inside cur's window, oldest first.
func (d *Decider) drainBacklog(cur *game.State, dec *Decision) {
	n := 0
	for _, tr := range d.backlog {
		if tr.to.Opp.X > cur.View.MaxX {
			break
		}
		n++
		oppCmd, ok := rules.CalcOppCmdWithSettings(tr.self, *tr.from, *tr.to, d.Settings)
		if !ok {
			dec.Unexplained++
			d.Logger.Debug().
				Int("round", tr.round).
				Int("from_x", tr.from.Opp.X).
				Int("to_x", tr.to.Opp.X).
				Msg("opponent move unexplained")
			continue
		}
		dec.Inferred = append(dec.Inferred, Inference{Round: tr.round, Command: oppCmd})
		d.Logger.Debug().Int("round", tr.round).Stringer("opp_cmd", oppCmd).Msg("inferred opponent")

		if tr.hidden {
			next := rules.NextStateWithSettings(*tr.from, tr.self, oppCmd, d.Settings)
			carryHidden(&tr.to.Opp, next.Opp)
		}
		if d.Ensemble != nil {
			d.learn(*tr.from, oppCmd)
		}
	}
	d.backlog = d.backlog[n:]

	// Re-carry through what is still queued so cur sees the latest repair.
	for _, tr := range d.backlog {
		if tr.hidden {
			carryHidden(&tr.to.Opp, tr.from.Opp)
		}
	}
}

func (d *Decider) learn(from game.State, oppCmd game.Command) {
	switched := from.Switch()
	options, err := search.NewEngine(d.Settings).Search(switched, search.Accelerate, 2)
	if err != nil {
		d.Logger.Debug().Err(err).Msg("ensemble search")
		return
	}
	d.Ensemble.Update(options, switched, oppCmd)
}

// carryHidden copies the fields the game withholds about the opponent.
func carryHidden(dst *game.Player, src game.Player) {
	dst.Boosts = src.Boosts
	dst.Oils = src.Oils
	dst.Lizards = src.Lizards
	dst.Tweets = src.Tweets
	dst.EMPs = src.EMPs
	dst.Boosting = src.Boosting
	dst.BoostCounter = src.BoostCounter
	dst.Damage = src.Damage
}
