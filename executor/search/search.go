package search

import (
	"errors"
	"fmt"
	"math"

	"github.com/brensch/overdrive/game"
	"github.com/brensch/overdrive/rules"
)

// ErrNoOptions means a search produced nothing to rank. The enumerator
// always offers a move, so this is a bug rather than a game situation.
var ErrNoOptions = errors.New("search produced no options")

// Option is one full-depth command sequence and where it leads.
type Option struct {
	Commands []game.Command
	State    game.State
}

// Search enumerates our legal command sequences breadth first. A sequence
// that carries us to the edge of the visible window stops there, and from
// then on only sequences of that length are kept.
func (e *Engine) Search(root game.State, pred Predictor, maxDepth int) ([]Option, error) {
	if maxDepth <= 0 {
		return nil, fmt.Errorf("depth %d: %w", maxDepth, ErrNoOptions)
	}
	queue := []Option{{State: root}}
	var options []Option
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		depth := len(cur.Commands)
		if depth == maxDepth || (depth > 0 && cur.State.Self.X >= cur.State.View.MaxX) {
			options = append(options, cur)
			maxDepth = min(maxDepth, depth)
			continue
		}
		if depth > maxDepth {
			continue
		}

		opp := pred.Predict(cur.State)
		for _, c := range rules.SelfActions(cur.State) {
			cmds := make([]game.Command, depth+1)
			copy(cmds, cur.Commands)
			cmds[depth] = c
			queue = append(queue, Option{Commands: cmds, State: e.Next(cur.State, c, opp)})
		}
	}

	kept := options[:0]
	for _, o := range options {
		if len(o.Commands) == maxDepth {
			kept = append(kept, o)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("depth %d from x=%d: %w", maxDepth, root.Self.X, ErrNoOptions)
	}
	return kept, nil
}

// Rank returns the best option. Once any option crosses the finish line
// only finishing speed counts; otherwise options are scored by w, plus
// w.NextState times the one-ply score of their first command. The first
// of equal options wins.
func (e *Engine) Rank(options []Option, cur game.State, w Weights, pred Predictor) (Option, error) {
	if len(options) == 0 {
		return Option{}, ErrNoOptions
	}
	finish := cur.View.Length()
	endgame := false
	for _, o := range options {
		if o.State.Self.X >= finish {
			endgame = true
			break
		}
	}

	var opp game.Command
	if !endgame && w.NextState != 0 {
		opp = pred.Predict(cur)
	}

	best, bestScore := 0, math.Inf(-1)
	for i, o := range options {
		var v float64
		switch {
		case endgame:
			if o.State.Self.X >= finish {
				v = float64(o.State.Self.Speed)
			}
		default:
			v = w.Rate(cur.Self, o.State.Self)
			if w.NextState != 0 {
				step := e.Next(cur, o.Commands[0], opp)
				v += w.NextState * w.Rate(cur.Self, step.Self)
			}
		}
		if v > bestScore {
			best, bestScore = i, v
		}
	}
	return options[best], nil
}

// Best runs Search and Rank and returns the winning sequence.
func (e *Engine) Best(root game.State, pred Predictor, w Weights, depth int) (Option, error) {
	options, err := e.Search(root, pred, depth)
	if err != nil {
		return Option{}, err
	}
	return e.Rank(options, root, w, pred)
}
