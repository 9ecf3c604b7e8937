package search

import (
	"github.com/brensch/overdrive/game"
)

const (
	oilHoard      = 3
	oilTrailRange = 15
	boxScanRange  = 10
	tweetLead     = 3
)

type tactic struct {
	priority int
	cmd      game.Command
}

// Offensive picks a powerup to use instead of a NOTHING move. seq is the
// winning movement sequence; its first two commands drive the forecast for
// tweet placement. It returns NOTHING when no tactic applies.
func (e *Engine) Offensive(s game.State, seq []game.Command, pred Predictor) game.Command {
	p, o := s.Self, s.Opp
	var tactics []tactic

	if p.Oils > 0 {
		if p.Oils > oilHoard {
			tactics = append(tactics, tactic{10, game.OIL})
		}
		if o.Lane == p.Lane {
			if o.X == p.X-1 {
				tactics = append(tactics, tactic{1, game.OIL})
			} else if d := p.X - o.X; d >= 1 && d <= oilTrailRange {
				tactics = append(tactics, tactic{3, game.OIL})
			}
		}
		if o.X < p.X {
			left := p.Lane == 1 || laneBlocked(s.View, p.X, p.Lane-1)
			right := p.Lane == s.View.Lanes() || laneBlocked(s.View, p.X, p.Lane+1)
			switch {
			case left && right:
				tactics = append(tactics, tactic{6, game.OIL})
			case left || right:
				tactics = append(tactics, tactic{7, game.OIL})
			}
		}
	}

	if p.Tweets > 0 && p.X > o.X && len(seq) > 1 {
		next := e.Next(s, seq[0], forecast(s, pred))
		after := e.Next(next, seq[1], forecast(next, pred))
		target := game.Pos{X: next.Opp.X + tweetLead, Lane: after.Opp.Lane}
		if target == p.Pos() {
			target.X--
		}
		if target.X < next.Self.X && s.View.Track().Contains(target) {
			tactics = append(tactics, tactic{4, game.Tweet(target)})
		}
	}

	if p.EMPs > 0 && o.X > p.X && abs(o.Lane-p.Lane) <= 1 {
		safe := o.Lane != p.Lane || e.Next(s, game.NOP, game.NOP).Self.X < o.X
		if safe {
			tactics = append(tactics, tactic{0, game.EMP})
		}
	}

	best := game.NOP
	bestPriority := -1
	for _, t := range tactics {
		if bestPriority < 0 || t.priority < bestPriority {
			best, bestPriority = t.cmd, t.priority
		}
	}
	return best
}

// laneBlocked reports a hazard in lane within boxScanRange of x.
func laneBlocked(v game.View, x, lane int) bool {
	from := max(x-boxScanRange, 1)
	to := min(x+boxScanRange, v.Length())
	for xx := from; xx < to; xx++ {
		if v.At(game.Pos{X: xx, Lane: lane}).Effective().Hazard() {
			return true
		}
	}
	return false
}

// forecast predicts the opponent's move, assuming it will not stop to
// repair: a predicted FIX is replaced by the prediction for a less damaged
// opponent.
func forecast(s game.State, pred Predictor) game.Command {
	c := pred.Predict(s)
	for c == game.FIX && s.Opp.Damage > 0 {
		s.Opp.Damage = max(s.Opp.Damage-game.RepairAmount, 0)
		c = pred.Predict(s)
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
