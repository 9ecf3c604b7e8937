// Package search picks commands by breadth-first enumeration of our own
// command sequences against a predicted opponent, ranked by a linear score.
//
// An Engine and everything hanging off it lives for one decision. Its
// caches are keyed by state value, so they must not outlive the shared
// track contents they were computed against.
package search

import (
	"github.com/brensch/overdrive/game"
	"github.com/brensch/overdrive/rules"
)

type transitionKey struct {
	state game.Key
	view  game.ViewKey
	self  game.Command
	opp   game.Command
}

// Stats counts cache traffic for one decision.
type Stats struct {
	Hits        int
	Misses      int
	Predictions int
}

// Engine is the per-decision transposition cache in front of the rules.
type Engine struct {
	Settings rules.Settings

	next  map[transitionKey]game.State
	stats Stats
}

func NewEngine(settings rules.Settings) *Engine {
	return &Engine{
		Settings: settings,
		next:     make(map[transitionKey]game.State, 4096),
	}
}

// Next is rules.NextStateWithSettings, memoized.
func (e *Engine) Next(s game.State, self, opp game.Command) game.State {
	key := transitionKey{state: s.Key(), view: s.View.Key(), self: self, opp: opp}
	if out, ok := e.next[key]; ok {
		e.stats.Hits++
		return out
	}
	e.stats.Misses++
	out := rules.NextStateWithSettings(s, self, opp, e.Settings)
	e.next[key] = out
	return out
}

func (e *Engine) Stats() Stats { return e.stats }
