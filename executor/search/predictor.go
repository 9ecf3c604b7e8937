package search

import (
	"github.com/brensch/overdrive/game"
)

// Predictor guesses the opponent's next command in a state.
type Predictor interface {
	Predict(s game.State) game.Command
}

// PredictorFunc adapts a function to Predictor.
type PredictorFunc func(s game.State) game.Command

func (f PredictorFunc) Predict(s game.State) game.Command { return f(s) }

// Accelerate assumes the opponent always accelerates. It is the stand-in
// used one ply down so mirrored searches do not recurse.
var Accelerate Predictor = PredictorFunc(func(game.State) game.Command { return game.ACCEL })

type predictionKey struct {
	state game.Key
	view  game.ViewKey
}

// MirrorPredictor runs a shallower search from the opponent's seat and
// takes its best first command.
type MirrorPredictor struct {
	engine  *Engine
	weights Weights
	depth   int
	maxX    int
	cache   map[predictionKey]game.Command
}

// NewMirrorPredictor builds a predictor for one decision. Opponents at or
// past root's window edge are assumed to accelerate.
func NewMirrorPredictor(e *Engine, w Weights, depth int, root game.State) *MirrorPredictor {
	return &MirrorPredictor{
		engine:  e,
		weights: w,
		depth:   depth,
		maxX:    root.View.MaxX,
		cache:   make(map[predictionKey]game.Command, 256),
	}
}

func (m *MirrorPredictor) Predict(s game.State) game.Command {
	if m.depth <= 0 || s.Opp.X >= m.maxX {
		return game.ACCEL
	}
	if s.Self.Lane == s.Opp.Lane && s.Self.X+1 == s.Opp.X && s.Opp.Speed == 0 {
		return game.NOP
	}
	key := predictionKey{state: s.Key(), view: s.View.Key()}
	if c, ok := m.cache[key]; ok {
		return c
	}
	m.engine.stats.Predictions++
	c := m.predict(s)
	m.cache[key] = c
	return c
}

func (m *MirrorPredictor) predict(s game.State) game.Command {
	switched := s.Switch()
	options, err := m.engine.Search(switched, Accelerate, m.depth)
	if err != nil {
		return game.ACCEL
	}
	best, err := m.engine.Rank(options, switched, m.weights, Accelerate)
	if err != nil {
		return game.ACCEL
	}
	return best.Commands[0]
}
