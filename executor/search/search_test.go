package search

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/brensch/overdrive/game"
	"github.com/brensch/overdrive/rules"
)

func newState(length, minX, maxX int, self, opp game.Player) game.State {
	return game.State{
		View: game.NewView(game.NewTrack(length, 4), minX, maxX),
		Self: self,
		Opp:  opp,
	}
}

func reveal(t *testing.T, s game.State, x, lane int, b game.Block) {
	t.Helper()
	if err := s.View.Track().Reveal(game.Pos{X: x, Lane: lane}, game.Cell{Base: b}); err != nil {
		t.Fatalf("reveal: %v", err)
	}
}

func firstCommands(options []Option) []game.Command {
	out := make([]game.Command, len(options))
	for i, o := range options {
		out[i] = o.Commands[0]
	}
	return out
}

func TestSearch_OptionsReplayThroughRules(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	track := game.GenerateTrack(400, 4, rng, game.DefaultTerrainSettings)
	root := game.State{
		View: game.NewView(track, 1, 60),
		Self: game.Player{ID: 1, X: 6, Lane: 2, Speed: game.SpeedInit, Boosts: 1},
		Opp:  game.Player{ID: 2, X: 6, Lane: 3, Speed: game.SpeedInit},
	}
	e := NewEngine(rules.DefaultSettings)
	options, err := e.Search(root, Accelerate, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(options) == 0 {
		t.Fatalf("no options")
	}
	for _, o := range options {
		if len(o.Commands) != 3 {
			t.Fatalf("option %v has depth %d", o.Commands, len(o.Commands))
		}
		s := root
		for _, c := range o.Commands {
			s = rules.NextState(s, c, game.ACCEL)
		}
		if !s.Equal(o.State) {
			t.Fatalf("option %v: replay disagrees\n got  %+v\n want %+v", o.Commands, s.Self, o.State.Self)
		}
	}
	if e.Stats().Hits == 0 && e.Stats().Misses == 0 {
		t.Fatalf("engine recorded no transitions")
	}
}

func TestSearch_StopsAtWindowEdge(t *testing.T) {
	root := newState(200, 5, 15,
		game.Player{ID: 1, X: 10, Lane: 2, Speed: game.SpeedMax},
		game.Player{ID: 2, X: 2, Lane: 4, Speed: game.Speed1},
	)
	options, err := NewEngine(rules.DefaultSettings).Search(root, Accelerate, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, o := range options {
		if len(o.Commands) != 1 {
			t.Fatalf("option %v not clamped to depth 1", o.Commands)
		}
	}
}

func TestSearch_NeverEmptyForReachableStates(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		rng := rand.New(rand.NewSource(seed))
		track := game.GenerateTrack(300, 4, rng, game.DefaultTerrainSettings)
		s := game.State{
			View: game.NewView(track, 1, 25),
			Self: game.Player{ID: 1, X: 1, Lane: 1, Speed: game.SpeedInit},
			Opp:  game.Player{ID: 2, X: 1, Lane: 4, Speed: game.SpeedInit},
		}
		for round := 0; round < 80 && s.Self.X < 300 && s.Opp.X < 300; round++ {
			e := NewEngine(rules.DefaultSettings)
			options, err := e.Search(s, Accelerate, 2)
			if err != nil || len(options) == 0 {
				t.Fatalf("seed %d round %d: %v (%d options) self=%+v", seed, round, err, len(options), s.Self)
			}
			a := rules.SelfActions(s)
			b := rules.ValidActions(s.Opp, 4)
			s = rules.NextState(s, a[rng.Intn(len(a))], b[rng.Intn(len(b))])
			s.View = game.NewView(track, s.Self.X-5, s.Self.X+20)
		}
	}
}

func TestSearch_ZeroDepthIsAnError(t *testing.T) {
	root := newState(100, 1, 25, game.Player{ID: 1, X: 1, Lane: 1, Speed: 5}, game.Player{ID: 2, X: 1, Lane: 4, Speed: 5})
	if _, err := NewEngine(rules.DefaultSettings).Search(root, Accelerate, 0); !errors.Is(err, ErrNoOptions) {
		t.Fatalf("err=%v want ErrNoOptions", err)
	}
}

func TestRank_FinishingBeatsEverything(t *testing.T) {
	cur := newState(100, 80, 100,
		game.Player{ID: 1, X: 92, Lane: 1, Speed: game.Speed2},
		game.Player{ID: 2, X: 50, Lane: 4},
	)
	for x := 95; x <= 97; x++ {
		reveal(t, cur, x, 2, game.OilPickup)
	}
	greedy := Weights{Oils: 1000}

	e := NewEngine(rules.DefaultSettings)
	options, err := e.Search(cur, Accelerate, 3)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	best, err := e.Rank(options, cur, greedy, Accelerate)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if best.Commands[0] != game.ACCEL {
		t.Fatalf("picked %v from %v, want ACCELERATE across the line", best.Commands, firstCommands(options))
	}

	var slower []Option
	for _, o := range options {
		if o.State.Self.X < 100 {
			slower = append(slower, o)
		}
	}
	best, err = e.Rank(slower, cur, greedy, Accelerate)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if best.Commands[0] != game.RIGHT {
		t.Fatalf("without a finisher picked %v, want TURN_RIGHT into the oil", best.Commands[0])
	}
}

func TestRank_FirstOfEqualOptionsWins(t *testing.T) {
	cur := newState(200, 1, 40,
		game.Player{ID: 1, X: 10, Lane: 2, Speed: game.SpeedInit},
		game.Player{ID: 2, X: 3, Lane: 4, Speed: game.SpeedInit},
	)
	e := NewEngine(rules.DefaultSettings)
	best, err := e.Best(cur, Accelerate, Weights{}, 2)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if best.Commands[0] != game.NOP || best.Commands[1] != game.NOP {
		t.Fatalf("tie-break picked %v, want the first enumerated sequence", best.Commands)
	}
}

func TestRank_SpeedWeight(t *testing.T) {
	cur := newState(200, 1, 40,
		game.Player{ID: 1, X: 10, Lane: 2, Speed: game.SpeedInit},
		game.Player{ID: 2, X: 3, Lane: 4, Speed: game.SpeedInit},
	)
	best, err := NewEngine(rules.DefaultSettings).Best(cur, Accelerate, Weights{Speed: 1}, 1)
	if err != nil {
		t.Fatalf("best: %v", err)
	}
	if best.Commands[0] != game.ACCEL {
		t.Fatalf("picked %v want ACCELERATE", best.Commands[0])
	}
}

func TestMirrorPredictor(t *testing.T) {
	root := newState(200, 5, 30,
		game.Player{ID: 1, X: 10, Lane: 1, Speed: game.SpeedInit},
		game.Player{ID: 2, X: 12, Lane: 4, Speed: game.SpeedInit},
	)
	e := NewEngine(rules.DefaultSettings)

	if got := NewMirrorPredictor(e, Weights{Speed: 1}, 0, root).Predict(root); got != game.ACCEL {
		t.Fatalf("depth 0 predicted %v", got)
	}

	far := root
	far.Opp.X = 30
	if got := NewMirrorPredictor(e, Weights{Speed: 1}, 2, root).Predict(far); got != game.ACCEL {
		t.Fatalf("out of window predicted %v", got)
	}

	m := NewMirrorPredictor(e, Weights{Pos: 1, Speed: 1}, 1, root)
	if got := m.Predict(root); got != game.ACCEL {
		t.Fatalf("predicted %v want ACCELERATE for a speed-loving opponent", got)
	}
	before := e.Stats().Predictions
	m.Predict(root)
	if e.Stats().Predictions != before {
		t.Fatalf("prediction not cached")
	}
}

func TestWeights_ScoreMatchesEnsembleEncoding(t *testing.T) {
	w := Weights{Pos: 1, Speed: 0.5, Boosts: 2, Oils: 3, Lizards: 4, Tweets: 5, EMPs: 6, Damage: 7, Score: 0.25}
	from := game.Player{X: 10, Speed: 5, Damage: 1, Score: 4}
	to := game.Player{X: 16, Speed: 6, Boosts: 1, Oils: 1, Damage: 3, Score: 12}
	vec := [dims]float64{w.Pos, w.Speed, w.Boosts, w.Oils, w.Lizards, w.Tweets, w.EMPs, w.Damage, w.Score}
	enc := encode(from, to)
	dot := 0.0
	for i := range enc {
		dot += enc[i] * vec[i]
	}
	if got := w.Rate(from, to); got != dot {
		t.Fatalf("Score=%v encoded dot=%v", got, dot)
	}
}
