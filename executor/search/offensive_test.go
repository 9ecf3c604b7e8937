package search

import (
	"testing"

	"github.com/brensch/overdrive/game"
	"github.com/brensch/overdrive/rules"
)

func TestOffensive_OilWhenBoxedIn(t *testing.T) {
	cases := []struct {
		name string
		self game.Player
		mud  []game.Pos
		want game.Command
	}{
		{"opponent not behind", game.Player{ID: 1, X: 1, Lane: 1, Speed: 5, Oils: 1}, nil, game.NOP},
		{"track edge", game.Player{ID: 1, X: 100, Lane: 1, Speed: 5, Oils: 1}, nil, game.OIL},
		{"open lanes", game.Player{ID: 1, X: 100, Lane: 2, Speed: 5, Oils: 1}, nil, game.NOP},
		{"mud both sides", game.Player{ID: 1, X: 100, Lane: 2, Speed: 5, Oils: 1},
			[]game.Pos{{X: 95, Lane: 1}, {X: 108, Lane: 3}}, game.OIL},
		{"mud out of range", game.Player{ID: 1, X: 100, Lane: 2, Speed: 5, Oils: 1},
			[]game.Pos{{X: 89, Lane: 1}, {X: 110, Lane: 3}}, game.NOP},
	}
	for _, c := range cases {
		s := newState(300, 1, 300, c.self, game.Player{ID: 2, X: 1, Lane: 4, Speed: 5})
		for _, p := range c.mud {
			reveal(t, s, p.X, p.Lane, game.Mud)
		}
		got := NewEngine(rules.DefaultSettings).Offensive(s, []game.Command{game.NOP, game.NOP}, Accelerate)
		if got != c.want {
			t.Errorf("%s: got %v want %v", c.name, got, c.want)
		}
	}
}

func TestOffensive_OilOnTrailingOpponent(t *testing.T) {
	s := newState(300, 1, 300,
		game.Player{ID: 1, X: 50, Lane: 2, Speed: 9, Oils: 1},
		game.Player{ID: 2, X: 40, Lane: 2, Speed: 9},
	)
	if got := NewEngine(rules.DefaultSettings).Offensive(s, []game.Command{game.NOP}, Accelerate); got != game.OIL {
		t.Fatalf("got %v want USE_OIL", got)
	}
	s.Self.Oils = 0
	if got := NewEngine(rules.DefaultSettings).Offensive(s, []game.Command{game.NOP}, Accelerate); got != game.NOP {
		t.Fatalf("without oil got %v", got)
	}
}

func TestOffensive_TweetAheadOfForecast(t *testing.T) {
	s := newState(300, 1, 300,
		game.Player{ID: 1, X: 50, Lane: 1, Speed: 9, Tweets: 1},
		game.Player{ID: 2, X: 30, Lane: 3, Speed: 6},
	)
	e := NewEngine(rules.DefaultSettings)
	got := e.Offensive(s, []game.Command{game.NOP, game.NOP}, Accelerate)
	want := game.Tweet(game.Pos{X: 41, Lane: 3})
	if got != want {
		t.Fatalf("got %v want %v", got, want)
	}
	if got := e.Offensive(s, []game.Command{game.NOP}, Accelerate); got != game.NOP {
		t.Fatalf("single-command sequence got %v", got)
	}
}

func TestOffensive_TweetForecastSkipsRepair(t *testing.T) {
	s := newState(300, 1, 300,
		game.Player{ID: 1, X: 50, Lane: 1, Speed: 9, Tweets: 1},
		game.Player{ID: 2, X: 30, Lane: 3, Speed: 6, Damage: 2},
	)
	fixer := PredictorFunc(func(s game.State) game.Command {
		if s.Opp.Damage > 0 {
			return game.FIX
		}
		return game.ACCEL
	})
	got := NewEngine(rules.DefaultSettings).Offensive(s, []game.Command{game.NOP, game.NOP}, fixer)
	if got.Action != game.UseTweet || got.Target.X <= 33 {
		t.Fatalf("got %v: forecast assumed the opponent stops to repair", got)
	}
}

func TestOffensive_EMP(t *testing.T) {
	e := NewEngine(rules.DefaultSettings)

	ahead := newState(300, 1, 300,
		game.Player{ID: 1, X: 10, Lane: 2, Speed: 6, EMPs: 1},
		game.Player{ID: 2, X: 30, Lane: 2, Speed: 9},
	)
	if got := e.Offensive(ahead, []game.Command{game.NOP, game.NOP}, Accelerate); got != game.EMP {
		t.Fatalf("opponent ahead: got %v want USE_EMP", got)
	}

	adjacent := ahead
	adjacent.Opp.Lane = 3
	if got := e.Offensive(adjacent, []game.Command{game.NOP, game.NOP}, Accelerate); got != game.EMP {
		t.Fatalf("opponent one lane over: got %v want USE_EMP", got)
	}

	tooClose := newState(300, 1, 300,
		game.Player{ID: 1, X: 10, Lane: 2, Speed: 9, EMPs: 1},
		game.Player{ID: 2, X: 15, Lane: 2, Speed: 9},
	)
	if got := e.Offensive(tooClose, []game.Command{game.NOP, game.NOP}, Accelerate); got != game.NOP {
		t.Fatalf("stunning a car just ahead would rear-end it: got %v", got)
	}

	behind := ahead
	behind.Opp.X = 5
	if got := e.Offensive(behind, []game.Command{game.NOP, game.NOP}, Accelerate); got != game.NOP {
		t.Fatalf("opponent behind: got %v", got)
	}
}

func TestOffensive_PriorityOrder(t *testing.T) {
	s := newState(300, 1, 300,
		game.Player{ID: 1, X: 50, Lane: 2, Speed: 9, Oils: 5, Tweets: 1},
		game.Player{ID: 2, X: 49, Lane: 2, Speed: 3},
	)
	if got := NewEngine(rules.DefaultSettings).Offensive(s, []game.Command{game.NOP, game.NOP}, Accelerate); got != game.OIL {
		t.Fatalf("got %v want USE_OIL on the car right behind", got)
	}
}
