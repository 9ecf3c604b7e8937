package selfplay

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"github.com/brensch/overdrive/config"
	"github.com/brensch/overdrive/executor/search"
	"github.com/brensch/overdrive/game"
	"github.com/brensch/overdrive/store"
)

func smallConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Track.Length = 80
	cfg.Ensemble.Grid = []float64{0, 1}
	cfg.SelfPlay.MaxRounds = 60
	cfg.SelfPlay.OutDir = t.TempDir()
	cfg.SelfPlay.Matches = 3
	cfg.SelfPlay.Workers = 2
	return cfg
}

func quietMatch(t *testing.T, seed int64) Match {
	t.Helper()
	nop := zerolog.Nop()
	return Match{
		ID:      "m",
		Seed:    seed,
		Config:  smallConfig(t),
		Weights: [2]search.Weights{search.DefaultWeights, search.DefaultWeights},
		Logger:  &nop,
	}
}

func TestPlayMatch(t *testing.T) {
	rounds := 0
	m := quietMatch(t, 7)
	m.OnRound = func() { rounds++ }
	res, err := PlayMatch(context.Background(), m)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if res.Rounds == 0 || rounds != res.Rounds {
		t.Fatalf("rounds = %d, callbacks = %d", res.Rounds, rounds)
	}
	if len(res.Rows) != 2*res.Rounds {
		t.Fatalf("rows = %d, want %d", len(res.Rows), 2*res.Rounds)
	}
	if res.Winner < 0 || res.Winner > 2 {
		t.Fatalf("winner = %d", res.Winner)
	}
	for _, r := range res.Rows {
		if int(r.Winner) != res.Winner {
			t.Fatalf("row winner %d, match winner %d", r.Winner, res.Winner)
		}
		if _, err := game.ParseCommand(r.Command); err != nil {
			t.Fatalf("row command %q: %v", r.Command, err)
		}
	}
	if res.Correct > res.Inferred {
		t.Fatalf("correct %d > inferred %d", res.Correct, res.Inferred)
	}
	if res.Final.Self.X < 80 && res.Final.Opp.X < 80 && res.Rounds != 60 {
		t.Fatalf("stopped after %d rounds without a finisher\n%s", res.Rounds, RenderWindow(res.Final, 1, 80))
	}
}

func TestPlayMatch_Deterministic(t *testing.T) {
	a, err := PlayMatch(context.Background(), quietMatch(t, 11))
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	b, err := PlayMatch(context.Background(), quietMatch(t, 11))
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if a.Rounds != b.Rounds || a.Winner != b.Winner || !a.Final.Equal(b.Final) {
		t.Fatalf("same seed diverged: %d/%d rounds, winners %d/%d", a.Rounds, b.Rounds, a.Winner, b.Winner)
	}
}

func TestPlayMatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := PlayMatch(ctx, quietMatch(t, 1)); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestWinner(t *testing.T) {
	cases := []struct {
		name string
		a, b game.Player
		want int
	}{
		{"only a finished", game.Player{ID: 1, X: 100}, game.Player{ID: 2, X: 99, Speed: 15}, 1},
		{"only b finished", game.Player{ID: 1, X: 98}, game.Player{ID: 2, X: 103}, 2},
		{"both finished, faster wins", game.Player{ID: 1, X: 104, Speed: 8}, game.Player{ID: 2, X: 101, Speed: 9}, 2},
		{"both finished, score breaks tie", game.Player{ID: 1, X: 101, Speed: 9, Score: 10}, game.Player{ID: 2, X: 104, Speed: 9, Score: 3}, 1},
		{"nobody finished, furthest wins", game.Player{ID: 1, X: 60}, game.Player{ID: 2, X: 61}, 2},
		{"dead heat", game.Player{ID: 1, X: 60, Speed: 6}, game.Player{ID: 2, X: 60, Speed: 6}, 0},
	}
	for _, c := range cases {
		if got := winner(c.a, c.b, 100); got != c.want {
			t.Errorf("%s: winner = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestObserveHidesOpponent(t *testing.T) {
	track := game.NewTrack(50, 4)
	if err := track.Reveal(game.Pos{X: 12, Lane: 2}, game.Cell{Base: game.Mud}); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if err := track.Reveal(game.Pos{X: 40, Lane: 2}, game.Cell{Base: game.Wall}); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	seat := game.State{
		View: game.NewView(track, 1, 50),
		Self: game.Player{ID: 1, X: 10, Lane: 1, Speed: 6},
		Opp:  game.Player{ID: 2, X: 14, Lane: 2, Speed: 8, Oils: 3, Damage: 2, Boosting: true},
	}
	known := game.NewTrack(50, 4)
	obs, err := observe(seat, known, 5, 20)
	if err != nil {
		t.Fatalf("observe: %v", err)
	}
	if obs.View.MinX != 5 || obs.View.MaxX != 30 {
		t.Fatalf("window = %d..%d, want 5..30", obs.View.MinX, obs.View.MaxX)
	}
	if obs.Opp.Oils != 0 || obs.Opp.Damage != 0 || obs.Opp.Boosting || obs.Opp.Speed != 8 {
		t.Fatalf("opponent leaked hidden fields: %+v", obs.Opp)
	}
	if known.At(game.Pos{X: 12, Lane: 2}).Base != game.Mud {
		t.Fatalf("visible mud not revealed")
	}
	if known.At(game.Pos{X: 40, Lane: 2}).Base != game.Empty {
		t.Fatalf("wall beyond the window was revealed")
	}
}

func TestRun(t *testing.T) {
	cfg := smallConfig(t)
	updates := make(chan MatchUpdate, cfg.SelfPlay.Matches)
	var rounds atomic.Int64
	sum, err := Run(context.Background(), cfg, Options{
		Weights: [2]search.Weights{search.DefaultWeights, search.DefaultWeights},
		Updates: updates,
		Rounds:  &rounds,
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Matches != 3 || sum.Wins[0]+sum.Wins[1]+sum.Wins[2] != 3 {
		t.Fatalf("summary = %+v", sum)
	}
	got := 0
	for range updates {
		got++
	}
	if got != 3 {
		t.Fatalf("updates = %d, want 3", got)
	}
	rows, err := store.ReadRoundsParquet(sum.Path)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	if int64(len(rows)) != 2*rounds.Load() {
		t.Fatalf("archived %d rows for %d rounds", len(rows), rounds.Load())
	}
}

func TestRenderWindow(t *testing.T) {
	track := game.NewTrack(30, 4)
	_ = track.Reveal(game.Pos{X: 3, Lane: 1}, game.Cell{Base: game.Wall})
	s := game.State{
		View: game.NewView(track, 1, 30),
		Self: game.Player{ID: 1, X: 2, Lane: 1},
		Opp:  game.Player{ID: 2, X: 4, Lane: 3},
	}
	_ = s.View.Set(game.Pos{X: 5, Lane: 3}, game.Cell{}.WithTruck())

	out := RenderWindow(s, 1, 6)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	lanes := lines[len(lines)-4:]
	want := []string{"1 .1#...", "2 ......", "3 ...2C.", "4 ......"}
	for i := range want {
		if lanes[i] != want[i] {
			t.Fatalf("lane %d = %q, want %q\n%s", i+1, lanes[i], want[i], out)
		}
	}
}

func TestProgressModel(t *testing.T) {
	updates := make(chan MatchUpdate)
	m := NewProgressModel(2, updates, nil)
	next, _ := m.Update(MatchUpdate{MatchID: "a", Winner: 2, Rounds: 40, Inferred: 4, Correct: 3})
	m = next.(ProgressModel)
	if m.played != 1 || m.wins[2] != 1 {
		t.Fatalf("model after update: played=%d wins=%v", m.played, m.wins)
	}
	view := m.View()
	if !strings.Contains(view, "1 / 2") || !strings.Contains(view, "75.0%") {
		t.Fatalf("view missing progress:\n%s", view)
	}
	next, cmd := m.Update(doneMsg{})
	if !next.(ProgressModel).done || cmd == nil {
		t.Fatalf("done message should quit")
	}
}
