package search

import (
	"testing"

	"github.com/brensch/overdrive/game"
	"github.com/brensch/overdrive/rules"
)

func TestEnsemble_Grid(t *testing.T) {
	e := NewEnsemble([]float64{0, 1})
	if e.Size() != 512 {
		t.Fatalf("size=%d want 512", e.Size())
	}
	if _, ok := e.Best(); ok {
		t.Fatalf("best reported before any update")
	}
}

func TestEnsemble_LearnsObservedCommand(t *testing.T) {
	from := newState(300, 1, 40,
		game.Player{ID: 1, X: 10, Lane: 1, Speed: game.SpeedInit},
		game.Player{ID: 2, X: 12, Lane: 3, Speed: game.SpeedInit},
	)
	e := NewEngine(rules.DefaultSettings)
	seat := from.Switch()
	options, err := e.Search(seat, Accelerate, 1)
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	ens := NewEnsemble(nil)
	credited := 0
	for i := 0; i < 3; i++ {
		credited = ens.Update(options, seat, game.ACCEL)
	}
	if credited == 0 {
		t.Fatalf("no weight vector explains ACCELERATE")
	}
	w, ok := ens.Best()
	if !ok {
		t.Fatalf("no best weights after updates")
	}
	best, err := e.Rank(options, seat, w, Accelerate)
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	if best.Commands[0] != game.ACCEL {
		t.Fatalf("learned weights %+v pick %v", w, best.Commands[0])
	}
}
