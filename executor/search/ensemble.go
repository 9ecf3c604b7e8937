package search

import (
	"gonum.org/v1/gonum/mat"

	"github.com/brensch/overdrive/game"
)

// dims is the number of scored dimensions, in Weights field order without
// NextState.
const dims = 9

// DefaultGrid is the set of values each dimension takes in the ensemble.
var DefaultGrid = []float64{0, 0.5, 1}

// Ensemble learns which weights best explain the opponent. It holds every
// combination of grid values across the scored dimensions and credits the
// ones whose top choice matches each observed opponent command.
type Ensemble struct {
	vectors *mat.Dense // dims x n
	scores  []int
	updates int
}

func NewEnsemble(grid []float64) *Ensemble {
	if len(grid) == 0 {
		grid = DefaultGrid
	}
	n := 1
	for i := 0; i < dims; i++ {
		n *= len(grid)
	}
	vectors := mat.NewDense(dims, n, nil)
	for j := 0; j < n; j++ {
		rest := j
		for d := dims - 1; d >= 0; d-- {
			vectors.Set(d, j, grid[rest%len(grid)])
			rest /= len(grid)
		}
	}
	return &Ensemble{vectors: vectors, scores: make([]int, n)}
}

func (e *Ensemble) Size() int    { return len(e.scores) }
func (e *Ensemble) Updates() int { return e.updates }

func encode(from, to game.Player) [dims]float64 {
	return [dims]float64{
		float64(to.X - from.X),
		float64(to.Speed),
		float64(to.Boosts - from.Boosts),
		float64(to.Oils - from.Oils),
		float64(to.Lizards - from.Lizards),
		float64(to.Tweets - from.Tweets),
		float64(to.EMPs - from.EMPs),
		-float64(to.Damage - from.Damage),
		float64(to.Score - from.Score),
	}
}

// Update scores every weight vector against options, which must come from
// a search run from the opponent's seat in from. Vectors whose best option
// starts with observed gain a point. It returns how many gained.
func (e *Ensemble) Update(options []Option, from game.State, observed game.Command) int {
	if len(options) == 0 {
		return 0
	}
	deltas := mat.NewDense(len(options), dims, nil)
	for i, o := range options {
		row := encode(from.Self, o.State.Self)
		deltas.SetRow(i, row[:])
	}
	var scored mat.Dense
	scored.Mul(deltas, e.vectors)

	credited := 0
	for j := range e.scores {
		best := 0
		for i := 1; i < len(options); i++ {
			if scored.At(i, j) > scored.At(best, j) {
				best = i
			}
		}
		if options[best].Commands[0] == observed {
			e.scores[j]++
			credited++
		}
	}
	e.updates++
	return credited
}

// Best returns the highest scoring weights, first on ties. It reports
// false until Update has been called.
func (e *Ensemble) Best() (Weights, bool) {
	if e.updates == 0 {
		return Weights{}, false
	}
	best := 0
	for j, s := range e.scores {
		if s > e.scores[best] {
			best = j
		}
	}
	return e.weightsAt(best), true
}

func (e *Ensemble) weightsAt(j int) Weights {
	v := func(d int) float64 { return e.vectors.At(d, j) }
	return Weights{
		Pos:     v(0),
		Speed:   v(1),
		Boosts:  v(2),
		Oils:    v(3),
		Lizards: v(4),
		Tweets:  v(5),
		EMPs:    v(6),
		Damage:  v(7),
		Score:   v(8),
	}
}
