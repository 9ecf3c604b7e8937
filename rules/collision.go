package rules

import (
	"fmt"

	"github.com/brensch/overdrive/game"
)

// LizardTiePolicy decides what happens when both players phase onto the
// same cell.
type LizardTiePolicy uint8

const (
	// TieMerge lets both players share the cell.
	TieMerge LizardTiePolicy = iota
	// TieRearEnd puts the player that started behind one cell behind the
	// other.
	TieRearEnd
)

func (p LizardTiePolicy) String() string {
	switch p {
	case TieRearEnd:
		return "rear_end"
	}
	return "merge"
}

func ParseLizardTie(s string) (LizardTiePolicy, error) {
	switch s {
	case "", "merge":
		return TieMerge, nil
	case "rear_end":
		return TieRearEnd, nil
	}
	return TieMerge, fmt.Errorf("unknown lizard tie policy %q", s)
}

// ResolveCollisions corrects both trajectories for rear-end pass-through and
// same-destination collisions. Swapping the arguments swaps the results.
func ResolveCollisions(a, b game.Player, ta, tb Trajectory, phaseA, phaseB bool, tie LizardTiePolicy) (Trajectory, Trajectory) {
	// 1. Rear-end: nobody drives through the car in front.
	if !phaseA && !phaseB && a.Lane == b.Lane && ta.DY == tb.DY && a.X != b.X {
		if a.X < b.X {
			ta = rearEnd(a, ta, tb.end(b))
		} else {
			tb = rearEnd(b, tb, ta.end(a))
		}
	}

	// 2. Same destination.
	endA, endB := ta.end(a), tb.end(b)
	if endA != endB {
		return ta, tb
	}
	switch {
	case !phaseA && !phaseB:
		ta = Trajectory{DX: max(ta.DX-1, 0), Speed: ta.Speed}
		tb = Trajectory{DX: max(tb.DX-1, 0), Speed: tb.Speed}
	case phaseA && !phaseB:
		ta, tb = yield(a, ta, b, tb)
	case phaseB && !phaseA:
		tb, ta = yield(b, tb, a, ta)
	case tie == TieRearEnd && a.X < b.X:
		tb, ta = yield(b, tb, a, ta)
	case tie == TieRearEnd && b.X < a.X:
		ta, tb = yield(a, ta, b, tb)
	}
	return ta, tb
}

func rearEnd(trail game.Player, t Trajectory, leadEnd game.Pos) Trajectory {
	if trail.X+t.DX >= leadEnd.X {
		t.DX = leadEnd.X - 1 - trail.X
	}
	return t
}

// yield puts q one cell behind where p lands. q never moves backwards, so
// when it cannot get out of the way p lands one cell short instead.
func yield(p game.Player, tp Trajectory, q game.Player, tq Trajectory) (Trajectory, Trajectory) {
	end := tp.end(p)
	tq.DX = max(end.X-1-q.X, 0)
	if tq.end(q) == end {
		tp.DX = max(tp.DX-1, 0)
	}
	return tp, tq
}
