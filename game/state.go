// Package game defines the core state types for the lane racing contest.
//
// Player and State are flat value types so cloning for search is a plain
// copy. The shared Track is the only thing referenced across clones.
package game

// Player holds one competitor's kinematics and resources.
type Player struct {
	ID   int
	X    int
	Lane int

	Speed        int
	Boosting     bool
	BoostCounter int
	Damage       int
	Score        int

	Boosts  int
	Oils    int
	Lizards int
	Tweets  int
	EMPs    int
}

func (p Player) Pos() Pos { return Pos{X: p.X, Lane: p.Lane} }

// Kinematics reports whether two players agree on the fields visible in
// every snapshot.
func (p Player) Kinematics(o Player) bool {
	return p.X == o.X && p.Lane == o.Lane && p.Speed == o.Speed
}

// State is a view of the track plus both players from Self's perspective.
type State struct {
	View View
	Self Player
	Opp  Player
}

// Key is the comparable identity of a state. It excludes the view.
type Key struct {
	Self Player
	Opp  Player
}

func (s State) Key() Key { return Key{Self: s.Self, Opp: s.Opp} }

// Equal compares gameplay fields only.
func (s State) Equal(o State) bool { return s.Key() == o.Key() }

// Clone returns an independent copy. The track is shared.
func (s State) Clone() State { return s }

// Switch swaps roles and re-centres the window on the opponent.
func (s State) Switch() State {
	out := s
	out.Self, out.Opp = s.Opp, s.Self
	out.View.MoveWindow(s.Self.X, s.Opp.X)
	return out
}
