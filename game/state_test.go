package game

import (
	"math/rand"
	"testing"
)

func TestState_SwitchSwapsRolesAndWindow(t *testing.T) {
	track := NewTrack(200, 4)
	s := State{
		View: NewView(track, 5, 30),
		Self: Player{ID: 1, X: 10, Lane: 1, Speed: 5},
		Opp:  Player{ID: 2, X: 40, Lane: 4, Speed: 9},
	}
	sw := s.Switch()
	if sw.Self.ID != 2 || sw.Opp.ID != 1 {
		t.Fatalf("roles not swapped: self=%d opp=%d", sw.Self.ID, sw.Opp.ID)
	}
	if sw.View.MinX != 35 || sw.View.MaxX != 60 {
		t.Fatalf("switched window [%d,%d] want [35,60]", sw.View.MinX, sw.View.MaxX)
	}
	if s.View.MinX != 5 {
		t.Fatalf("switch mutated the original window")
	}
	back := sw.Switch()
	if !back.Equal(s) || back.View.MinX != 5 || back.View.MaxX != 30 {
		t.Fatalf("double switch is not identity")
	}
}

func TestState_EqualityIgnoresTrack(t *testing.T) {
	p := Player{ID: 1, X: 3, Lane: 2, Speed: 6}
	o := Player{ID: 2, X: 4, Lane: 3, Speed: 6}
	a := State{View: NewView(NewTrack(100, 4), 1, 20), Self: p, Opp: o}
	b := State{View: NewView(NewTrack(300, 4), 1, 20), Self: p, Opp: o}
	if !a.Equal(b) {
		t.Fatalf("states with identical players should be equal")
	}
	c := b.Clone()
	c.Self.Oils++
	if c.Equal(b) {
		t.Fatalf("clone aliases the original player")
	}
}

func TestGenerateTrack_Deterministic(t *testing.T) {
	a := GenerateTrack(300, 4, rand.New(rand.NewSource(7)), DefaultTerrainSettings)
	b := GenerateTrack(300, 4, rand.New(rand.NewSource(7)), DefaultTerrainSettings)
	nonEmpty := 0
	for lane := 1; lane <= 4; lane++ {
		for x := 1; x <= 300; x++ {
			p := Pos{X: x, Lane: lane}
			if a.At(p) != b.At(p) {
				t.Fatalf("tracks differ at %v", p)
			}
			if x <= DefaultTerrainSettings.StartClear && a.At(p).Effective() != Empty {
				t.Fatalf("start area not clear at %v", p)
			}
			if a.At(p).Effective() != Empty {
				nonEmpty++
			}
		}
		if got := a.At(Pos{X: 300, Lane: lane}).Effective(); got != FinishLine {
			t.Fatalf("lane %d ends with %v", lane, got)
		}
	}
	if nonEmpty <= 4 {
		t.Fatalf("generated track is empty")
	}
}
