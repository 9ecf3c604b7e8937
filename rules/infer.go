package rules

import "github.com/brensch/overdrive/game"

// CalcOppCmd works out which command the opponent most likely issued between
// two observed states, given the command we issued. It returns false when
// nothing explains the move; callers treat that as unknown.
func CalcOppCmd(self game.Command, from, to game.State) (game.Command, bool) {
	return CalcOppCmdWithSettings(self, from, to, DefaultSettings)
}

func CalcOppCmdWithSettings(self game.Command, from, to game.State, settings Settings) (game.Command, bool) {
	if c, ok := matchOpponent(self, from, to, settings); ok {
		return c, true
	}
	return decodeOpponent(from, to)
}

// matchOpponent replays every legal opponent command. A full match beats a
// match on the snapshot-visible fields alone, since the opponent's
// resources are not always visible.
func matchOpponent(self game.Command, from, to game.State, settings Settings) (game.Command, bool) {
	var partial game.Command
	found := false
	for _, c := range ValidActions(from.Opp, from.View.Lanes()) {
		next := NextStateWithSettings(from, self, c, settings)
		if next.Opp == to.Opp {
			return c, true
		}
		if !found && next.Opp.Kinematics(to.Opp) {
			partial, found = c, true
		}
	}
	return partial, found
}

// decodeOpponent guesses from position and speed deltas. It covers commands
// the replay cannot reproduce, such as offensive ones or moves made outside
// what we could see.
func decodeOpponent(from, to game.State) (game.Command, bool) {
	prev, next := from.Opp, to.Opp
	dx := next.X - prev.X
	dy := next.Lane - prev.Lane

	switch {
	case dy < 0:
		return game.LEFT, true
	case dy > 0:
		return game.RIGHT, true
	}
	if dx == 0 && next.Speed == prev.Speed {
		return game.FIX, true
	}

	// An opponent that ended right behind us was clamped, so its
	// displacement says nothing about its speed.
	stuck := to.Self.Lane == next.Lane && next.X == to.Self.X-1
	if stuck {
		return game.Command{}, false
	}
	switch {
	case dx == game.BoostSpeed(prev.Damage) && dx > prev.Speed:
		return game.BOOST, true
	case dx == game.NextSpeed(prev.Speed, prev.Damage) && dx > prev.Speed:
		return game.ACCEL, true
	case dx == prev.Speed:
		return game.NOP, true
	case dx > 0 && dx < prev.Speed:
		if dx <= game.PrevSpeed(prev.Speed) {
			return game.DECEL, true
		}
		return game.NOP, true
	}
	return game.Command{}, false
}
