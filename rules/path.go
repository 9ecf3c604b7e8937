package rules

import "github.com/brensch/overdrive/game"

const (
	pickupScore  = 4
	powerupScore = 4
	truckScore   = -7
	truckDamage  = 2
)

// PathMods is what a player picks up, loses and hits while walking its
// trajectory. Trajectory is the walked trajectory after speed effects and
// any cybertruck stop.
type PathMods struct {
	Trajectory Trajectory

	Damage int
	Score  int

	Boosts  int
	Oils    int
	Lizards int
	Tweets  int
	EMPs    int

	Truck    game.Pos
	HitTruck bool
}

// span returns the x range and lane the trajectory walks. The range is empty
// for a player that does not move.
func span(p game.Player, t Trajectory, phasing bool) (from, to, lane int) {
	lane = p.Lane + t.DY
	to = p.X + t.DX
	if t.DX == 0 && t.DY == 0 {
		return to + 1, to, lane
	}
	from = p.X + 1
	if t.DY != 0 {
		from = p.X
	}
	if phasing {
		from = to
	}
	return from, to, lane
}

// firstTruck finds the first cybertruck on the walk, ignoring trucks already
// consumed this turn.
func firstTruck(v game.View, p game.Player, t Trajectory, phasing bool, consumed []game.Pos) (game.Pos, bool) {
	from, to, lane := span(p, t, phasing)
	for x := from; x <= to && x <= v.Length(); x++ {
		pos := game.Pos{X: x, Lane: lane}
		if v.At(pos).Effective() == game.Cybertruck && !containsPos(consumed, pos) {
			return pos, true
		}
	}
	return game.Pos{}, false
}

func stopBefore(p game.Player, t Trajectory, truck game.Pos) Trajectory {
	t.DX = truck.X - p.X - 1
	t.Speed = game.Speed1
	return t
}

// CalcPathMods walks the trajectory and applies every block effect in
// order. A cybertruck stops the walk one cell before it. Trucks listed in
// consumed are treated as already destroyed.
func CalcPathMods(v game.View, p game.Player, t Trajectory, phasing bool, consumed []game.Pos) PathMods {
	mods := PathMods{Trajectory: t}
	from, to, lane := span(p, t, phasing)
	for x := from; x <= to && x <= v.Length(); x++ {
		pos := game.Pos{X: x, Lane: lane}
		cell := v.At(pos)
		if containsPos(consumed, pos) {
			cell = cell.WithoutOverlay()
		}
		switch b := cell.Effective(); b {
		case game.Mud, game.OilSpill:
			mods.Trajectory.Speed = max(game.PrevSpeed(mods.Trajectory.Speed), game.Speed1)
			mods.Damage++
			mods.Score += hazardScore(b)
		case game.Wall:
			mods.Trajectory.Speed = game.Speed1
			mods.Damage += 2
			mods.Score += hazardScore(b)
		case game.Cybertruck:
			mods.Trajectory = stopBefore(p, mods.Trajectory, pos)
			mods.Damage += truckDamage
			mods.Score += truckScore
			mods.Truck, mods.HitTruck = pos, true
			return mods
		case game.OilPickup:
			mods.Oils++
			mods.Score += pickupScore
		case game.BoostPickup:
			mods.Boosts++
			mods.Score += pickupScore
		case game.LizardPickup:
			mods.Lizards++
			mods.Score += pickupScore
		case game.TweetPickup:
			mods.Tweets++
			mods.Score += pickupScore
		case game.EMPPickup:
			mods.EMPs++
			mods.Score += pickupScore
		}
	}
	return mods
}

func hazardScore(b game.Block) int {
	switch b {
	case game.Mud:
		return -3
	case game.OilSpill:
		return -4
	case game.Wall:
		return -5
	case game.Cybertruck:
		return truckScore
	}
	return 0
}

func containsPos(ps []game.Pos, p game.Pos) bool {
	for _, q := range ps {
		if q == p {
			return true
		}
	}
	return false
}
