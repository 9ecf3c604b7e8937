package rules

import "github.com/brensch/overdrive/game"

// Trajectory is the raw displacement a command produces for one player,
// before obstacles and the other player are accounted for.
type Trajectory struct {
	DX    int
	DY    int
	Speed int
}

func straight(speed int) Trajectory {
	return Trajectory{DX: speed, Speed: speed}
}

// CalcTrajectory returns the uncorrected trajectory of p under c.
func CalcTrajectory(p game.Player, c game.Command) Trajectory {
	switch c.Action {
	case game.Accelerate:
		return straight(game.NextSpeed(p.Speed, p.Damage))
	case game.Decelerate:
		return straight(game.PrevSpeed(p.Speed))
	case game.UseBoost:
		return straight(game.BoostSpeed(p.Damage))
	case game.TurnLeft, game.TurnRight:
		if p.Speed <= 0 {
			return straight(p.Speed)
		}
		dy := 1
		if c.Action == game.TurnLeft {
			dy = -1
		}
		return Trajectory{DX: p.Speed - 1, DY: dy, Speed: p.Speed}
	case game.Fix:
		return Trajectory{Speed: p.Speed}
	}
	return straight(p.Speed)
}

func (t Trajectory) end(p game.Player) game.Pos {
	return game.Pos{X: p.X + t.DX, Lane: p.Lane + t.DY}
}
