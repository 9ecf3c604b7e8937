package rules

import (
	"github.com/brensch/overdrive/game"
)

// Settings holds the rule choices that the game leaves open.
type Settings struct {
	LizardTie LizardTiePolicy
}

// DefaultSettings lets two phasing players share a cell.
var DefaultSettings = Settings{LizardTie: TieMerge}

// ValidActions returns the commands p can issue without relying on
// resources it does not hold. The order is the search's tie-break order.
func ValidActions(p game.Player, lanes int) []game.Command {
	valid := make([]game.Command, 0, 8)
	moving := p.Speed > 0
	if moving {
		valid = append(valid, game.NOP)
	}
	if p.Speed < game.MaxSpeed(p.Damage) {
		valid = append(valid, game.ACCEL)
	}
	if moving {
		valid = append(valid, game.DECEL)
		if p.Lane > 1 {
			valid = append(valid, game.LEFT)
		}
		if p.Lane < lanes {
			valid = append(valid, game.RIGHT)
		}
	}
	if p.Boosts > 0 && (!p.Boosting || p.BoostCounter == 1) {
		valid = append(valid, game.BOOST)
	}
	if p.Lizards > 0 {
		valid = append(valid, game.LIZARD)
	}
	if p.Damage > 0 {
		valid = append(valid, game.FIX)
	}
	return valid
}

// SelfActions is ValidActions for the state's own player.
func SelfActions(s game.State) []game.Command {
	return ValidActions(s.Self, s.View.Lanes())
}

// NextState advances s by one round with DefaultSettings.
func NextState(s game.State, self, opp game.Command) game.State {
	return NextStateWithSettings(s, self, opp, DefaultSettings)
}

type placement struct {
	pos   game.Pos
	truck bool
}

// NextStateWithSettings advances s by one round. Both commands are expected
// to come from ValidActions or the offensive commands the player can afford;
// anything else saturates rather than fails. The input state is not modified
// and nothing is committed to the shared track.
func NextStateWithSettings(s game.State, self, opp game.Command, settings Settings) game.State {
	out := s.Clone()
	players := [2]*game.Player{&out.Self, &out.Opp}
	cmds := [2]game.Command{self, opp}
	var trajs [2]Trajectory
	var phasing [2]bool
	var placements []placement

	// 1. Boost countdown.
	for _, p := range players {
		if !p.Boosting {
			continue
		}
		p.BoostCounter--
		if p.BoostCounter <= 0 {
			p.Boosting = false
			p.BoostCounter = 0
			p.Speed = game.MaxSpeed(p.Damage)
		}
	}

	// 2. Raw trajectories.
	for i, p := range players {
		trajs[i] = CalcTrajectory(*p, cmds[i])
	}

	// 3. Repair.
	for i, p := range players {
		if cmds[i].Action == game.Fix {
			p.Damage = max(p.Damage-game.RepairAmount, 0)
			trajs[i] = Trajectory{Speed: p.Speed}
		}
	}

	// 4. Spend powerups.
	var stunned [2]bool
	for i, p := range players {
		other := players[1-i]
		switch cmds[i].Action {
		case game.UseBoost:
			if p.Boosts <= 0 {
				continue
			}
			p.Boosts--
			p.Boosting = true
			p.BoostCounter = game.BoostRounds
			trajs[i] = straight(game.BoostSpeed(p.Damage))
		case game.UseLizard:
			if p.Lizards <= 0 {
				continue
			}
			p.Lizards--
			phasing[i] = true
		case game.UseOil:
			if p.Oils <= 0 {
				continue
			}
			p.Oils--
			placements = append(placements, placement{pos: p.Pos()})
		case game.UseTweet:
			if p.Tweets <= 0 {
				continue
			}
			p.Tweets--
			placements = append(placements, placement{pos: cmds[i].Target, truck: true})
		case game.UseEMP:
			if p.EMPs <= 0 {
				continue
			}
			p.EMPs--
			if other.X > p.X && abs(other.Lane-p.Lane) <= 1 {
				stunned[1-i] = true
			}
		default:
			continue
		}
		p.Score += powerupScore
	}
	for i := range trajs {
		if stunned[i] {
			trajs[i] = Trajectory{Speed: min(trajs[i].Speed, game.Speed1)}
		}
	}

	// A boost survives only if nothing below slows the car.
	var boostSpeed [2]int
	for i, p := range players {
		boostSpeed[i] = game.BoostSpeed(p.Damage)
	}

	// 5. Cybertrucks are resolved per player before the players meet.
	var consumed []game.Pos
	var truckHit [2]bool
	for i, p := range players {
		if pos, ok := firstTruck(out.View, *p, trajs[i], phasing[i], nil); ok {
			trajs[i] = stopBefore(*p, trajs[i], pos)
			truckHit[i] = true
			consumed = appendUnique(consumed, pos)
		}
	}

	// 6. Players against each other.
	trajs[0], trajs[1] = ResolveCollisions(*players[0], *players[1], trajs[0], trajs[1], phasing[0], phasing[1], settings.LizardTie)

	// 7. Remaining path effects.
	var mods [2]PathMods
	for i, p := range players {
		mods[i] = CalcPathMods(out.View, *p, trajs[i], phasing[i], consumed)
		if mods[i].HitTruck {
			consumed = appendUnique(consumed, mods[i].Truck)
		}
		if truckHit[i] {
			mods[i].Damage += truckDamage
			mods[i].Score += truckScore
		}
	}

	// 8. Apply.
	for i, p := range players {
		m := mods[i]
		p.X += m.Trajectory.DX
		p.Lane += m.Trajectory.DY
		p.Speed = max(m.Trajectory.Speed, game.SpeedMin)
		p.Damage = game.ClampDamage(p.Damage + m.Damage)
		p.Score += m.Score
		p.Boosts += m.Boosts
		p.Oils += m.Oils
		p.Lizards += m.Lizards
		p.Tweets += m.Tweets
		p.EMPs += m.EMPs
	}

	// 9. A broken boost ends.
	for i, p := range players {
		if p.Boosting && p.Speed != boostSpeed[i] {
			p.Boosting = false
			p.BoostCounter = 0
		}
	}

	// 10. Scratch view: destroyed trucks, then new oil and trucks.
	for _, pos := range consumed {
		_ = out.View.Set(pos, out.View.At(pos).WithoutOverlay())
	}
	for _, pl := range placements {
		cell := out.View.At(pl.pos)
		if pl.truck {
			cell = cell.WithTruck()
		} else {
			cell.Base = game.OilSpill
		}
		// Off-track targets are dropped.
		_ = out.View.Set(pl.pos, cell)
	}

	// 11. Damage caps speed.
	for _, p := range players {
		if !p.Boosting {
			p.Speed = min(p.Speed, game.MaxSpeed(p.Damage))
		}
	}
	return out
}

func appendUnique(ps []game.Pos, p game.Pos) []game.Pos {
	if containsPos(ps, p) {
		return ps
	}
	return append(ps, p)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
