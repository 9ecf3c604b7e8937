package game

const (
	SpeedMin   = 0
	Speed1     = 3
	Speed2     = 6
	Speed3     = 8
	SpeedMax   = 9
	SpeedInit  = 5
	SpeedBoost = 15

	MaxDamage    = 5
	BoostRounds  = 5
	RepairAmount = 2
)

var speedLadder = [...]int{SpeedMin, Speed1, Speed2, Speed3, SpeedMax}

// maxSpeedByDamage is indexed by damage.
var maxSpeedByDamage = [MaxDamage + 1]int{SpeedMax, SpeedMax, Speed3, Speed2, Speed1, SpeedMin}

// ClampDamage saturates damage to [0, MaxDamage].
func ClampDamage(damage int) int {
	return min(max(damage, 0), MaxDamage)
}

// MaxSpeed is the highest non-boost speed attainable at the given damage.
func MaxSpeed(damage int) int {
	return maxSpeedByDamage[ClampDamage(damage)]
}

// BoostSpeed is the boost speed at the given damage. Any damage caps it to
// MaxSpeed.
func BoostSpeed(damage int) int {
	if ClampDamage(damage) == 0 {
		return SpeedBoost
	}
	return MaxSpeed(damage)
}

// NextSpeed moves one rung up the ladder, never past MaxSpeed(damage).
func NextSpeed(speed, damage int) int {
	next := SpeedMax
	for _, s := range speedLadder {
		if s > speed {
			next = s
			break
		}
	}
	return min(next, MaxSpeed(damage))
}

// PrevSpeed moves one rung down the ladder, bottoming out at SpeedMin.
func PrevSpeed(speed int) int {
	for i := len(speedLadder) - 1; i >= 0; i-- {
		if speedLadder[i] < speed {
			return speedLadder[i]
		}
	}
	return SpeedMin
}
