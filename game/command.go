package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Action identifies one of the discrete commands a player can issue.
type Action uint8

const (
	Nothing Action = iota
	Accelerate
	Decelerate
	TurnLeft
	TurnRight
	UseBoost
	UseOil
	UseLizard
	UseTweet
	UseEMP
	Fix
)

var actionNames = [...]string{
	Nothing:    "NOTHING",
	Accelerate: "ACCELERATE",
	Decelerate: "DECELERATE",
	TurnLeft:   "TURN_LEFT",
	TurnRight:  "TURN_RIGHT",
	UseBoost:   "USE_BOOST",
	UseOil:     "USE_OIL",
	UseLizard:  "USE_LIZARD",
	UseTweet:   "USE_TWEET",
	UseEMP:     "USE_EMP",
	Fix:        "FIX",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "UNKNOWN"
}

// Command is an action plus the target cell for placement actions. The
// zero value is NOTHING. Commands are comparable and used as map keys.
type Command struct {
	Action Action
	Target Pos
}

var (
	NOP    = Command{Action: Nothing}
	ACCEL  = Command{Action: Accelerate}
	DECEL  = Command{Action: Decelerate}
	LEFT   = Command{Action: TurnLeft}
	RIGHT  = Command{Action: TurnRight}
	BOOST  = Command{Action: UseBoost}
	OIL    = Command{Action: UseOil}
	LIZARD = Command{Action: UseLizard}
	EMP    = Command{Action: UseEMP}
	FIX    = Command{Action: Fix}
)

// Tweet places a cybertruck at target.
func Tweet(target Pos) Command {
	return Command{Action: UseTweet, Target: target}
}

// String renders the command in the form the game runner expects.
func (c Command) String() string {
	if c.Action == UseTweet {
		return fmt.Sprintf("%s %d %d", UseTweet, c.Target.Lane, c.Target.X)
	}
	return c.Action.String()
}

// ParseCommand is the inverse of Command.String.
func ParseCommand(s string) (Command, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}
	for a, name := range actionNames {
		if name != fields[0] {
			continue
		}
		action := Action(a)
		if action != UseTweet {
			if len(fields) != 1 {
				return Command{}, fmt.Errorf("command %s takes no arguments", name)
			}
			return Command{Action: action}, nil
		}
		if len(fields) != 3 {
			return Command{}, fmt.Errorf("command %s wants <lane> <block>, got %q", name, s)
		}
		lane, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("tweet lane: %w", err)
		}
		x, err := strconv.Atoi(fields[2])
		if err != nil {
			return Command{}, fmt.Errorf("tweet block: %w", err)
		}
		return Tweet(Pos{X: x, Lane: lane}), nil
	}
	return Command{}, fmt.Errorf("unknown command %q", fields[0])
}
