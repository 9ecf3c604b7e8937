package game

// Block is the terrain or obstacle tag of one track cell. Values match the
// surfaceObject integers of the round snapshot.
type Block uint8

const (
	Empty        Block = 0
	Mud          Block = 1
	OilSpill     Block = 2
	OilPickup    Block = 3
	FinishLine   Block = 4
	BoostPickup  Block = 5
	Wall         Block = 6
	LizardPickup Block = 7
	TweetPickup  Block = 8
	EMPPickup    Block = 9
	Cybertruck   Block = 100
)

var blockNames = map[Block]string{
	Empty:        "EMPTY",
	Mud:          "MUD",
	OilSpill:     "OIL_SPILL",
	OilPickup:    "OIL_POWER",
	FinishLine:   "FINISH_LINE",
	BoostPickup:  "BOOST",
	Wall:         "WALL",
	LizardPickup: "LIZARD",
	TweetPickup:  "TWEET",
	EMPPickup:    "EMP",
	Cybertruck:   "CYBERTRUCK",
}

func (b Block) String() string {
	if name, ok := blockNames[b]; ok {
		return name
	}
	return "UNKNOWN"
}

// Hazard reports whether driving over the block damages the player.
func (b Block) Hazard() bool {
	switch b {
	case Mud, OilSpill, Wall, Cybertruck:
		return true
	}
	return false
}

// Pickup reports whether the block grants a powerup when driven over.
func (b Block) Pickup() bool {
	switch b {
	case OilPickup, BoostPickup, LizardPickup, TweetPickup, EMPPickup:
		return true
	}
	return false
}

// Glyph is the single character used by board dumps.
func (b Block) Glyph() byte {
	switch b {
	case Mud:
		return 'm'
	case OilSpill:
		return 'o'
	case OilPickup:
		return 'O'
	case FinishLine:
		return '|'
	case BoostPickup:
		return 'B'
	case Wall:
		return '#'
	case LizardPickup:
		return 'L'
	case TweetPickup:
		return 'T'
	case EMPPickup:
		return 'E'
	case Cybertruck:
		return 'C'
	}
	return '.'
}

// Cell is an underlying terrain tag plus an optional overlay. Only the
// cybertruck is ever an overlay; destroying it reverts to the base.
type Cell struct {
	Base    Block
	Overlay Block
}

// Effective returns the overlay if present, otherwise the base.
func (c Cell) Effective() Block {
	if c.Overlay != Empty {
		return c.Overlay
	}
	return c.Base
}

// Same compares the effective tags of two cells.
func (c Cell) Same(o Cell) bool {
	return c.Effective() == o.Effective()
}

// WithoutOverlay drops the overlay.
func (c Cell) WithoutOverlay() Cell {
	return Cell{Base: c.Base}
}

// WithTruck places a cybertruck on top of the cell.
func (c Cell) WithTruck() Cell {
	return Cell{Base: c.Base, Overlay: Cybertruck}
}
