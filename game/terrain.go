// terrain.go generates random tracks for local matches.

package game

import "math/rand"

// TerrainSettings controls the per-cell chance (in thousandths) of each block.
type TerrainSettings struct {
	Mud    int
	Wall   int
	Oil    int
	Boost  int
	Lizard int
	Tweet  int
	EMP    int
	// StartClear keeps the first cells of every lane empty.
	StartClear int
}

// DefaultTerrainSettings roughly matches the density of official maps.
var DefaultTerrainSettings = TerrainSettings{
	Mud:        60,
	Wall:       12,
	Oil:        15,
	Boost:      12,
	Lizard:     12,
	Tweet:      8,
	EMP:        8,
	StartClear: 5,
}

// GenerateTrack fills a new track from rng. The last column is the finish
// line.
func GenerateTrack(length, lanes int, rng *rand.Rand, settings TerrainSettings) *Track {
	t := NewTrack(length, lanes)
	table := []struct {
		block  Block
		chance int
	}{
		{Mud, settings.Mud},
		{Wall, settings.Wall},
		{OilPickup, settings.Oil},
		{BoostPickup, settings.Boost},
		{LizardPickup, settings.Lizard},
		{TweetPickup, settings.Tweet},
		{EMPPickup, settings.EMP},
	}
	for lane := 1; lane <= lanes; lane++ {
		for x := settings.StartClear + 1; x < length; x++ {
			roll := rng.Intn(1000)
			for _, e := range table {
				if roll < e.chance {
					t.cells[t.index(Pos{X: x, Lane: lane})] = Cell{Base: e.block}
					break
				}
				roll -= e.chance
			}
		}
		t.cells[t.index(Pos{X: length, Lane: lane})] = Cell{Base: FinishLine}
	}
	return t
}
