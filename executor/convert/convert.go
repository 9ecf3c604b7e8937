// Package convert decodes round snapshots into game states and encodes
// commands for the game runner.
package convert

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/brensch/overdrive/game"
)

// ErrNoPlayer is returned for snapshots missing either player.
var ErrNoPlayer = errors.New("snapshot has no player")

// Window extents used when a snapshot carries no map.
const (
	ViewBehind = 5
	ViewAhead  = 20
)

type Snapshot struct {
	CurrentRound int         `json:"currentRound"`
	MaxRounds    int         `json:"maxRounds"`
	Player       *Player     `json:"player"`
	Opponent     *Player     `json:"opponent"`
	WorldMap     [][]MapCell `json:"worldMap"`
}

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Player is either competitor. The opponent's powerups, damage and boost
// state are absent for most of a match.
type Player struct {
	ID           int      `json:"id"`
	Position     Position `json:"position"`
	Speed        int      `json:"speed"`
	State        string   `json:"state"`
	Powerups     []string `json:"powerups"`
	Boosting     bool     `json:"boosting"`
	BoostCounter int      `json:"boostCounter"`
	Damage       int      `json:"damage"`
	Score        int      `json:"score"`
}

type MapCell struct {
	Position               Position `json:"position"`
	SurfaceObject          int      `json:"surfaceObject"`
	OccupiedByPlayerID     int      `json:"occupiedByPlayerId"`
	IsOccupiedByCyberTruck bool     `json:"isOccupiedByCyberTruck"`
}

func Decode(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Player == nil || snap.Opponent == nil {
		return nil, ErrNoPlayer
	}
	return &snap, nil
}

func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Finished reports whether our car has crossed the line.
func (s *Snapshot) Finished() bool {
	return s.Player.State == "FINISHED"
}

// OpponentHidden reports whether the opponent's resources were withheld.
func (s *Snapshot) OpponentHidden() bool {
	return s.Opponent.Powerups == nil
}

// ToState reveals the snapshot's cells into track and returns the state
// they describe, windowed to the cells the snapshot covers.
func ToState(snap *Snapshot, track *game.Track) (game.State, error) {
	if snap.Player == nil || snap.Opponent == nil {
		return game.State{}, ErrNoPlayer
	}
	self := ToPlayer(snap.Player)
	minX, maxX := self.X-ViewBehind, self.X+ViewAhead
	seen := false
	for _, row := range snap.WorldMap {
		for _, c := range row {
			p := game.Pos{X: c.Position.X, Lane: c.Position.Y}
			if !track.Contains(p) {
				continue
			}
			cell := game.Cell{Base: game.Block(c.SurfaceObject)}
			if c.IsOccupiedByCyberTruck {
				cell = cell.WithTruck()
			}
			if err := track.Reveal(p, cell); err != nil {
				return game.State{}, err
			}
			if !seen {
				minX, maxX, seen = p.X, p.X, true
			}
			minX = min(minX, p.X)
			maxX = max(maxX, p.X)
		}
	}
	return game.State{
		View: game.NewView(track, minX, maxX),
		Self: self,
		Opp:  ToPlayer(snap.Opponent),
	}, nil
}

func ToPlayer(p *Player) game.Player {
	out := game.Player{
		ID:           p.ID,
		X:            p.Position.X,
		Lane:         p.Position.Y,
		Speed:        p.Speed,
		Boosting:     p.Boosting,
		BoostCounter: p.BoostCounter,
		Damage:       p.Damage,
		Score:        p.Score,
	}
	for _, name := range p.Powerups {
		switch name {
		case "BOOST":
			out.Boosts++
		case "OIL":
			out.Oils++
		case "LIZARD":
			out.Lizards++
		case "TWEET":
			out.Tweets++
		case "EMP":
			out.EMPs++
		}
	}
	return out
}

// FormatCommand renders the line the game runner reads for a round.
func FormatCommand(round int, c game.Command) string {
	return fmt.Sprintf("C;%d;%s", round, c)
}
