package game

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/zeebo/xxh3"
)

// ErrOutOfBounds is returned when writing a cell outside the track.
var ErrOutOfBounds = errors.New("position outside track")

// Pos is a track coordinate. Both axes are 1-indexed.
type Pos struct {
	X    int
	Lane int
}

// Track is the shared ground-truth grid. It is written only when terrain is
// revealed or a real turn is committed; search reads it through a View.
type Track struct {
	length int
	lanes  int
	cells  []Cell
}

func NewTrack(length, lanes int) *Track {
	return &Track{
		length: length,
		lanes:  lanes,
		cells:  make([]Cell, length*lanes),
	}
}

func (t *Track) Length() int { return t.length }
func (t *Track) Lanes() int  { return t.lanes }

// Contains reports whether p addresses a cell of the track.
func (t *Track) Contains(p Pos) bool {
	return p.X >= 1 && p.X <= t.length && p.Lane >= 1 && p.Lane <= t.lanes
}

func (t *Track) index(p Pos) int {
	return (p.Lane-1)*t.length + (p.X - 1)
}

// At returns the cell at p. Positions off the track read as empty.
func (t *Track) At(p Pos) Cell {
	if !t.Contains(p) {
		return Cell{}
	}
	return t.cells[t.index(p)]
}

// Reveal records a cell observed in a snapshot.
func (t *Track) Reveal(p Pos, c Cell) error {
	if !t.Contains(p) {
		return fmt.Errorf("reveal %v: %w", p, ErrOutOfBounds)
	}
	t.cells[t.index(p)] = c
	return nil
}

type override struct {
	pos  Pos
	cell Cell
}

// View is a window onto a Track plus sparse scratch overrides. Copying a
// View is cheap: the override slice is shared and every write reallocates,
// so copies never observe each other's writes.
type View struct {
	track     *Track
	MinX      int
	MaxX      int
	overrides []override
}

func NewView(t *Track, minX, maxX int) View {
	return View{
		track: t,
		MinX:  max(minX, 1),
		MaxX:  min(maxX, t.length),
	}
}

func (v View) Track() *Track { return v.track }
func (v View) Lanes() int    { return v.track.lanes }
func (v View) Length() int   { return v.track.length }

// At reads through the overrides, newest first, then the shared track.
func (v View) At(p Pos) Cell {
	for i := len(v.overrides) - 1; i >= 0; i-- {
		if v.overrides[i].pos == p {
			return v.overrides[i].cell
		}
	}
	return v.track.At(p)
}

// Set shadows the cell at p. The window is never changed.
func (v *View) Set(p Pos, c Cell) error {
	if !v.track.Contains(p) {
		return fmt.Errorf("set %v: %w", p, ErrOutOfBounds)
	}
	n := len(v.overrides)
	v.overrides = append(v.overrides[:n:n], override{pos: p, cell: c})
	return nil
}

// Pending is the number of scratch writes not yet committed.
func (v View) Pending() int { return len(v.overrides) }

// Commit writes the overrides into the shared track and clears them.
func (v *View) Commit() {
	for _, o := range v.overrides {
		v.track.cells[v.track.index(o.pos)] = o.cell
	}
	v.overrides = nil
}

// Discard drops the overrides without touching the shared track.
func (v *View) Discard() {
	v.overrides = nil
}

// MoveWindow shifts the window by toX-fromX, clamped to the track.
func (v *View) MoveWindow(fromX, toX int) {
	d := toX - fromX
	v.MinX = max(v.MinX+d, 1)
	v.MaxX = min(v.MaxX+d, v.track.length)
}

// ViewKey identifies the scratch contents and window of a view.
type ViewKey struct {
	MinX   int
	MaxX   int
	Digest uint64
}

// Key digests the overrides. Views with no overrides share digest 0.
func (v View) Key() ViewKey {
	k := ViewKey{MinX: v.MinX, MaxX: v.MaxX}
	if len(v.overrides) == 0 {
		return k
	}
	buf := make([]byte, 0, len(v.overrides)*10)
	for _, o := range v.overrides {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(o.pos.X))
		buf = append(buf, byte(o.pos.Lane), byte(o.cell.Base), byte(o.cell.Overlay))
	}
	k.Digest = xxh3.Hash(buf)
	return k
}
