// internal/game/pawn.go
package game

import "fmt"

// DefaultMaxPawns is the per-side pawn capacity of the reference setup.
const DefaultMaxPawns = 4

// PlayerSide identifies the owner of a pawn. The zero value NoSide marks an
// empty tile.
type PlayerSide uint8

const (
	NoSide PlayerSide = iota
	Bottom
	Top
)

// Reverse returns the other side. NoSide stays NoSide.
func (p PlayerSide) Reverse() PlayerSide {
	switch p {
	case Bottom:
		return Top
	case Top:
		return Bottom
	}
	return NoSide
}

func (p PlayerSide) String() string {
	switch p {
	case Bottom:
		return "Bottom"
	case Top:
		return "Top"
	}
	return "None"
}

// Pawn is the content of an occupied tile. TableIndex is the pawn's slot in
// its owner's PawnArray.
type Pawn struct {
	Player     PlayerSide
	TableIndex int
}

// Present reports whether p is a real pawn rather than an empty tile.
func (p Pawn) Present() bool { return p.Player != NoSide }

// PawnArray lists the tiles of one side's live pawns. Entries are kept dense:
// removing a pawn moves the last entry into the freed slot.
type PawnArray struct {
	tiles    []TileIndex
	capacity int
}

func NewPawnArray(capacity int) PawnArray {
	return PawnArray{
		tiles:    make([]TileIndex, 0, capacity),
		capacity: capacity,
	}
}

func (a *PawnArray) Count() int { return len(a.tiles) }

func (a *PawnArray) Capacity() int { return a.capacity }

func (a *PawnArray) Full() bool { return len(a.tiles) >= a.capacity }

// At returns the tile held in slot. slot must be below Count().
func (a *PawnArray) At(slot int) TileIndex { return a.tiles[slot] }

// TileIndexes returns a copy of the live entries.
func (a *PawnArray) TileIndexes() []TileIndex {
	out := make([]TileIndex, len(a.tiles))
	copy(out, a.tiles)
	return out
}

// push appends a tile and returns its slot.
func (a *PawnArray) push(i TileIndex) int {
	a.tiles = append(a.tiles, i)
	return len(a.tiles) - 1
}

func (a *PawnArray) set(slot int, i TileIndex) {
	if slot < 0 || slot >= len(a.tiles) {
		panic(fmt.Sprintf("pawn array: slot %d out of range [0,%d)", slot, len(a.tiles)))
	}
	a.tiles[slot] = i
}

// swapRemove drops slot by moving the last entry into it. It returns the tile
// that now occupies slot, and false when slot was the last entry.
func (a *PawnArray) swapRemove(slot int) (moved TileIndex, ok bool) {
	last := len(a.tiles) - 1
	if slot < 0 || slot > last {
		panic(fmt.Sprintf("pawn array: remove slot %d out of range [0,%d)", slot, len(a.tiles)))
	}
	if slot < last {
		a.tiles[slot] = a.tiles[last]
		ok = true
	}
	moved = a.tiles[slot]
	a.tiles = a.tiles[:last]
	return moved, ok
}

func (a PawnArray) clone() PawnArray {
	tiles := make([]TileIndex, len(a.tiles), a.capacity)
	copy(tiles, a.tiles)
	return PawnArray{tiles: tiles, capacity: a.capacity}
}
