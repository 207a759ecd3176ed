package game

import (
	"errors"
	"fmt"

	"github.com/samber/lo"
)

var (
	ErrInvalidCoordinate = errors.New("no tile at coordinate")
	ErrOccupiedTile      = errors.New("tile already occupied")
	ErrInvalidSide       = errors.New("invalid player side")
	ErrPawnLimit         = errors.New("side has no free pawn slot")
	ErrCorruptBoard      = errors.New("board invariant violated")
)

// Placement puts one pawn of Side on Coord during setup.
type Placement struct {
	Coord TileCoord
	Side  PlayerSide
}

// ReferenceSetup is the starting layout of the reference game on the default grid.
var ReferenceSetup = []Placement{
	{TileCoord{3, 0}, Top},
	{TileCoord{4, 0}, Top},
	{TileCoord{5, 0}, Top},
	{TileCoord{4, 1}, Top},

	{TileCoord{3, 3}, Bottom},
	{TileCoord{4, 4}, Bottom},
	{TileCoord{5, 3}, Bottom},
}

// BoardState holds pawn occupancy, the side to move and one PawnArray per
// side. After setup a BoardState is never modified: ApplyMove returns a new
// state, so a board can be shared freely between search branches.
type BoardState struct {
	grid    Grid
	tiles   []Pawn // indexed by TileIndex; zero Pawn means empty
	current PlayerSide
	top     PawnArray
	bottom  PawnArray
}

// NewBoardState creates an empty board where first moves first and each side
// may hold up to maxPawns pawns.
func NewBoardState(grid Grid, first PlayerSide, maxPawns int) *BoardState {
	return &BoardState{
		grid:    grid,
		tiles:   make([]Pawn, grid.TileCount()),
		current: first,
		top:     NewPawnArray(maxPawns),
		bottom:  NewPawnArray(maxPawns),
	}
}

// NewReferenceBoard returns the default grid with ReferenceSetup placed and
// Bottom to move.
func NewReferenceBoard() (*BoardState, error) {
	b := NewBoardState(DefaultGrid(), Bottom, DefaultMaxPawns)
	if err := b.Place(ReferenceSetup); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *BoardState) Grid() Grid { return b.grid }

func (b *BoardState) CurrentPlayer() PlayerSide { return b.current }

func (b *BoardState) MaxPawns() int { return b.top.Capacity() }

func (b *BoardState) PawnCount(side PlayerSide) int {
	if a := b.pawnsOf(side); a != nil {
		return a.Count()
	}
	return 0
}

// PawnTiles returns the tiles of side's live pawns in PawnArray order.
func (b *BoardState) PawnTiles(side PlayerSide) []TileIndex {
	if a := b.pawnsOf(side); a != nil {
		return a.TileIndexes()
	}
	return nil
}

// PawnAt returns the pawn on tile i, if any.
func (b *BoardState) PawnAt(i TileIndex) (Pawn, bool) {
	if !b.grid.Contains(i) {
		return Pawn{}, false
	}
	p := b.tiles[i]
	return p, p.Present()
}

func (b *BoardState) pawnsOf(side PlayerSide) *PawnArray {
	switch side {
	case Top:
		return &b.top
	case Bottom:
		return &b.bottom
	}
	return nil
}

// AddPawn places a pawn of side at c. Used only while setting a board up.
func (b *BoardState) AddPawn(c TileCoord, side PlayerSide) error {
	idx, ok := b.grid.IndexOf(c)
	if !ok {
		return fmt.Errorf("add pawn at %v: %w", c, ErrInvalidCoordinate)
	}
	if b.tiles[idx].Present() {
		return fmt.Errorf("add pawn at %v: %w", c, ErrOccupiedTile)
	}
	arr := b.pawnsOf(side)
	if arr == nil {
		return fmt.Errorf("add pawn at %v: %w", c, ErrInvalidSide)
	}
	if arr.Full() {
		return fmt.Errorf("add %v pawn at %v: %w", side, c, ErrPawnLimit)
	}
	slot := arr.push(idx)
	b.tiles[idx] = Pawn{Player: side, TableIndex: slot}
	return nil
}

// Place adds every placement in order and stops at the first failure.
func (b *BoardState) Place(placements []Placement) error {
	for _, p := range placements {
		if err := b.AddPawn(p.Coord, p.Side); err != nil {
			return err
		}
	}
	return nil
}

// PossibleDestinations returns the raw adjacency of tile i.
func (b *BoardState) PossibleDestinations(i TileIndex) []TileIndex {
	return b.grid.Destinations(i)
}

// LegalMoves returns the destinations of tile i that side may move to:
// empty tiles and tiles holding an enemy pawn.
func (b *BoardState) LegalMoves(i TileIndex, side PlayerSide) []TileIndex {
	return lo.Filter(b.grid.Destinations(i), func(dst TileIndex, _ int) bool {
		return b.tiles[dst].Player != side
	})
}

// Clone returns a deep copy.
func (b *BoardState) Clone() *BoardState {
	tiles := make([]Pawn, len(b.tiles))
	copy(tiles, b.tiles)
	return &BoardState{
		grid:    b.grid,
		tiles:   tiles,
		current: b.current,
		top:     b.top.clone(),
		bottom:  b.bottom.clone(),
	}
}

// ApplyMove returns the board after moving the pawn on source to destination,
// capturing whatever stands there, and passing the turn. The receiver is left
// untouched.
//
// Moving from an empty tile or onto the same tile is a caller bug and panics.
func (b *BoardState) ApplyMove(source, destination TileIndex) *BoardState {
	if source == destination {
		panic(fmt.Sprintf("apply move: source and destination are both %d", source))
	}
	if !b.tiles[source].Present() {
		panic(fmt.Sprintf("apply move: no pawn on source tile %d", source))
	}
	nb := b.Clone()

	// 1) capture
	if captured := nb.tiles[destination]; captured.Present() {
		arr := nb.pawnsOf(captured.Player)
		if moved, ok := arr.swapRemove(captured.TableIndex); ok {
			nb.tiles[moved].TableIndex = captured.TableIndex
		}
		nb.tiles[destination] = Pawn{}
	}

	// 2) move; read the pawn after the capture so a refreshed TableIndex is kept
	pawn := nb.tiles[source]
	nb.tiles[destination] = pawn
	nb.tiles[source] = Pawn{}

	// 3) point the mover's slot at its new tile
	nb.pawnsOf(pawn.Player).set(pawn.TableIndex, destination)

	// 4) next player
	nb.current = nb.current.Reverse()
	return nb
}

// Winner reports the side that won, if one side has no pawns left.
func (b *BoardState) Winner() (PlayerSide, bool) {
	switch {
	case b.bottom.Count() == 0 && b.top.Count() > 0:
		return Top, true
	case b.top.Count() == 0 && b.bottom.Count() > 0:
		return Bottom, true
	}
	return NoSide, false
}

// Validate checks that the tile array and both PawnArrays agree.
func (b *BoardState) Validate() error {
	if len(b.tiles) != b.grid.TileCount() {
		return fmt.Errorf("%w: %d tiles for a grid of %d", ErrCorruptBoard, len(b.tiles), b.grid.TileCount())
	}
	live := map[PlayerSide]int{}
	for i, p := range b.tiles {
		if !p.Present() {
			continue
		}
		arr := b.pawnsOf(p.Player)
		if arr == nil {
			return fmt.Errorf("%w: tile %d holds a pawn of side %v", ErrCorruptBoard, i, p.Player)
		}
		if p.TableIndex < 0 || p.TableIndex >= arr.Count() {
			return fmt.Errorf("%w: tile %d has table index %d, %v has %d pawns",
				ErrCorruptBoard, i, p.TableIndex, p.Player, arr.Count())
		}
		if arr.At(p.TableIndex) != TileIndex(i) {
			return fmt.Errorf("%w: tile %d has slot %d but slot holds tile %d",
				ErrCorruptBoard, i, p.TableIndex, arr.At(p.TableIndex))
		}
		live[p.Player]++
	}
	for _, side := range []PlayerSide{Top, Bottom} {
		arr := b.pawnsOf(side)
		if arr.Count() != live[side] {
			return fmt.Errorf("%w: %v count is %d but %d pawns are on the board",
				ErrCorruptBoard, side, arr.Count(), live[side])
		}
		if arr.Count() > arr.Capacity() {
			return fmt.Errorf("%w: %v holds %d pawns, capacity %d",
				ErrCorruptBoard, side, arr.Count(), arr.Capacity())
		}
	}
	return nil
}
