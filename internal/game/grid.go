// internal/game/grid.go
package game

import (
	"errors"
	"fmt"
)

// DefaultGridSide is the grid side used by the reference board (41 tiles).
const DefaultGridSide = 4

var ErrInvalidGridSide = errors.New("grid side must be at least 1")

// TileShape tells whether a tile is a square or an octagon.
type TileShape uint8

const (
	Quad TileShape = iota
	Octo
)

func (s TileShape) String() string {
	if s == Octo {
		return "Octo"
	}
	return "Quad"
}

// TileCoord is a 2-D board coordinate. Octo tiles sit on odd x, Quad tiles on even x.
type TileCoord struct {
	X, Y int
}

func (c TileCoord) Add(o TileCoord) TileCoord {
	return TileCoord{c.X + o.X, c.Y + o.Y}
}

func (c TileCoord) String() string {
	return fmt.Sprintf("[%d,%d]", c.X, c.Y)
}

// TileIndex is the packed position of a tile, in [0, Grid.TileCount()).
type TileIndex int

// Offsets reached from a Quad tile: both lateral octagons and the two
// octagons of the row above.
var quadDirs = []TileCoord{
	{+1, 0},
	{-1, 0},
	{+1, -1},
	{-1, -1},
}

// Offsets reached from an Octo tile: the four neighbouring octagons first,
// then the four squares at its corners.
var octoDirs = []TileCoord{
	{+2, 0},
	{-2, 0},
	{0, +1},
	{0, -1},
	{+1, 0},
	{-1, 0},
	{+1, +1},
	{-1, +1},
}

// Grid describes a board of side S: S full rows of 2S+1 alternating
// Quad/Octo tiles, capped by one row of S+1 Quad tiles.
//
// Full rows pack one index per unit of x. The capping row only has tiles on
// even x, so it packs x/2 and the index space has no holes.
type Grid struct {
	side int
}

// NewGrid returns a grid of the given side.
func NewGrid(side int) (Grid, error) {
	if side < 1 {
		return Grid{}, fmt.Errorf("new grid %d: %w", side, ErrInvalidGridSide)
	}
	return Grid{side: side}, nil
}

// DefaultGrid returns the reference grid.
func DefaultGrid() Grid {
	return Grid{side: DefaultGridSide}
}

func (g Grid) Side() int { return g.side }

// RowWidth is the number of x positions on a row (2S+1).
func (g Grid) RowWidth() int { return 2*g.side + 1 }

// Rows is the number of rows including the capping row (S+1).
func (g Grid) Rows() int { return g.side + 1 }

// TileCount returns (2S+1)·S + S + 1.
func (g Grid) TileCount() int { return g.RowWidth()*g.side + g.side + 1 }

func (g Grid) lastRow() int { return g.side }

// InBounds reports whether a tile exists at c.
func (g Grid) InBounds(c TileCoord) bool {
	if c.X < 0 || c.Y < 0 || c.X >= g.RowWidth() || c.Y >= g.Rows() {
		return false
	}
	return c.Y < g.lastRow() || c.X%2 == 0
}

// IndexOf maps a coordinate to its tile index. ok is false when no tile
// exists there; this is an ordinary outcome, not an error.
func (g Grid) IndexOf(c TileCoord) (idx TileIndex, ok bool) {
	if !g.InBounds(c) {
		return 0, false
	}
	return g.IndexOfUnchecked(c), true
}

// IndexOfUnchecked is IndexOf without validation. c must be a valid tile.
func (g Grid) IndexOfUnchecked(c TileCoord) TileIndex {
	if c.Y < g.lastRow() {
		return TileIndex(c.Y*g.RowWidth() + c.X)
	}
	return TileIndex(c.Y*g.RowWidth() + c.X/2)
}

// CoordOf is the inverse of IndexOf.
func (g Grid) CoordOf(i TileIndex) TileCoord {
	w := g.RowWidth()
	c := TileCoord{X: int(i) % w, Y: int(i) / w}
	if c.Y == g.lastRow() {
		c.X *= 2
	}
	return c
}

// Contains reports whether i is a valid tile index.
func (g Grid) Contains(i TileIndex) bool {
	return i >= 0 && int(i) < g.TileCount()
}

func (g Grid) ShapeOf(c TileCoord) TileShape {
	if c.Y == g.lastRow() || c.X%2 == 0 {
		return Quad
	}
	return Octo
}

func (g Grid) ShapeOfIndex(i TileIndex) TileShape {
	return g.ShapeOf(g.CoordOf(i))
}

// Destinations returns the tiles adjacent to i, ignoring occupancy.
// Candidates that fall off the board are dropped.
func (g Grid) Destinations(i TileIndex) []TileIndex {
	c := g.CoordOf(i)
	dirs := quadDirs
	if g.ShapeOf(c) == Octo {
		dirs = octoDirs
	}
	result := make([]TileIndex, 0, len(dirs))
	for _, d := range dirs {
		if idx, ok := g.IndexOf(c.Add(d)); ok {
			result = append(result, idx)
		}
	}
	return result
}

// Indexes returns every tile index in ascending order.
func (g Grid) Indexes() []TileIndex {
	out := make([]TileIndex, g.TileCount())
	for i := range out {
		out[i] = TileIndex(i)
	}
	return out
}
