// Package layout maps board tiles to screen space and back. It only does
// geometry, so it can be used and tested without a window.
package layout

import (
	"math"
	"strconv"

	"octochess_go/internal/game"
)

type Point struct {
	X, Y float32
}

// Layout places a grid on screen. Scale is the distance in pixels between a
// square and its neighbouring octagon; OctoRatio (0..1) sets how much of an
// octagon's side is cut to make room for the squares.
type Layout struct {
	OriginX, OriginY float32
	Scale            float32
	OctoRatio        float32
}

// Default matches the reference window: the board starts at (120,120) with
// 60 px tiles.
func Default() Layout {
	return Layout{OriginX: 120, OriginY: 120, Scale: 60, OctoRatio: 0.3}
}

// Fit returns the layout for g in a width×height window. Tiles keep the
// default size while the board fits; larger grids are scaled down. Two tile
// steps are left above and left of the board for the HUD and row numbers,
// and room below and right for the column letters.
func Fit(g game.Grid, width, height float32) Layout {
	l := Default()
	across := float32(g.RowWidth()) + 2.5
	down := 2*float32(g.Rows()) + 2
	l.Scale = min(l.Scale, width/across, height/down)
	l.OriginX, l.OriginY = 2*l.Scale, 2*l.Scale
	return l
}

// relCenter is the tile centre relative to the origin. Squares sit on the
// lattice of step 2·Scale; octagons are offset by half a step on both axes.
func (l Layout) relCenter(c game.TileCoord) Point {
	s := l.Scale
	p := Point{X: float32(c.X) * s, Y: float32(c.Y) * 2 * s}
	if c.X%2 == 1 {
		p.Y += s
	}
	return p
}

func (l Layout) TileCenter(g game.Grid, i game.TileIndex) Point {
	p := l.relCenter(g.CoordOf(i))
	return Point{X: p.X + l.OriginX, Y: p.Y + l.OriginY}
}

// TilePolygon returns the outline of tile i in screen space: 8 vertices for
// an octagon, 4 for a square. inset shrinks the outline, which is how the
// border of a tile is drawn.
func (l Layout) TilePolygon(g game.Grid, i game.TileIndex, inset float32) []Point {
	c := g.CoordOf(i)
	return l.polygon(g.ShapeOf(c), l.TileCenter(g, i), inset)
}

func (l Layout) polygon(shape game.TileShape, at Point, inset float32) []Point {
	var rel []Point
	if shape == game.Octo {
		size := l.Scale - inset
		half := l.OctoRatio * size
		rel = []Point{
			{size, half}, {half, size}, {-half, size}, {-size, half},
			{-size, -half}, {-half, -size}, {half, -size}, {size, -half},
		}
	} else {
		size := l.Scale*(1-l.OctoRatio) - inset
		rel = []Point{{0, -size}, {size, 0}, {0, size}, {-size, 0}}
	}
	for k := range rel {
		rel[k].X += at.X
		rel[k].Y += at.Y
	}
	return rel
}

// Bounds returns the screen rectangle that holds every tile, with half a
// tile of margin around the outer centres.
func (l Layout) Bounds(g game.Grid) (x, y, w, h float32) {
	side := float32(g.RowWidth()+1) * l.Scale
	return l.OriginX - l.Scale, l.OriginY - l.Scale, side, side
}

// TileAt finds the tile under the screen point (px, py). Only the tiles of
// the lattice cell holding the point and its lower neighbours can contain it,
// so at most five polygons are tested.
func (l Layout) TileAt(g game.Grid, px, py float32) (game.TileIndex, bool) {
	bx, by, bw, bh := l.Bounds(g)
	if px < bx || py < by || px > bx+bw || py > by+bh {
		return 0, false
	}

	rx, ry := px-l.OriginX, py-l.OriginY
	cx := int(math.Floor(float64(rx / l.Scale / 2)))
	cy := int(math.Floor(float64(ry / l.Scale / 2)))
	candidates := [...]game.TileCoord{
		{X: cx * 2, Y: cy},
		{X: cx*2 + 1, Y: cy},
		{X: cx*2 + 2, Y: cy},
		{X: cx * 2, Y: cy + 1},
		{X: cx*2 + 2, Y: cy + 1},
	}
	pt := Point{X: px, Y: py}
	for _, c := range candidates {
		i, ok := g.IndexOf(c)
		if !ok {
			continue
		}
		if Contains(l.TilePolygon(g, i, 0), pt) {
			return i, true
		}
	}
	return 0, false
}

// Contains is the even-odd point-in-polygon test.
func Contains(poly []Point, p Point) bool {
	inside := false
	j := len(poly) - 1
	for i := range poly {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Label is a piece of text anchored at its centre.
type Label struct {
	Text string
	At   Point
}

// Rulers returns the column letters under the board (A at x=0) and the row
// numbers left of it. Rows are counted in half steps, bottom to top, so that
// octagons get their own number.
func (l Layout) Rulers(g game.Grid) (columns, rows []Label) {
	w := g.RowWidth()
	s := l.Scale
	below := l.OriginY + float32(2*g.Side())*s + s
	for k := 0; k < w; k++ {
		columns = append(columns, Label{
			Text: string(rune('A' + k)),
			At:   Point{X: l.OriginX + float32(k)*s, Y: below},
		})
		rows = append(rows, Label{
			Text: strconv.Itoa(w - k - 1),
			At:   Point{X: l.OriginX - s, Y: l.OriginY + float32(k)*s},
		})
	}
	return columns, rows
}
