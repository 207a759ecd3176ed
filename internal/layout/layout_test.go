package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"octochess_go/internal/game"
)

func TestTileCenter(t *testing.T) {
	l := Default()
	g := game.DefaultGrid()

	assert.Equal(t, Point{120, 120}, l.TileCenter(g, 0))
	assert.Equal(t, Point{180, 180}, l.TileCenter(g, 1), "octagons sit half a step lower")
	assert.Equal(t, Point{240, 120}, l.TileCenter(g, 2))
	assert.Equal(t, Point{120, 600}, l.TileCenter(g, 36))
	assert.Equal(t, Point{600, 600}, l.TileCenter(g, 40))
}

func TestTilePolygon(t *testing.T) {
	l := Default()
	g := game.DefaultGrid()

	octo := l.TilePolygon(g, 1, 0)
	require.Len(t, octo, 8)
	assert.InDelta(t, 240, octo[0].X, 1e-4)
	assert.InDelta(t, 198, octo[0].Y, 1e-4)

	quad := l.TilePolygon(g, 0, 0)
	require.Len(t, quad, 4)
	assert.InDelta(t, 120-42, quad[3].X, 1e-4)

	inner := l.TilePolygon(g, 0, 5)
	assert.InDelta(t, 120-37, inner[3].X, 1e-4)
}

func TestTileAt(t *testing.T) {
	l := Default()
	g := game.DefaultGrid()

	t.Run("every centre maps back to its tile", func(t *testing.T) {
		for _, i := range g.Indexes() {
			c := l.TileCenter(g, i)
			got, ok := l.TileAt(g, c.X, c.Y)
			require.True(t, ok, "tile %d", i)
			require.Equal(t, i, got)
		}
	})

	t.Run("near the edge of an octagon", func(t *testing.T) {
		got, ok := l.TileAt(g, 235, 180)
		require.True(t, ok)
		require.Equal(t, game.TileIndex(1), got)
	})

	t.Run("misses", func(t *testing.T) {
		_, ok := l.TileAt(g, 0, 0)
		assert.False(t, ok, "outside the bounds")
		_, ok = l.TileAt(g, 90, 180)
		assert.False(t, ok, "left of the first column of octagons")
	})
}

func TestContains(t *testing.T) {
	square := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	assert.True(t, Contains(square, Point{5, 5}))
	assert.False(t, Contains(square, Point{15, 5}))
	assert.False(t, Contains(square, Point{5, -1}))
}

func TestBoundsAndRulers(t *testing.T) {
	l := Default()
	g := game.DefaultGrid()

	x, y, w, h := l.Bounds(g)
	assert.Equal(t, []float32{60, 60, 600, 600}, []float32{x, y, w, h})

	cols, rows := l.Rulers(g)
	require.Len(t, cols, 9)
	require.Len(t, rows, 9)
	assert.Equal(t, Label{Text: "A", At: Point{120, 660}}, cols[0])
	assert.Equal(t, "I", cols[8].Text)
	assert.Equal(t, Label{Text: "8", At: Point{60, 120}}, rows[0])
	assert.Equal(t, "0", rows[8].Text)
}

func TestFit(t *testing.T) {
	require.Equal(t, Default(), Fit(game.DefaultGrid(), 750, 750))

	for side := 1; side <= 12; side++ {
		g, err := game.NewGrid(side)
		require.NoError(t, err)
		l := Fit(g, 750, 750)
		require.LessOrEqual(t, l.Scale, Default().Scale)

		x, y, w, h := l.Bounds(g)
		require.GreaterOrEqual(t, x, float32(0), "side %d", side)
		require.GreaterOrEqual(t, y, float32(0), "side %d", side)
		require.LessOrEqual(t, x+w, float32(750), "side %d", side)
		require.LessOrEqual(t, y+h, float32(750), "side %d", side)

		cols, rows := l.Rulers(g)
		for _, lb := range append(cols, rows...) {
			require.True(t, lb.At.X >= 0 && lb.At.X <= 750 && lb.At.Y >= 0 && lb.At.Y <= 750,
				"side %d: label %q at %v", side, lb.Text, lb.At)
		}

		last := game.TileIndex(g.TileCount() - 1)
		i, ok := l.TileAt(g, l.TileCenter(g, last).X, l.TileCenter(g, last).Y)
		require.True(t, ok)
		require.Equal(t, last, i)
	}
}
