// File /ui/render.go
package ui

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/samber/lo"

	"octochess_go/internal/assets"
	"octochess_go/internal/game"
	"octochess_go/internal/layout"
)

// tileBorder is the width of the tile outline in pixels.
const tileBorder = 5

type tileStyle int

const (
	styleBase tileStyle = iota
	styleHovered
	stylePressed
	styleHighlight
)

func (s tileStyle) colors() (fill, border color.RGBA) {
	switch s {
	case styleHovered:
		return color.RGBA{0x4d, 0x4d, 0x4d, 0xff}, color.RGBA{0xff, 0xff, 0xff, 0xff}
	case stylePressed:
		return color.RGBA{0x66, 0x66, 0x66, 0xff}, color.RGBA{0xff, 0xff, 0x00, 0xff}
	case styleHighlight:
		return color.RGBA{0x1f, 0x4d, 0x1f, 0xff}, color.RGBA{0x66, 0xff, 0x66, 0xff}
	}
	return color.RGBA{0x1a, 0x1a, 0x1a, 0xff}, color.RGBA{0xcc, 0xcc, 0xcc, 0xff}
}

var whiteSubImage = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()

// fillPolygon fills a convex or concave polygon with clr.
func fillPolygon(dst *ebiten.Image, poly []layout.Point, clr color.RGBA) {
	if len(poly) < 3 {
		return
	}
	var p vector.Path
	p.MoveTo(poly[0].X, poly[0].Y)
	for _, pt := range poly[1:] {
		p.LineTo(pt.X, pt.Y)
	}
	p.Close()

	vs, is := p.AppendVerticesAndIndicesForFilling(nil, nil)
	r, g, b, a := float32(clr.R)/0xff, float32(clr.G)/0xff, float32(clr.B)/0xff, float32(clr.A)/0xff
	for i := range vs {
		vs[i].SrcX, vs[i].SrcY = 1, 1
		vs[i].ColorR, vs[i].ColorG, vs[i].ColorB, vs[i].ColorA = r, g, b, a
	}
	dst.DrawTriangles(vs, is, whiteSubImage, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

func drawTile(dst *ebiten.Image, l layout.Layout, g game.Grid, i game.TileIndex, style tileStyle) {
	fill, border := style.colors()
	inset := min(tileBorder, l.Scale/10)
	fillPolygon(dst, l.TilePolygon(g, i, 0), border)
	fillPolygon(dst, l.TilePolygon(g, i, inset), fill)
}

func (gs *GameScreen) pawnRadius() int {
	return int(gs.layout.Scale * 0.4)
}

func (gs *GameScreen) drawPawn(dst *ebiten.Image, side game.PlayerSide, selected bool, at layout.Point, radius int) {
	img := assets.PawnImage(side, selected, radius)
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(at.X)-float64(w)/2, float64(at.Y)-float64(h)/2)
	dst.DrawImage(img, op)
}

// drawText draws s centred on (x, y), scaled by size.
func (gs *GameScreen) drawText(dst *ebiten.Image, s string, x, y float32, size float64) {
	w, h := text.Measure(s, gs.face, 0)
	op := &text.DrawOptions{}
	op.GeoM.Scale(size, size)
	op.GeoM.Translate(float64(x)-w*size/2, float64(y)-h*size/2)
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(dst, s, gs.face, op)
}

func (gs *GameScreen) drawMenu(dst *ebiten.Image) {
	// two rows of tiles under the title letters
	for i := 0; i < 2*gs.menuGrid.RowWidth(); i++ {
		drawTile(dst, gs.menuLayout, gs.menuGrid, game.TileIndex(i), styleBase)
	}
	letters := []struct {
		s    string
		x, y float32
	}{
		{"O", 180, 105}, {"C", 300, 105}, {"T", 420, 105}, {"O", 540, 105},
		{"C", 120, 165}, {"H", 240, 165}, {"E", 360, 165}, {"S", 480, 165}, {"S", 600, 165},
	}
	for _, l := range letters {
		gs.drawText(dst, l.s, l.x, l.y, 4)
	}
	for k, x := range []float32{177, 297, 417, 537} {
		side := lo.Ternary(k%2 == 0, game.Top, game.Bottom)
		gs.drawPawn(dst, side, false, layout.Point{X: x, Y: 225}, int(gs.menuLayout.Scale*0.4))
	}

	for _, b := range gs.menu {
		fill, border := color.RGBA{0x1a, 0x1a, 0x1a, 0xff}, color.RGBA{0xff, 0xff, 0xff, 0xff}
		switch {
		case b.press:
			fill, border = color.RGBA{0x66, 0x66, 0x66, 0xff}, color.RGBA{0xff, 0xff, 0x00, 0xff}
		case b.hover:
			fill = color.RGBA{0x4d, 0x4d, 0x4d, 0xff}
		}
		vector.DrawFilledRect(dst, b.x, b.y, b.w, b.h, fill, false)
		vector.StrokeRect(dst, b.x, b.y, b.w, b.h, 2, border, false)
		gs.drawText(dst, b.label, b.x+b.w/2, b.y+b.h/2, 2)
	}
}

func (gs *GameScreen) tileStyleOf(i game.TileIndex) tileStyle {
	switch {
	case gs.hoverOK && gs.hovered == i && gs.pressed:
		return stylePressed
	case gs.hoverOK && gs.hovered == i:
		return styleHovered
	case lo.Contains(gs.targets, i):
		return styleHighlight
	}
	return styleBase
}

func (gs *GameScreen) drawInGame(dst *ebiten.Image) {
	b := gs.state.Board
	for _, i := range gs.grid.Indexes() {
		drawTile(dst, gs.layout, gs.grid, i, gs.tileStyleOf(i))
	}

	r := gs.pawnRadius()
	for _, i := range gs.grid.Indexes() {
		p, ok := b.PawnAt(i)
		if !ok {
			continue
		}
		at := gs.layout.TileCenter(gs.grid, i)
		if s, ok := gs.sliding(i); ok {
			at = s.Pos()
		}
		gs.drawPawn(dst, p.Player, gs.hasSelected && gs.selected == i, at, r)
	}
	for _, a := range gs.anims {
		a.Draw(dst)
	}

	// current player
	mid := gs.layout.OriginX + float32(gs.grid.Side())*gs.layout.Scale
	hudY := gs.layout.OriginY - gs.layout.Scale - 5
	gs.drawText(dst, "Current player :", mid-70, hudY, 1.5)
	gs.drawPawn(dst, b.CurrentPlayer(), false, layout.Point{X: mid + 30, Y: hudY}, r/2)
	if gs.thinking {
		gs.drawText(dst, "thinking...", mid+120, hudY, 1.5)
	}

	cols, rows := gs.layout.Rulers(gs.grid)
	for _, l := range append(cols, rows...) {
		gs.drawText(dst, l.Text, l.At.X, l.At.Y, 2)
	}

	if gs.hoverOK {
		c := gs.grid.CoordOf(gs.hovered)
		ebitenutil.DebugPrintAt(dst, fmt.Sprintf("%v = %d", c, gs.hovered), 4, 4)
	}
	ebitenutil.DebugPrintAt(dst, "Ctrl+Z undo   Esc menu", 4, WindowHeight-20)
}

func (gs *GameScreen) drawGameOver(dst *ebiten.Image) {
	gs.drawText(dst, "Winner :", 250, 250, 3)
	gs.drawPawn(dst, gs.state.Winner, false, layout.Point{X: 340, Y: 250}, 20)
	gs.drawText(dst, fmt.Sprintf("after %d moves", gs.state.Plies()), 300, 320, 1.5)
	gs.drawText(dst, "click to return to the menu", 300, 400, 1.5)
}
