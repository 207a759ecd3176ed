// File ui/input.go
package ui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/samber/lo"

	"octochess_go/internal/assets"
	"octochess_go/internal/game"
)

func clicked() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

func escPressed() bool {
	return inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

// undoPressed reports Ctrl+Z (Cmd+Z on macOS).
func undoPressed() bool {
	if !inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		return false
	}
	return ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
}

func (gs *GameScreen) updateHover() {
	mx, my := ebiten.CursorPosition()
	gs.hovered, gs.hoverOK = gs.layout.TileAt(gs.grid, float32(mx), float32(my))
	gs.pressed = gs.hoverOK && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
}

// handleBoardInput selects a pawn of the side to move, or plays the selected
// pawn onto one of its highlighted destinations.
func (gs *GameScreen) handleBoardInput() {
	gs.updateHover()
	if !clicked() {
		return
	}
	if !gs.hoverOK {
		if gs.hasSelected {
			gs.unselect()
			gs.audio.Play(assets.SoundCancel)
		}
		return
	}

	tile := gs.hovered
	if gs.hasSelected && tile != gs.selected && lo.Contains(gs.targets, tile) {
		gs.applyMove(game.Move{From: gs.selected, To: tile})
		return
	}

	if gs.state.Selectable(tile) && !(gs.hasSelected && tile == gs.selected) {
		gs.selected, gs.hasSelected = tile, true
		gs.targets = gs.state.Board.LegalMoves(tile, gs.state.Board.CurrentPlayer())
		gs.audio.Play(assets.SoundSelect)
		gs.addBurst(assets.AnimSelect, gs.layout.TileCenter(gs.grid, tile), 0)
		return
	}

	gs.unselect()
	gs.audio.Play(assets.SoundCancel)
}

// button is a clickable rectangle. It fires when the mouse is released over
// it after being pressed there.
type button struct {
	label      string
	x, y, w, h float32
	hover      bool
	press      bool
}

func newButton(label string, x, y, w, h float32) *button {
	return &button{label: label, x: x, y: y, w: w, h: h}
}

func (b *button) update() bool {
	mx, my := ebiten.CursorPosition()
	fx, fy := float32(mx), float32(my)
	b.hover = fx >= b.x && fx <= b.x+b.w && fy >= b.y && fy <= b.y+b.h

	wasPressed := b.press
	b.press = b.hover && ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	return wasPressed && !b.press && b.hover
}
