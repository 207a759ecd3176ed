// internal/ui/animation.go
package ui

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"octochess_go/internal/assets"
	"octochess_go/internal/game"
	"octochess_go/internal/layout"
)

// slideDuration is how long a pawn takes to travel between two tiles.
const slideDuration = 180 * time.Millisecond

// FrameAnim plays a sequence of frames centred on a point.
type FrameAnim struct {
	Data  assets.AnimData
	Start time.Time // may lie in the future to delay the effect
	At    layout.Point
	Done  bool
}

func (a *FrameAnim) Current() *ebiten.Image {
	if a.Done || len(a.Data.Frames) == 0 {
		return nil
	}
	elapsed := time.Since(a.Start).Seconds()
	if elapsed < 0 {
		return nil
	}
	idx := int(elapsed * a.Data.FPS)
	if idx >= len(a.Data.Frames) {
		a.Done = true
		return nil
	}
	return a.Data.Frames[idx]
}

func (a *FrameAnim) Draw(dst *ebiten.Image) {
	img := a.Current()
	if img == nil {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(a.At.X)-a.Data.AX, float64(a.At.Y)-a.Data.AY)
	dst.DrawImage(img, op)
}

// SlideAnim moves the pawn now standing on Tile from From to its centre.
type SlideAnim struct {
	Tile     game.TileIndex
	From, To layout.Point
	Start    time.Time
	Dur      time.Duration
}

func (s *SlideAnim) progress() float32 {
	t := float32(time.Since(s.Start)) / float32(s.Dur)
	return min(max(t, 0), 1)
}

func (s *SlideAnim) Done() bool { return s.progress() >= 1 }

// Pos is the current pawn position, eased out.
func (s *SlideAnim) Pos() layout.Point {
	t := s.progress()
	t = 1 - (1-t)*(1-t)
	return layout.Point{
		X: s.From.X + (s.To.X-s.From.X)*t,
		Y: s.From.Y + (s.To.Y-s.From.Y)*t,
	}
}

// addMoveAnims starts the slide of the moved pawn and, for a capture, the
// burst on the destination once the slide has landed.
func (gs *GameScreen) addMoveAnims(m game.Move, captured bool) {
	from := gs.layout.TileCenter(gs.grid, m.From)
	to := gs.layout.TileCenter(gs.grid, m.To)
	gs.slides = append(gs.slides, &SlideAnim{
		Tile:  m.To,
		From:  from,
		To:    to,
		Start: time.Now(),
		Dur:   slideDuration,
	})
	if captured {
		gs.addBurst(assets.AnimCapture, to, slideDuration)
	}
}

func (gs *GameScreen) addBurst(key string, at layout.Point, delay time.Duration) {
	data, ok := assets.AnimDatas[key]
	if !ok {
		return
	}
	gs.anims = append(gs.anims, &FrameAnim{Data: data, Start: time.Now().Add(delay), At: at})
}

// pruneAnims drops finished animations.
func (gs *GameScreen) pruneAnims() {
	slides := gs.slides[:0]
	for _, s := range gs.slides {
		if !s.Done() {
			slides = append(slides, s)
		}
	}
	gs.slides = slides

	anims := gs.anims[:0]
	for _, a := range gs.anims {
		a.Current()
		if !a.Done {
			anims = append(anims, a)
		}
	}
	gs.anims = anims
}

// sliding returns the running slide of the pawn on tile i, if any.
func (gs *GameScreen) sliding(i game.TileIndex) (*SlideAnim, bool) {
	for _, s := range gs.slides {
		if s.Tile == i {
			return s, true
		}
	}
	return nil, false
}

func (gs *GameScreen) clearAnims() {
	gs.slides = gs.slides[:0]
	gs.anims = gs.anims[:0]
}
