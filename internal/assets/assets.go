package assets

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/vector"

	"octochess_go/internal/game"
)

var (
	ColorBlue   = color.RGBA{0x00, 0x00, 0xff, 0xff}
	ColorWhite  = color.RGBA{0xff, 0xff, 0xff, 0xff}
	ColorYellow = color.RGBA{0xff, 0xff, 0x00, 0xff}
)

// PawnColors returns the fill and rim colour of side's pawns: Bottom is white
// on blue, Top blue on white. A selected pawn gets a yellow rim.
func PawnColors(side game.PlayerSide, selected bool) (fill, rim color.RGBA) {
	fill, rim = ColorWhite, ColorBlue
	if side == game.Top {
		fill, rim = ColorBlue, ColorWhite
	}
	if selected {
		rim = ColorYellow
	}
	return fill, rim
}

type spriteKey struct {
	side     game.PlayerSide
	selected bool
	radius   int
}

var sprites = map[spriteKey]*ebiten.Image{}

// PawnImage returns a (2r+2)×(2r+2) pawn sprite centred in the image. Sprites
// are rendered once and cached; call it from the game goroutine only.
func PawnImage(side game.PlayerSide, selected bool, radius int) *ebiten.Image {
	k := spriteKey{side, selected, radius}
	if img, ok := sprites[k]; ok {
		return img
	}
	fill, rim := PawnColors(side, selected)
	img := ebiten.NewImageFromImage(RenderPawn(fill, rim, radius, 3))
	sprites[k] = img
	return img
}

// RenderPawn draws a disc of the given radius with a rim of width rimW.
func RenderPawn(fill, rim color.Color, radius int, rimW float32) *image.RGBA {
	size := 2*radius + 2
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float32(size) / 2
	r := float32(radius)
	disc(dst, c, c, r, rim)
	disc(dst, c, c, r-rimW, fill)
	return dst
}

// kappa places cubic control points so four curves approximate a circle.
const kappa = 0.5522847

func disc(dst draw.Image, cx, cy, r float32, col color.Color) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	circle(z, cx, cy, r, false)
	z.DrawOp = draw.Over
	z.Draw(dst, b, image.NewUniform(col), image.Point{})
}
