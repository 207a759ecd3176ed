package assets

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.org/x/image/vector"
)

// Animation keys.
const (
	AnimCapture = "capture"
	AnimSelect  = "select"
)

type AnimData struct {
	Frames []*ebiten.Image
	AX, AY float64 // anchor: the pixel drawn on the target point
	FPS    float64
}

var (
	animOnce  sync.Once
	AnimDatas = map[string]AnimData{}
)

// LoadAnimations renders the effect frames. It must run after the ebiten
// window exists; later calls do nothing.
func LoadAnimations() {
	animOnce.Do(func() {
		AnimDatas[AnimCapture] = toAnim(BurstFrames(12, 40, ColorYellow), 30)
		AnimDatas[AnimSelect] = toAnim(BurstFrames(8, 28, ColorWhite), 24)
	})
}

func toAnim(frames []*image.RGBA, fps float64) AnimData {
	a := AnimData{FPS: fps}
	for i, f := range frames {
		if i == 0 {
			a.AX, a.AY = autoAnchor(f)
		}
		a.Frames = append(a.Frames, ebiten.NewImageFromImage(f))
	}
	return a
}

// BurstFrames renders n frames of a ring growing to radius and fading out.
func BurstFrames(n, radius int, col color.RGBA) []*image.RGBA {
	size := 2*radius + 2
	c := float32(size) / 2
	frames := make([]*image.RGBA, 0, n)
	for i := 0; i < n; i++ {
		t := float32(i+1) / float32(n)
		fade := col
		fade.A = uint8(float32(col.A) * (1 - t*t))
		// premultiplied alpha
		fade.R = uint8(uint32(col.R) * uint32(fade.A) / 0xff)
		fade.G = uint8(uint32(col.G) * uint32(fade.A) / 0xff)
		fade.B = uint8(uint32(col.B) * uint32(fade.A) / 0xff)

		dst := image.NewRGBA(image.Rect(0, 0, size, size))
		outer := t * float32(radius)
		ring(dst, c, c, outer, max(outer-4, 0), fade)
		frames = append(frames, dst)
	}
	return frames
}

// ring fills the area between two circles. The inner circle is traced the
// other way round so its winding cancels the outer one.
func ring(dst draw.Image, cx, cy, outer, inner float32, col color.Color) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	circle(z, cx, cy, outer, false)
	if inner > 0 {
		circle(z, cx, cy, inner, true)
	}
	z.DrawOp = draw.Over
	z.Draw(dst, b, image.NewUniform(col), image.Point{})
}

func circle(z *vector.Rasterizer, cx, cy, r float32, reverse bool) {
	k := kappa * r
	if !reverse {
		z.MoveTo(cx+r, cy)
		z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
		z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
		z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
		z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	} else {
		z.MoveTo(cx+r, cy)
		z.CubeTo(cx+r, cy-k, cx+k, cy-r, cx, cy-r)
		z.CubeTo(cx-k, cy-r, cx-r, cy-k, cx-r, cy)
		z.CubeTo(cx-r, cy+k, cx-k, cy+r, cx, cy+r)
		z.CubeTo(cx+k, cy+r, cx+r, cy+k, cx+r, cy)
	}
	z.ClosePath()
}

// autoAnchor returns the centre of the non-transparent pixels of img, or the
// image centre when it is empty.
func autoAnchor(img image.Image) (float64, float64) {
	b := img.Bounds()
	minX, minY := b.Max.X, b.Max.Y
	maxX, maxY := b.Min.X-1, b.Min.Y-1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a == 0 {
				continue
			}
			minX, maxX = min(minX, x), max(maxX, x)
			minY, maxY = min(minY, y), max(maxY, y)
		}
	}
	if minX > maxX || minY > maxY {
		return float64(b.Dx()) / 2, float64(b.Dy()) / 2
	}
	return float64(minX+maxX) / 2, float64(minY+maxY) / 2
}
