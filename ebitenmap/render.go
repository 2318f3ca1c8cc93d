// Package ebitenmap draws materialized tile maps with ebiten.
package ebitenmap

import (
	"image"
	"math"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/retroblast-engine/tmx"
)

type DrawOptions struct {
	OffsetX, OffsetY float64 // camera position in map pixels
	Scale            float64 // zero means 1
}

func (o DrawOptions) scale() float64 {
	if o.Scale == 0 {
		return 1
	}
	return o.Scale
}

// Renderer converts tile images to ebiten images once and reuses them.
// It must only be used from the ebiten game loop.
type Renderer struct {
	images map[image.Image]*ebiten.Image
}

func NewRenderer() *Renderer {
	return &Renderer{images: map[image.Image]*ebiten.Image{}}
}

func (r *Renderer) image(src image.Image) *ebiten.Image {
	if img, ok := r.images[src]; ok {
		return img
	}
	img := ebiten.NewImageFromImage(src)
	r.images[src] = img
	return img
}

// Draw draws every sprite of tm that falls inside dst, in insertion order.
func (r *Renderer) Draw(dst *ebiten.Image, tm *tmx.TileMap, opts DrawOptions) {
	bounds := dst.Bounds()
	for _, s := range tm.Sprites() {
		if s.Image == nil || !visible(s, opts, bounds) {
			continue
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM = spriteGeoM(s, opts)
		op.Filter = ebiten.FilterNearest
		dst.DrawImage(r.image(s.Image), op)
	}
}

func spriteGeoM(s *tmx.Sprite, opts DrawOptions) ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(s.X-opts.OffsetX, s.Y-opts.OffsetY)
	g.Scale(opts.scale(), opts.scale())
	return g
}

// visible reports whether the sprite's screen rectangle overlaps bounds.
func visible(s *tmx.Sprite, opts DrawOptions, bounds image.Rectangle) bool {
	sc := opts.scale()
	x0 := (s.X - opts.OffsetX) * sc
	y0 := (s.Y - opts.OffsetY) * sc
	x1 := x0 + float64(s.Width)*sc
	y1 := y0 + float64(s.Height)*sc
	r := image.Rect(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Ceil(x1)), int(math.Ceil(y1)))
	return r.Overlaps(bounds)
}
