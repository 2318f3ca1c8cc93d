package tmx

import (
	"image"

	"golang.org/x/image/draw"
)

// CropFunc extracts the w×h rectangle at (x, y) from img.
type CropFunc func(img image.Image, x, y, w, h int) image.Image

// CropImage copies the rectangle into a new RGBA image with its origin at
// (0,0). Pixels outside the source stay transparent.
func CropImage(img image.Image, x, y, w, h int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	b := img.Bounds()
	draw.Draw(dst, dst.Bounds(), img, image.Pt(b.Min.X+x, b.Min.Y+y), draw.Src)
	return dst
}
