package tmx

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// gradient returns a w×h image whose pixel (x, y) is RGBA{x, y, 0, 255},
// so a cropped tile tells where it was cut from.
func gradient(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x), G: uint8(y), A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// parseFragment parses xml wrapped in a <map> element.
func parseFragment(t *testing.T, xml string) *node {
	t.Helper()
	doc, err := parseDocument([]byte("<map>" + xml + "</map>"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

// tileSet returns a resolver over square tiles with GIDs 1..n.
func tileSet(n, size int) TileResolver {
	tiles := make(map[uint32]*Tile, n)
	for gid := uint32(1); gid <= uint32(n); gid++ {
		tiles[gid] = &Tile{GID: gid, Width: size, Height: size}
	}
	return func(gid uint32) (*Tile, bool) {
		t, ok := tiles[gid]
		return t, ok
	}
}
