package tmx

import (
	"fmt"
	"image"

	"github.com/retroblast-engine/tmx/fetch"
)

// tilesetDesc is a <tileset> element with its attributes read and its image
// resolved against the map directory.
type tilesetDesc struct {
	node *node
	ts   Tileset
}

func parseTilesetDesc(n *node, dir string) (tilesetDesc, error) {
	name := n.stringAttr("name", "")
	if src, ok := n.attr("source"); ok {
		return tilesetDesc{}, fmt.Errorf("%w: external tileset %q", ErrUnsupportedTileset, src)
	}

	firstGID, ok, err := n.gidAttr("firstgid")
	if err != nil {
		return tilesetDesc{}, err
	}
	if !ok || firstGID == 0 {
		return tilesetDesc{}, fmt.Errorf("%w: tileset %q has no firstgid", ErrInvalidData, name)
	}

	ts := Tileset{FirstGID: firstGID, Name: name}
	if ts.Spacing, err = n.intAttr("spacing", 0); err != nil {
		return tilesetDesc{}, err
	}
	if ts.Margin, err = n.intAttr("margin", 0); err != nil {
		return tilesetDesc{}, err
	}
	if ts.TileWidth, err = n.requireInt("tilewidth"); err != nil {
		return tilesetDesc{}, err
	}
	if ts.TileHeight, err = n.requireInt("tileheight"); err != nil {
		return tilesetDesc{}, err
	}
	if ts.TileWidth <= 0 || ts.TileHeight <= 0 {
		return tilesetDesc{}, fmt.Errorf("%w: tileset %q tile size %dx%d", ErrInvalidData, name, ts.TileWidth, ts.TileHeight)
	}

	img := n.child("image")
	if img == nil {
		return tilesetDesc{}, fmt.Errorf("%w: tileset %q has no <image>", ErrUnsupportedTileset, name)
	}
	ts.Image.Source = img.stringAttr("source", "")
	if ts.Image.Source == "" {
		return tilesetDesc{}, fmt.Errorf("%w: tileset %q image has no source", ErrInvalidData, name)
	}
	ts.Image.URL = fetch.Resolve(dir, ts.Image.Source)
	if ts.Image.Width, err = img.requireInt("width"); err != nil {
		return tilesetDesc{}, err
	}
	if ts.Image.Height, err = img.requireInt("height"); err != nil {
		return tilesetDesc{}, err
	}

	ts.Columns = ts.Image.Width / ts.TileWidth
	ts.Rows = ts.Image.Height / ts.TileHeight

	return tilesetDesc{node: n, ts: ts}, nil
}

// sliceTileset cuts the loaded tileset image into tiles. Tiles come out in
// row-major order so that tile i has GID FirstGID+i, then per-tile
// properties are merged in.
func sliceTileset(desc tilesetDesc, img image.Image, crop CropFunc) (*Tileset, []*Tile, error) {
	ts := new(Tileset)
	*ts = desc.ts

	tiles := make([]*Tile, 0, ts.TileCount())
	for y := 0; y < ts.Rows; y++ {
		for x := 0; x < ts.Columns; x++ {
			t := &Tile{
				GID:        ts.FirstGID + uint32(x+y*ts.Columns),
				X:          x,
				Y:          y,
				PX:         x*ts.TileWidth + ts.Spacing + x*ts.Margin,
				PY:         y*ts.TileHeight + ts.Spacing + y*ts.Margin,
				Width:      ts.TileWidth,
				Height:     ts.TileHeight,
				Properties: map[string]string{},
				Tileset:    ts,
			}
			t.Image = crop(img, t.PX, t.PY, t.Width, t.Height)
			tiles = append(tiles, t)
		}
	}

	for _, tn := range desc.node.children("tile") {
		id, err := tn.requireInt("id")
		if err != nil {
			return nil, nil, err
		}
		if id < 0 || id >= len(tiles) {
			return nil, nil, fmt.Errorf("%w: tileset %q tile id %d out of %d", ErrTileNotFound, ts.Name, id, len(tiles))
		}
		extractProperties(tn, tiles[id].Properties)
	}

	return ts, tiles, nil
}
