package tmx

import "fmt"

// TileResolver maps a GID to its tile.
type TileResolver func(gid uint32) (*Tile, bool)

// decodeLayerData returns one GID per map cell, row-major, zero meaning an
// empty cell. Compression is rejected before the encoding is looked at.
func decodeLayerData(layer *node) ([]uint32, error) {
	data := layer.child("data")
	if data == nil {
		return nil, nil
	}

	if compression, ok := data.attr("compression"); ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCompression, compression)
	}

	encoding, ok := data.attr("encoding")
	switch {
	case !ok:
		tiles := data.children("tile")
		gids := make([]uint32, 0, len(tiles))
		for _, t := range tiles {
			gid, _, err := t.gidAttr("gid")
			if err != nil {
				return nil, err
			}
			gids = append(gids, gid)
		}
		return gids, nil
	case encoding == "base64":
		return DecodeBase64(data.Text, 4)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, encoding)
	}
}

// ProjectLayer turns decoded GIDs into positioned layer tiles. Cell j sits
// at (j mod mapWidth, j / mapWidth). Zero GIDs are skipped.
func ProjectLayer(gids []uint32, mapWidth int, orientation Orientation, resolve TileResolver) ([]LayerTile, error) {
	if mapWidth <= 0 {
		return nil, fmt.Errorf("%w: map width %d", ErrInvalidData, mapWidth)
	}
	if orientation != Orthogonal && orientation != Isometric {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOrientation, orientation)
	}

	var out []LayerTile
	for j, gid := range gids {
		if gid == 0 {
			continue
		}
		tile, ok := resolve(gid)
		if !ok {
			return nil, fmt.Errorf("%w: gid %d at cell %d", ErrTileNotFound, gid, j)
		}

		lt := LayerTile{X: j % mapWidth, Y: j / mapWidth, Tile: tile}
		lt.PX, lt.PY = project(lt.X, lt.Y, tile.Width, tile.Height, orientation)
		out = append(out, lt)
	}
	return out, nil
}

// project returns the pixel position of grid cell (x, y). Isometric tiles
// are diamonds: half a tile across and a quarter tile down per step.
func project(x, y, w, h int, orientation Orientation) (float64, float64) {
	if orientation == Isometric {
		return float64(x-y) * float64(w) * 0.5, float64(y+x) * float64(h) * 0.25
	}
	return float64(x * w), float64(y * h)
}

func parseLayer(n *node, mapWidth, mapHeight int, orientation Orientation, resolve TileResolver) (*Layer, error) {
	layer := &Layer{
		Name:       n.stringAttr("name", ""),
		Properties: map[string]string{},
	}
	var err error
	if layer.Width, err = n.intAttr("width", mapWidth); err != nil {
		return nil, err
	}
	if layer.Height, err = n.intAttr("height", mapHeight); err != nil {
		return nil, err
	}
	extractProperties(n, layer.Properties)

	gids, err := decodeLayerData(n)
	if err != nil {
		return nil, fmt.Errorf("layer %q: %w", layer.Name, err)
	}
	if layer.Tiles, err = ProjectLayer(gids, mapWidth, orientation, resolve); err != nil {
		return nil, fmt.Errorf("layer %q: %w", layer.Name, err)
	}
	return layer, nil
}
