package tmx

import (
	"fmt"
	"strings"
)

// parseObjects converts <object> elements into objects. The shape comes
// from the child element: <polyline>, then <ellipse>, else a rectangle.
// Tile objects take their size from the tile. Positions are not projected.
func parseObjects(nodes []*node, resolve TileResolver) ([]*Object, error) {
	objects := make([]*Object, 0, len(nodes))
	for i, n := range nodes {
		obj, err := parseObject(n, resolve)
		if err != nil {
			return nil, fmt.Errorf("object %d (%q): %w", i, n.stringAttr("name", ""), err)
		}
		objects = append(objects, obj)
	}
	return objects, nil
}

func parseObject(n *node, resolve TileResolver) (*Object, error) {
	obj := &Object{
		Name:       n.stringAttr("name", ""),
		Type:       Rectangle,
		Properties: map[string]string{},
	}

	if poly := n.child("polyline"); poly != nil {
		obj.Type = Polyline
		points, err := parsePoints(poly.stringAttr("points", ""))
		if err != nil {
			return nil, err
		}
		obj.Points = points
	} else if n.child("ellipse") != nil {
		obj.Type = Ellipse
	}

	gid, ok, err := n.gidAttr("gid")
	if err != nil {
		return nil, err
	}
	if ok {
		tile, found := resolve(gid)
		if !found {
			return nil, fmt.Errorf("%w: gid %d", ErrTileNotFound, gid)
		}
		obj.GID = gid
		obj.Tile = tile
		obj.Width = tile.Width
		obj.Height = tile.Height
		obj.HasTile = true
	} else {
		if obj.Width, err = n.intAttr("width", 0); err != nil {
			return nil, err
		}
		if obj.Height, err = n.intAttr("height", 0); err != nil {
			return nil, err
		}
	}

	if obj.X, err = n.intAttr("x", 0); err != nil {
		return nil, err
	}
	if obj.Y, err = n.intAttr("y", 0); err != nil {
		return nil, err
	}
	obj.PX, obj.PY = obj.X, obj.Y

	extractProperties(n, obj.Properties)
	return obj, nil
}

// parsePoints reads a Tiled points attribute: "x,y x,y ...".
func parsePoints(s string) ([]Point, error) {
	fields := strings.Fields(s)
	points := make([]Point, 0, len(fields))
	for _, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("%w: point %q", ErrInvalidData, f)
		}
		x, err := parseInt(xs)
		if err != nil {
			return nil, fmt.Errorf("%w: point %q", ErrInvalidData, f)
		}
		y, err := parseInt(ys)
		if err != nil {
			return nil, fmt.Errorf("%w: point %q", ErrInvalidData, f)
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}
