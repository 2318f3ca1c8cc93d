package tmx

import "image"

// Orientation is the projection a map uses to place its tiles.
type Orientation string

const (
	Orthogonal Orientation = "orthogonal"
	Isometric  Orientation = "isometric"
)

// Image is the <image> referenced by a tileset.
type Image struct {
	Source string // source attribute as written in the map
	URL    string // Source resolved against the map's directory
	Width  int
	Height int
}

// Tileset owns the contiguous GID range [FirstGID, FirstGID+TileCount()).
type Tileset struct {
	FirstGID   uint32
	Name       string
	Spacing    int
	Margin     int
	TileWidth  int
	TileHeight int
	Image      Image
	Columns    int
	Rows       int
}

// TileCount returns the number of tiles sliced from the tileset image.
func (ts *Tileset) TileCount() int {
	return ts.Columns * ts.Rows
}

// Contains reports whether gid belongs to this tileset.
func (ts *Tileset) Contains(gid uint32) bool {
	return gid >= ts.FirstGID && uint64(gid-ts.FirstGID) < uint64(ts.TileCount())
}

// Tile is one cell of a tileset image.
type Tile struct {
	GID           uint32
	X, Y          int // grid position inside the tileset
	PX, PY        int // pixel offset inside the tileset image
	Width, Height int
	Properties    map[string]string
	Tileset       *Tileset
	Image         image.Image // cropped copy, origin at (0,0)
}

// Layer is a tile layer. Only cells holding a tile are materialized.
type Layer struct {
	Name          string
	Width, Height int
	Properties    map[string]string
	Tiles         []LayerTile
}

// LayerTile places a shared Tile at a grid cell of a layer.
type LayerTile struct {
	X, Y   int
	Tile   *Tile
	PX, PY float64 // projected pixel position
}

// ObjectType is derived from the shape element an <object> carries.
type ObjectType string

const (
	Rectangle ObjectType = "rectangle"
	Ellipse   ObjectType = "ellipse"
	Polyline  ObjectType = "polyline"
)

// Point is a polyline vertex, relative to the object's position.
type Point struct {
	X, Y int
}

// Object is a free-form map object.
type Object struct {
	Name          string
	Type          ObjectType
	X, Y          int
	PX, PY        int
	Width, Height int
	Points        []Point
	GID           uint32
	Tile          *Tile
	HasTile       bool
	Properties    map[string]string
}
