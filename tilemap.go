package tmx

import (
	"image"
	"math"
)

// Sprite is a positioned tile image ready to be drawn.
type Sprite struct {
	X, Y          float64
	Width, Height int
	Image         image.Image
	Tile          *Tile
}

// Rect returns the pixel rectangle the sprite covers.
func (s Sprite) Rect() image.Rectangle {
	x0 := int(math.Floor(s.X))
	y0 := int(math.Floor(s.Y))
	return image.Rect(x0, y0, x0+s.Width, y0+s.Height)
}

// TileMap is a grid of cells, each holding the sprites that overlap it.
type TileMap struct {
	CellWidth, CellHeight int
	Cols, Rows            int

	cells   [][]*Sprite // row-major, Cols*Rows
	sprites []*Sprite
}

// NewTileMap creates an empty grid of cols×rows cells.
func NewTileMap(cellWidth, cellHeight, cols, rows int) *TileMap {
	return &TileMap{
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
		Cols:       cols,
		Rows:       rows,
		cells:      make([][]*Sprite, max(cols*rows, 0)),
	}
}

// Materialize builds a TileMap holding one sprite per tile of layer. The
// grid is mapWidth×mapHeight cells of tileWidth×tileHeight pixels.
func Materialize(layer *Layer, tileWidth, tileHeight, mapWidth, mapHeight int) *TileMap {
	tm := NewTileMap(tileWidth, tileHeight, mapWidth, mapHeight)
	for _, lt := range layer.Tiles {
		tm.Push(&Sprite{
			X:      lt.PX,
			Y:      lt.PY,
			Width:  lt.Tile.Width,
			Height: lt.Tile.Height,
			Image:  lt.Tile.Image,
			Tile:   lt.Tile,
		})
	}
	return tm
}

// Push adds s to every cell its rectangle overlaps. Sprites partly or
// wholly outside the grid are kept; they just live in fewer cells.
func (tm *TileMap) Push(s *Sprite) {
	tm.sprites = append(tm.sprites, s)
	if tm.CellWidth <= 0 || tm.CellHeight <= 0 {
		return
	}

	r := s.Rect()
	c0, r0 := floorDiv(r.Min.X, tm.CellWidth), floorDiv(r.Min.Y, tm.CellHeight)
	c1, r1 := floorDiv(r.Max.X-1, tm.CellWidth), floorDiv(r.Max.Y-1, tm.CellHeight)
	for row := max(r0, 0); row <= min(r1, tm.Rows-1); row++ {
		for col := max(c0, 0); col <= min(c1, tm.Cols-1); col++ {
			i := row*tm.Cols + col
			tm.cells[i] = append(tm.cells[i], s)
		}
	}
}

// Cell returns the sprites overlapping cell (col, row).
func (tm *TileMap) Cell(col, row int) []*Sprite {
	if col < 0 || row < 0 || col >= tm.Cols || row >= tm.Rows {
		return nil
	}
	return tm.cells[row*tm.Cols+col]
}

// At returns the sprites overlapping the cell that contains pixel (x, y).
func (tm *TileMap) At(x, y int) []*Sprite {
	if tm.CellWidth <= 0 || tm.CellHeight <= 0 {
		return nil
	}
	return tm.Cell(floorDiv(x, tm.CellWidth), floorDiv(y, tm.CellHeight))
}

// Sprites returns every sprite in insertion order.
func (tm *TileMap) Sprites() []*Sprite {
	return tm.sprites
}

// Size returns the grid size in pixels.
func (tm *TileMap) Size() (int, int) {
	return tm.Cols * tm.CellWidth, tm.Rows * tm.CellHeight
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
