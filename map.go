package tmx

// Map is a fully loaded TMX map. A Map is only handed out once every stage
// of the load has succeeded; nothing mutates it afterwards.
type Map struct {
	Filename    string
	Orientation Orientation
	Version     float64
	Width       int // in tiles
	Height      int // in tiles
	TileWidth   int
	TileHeight  int
	Properties  map[string]string
	Tilesets    []*Tileset
	Tiles       []*Tile // Tiles[gid-1] is the tile with that gid
	Layers      []*Layer
	Objects     []*Object
}

// GetTile returns the tile with the given GID.
func (m *Map) GetTile(gid uint32) (*Tile, bool) {
	if gid == 0 || int(gid) > len(m.Tiles) {
		return nil, false
	}
	t := m.Tiles[gid-1]
	return t, t != nil
}

// Layer returns the first layer with the given name, or nil.
func (m *Map) Layer(name string) *Layer {
	for _, l := range m.Layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// LayerAsTileMap materializes layer as a TileMap sized to the map.
func (m *Map) LayerAsTileMap(layer *Layer) *TileMap {
	return Materialize(layer, m.TileWidth, m.TileHeight, m.Width, m.Height)
}
