package server

import "github.com/retroblast-engine/tmx"

type mapSummary struct {
	Filename    string            `json:"filename"`
	Orientation string            `json:"orientation"`
	Version     float64           `json:"version"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
	TileWidth   int               `json:"tilewidth"`
	TileHeight  int               `json:"tileheight"`
	Properties  map[string]string `json:"properties,omitempty"`
	Tilesets    []tilesetSummary  `json:"tilesets"`
	Layers      []layerSummary    `json:"layers"`
	Objects     []objectSummary   `json:"objects"`
}

type tilesetSummary struct {
	Name     string `json:"name"`
	FirstGID uint32 `json:"firstgid"`
	Image    string `json:"image"`
	Columns  int    `json:"columns"`
	Rows     int    `json:"rows"`
}

type layerSummary struct {
	Name       string            `json:"name"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Tiles      int               `json:"tiles"`
	Properties map[string]string `json:"properties,omitempty"`
}

type objectSummary struct {
	Name       string            `json:"name"`
	Type       string            `json:"type"`
	X          int               `json:"x"`
	Y          int               `json:"y"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	GID        uint32            `json:"gid,omitempty"`
	Points     []tmx.Point       `json:"points,omitempty"`
	Properties map[string]string `json:"properties,omitempty"`
}

type layerTile struct {
	X   int     `json:"x"`
	Y   int     `json:"y"`
	GID uint32  `json:"gid"`
	PX  float64 `json:"px"`
	PY  float64 `json:"py"`
}

func summarize(m *tmx.Map) mapSummary {
	s := mapSummary{
		Filename:    m.Filename,
		Orientation: string(m.Orientation),
		Version:     m.Version,
		Width:       m.Width,
		Height:      m.Height,
		TileWidth:   m.TileWidth,
		TileHeight:  m.TileHeight,
		Properties:  m.Properties,
		Tilesets:    make([]tilesetSummary, 0, len(m.Tilesets)),
		Layers:      make([]layerSummary, 0, len(m.Layers)),
		Objects:     make([]objectSummary, 0, len(m.Objects)),
	}
	for _, ts := range m.Tilesets {
		s.Tilesets = append(s.Tilesets, tilesetSummary{
			Name:     ts.Name,
			FirstGID: ts.FirstGID,
			Image:    ts.Image.Source,
			Columns:  ts.Columns,
			Rows:     ts.Rows,
		})
	}
	for _, l := range m.Layers {
		s.Layers = append(s.Layers, layerSummary{
			Name:       l.Name,
			Width:      l.Width,
			Height:     l.Height,
			Tiles:      len(l.Tiles),
			Properties: l.Properties,
		})
	}
	for _, o := range m.Objects {
		s.Objects = append(s.Objects, objectSummary{
			Name:       o.Name,
			Type:       string(o.Type),
			X:          o.X,
			Y:          o.Y,
			Width:      o.Width,
			Height:     o.Height,
			GID:        o.GID,
			Points:     o.Points,
			Properties: o.Properties,
		})
	}
	return s
}

func layerTiles(l *tmx.Layer) []layerTile {
	out := make([]layerTile, 0, len(l.Tiles))
	for _, lt := range l.Tiles {
		out = append(out, layerTile{X: lt.X, Y: lt.Y, GID: lt.Tile.GID, PX: lt.PX, PY: lt.PY})
	}
	return out
}
