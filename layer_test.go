package tmx

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

func TestDecodeLayerData(t *testing.T) {
	plain := `<layer name="g"><data><tile gid="1"/><tile gid="0"/><tile gid="3"/><tile gid="4"/></data></layer>`
	encoded := fmt.Sprintf(`<layer name="g"><data encoding="base64">
   %s
  </data></layer>`, EncodeBase64([]uint32{1, 0, 3, 4}))

	fromPlain, err := decodeLayerData(parseFragment(t, plain).child("layer"))
	if err != nil {
		t.Fatalf("plain: %v", err)
	}
	fromBase64, err := decodeLayerData(parseFragment(t, encoded).child("layer"))
	if err != nil {
		t.Fatalf("base64: %v", err)
	}

	want := []uint32{1, 0, 3, 4}
	if !slices.Equal(fromPlain, want) {
		t.Fatalf("plain = %v, want %v", fromPlain, want)
	}
	if !slices.Equal(fromBase64, fromPlain) {
		t.Fatalf("base64 = %v, plain = %v", fromBase64, fromPlain)
	}
}

func TestDecodeLayerDataErrors(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want error
	}{
		{"csv", `<layer><data encoding="csv">1,2,3,4</data></layer>`, ErrUnsupportedEncoding},
		{"zlib", `<layer><data encoding="base64" compression="zlib">eJw=</data></layer>`, ErrUnsupportedCompression},
		{"gzip", `<layer><data encoding="base64" compression="gzip">H4s=</data></layer>`, ErrUnsupportedCompression},
		{"compression before encoding", `<layer><data encoding="csv" compression="zstd">1</data></layer>`, ErrUnsupportedCompression},
		{"bad base64", `<layer><data encoding="base64">@@@@</data></layer>`, ErrInvalidData},
		{"bad gid", `<layer><data><tile gid="x"/></data></layer>`, ErrInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeLayerData(parseFragment(t, tt.xml).child("layer"))
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDecodeLayerDataEmpty(t *testing.T) {
	gids, err := decodeLayerData(parseFragment(t, `<layer name="empty"/>`).child("layer"))
	if err != nil || len(gids) != 0 {
		t.Fatalf("got %v, %v", gids, err)
	}
}

func TestProjectLayer(t *testing.T) {
	tests := []struct {
		name        string
		mapWidth    int
		cells       int
		x, y        int
		size        int
		orientation Orientation
		wantPX      float64
		wantPY      float64
	}{
		{"orthogonal", 4, 12, 3, 2, 16, Orthogonal, 48, 32},
		{"orthogonal origin", 4, 12, 0, 0, 16, Orthogonal, 0, 0},
		{"isometric", 3, 6, 2, 1, 32, Isometric, 16, 24},
		{"isometric left of origin", 3, 6, 0, 1, 32, Isometric, -16, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gids := make([]uint32, tt.cells)
			gids[tt.y*tt.mapWidth+tt.x] = 1

			tiles, err := ProjectLayer(gids, tt.mapWidth, tt.orientation, tileSet(1, tt.size))
			if err != nil {
				t.Fatalf("ProjectLayer: %v", err)
			}
			if len(tiles) != 1 {
				t.Fatalf("got %d tiles, want 1", len(tiles))
			}
			lt := tiles[0]
			if lt.X != tt.x || lt.Y != tt.y {
				t.Errorf("grid = (%d,%d), want (%d,%d)", lt.X, lt.Y, tt.x, tt.y)
			}
			if lt.PX != tt.wantPX || lt.PY != tt.wantPY {
				t.Errorf("pixel = (%v,%v), want (%v,%v)", lt.PX, lt.PY, tt.wantPX, tt.wantPY)
			}
			if lt.Tile.GID != 1 {
				t.Errorf("gid = %d", lt.Tile.GID)
			}
		})
	}
}

func TestProjectLayerSkipsZeros(t *testing.T) {
	tiles, err := ProjectLayer(make([]uint32, 9), 3, Orthogonal, tileSet(1, 8))
	if err != nil {
		t.Fatal(err)
	}
	if len(tiles) != 0 {
		t.Fatalf("all-zero layer produced %d tiles", len(tiles))
	}

	tiles, err = ProjectLayer([]uint32{0, 2, 0, 1}, 2, Orthogonal, tileSet(2, 8))
	if err != nil {
		t.Fatal(err)
	}
	if len(tiles) != 2 || tiles[0].Tile.GID != 2 || tiles[1].Tile.GID != 1 {
		t.Fatalf("tiles = %+v", tiles)
	}
	if tiles[1].X != 1 || tiles[1].Y != 1 {
		t.Fatalf("last tile at (%d,%d)", tiles[1].X, tiles[1].Y)
	}
}

func TestProjectLayerErrors(t *testing.T) {
	resolve := tileSet(4, 16)
	tests := []struct {
		name        string
		gids        []uint32
		mapWidth    int
		orientation Orientation
		want        error
	}{
		{"dangling gid", []uint32{1, 9}, 2, Orthogonal, ErrTileNotFound},
		{"flipped gid", []uint32{0x80000001}, 1, Orthogonal, ErrTileNotFound},
		{"staggered", []uint32{1}, 1, "staggered", ErrUnsupportedOrientation},
		{"hexagonal", []uint32{1}, 1, "hexagonal", ErrUnsupportedOrientation},
		{"zero width", []uint32{1}, 0, Orthogonal, ErrInvalidData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ProjectLayer(tt.gids, tt.mapWidth, tt.orientation, resolve)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestParseLayer(t *testing.T) {
	doc := parseFragment(t, `<layer name="walls">
  <properties><property name="collide" value="true"/></properties>
  <data><tile gid="0"/><tile gid="2"/></data>
</layer>`)

	l, err := parseLayer(doc.child("layer"), 2, 1, Orthogonal, tileSet(2, 16))
	if err != nil {
		t.Fatalf("parseLayer: %v", err)
	}
	if l.Name != "walls" || l.Width != 2 || l.Height != 1 {
		t.Fatalf("layer = %q %dx%d", l.Name, l.Width, l.Height)
	}
	if l.Properties["collide"] != "true" {
		t.Fatalf("properties = %v", l.Properties)
	}
	if len(l.Tiles) != 1 || l.Tiles[0].PX != 16 {
		t.Fatalf("tiles = %+v", l.Tiles)
	}

	_, err = parseLayer(parseFragment(t, `<layer name="z"><data encoding="base64" compression="zlib"/></layer>`).child("layer"),
		2, 1, Orthogonal, tileSet(2, 16))
	if !errors.Is(err, ErrUnsupportedCompression) {
		t.Fatalf("compressed: got %v", err)
	}
}
