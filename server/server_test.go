package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/gin-gonic/gin"

	"github.com/retroblast-engine/tmx"
	"github.com/retroblast-engine/tmx/fetch"
)

type fakeLoader map[string]*tmx.Map

func (f fakeLoader) Load(_ context.Context, url string) (*tmx.Map, error) {
	switch url {
	case "zlib.tmx":
		return nil, fmt.Errorf("load %s: %w", url, tmx.ErrUnsupportedCompression)
	case "down.tmx":
		return nil, fmt.Errorf("%w: connection refused", tmx.ErrTransport)
	}
	m, ok := f[url]
	if !ok {
		return nil, fmt.Errorf("%w: %w", tmx.ErrTransport, fetch.ErrNotFound)
	}
	return m, nil
}

func testMap() *tmx.Map {
	tile := &tmx.Tile{GID: 2, Width: 16, Height: 16}
	return &tmx.Map{
		Filename:    "maps/level.tmx",
		Orientation: tmx.Orthogonal,
		Width:       2,
		Height:      2,
		TileWidth:   16,
		TileHeight:  16,
		Tilesets:    []*tmx.Tileset{{Name: "ground", FirstGID: 1, Columns: 2, Rows: 2}},
		Layers: []*tmx.Layer{{
			Name:  "floor",
			Width: 2, Height: 2,
			Tiles: []tmx.LayerTile{{X: 1, Y: 0, Tile: tile, PX: 16, PY: 0}},
		}},
		Objects: []*tmx.Object{{Name: "spawn", Type: tmx.Rectangle, X: 4, Y: 8}},
	}
}

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return New(fakeLoader{"maps/level.tmx": testMap()}, []string{"*"})
}

func get(t *testing.T, e *gin.Engine, url string) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	e.ServeHTTP(w, req)

	var res Response
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode %s: %v\n%s", url, err, w.Body.String())
	}
	return w, res
}

func TestHealth(t *testing.T) {
	e := newTestEngine()
	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestMapSummary(t *testing.T) {
	w, res := get(t, newTestEngine(), "/maps/maps/level.tmx")
	if w.Code != http.StatusOK || res.Code != CodeSuccess {
		t.Fatalf("status %d code %d msg %q", w.Code, res.Code, res.Msg)
	}

	var s mapSummary
	raw, _ := json.Marshal(res.Data)
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatal(err)
	}
	if s.Width != 2 || len(s.Tilesets) != 1 || len(s.Layers) != 1 || len(s.Objects) != 1 {
		t.Fatalf("unexpected summary:\n%s", spew.Sdump(s))
	}
	if s.Layers[0].Name != "floor" || s.Layers[0].Tiles != 1 {
		t.Fatalf("layer summary = %+v", s.Layers[0])
	}
	if s.Objects[0].Type != "rectangle" {
		t.Fatalf("object type = %q", s.Objects[0].Type)
	}
}

func TestMapLayerTiles(t *testing.T) {
	e := newTestEngine()

	w, res := get(t, e, "/maps/maps/level.tmx?layer=floor")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, res.Msg)
	}
	var tiles []layerTile
	raw, _ := json.Marshal(res.Data)
	if err := json.Unmarshal(raw, &tiles); err != nil {
		t.Fatal(err)
	}
	if len(tiles) != 1 || tiles[0] != (layerTile{X: 1, Y: 0, GID: 2, PX: 16, PY: 0}) {
		t.Fatalf("tiles = %+v", tiles)
	}

	w, _ = get(t, e, "/maps/maps/level.tmx?layer=sky")
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown layer status = %d", w.Code)
	}
}

func TestMapErrors(t *testing.T) {
	tests := []struct {
		url        string
		wantStatus int
		wantCode   int
	}{
		{"/maps/missing.tmx", http.StatusNotFound, CodeNotFound},
		{"/maps/zlib.tmx", http.StatusUnprocessableEntity, CodeUnsupported},
		{"/maps/down.tmx", http.StatusBadGateway, CodeUpstream},
	}
	e := newTestEngine()
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			w, res := get(t, e, tt.url)
			if w.Code != tt.wantStatus || res.Code != tt.wantCode {
				t.Fatalf("status %d code %d, want %d %d", w.Code, res.Code, tt.wantStatus, tt.wantCode)
			}
			if res.Msg == "" {
				t.Fatal("empty error message")
			}
		})
	}
}

func TestLoadStatus(t *testing.T) {
	status, _ := loadStatus(errors.New("boom"))
	if status != http.StatusBadGateway {
		t.Fatalf("plain error status = %d", status)
	}
	status, _ = loadStatus(fmt.Errorf("layer %q: %w", "x", tmx.ErrTileNotFound))
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("dangling gid status = %d", status)
	}
}
