package tmx

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/retroblast-engine/tmx/fetch"
	"github.com/retroblast-engine/tmx/log"
)

// AssetLoader fetches and decodes the images a map references. Add
// registers a URL, LoadAll loads every registered URL and returns once all
// have loaded or the first one failed, and Get hands out a loaded image.
type AssetLoader interface {
	Add(url string)
	Get(url string) (image.Image, error)
	LoadAll(ctx context.Context, progress func(loaded, total int, url string)) error
}

// State is a stage of a map load.
type State int

const (
	StateFetchingXML State = iota
	StateDiscoveringAssets
	StateLoadingAssets
	StateParsingTiles
	StateParsingLayers
	StateParsingObjects
	StateComplete
	StateFailed
)

var stateNames = [...]string{
	StateFetchingXML:       "FetchingXML",
	StateDiscoveringAssets: "DiscoveringAssets",
	StateLoadingAssets:     "LoadingAssets",
	StateParsingTiles:      "ParsingTiles",
	StateParsingLayers:     "ParsingLayers",
	StateParsingObjects:    "ParsingObjects",
	StateComplete:          "Complete",
	StateFailed:            "Failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// StateFunc observes every state a load enters.
type StateFunc func(url string, s State)

// ProgressFunc reports asset loading progress.
type ProgressFunc func(loaded, total int, url string)

type Option func(*Loader)

// WithCrop replaces the crop primitive used to slice tileset images.
func WithCrop(crop CropFunc) Option {
	return func(l *Loader) { l.crop = crop }
}

func WithStateFunc(fn StateFunc) Option {
	return func(l *Loader) { l.onState = fn }
}

func WithProgress(fn ProgressFunc) Option {
	return func(l *Loader) { l.onProgress = fn }
}

// Loader loads TMX maps. It holds no per-load state and may be used for
// concurrent loads; each load gets a fresh AssetLoader from newAssets.
type Loader struct {
	fetcher    fetch.Fetcher
	newAssets  func() AssetLoader
	crop       CropFunc
	onState    StateFunc
	onProgress ProgressFunc
}

func NewLoader(f fetch.Fetcher, newAssets func() AssetLoader, opts ...Option) *Loader {
	l := &Loader{
		fetcher:   f,
		newAssets: newAssets,
		crop:      CropImage,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// builder carries one load through its stages. The Map it fills is only
// returned once the load reaches StateComplete.
type builder struct {
	url    string
	dir    string
	doc    *node
	assets AssetLoader
	m      *Map
}

// Load fetches the map at url and everything it references, and returns the
// fully parsed map. On failure no map is returned.
func (l *Loader) Load(ctx context.Context, url string) (*Map, error) {
	b := &builder{
		url:    url,
		dir:    fetch.Dirname(url),
		assets: l.newAssets(),
		m:      &Map{Filename: url, Properties: map[string]string{}},
	}

	start := time.Now()
	state := StateFetchingXML
	for state != StateComplete {
		l.enter(url, state)
		stepStart := time.Now()

		next, err := l.step(ctx, b, state)
		if err != nil {
			l.enter(url, StateFailed)
			return nil, fmt.Errorf("load %s: %s: %w", url, state, err)
		}

		log.WithFields(log.Fields{
			"map":     url,
			"state":   state.String(),
			"elapsed": time.Since(stepStart),
		}).Debug("tmx: stage done")
		state = next
	}
	l.enter(url, StateComplete)

	log.WithFields(log.Fields{
		"map":      url,
		"tilesets": len(b.m.Tilesets),
		"layers":   len(b.m.Layers),
		"objects":  len(b.m.Objects),
		"elapsed":  time.Since(start),
	}).Info("tmx: map loaded")
	return b.m, nil
}

// LoadAsync runs Load on its own goroutine. Exactly one of onComplete and
// onError is called, exactly once, on that goroutine.
func (l *Loader) LoadAsync(ctx context.Context, url string, onComplete func(*Map), onError func(error)) {
	go func() {
		m, err := l.Load(ctx, url)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		if onComplete != nil {
			onComplete(m)
		}
	}()
}

func (l *Loader) enter(url string, s State) {
	if s == StateFailed {
		log.WithFields(log.Fields{"map": url, "state": s.String()}).Debug("tmx: load failed")
	}
	if l.onState != nil {
		l.onState(url, s)
	}
}

func (l *Loader) step(ctx context.Context, b *builder, s State) (State, error) {
	if err := ctx.Err(); err != nil {
		return StateFailed, err
	}

	switch s {
	case StateFetchingXML:
		return StateDiscoveringAssets, l.fetchXML(ctx, b)
	case StateDiscoveringAssets:
		return StateLoadingAssets, discoverAssets(b)
	case StateLoadingAssets:
		return StateParsingTiles, l.loadAssets(ctx, b)
	case StateParsingTiles:
		return StateParsingLayers, l.parseTiles(b)
	case StateParsingLayers:
		return StateParsingObjects, parseLayers(b)
	case StateParsingObjects:
		return StateComplete, parseMapObjects(b)
	}
	return StateFailed, fmt.Errorf("unexpected state %s", s)
}

func (l *Loader) fetchXML(ctx context.Context, b *builder) error {
	data, err := l.fetcher.Fetch(ctx, b.url)
	if err != nil {
		return transportError(err)
	}
	b.doc, err = parseDocument(data)
	return err
}

// discoverAssets registers every <image source> of the document, resolved
// against the map directory. That covers tileset images as well as any
// other image a map carries.
func discoverAssets(b *builder) error {
	for _, ts := range b.doc.descendants("tileset") {
		if src, ok := ts.attr("source"); ok {
			return fmt.Errorf("%w: external tileset %q", ErrUnsupportedTileset, src)
		}
	}

	seen := make(map[string]bool)
	for _, img := range b.doc.descendants("image") {
		src, ok := img.attr("source")
		if !ok || src == "" {
			continue
		}
		u := fetch.Resolve(b.dir, src)
		if seen[u] {
			continue
		}
		seen[u] = true
		b.assets.Add(u)
		log.WithFields(log.Fields{"map": b.url, "asset": u}).Debug("tmx: asset registered")
	}
	return nil
}

func (l *Loader) loadAssets(ctx context.Context, b *builder) error {
	err := b.assets.LoadAll(ctx, func(loaded, total int, url string) {
		if l.onProgress != nil {
			l.onProgress(loaded, total, url)
		}
	})
	if err != nil {
		return transportError(err)
	}
	return nil
}

func (l *Loader) parseTiles(b *builder) error {
	doc, m := b.doc, b.m

	m.Orientation = Orientation(doc.stringAttr("orientation", string(Orthogonal)))
	if m.Orientation != Orthogonal && m.Orientation != Isometric {
		return fmt.Errorf("%w: %q", ErrUnsupportedOrientation, m.Orientation)
	}

	var err error
	if m.Version, err = doc.floatAttr("version", 0); err != nil {
		return err
	}
	if m.Width, err = doc.requireInt("width"); err != nil {
		return err
	}
	if m.Height, err = doc.requireInt("height"); err != nil {
		return err
	}
	if m.TileWidth, err = doc.requireInt("tilewidth"); err != nil {
		return err
	}
	if m.TileHeight, err = doc.requireInt("tileheight"); err != nil {
		return err
	}
	extractProperties(doc, m.Properties)

	for _, n := range doc.descendants("tileset") {
		desc, err := parseTilesetDesc(n, b.dir)
		if err != nil {
			return err
		}
		img, err := b.assets.Get(desc.ts.Image.URL)
		if err != nil {
			return fmt.Errorf("tileset %q: %w", desc.ts.Name, transportError(err))
		}
		ts, tiles, err := sliceTileset(desc, img, l.crop)
		if err != nil {
			return err
		}
		if err := m.addTileset(ts, tiles); err != nil {
			return err
		}
	}
	return nil
}

// maxGIDGap bounds the run of unused gids before a tileset's firstgid.
const maxGIDGap = 1 << 16

// addTileset places tiles at Tiles[gid-1]. Tilesets must come in ascending
// firstgid order without overlapping; gaps between ranges stay nil.
func (m *Map) addTileset(ts *Tileset, tiles []*Tile) error {
	start := int(ts.FirstGID) - 1
	if start < len(m.Tiles) {
		return fmt.Errorf("%w: tileset %q firstgid %d overlaps gid %d", ErrInvalidData, ts.Name, ts.FirstGID, len(m.Tiles))
	}
	if start-len(m.Tiles) > maxGIDGap {
		return fmt.Errorf("%w: tileset %q firstgid %d leaves %d unused gids", ErrInvalidData, ts.Name, ts.FirstGID, start-len(m.Tiles))
	}
	for len(m.Tiles) < start {
		m.Tiles = append(m.Tiles, nil)
	}
	m.Tiles = append(m.Tiles, tiles...)
	m.Tilesets = append(m.Tilesets, ts)
	return nil
}

func parseLayers(b *builder) error {
	m := b.m
	for _, n := range b.doc.descendants("layer") {
		layer, err := parseLayer(n, m.Width, m.Height, m.Orientation, m.GetTile)
		if err != nil {
			return err
		}
		m.Layers = append(m.Layers, layer)
	}
	return nil
}

func parseMapObjects(b *builder) error {
	objects, err := parseObjects(b.doc.descendants("object"), b.m.GetTile)
	if err != nil {
		return err
	}
	b.m.Objects = objects
	return nil
}

// transportError marks err as a transport failure. Cancellation is passed
// through unmarked.
func transportError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransport, err)
}
