// Package assets loads the images a map references: registered URLs are
// fetched in parallel, decoded and kept for the duration of one map load,
// with a Cache shared between loads.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/retroblast-engine/tmx/fetch"
	"github.com/retroblast-engine/tmx/log"
)

var (
	ErrNotLoaded = errors.New("assets: not loaded")
	ErrDecode    = errors.New("assets: cannot decode image")
)

const DefaultConcurrency = 4

// Loader is a batch of image URLs. It is not reusable across map loads.
type Loader struct {
	fetcher fetch.Fetcher
	cache   *Cache // may be nil
	limit   int

	mu     sync.Mutex
	urls   []string
	queued map[string]bool
	images map[string]image.Image
}

// New returns a Loader that fetches through f, at most limit at a time.
// A nil cache disables sharing between loads.
func New(f fetch.Fetcher, cache *Cache, limit int) *Loader {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	return &Loader{
		fetcher: f,
		cache:   cache,
		limit:   limit,
		queued:  map[string]bool{},
		images:  map[string]image.Image{},
	}
}

// Add registers url. Registering the same URL twice is a no-op.
func (l *Loader) Add(url string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.queued[url] {
		return
	}
	l.queued[url] = true
	l.urls = append(l.urls, url)
}

func (l *Loader) Get(url string) (image.Image, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	img, ok := l.images[url]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, url)
	}
	return img, nil
}

// LoadAll loads every registered URL. It returns nil once all of them are
// loaded, or the first error, in which case the remaining fetches are
// cancelled. progress is called after each image, never concurrently.
func (l *Loader) LoadAll(ctx context.Context, progress func(loaded, total int, url string)) error {
	l.mu.Lock()
	urls := append([]string(nil), l.urls...)
	l.mu.Unlock()

	var (
		progressMu sync.Mutex
		loaded     int
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.limit)
	for _, u := range urls {
		g.Go(func() error {
			img, err := l.load(ctx, u)
			if err != nil {
				return err
			}

			l.mu.Lock()
			l.images[u] = img
			l.mu.Unlock()

			progressMu.Lock()
			defer progressMu.Unlock()
			loaded++
			log.WithFields(log.Fields{"asset": u, "loaded": loaded, "total": len(urls)}).Debug("assets: loaded")
			if progress != nil {
				progress(loaded, len(urls), u)
			}
			return nil
		})
	}
	return g.Wait()
}

func (l *Loader) load(ctx context.Context, url string) (image.Image, error) {
	if l.cache != nil {
		return l.cache.GetOrLoad(ctx, url, l.fetchImage)
	}
	return l.fetchImage(ctx, url)
}

func (l *Loader) fetchImage(ctx context.Context, url string) (image.Image, error) {
	data, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	img, _, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return img, nil
}
