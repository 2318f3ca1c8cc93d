package assets

import (
	"context"
	"image"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultNumCounters = 10000
	DefaultMaxCost     = 256 << 20 // bytes of decoded RGBA
	imageTTL           = 30 * time.Minute
)

// Cache holds decoded images across map loads, keyed by URL. Concurrent
// misses for the same URL share a single fetch.
type Cache struct {
	images *ristretto.Cache[string, image.Image]
	group  singleflight.Group
}

func NewCache(numCounters, maxCost int64) (*Cache, error) {
	if numCounters <= 0 {
		numCounters = DefaultNumCounters
	}
	if maxCost <= 0 {
		maxCost = DefaultMaxCost
	}
	images, err := ristretto.NewCache[string, image.Image](&ristretto.Config[string, image.Image]{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{images: images}, nil
}

// GetOrLoad returns the cached image for url, calling load on a miss. The
// shared load ignores ctx cancellation; each caller returns as soon as its
// own ctx is done.
func (c *Cache) GetOrLoad(ctx context.Context, url string, load func(context.Context, string) (image.Image, error)) (image.Image, error) {
	if img, ok := c.images.Get(url); ok {
		return img, nil
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(url, func() (any, error) {
		if img, ok := c.images.Get(url); ok {
			return img, nil
		}
		img, err := load(flightCtx, url)
		if err != nil {
			return nil, err
		}
		c.images.SetWithTTL(url, img, cost(img), imageTTL)
		c.images.Wait()
		return img, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return nil, r.Err
		}
		return r.Val.(image.Image), nil
	}
}

func (c *Cache) Close() {
	c.images.Close()
}

func cost(img image.Image) int64 {
	b := img.Bounds()
	return max(int64(b.Dx())*int64(b.Dy())*4, 1)
}
