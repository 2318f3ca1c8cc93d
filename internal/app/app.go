// Package app wires configuration, logging, transport and the image cache
// into a map loader for the commands.
package app

import (
	"fmt"

	"github.com/retroblast-engine/tmx"
	"github.com/retroblast-engine/tmx/assets"
	"github.com/retroblast-engine/tmx/config"
	"github.com/retroblast-engine/tmx/fetch"
	"github.com/retroblast-engine/tmx/log"
)

// Setup loads the configuration at path (may be empty) and initializes
// logging from it.
func Setup(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := log.Init(cfg.Log.Log()); err != nil {
		return nil, fmt.Errorf("init log: %w", err)
	}
	return cfg, nil
}

// Fetcher routes http(s) URLs over the network and everything else to
// cfg.Fetch.Root.
func Fetcher(cfg *config.Config) fetch.Fetcher {
	return &fetch.Mux{
		Remote: fetch.NewHTTP(cfg.Fetch.Timeout),
		Local:  fetch.NewDir(cfg.Fetch.Root),
	}
}

// Loader is a map loader with its shared image cache.
type Loader struct {
	*tmx.Loader
	cache *assets.Cache
}

func (l *Loader) Close() {
	l.cache.Close()
}

func NewLoader(cfg *config.Config, opts ...tmx.Option) (*Loader, error) {
	cache, err := assets.NewCache(cfg.Cache.NumCounters, cfg.Cache.MaxCost)
	if err != nil {
		return nil, fmt.Errorf("image cache: %w", err)
	}

	f := Fetcher(cfg)
	newAssets := func() tmx.AssetLoader {
		return assets.New(f, cache, cfg.Fetch.Concurrency)
	}
	return &Loader{
		Loader: tmx.NewLoader(f, newAssets, opts...),
		cache:  cache,
	}, nil
}
