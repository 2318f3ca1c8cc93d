package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/retroblast-engine/tmx"
	"github.com/retroblast-engine/tmx/ebitenmap"
	"github.com/retroblast-engine/tmx/internal/app"
	"github.com/retroblast-engine/tmx/log"
)

const (
	screenWidth  = 640
	screenHeight = 480
	panSpeed     = 4
)

type game struct {
	renderer *ebitenmap.Renderer
	layers   []*tmx.TileMap
	opts     ebitenmap.DrawOptions

	loaded chan *tmx.Map
	failed chan error
	status string
}

func (g *game) Update() error {
	select {
	case m := <-g.loaded:
		for _, l := range m.Layers {
			g.layers = append(g.layers, m.LayerAsTileMap(l))
		}
		g.status = fmt.Sprintf("%s  %d layers", m.Filename, len(m.Layers))
	case err := <-g.failed:
		g.status = err.Error()
	default:
	}

	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	step := panSpeed / g.opts.Scale
	if ebiten.IsKeyPressed(ebiten.KeyLeft) || ebiten.IsKeyPressed(ebiten.KeyA) {
		g.opts.OffsetX -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyRight) || ebiten.IsKeyPressed(ebiten.KeyD) {
		g.opts.OffsetX += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyUp) || ebiten.IsKeyPressed(ebiten.KeyW) {
		g.opts.OffsetY -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyDown) || ebiten.IsKeyPressed(ebiten.KeyS) {
		g.opts.OffsetY += step
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	for _, tm := range g.layers {
		g.renderer.Draw(screen, tm, g.opts)
	}
	ebitenutil.DebugPrint(screen, g.status)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	configPath := flag.String("config", "", "config file (yaml, toml or json)")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: tmxview [-config file] <map.tmx | url>")
		os.Exit(1)
	}

	cfg, err := app.Setup(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		os.Exit(1)
	}
	scale := cfg.View.Scale
	if scale <= 0 {
		scale = 1
	}

	g := &game{
		renderer: ebitenmap.NewRenderer(),
		opts:     ebitenmap.DrawOptions{Scale: scale},
		loaded:   make(chan *tmx.Map, 1),
		failed:   make(chan error, 1),
		status:   "loading " + flag.Arg(0),
	}

	loader, err := app.NewLoader(cfg, tmx.WithStateFunc(func(url string, s tmx.State) {
		log.Debugf("%s: %s", url, s)
	}))
	if err != nil {
		log.Fatal(err)
	}
	defer loader.Close()

	loader.LoadAsync(context.Background(), flag.Arg(0),
		func(m *tmx.Map) { g.loaded <- m },
		func(err error) {
			log.Error(err)
			g.failed <- err
		})

	ebiten.SetWindowTitle("tmxview")
	ebiten.SetWindowSize(screenWidth, screenHeight)
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
