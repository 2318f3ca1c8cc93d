package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/davecgh/go-spew/spew"

	"github.com/retroblast-engine/tmx"
	"github.com/retroblast-engine/tmx/internal/app"
	"github.com/retroblast-engine/tmx/log"
)

func main() {
	configPath := flag.String("config", "", "config file (yaml, toml or json)")
	copyOut := flag.Bool("copy", false, "copy the summary to the clipboard")
	dump := flag.Bool("dump", false, "dump the whole map model")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tmxinfo [flags] <map.tmx | url>")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := app.Setup(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		os.Exit(1)
	}

	loader, err := app.NewLoader(cfg, tmx.WithProgress(func(loaded, total int, url string) {
		log.Debugf("asset %d/%d %s", loaded, total, url)
	}))
	if err != nil {
		log.Fatal(err)
	}
	defer loader.Close()

	m, err := loader.Load(context.Background(), flag.Arg(0))
	if err != nil {
		log.Error(err)
		os.Exit(1)
	}

	if *dump {
		spew.Config.MaxDepth = 4
		spew.Dump(m)
	}

	summary := describe(m)
	fmt.Print(summary)
	if *copyOut {
		if err := clipboard.WriteAll(summary); err != nil {
			log.Warnf("copy to clipboard: %v", err)
		}
	}
}

func describe(m *tmx.Map) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s %dx%d tiles of %dx%d px (version %g)\n",
		m.Filename, m.Orientation, m.Width, m.Height, m.TileWidth, m.TileHeight, m.Version)
	writeProps(&b, "  ", m.Properties)

	fmt.Fprintf(&b, "tilesets: %d\n", len(m.Tilesets))
	for _, ts := range m.Tilesets {
		fmt.Fprintf(&b, "  %-16s gids %d-%d  %dx%d  %s\n",
			ts.Name, ts.FirstGID, int(ts.FirstGID)+ts.TileCount()-1, ts.Columns, ts.Rows, ts.Image.Source)
	}

	fmt.Fprintf(&b, "layers: %d\n", len(m.Layers))
	for _, l := range m.Layers {
		fmt.Fprintf(&b, "  %-16s %dx%d  %d tiles\n", l.Name, l.Width, l.Height, len(l.Tiles))
		writeProps(&b, "    ", l.Properties)
	}

	fmt.Fprintf(&b, "objects: %d\n", len(m.Objects))
	for _, o := range m.Objects {
		fmt.Fprintf(&b, "  %-16s %-9s at (%d,%d) size %dx%d", o.Name, o.Type, o.X, o.Y, o.Width, o.Height)
		if o.HasTile {
			fmt.Fprintf(&b, " gid %d", o.GID)
		}
		if len(o.Points) > 0 {
			fmt.Fprintf(&b, " %d points", len(o.Points))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func writeProps(b *strings.Builder, indent string, props map[string]string) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, "%s%s = %q\n", indent, k, props[k])
	}
}
