package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/retroblast-engine/tmx/internal/app"
	"github.com/retroblast-engine/tmx/log"
	"github.com/retroblast-engine/tmx/server"
)

func main() {
	configPath := flag.String("config", "", "config file (yaml, toml or json)")
	addr := flag.String("addr", "", "listen address, overrides server.addr")
	flag.Parse()

	cfg, err := app.Setup(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	loader, err := app.NewLoader(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer loader.Close()

	gin.SetMode(gin.ReleaseMode)
	e := server.New(loader, cfg.Server.CORSOrigins)

	log.Infof("serving maps from %s on %s", cfg.Fetch.Root, cfg.Server.Addr)
	if err := e.Run(cfg.Server.Addr); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
