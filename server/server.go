// Package server exposes loaded maps over HTTP as JSON.
package server

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/retroblast-engine/tmx"
	"github.com/retroblast-engine/tmx/log"
)

// MapLoader is the part of tmx.Loader the server needs.
type MapLoader interface {
	Load(ctx context.Context, url string) (*tmx.Map, error)
}

type Server struct {
	loader MapLoader
}

// New returns a gin engine serving maps loaded through loader. Requests
// from corsOrigins are allowed cross-origin; "*" allows any origin.
func New(loader MapLoader, corsOrigins []string) *gin.Engine {
	e := gin.New()
	e.Use(gin.Recovery(), requestLogger())
	if len(corsOrigins) > 0 {
		cfg := cors.DefaultConfig()
		if len(corsOrigins) == 1 && corsOrigins[0] == "*" {
			cfg.AllowAllOrigins = true
		} else {
			cfg.AllowOrigins = corsOrigins
		}
		e.Use(cors.New(cfg))
	}

	s := &Server{loader: loader}
	s.Routers(e.Group("/"))
	return e
}

func (s *Server) Routers(g *gin.RouterGroup) {
	g.GET("healthz", s.Health)
	g.GET("maps/*path", s.Map)
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GET /maps/*path[?layer=NAME]
func (s *Server) Map(c *gin.Context) {
	p := strings.TrimPrefix(path.Clean("/"+c.Param("path")), "/")
	if p == "" || p == "." {
		fail(c, http.StatusBadRequest, CodeBadParams, "map path is required")
		return
	}

	m, err := s.loader.Load(c.Request.Context(), p)
	if err != nil {
		status, code := loadStatus(err)
		log.WithFields(log.Fields{"map": p, "status": status}).Warnf("load failed: %v", err)
		fail(c, status, code, err.Error())
		return
	}

	name, hasLayer := c.GetQuery("layer")
	if !hasLayer {
		ok(c, summarize(m))
		return
	}
	layer := m.Layer(name)
	if layer == nil {
		fail(c, http.StatusNotFound, CodeNotFound, fmt.Sprintf("layer %q not found", name))
		return
	}
	ok(c, layerTiles(layer))
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"elapsed": time.Since(start),
		}).Debug("http request")
	}
}
