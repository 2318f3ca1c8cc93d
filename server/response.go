package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/retroblast-engine/tmx"
	"github.com/retroblast-engine/tmx/fetch"
)

const (
	CodeSuccess     = 0
	CodeBadParams   = 4000
	CodeNotFound    = 4040
	CodeUnsupported = 4220
	CodeUpstream    = 5020
)

type Response struct {
	Timestamp int64  `json:"timestamp"`
	Code      int    `json:"code"`
	Msg       string `json:"msg"`
	Data      any    `json:"data,omitempty"`
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Timestamp: time.Now().Unix(),
		Code:      CodeSuccess,
		Msg:       "success",
		Data:      data,
	})
}

func fail(c *gin.Context, status, code int, msg string) {
	c.JSON(status, Response{
		Timestamp: time.Now().Unix(),
		Code:      code,
		Msg:       msg,
	})
}

// loadStatus maps a load error to an HTTP status and response code.
func loadStatus(err error) (int, int) {
	switch {
	case errors.Is(err, fetch.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, tmx.ErrInvalidData),
		errors.Is(err, tmx.ErrUnsupportedEncoding),
		errors.Is(err, tmx.ErrUnsupportedCompression),
		errors.Is(err, tmx.ErrUnsupportedOrientation),
		errors.Is(err, tmx.ErrUnsupportedTileset),
		errors.Is(err, tmx.ErrTileNotFound):
		return http.StatusUnprocessableEntity, CodeUnsupported
	default:
		return http.StatusBadGateway, CodeUpstream
	}
}
