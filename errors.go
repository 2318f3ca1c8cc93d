package tmx

import "errors"

// Errors returned while loading a map. Every failure is wrapped with the
// element it came from, so callers should test with errors.Is.
var (
	ErrTransport              = errors.New("tmx: transport failure")
	ErrInvalidData            = errors.New("tmx: invalid map data")
	ErrUnsupportedEncoding    = errors.New("tmx: unsupported layer encoding")
	ErrUnsupportedCompression = errors.New("tmx: unsupported layer compression")
	ErrUnsupportedOrientation = errors.New("tmx: unsupported map orientation")
	ErrUnsupportedTileset     = errors.New("tmx: unsupported tileset")
	ErrTileNotFound           = errors.New("tmx: tile not found")
)
