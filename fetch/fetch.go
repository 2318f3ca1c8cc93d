// Package fetch retrieves map documents and images by URL, over HTTP or from
// a directory tree.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

// ErrNotFound is returned when the resource does not exist.
var ErrNotFound = errors.New("fetch: not found")

// Fetcher returns the bytes behind a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Func adapts a function to the Fetcher interface.
type Func func(ctx context.Context, url string) ([]byte, error)

func (f Func) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: http status %d", e.URL, e.Code)
}

// HTTP fetches over net/http.
type HTTP struct {
	Client *http.Client
}

// NewHTTP returns an HTTP fetcher whose requests time out after timeout.
// Zero means no timeout.
func NewHTTP(timeout time.Duration) *HTTP {
	return &HTTP{Client: &http.Client{Timeout: timeout}}
}

func (h *HTTP) Fetch(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, u)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: u, Code: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", u, err)
	}
	return data, nil
}

// Dir fetches slash-separated paths from a file system. A leading "/" and a
// file:// scheme are ignored.
type Dir struct {
	FS fs.FS
}

// NewDir returns a Dir rooted at the given OS directory.
func NewDir(root string) *Dir {
	return &Dir{FS: os.DirFS(root)}
}

func (d *Dir) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := strings.TrimPrefix(name, "file://")
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if !fs.ValidPath(p) || p == "." {
		return nil, fmt.Errorf("fetch %s: invalid path", name)
	}

	data, err := fs.ReadFile(d.FS, p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	return data, nil
}

// Mux sends http and https URLs to Remote and everything else to Local.
type Mux struct {
	Remote Fetcher
	Local  Fetcher
}

func (m *Mux) Fetch(ctx context.Context, u string) ([]byte, error) {
	if IsRemote(u) {
		if m.Remote == nil {
			return nil, fmt.Errorf("fetch %s: no remote fetcher", u)
		}
		return m.Remote.Fetch(ctx, u)
	}
	if m.Local == nil {
		return nil, fmt.Errorf("fetch %s: no local fetcher", u)
	}
	return m.Local.Fetch(ctx, u)
}

// IsRemote reports whether u is an http or https URL.
func IsRemote(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// Dirname returns u with its last path segment removed, keeping the
// trailing slash: "maps/level1.tmx" becomes "maps/".
func Dirname(u string) string {
	return u[:strings.LastIndex(u, "/")+1]
}

// Resolve resolves src, as written inside a document, against the document's
// directory dir.
func Resolve(dir, src string) string {
	if strings.Contains(src, "://") {
		return src
	}
	if base, err := url.Parse(dir); err == nil && base.Scheme != "" {
		if ref, err := url.Parse(src); err == nil {
			return base.ResolveReference(ref).String()
		}
	}
	if strings.HasPrefix(src, "/") {
		return path.Clean(src)
	}
	return path.Clean(dir + src)
}
