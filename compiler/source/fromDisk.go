package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// FromDisk reads a module from the local filesystem.
type FromDisk struct {
	path      string
	sourceURL *url.URL
}

// NewFromDisk creates a FromDisk for path. Relative paths are resolved against
// the working directory; "file://" prefixes are accepted.
func NewFromDisk(path string) (*FromDisk, error) {
	path = strings.TrimPrefix(strings.TrimSpace(path), "file://")

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return nil, fmt.Errorf("%w: %s", ErrSchemeUnsupported, path)
	}
	if path == "" {
		return nil, fmt.Errorf("%w: path is empty", ErrNotAvailable)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %q: %w", path, err)
	}
	if abs == string(filepath.Separator) {
		return nil, fmt.Errorf("%w: path is invalid", ErrNotAvailable)
	}

	return &FromDisk{
		path:      abs,
		sourceURL: &url.URL{Scheme: "file", Path: filepath.ToSlash(abs)},
	}, nil
}

func (s *FromDisk) String() string {
	return fmt.Sprintf("source.FromDisk{Path: %s}", s.path)
}

// Path returns the absolute path of the module.
func (s *FromDisk) Path() string {
	return s.path
}

func (s *FromDisk) GetReader(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotAvailable, err)
	}
	return f, nil
}

func (s *FromDisk) GetSourceURL() *url.URL {
	return s.sourceURL
}
