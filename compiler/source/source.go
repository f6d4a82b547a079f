// Package source fetches the bytes of compiler modules named in loader
// configuration: files on disk, HTTP(S) URLs, or inline content.
package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
)

// Source provides the content of one compiler module.
type Source interface {
	GetReader(ctx context.Context) (io.ReadCloser, error)
	GetSourceURL() *url.URL
}

// ReadAll reads and closes the content of s.
func ReadAll(ctx context.Context, s Source) ([]byte, error) {
	if s == nil {
		return nil, ErrSourceNil
	}
	r, err := s.GetReader(ctx)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if closeErr := r.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("failed to close reader: %w", closeErr)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.GetSourceURL(), err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInputEmpty, s.GetSourceURL())
	}
	return data, nil
}
