package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/robbyt/go-sfctemplate/internal/helpers"
)

// FromBytes serves module content held in memory, such as an embedded script
// or WASM binary.
type FromBytes struct {
	content   []byte
	sourceURL *url.URL
}

// NewFromBytes creates a FromBytes. Empty content is rejected.
func NewFromBytes(content []byte) (*FromBytes, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("%w: content is empty", ErrNotAvailable)
	}
	return &FromBytes{
		content:   content,
		sourceURL: &url.URL{Scheme: "bytes", Host: "inline", Path: "/" + helpers.SHA256Bytes(content)[:8]},
	}, nil
}

// NewFromString creates a FromBytes holding content.
func NewFromString(content string) (*FromBytes, error) {
	return NewFromBytes([]byte(content))
}

func (s *FromBytes) String() string {
	return fmt.Sprintf("source.FromBytes{Bytes: %d}", len(s.content))
}

func (s *FromBytes) GetReader(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.content)), nil
}

func (s *FromBytes) GetSourceURL() *url.URL {
	return s.sourceURL
}
