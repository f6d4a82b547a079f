package source

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"time"
)

// HTTPOptions configures FromHTTP. Use DefaultHTTPOptions and adjust.
type HTTPOptions struct {
	// Timeout bounds the whole request. Default is 30 seconds.
	Timeout time.Duration

	TLSConfig *tls.Config

	// InsecureSkipVerify disables certificate checks; test environments only.
	InsecureSkipVerify bool

	// Username enables basic authentication when non-empty.
	Username string
	Password string

	// Headers are set on every request, e.g. Authorization for bearer tokens.
	Headers map[string]string
}

// DefaultHTTPOptions returns options with a 30 second timeout and no auth.
func DefaultHTTPOptions() *HTTPOptions {
	return &HTTPOptions{
		Timeout: 30 * time.Second,
		Headers: make(map[string]string),
	}
}

// FromHTTP downloads a module from an HTTP or HTTPS URL.
type FromHTTP struct {
	url       string
	sourceURL *url.URL
	options   *HTTPOptions
	client    *http.Client
}

// NewFromHTTP creates a FromHTTP with DefaultHTTPOptions.
func NewFromHTTP(rawURL string) (*FromHTTP, error) {
	return NewFromHTTPWithOptions(rawURL, DefaultHTTPOptions())
}

func NewFromHTTPWithOptions(rawURL string, options *HTTPOptions) (*FromHTTP, error) {
	sourceURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("unable to parse URL: %w", err)
	}
	if sourceURL.Scheme != "http" && sourceURL.Scheme != "https" {
		return nil, fmt.Errorf("%w: %s", ErrSchemeUnsupported, rawURL)
	}
	if options == nil {
		options = DefaultHTTPOptions()
	}

	client := &http.Client{Timeout: options.Timeout}
	if options.InsecureSkipVerify || options.TLSConfig != nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if options.TLSConfig != nil {
			transport.TLSClientConfig = options.TLSConfig
		} else {
			transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		}
		client.Transport = transport
	}

	opts := *options
	opts.Headers = maps.Clone(options.Headers)

	return &FromHTTP{
		url:       rawURL,
		sourceURL: sourceURL,
		options:   &opts,
		client:    client,
	}, nil
}

func (s *FromHTTP) String() string {
	return fmt.Sprintf("source.FromHTTP{URL: %s}", s.url)
}

// GetReader issues the GET request. Non-2xx answers yield ErrNotAvailable.
func (s *FromHTTP) GetReader(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if s.options.Username != "" {
		req.SetBasicAuth(s.options.Username, s.options.Password)
	}
	for key, value := range s.options.Headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", "go-sfctemplate/module-source")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: HTTP %d - %s", ErrNotAvailable, resp.StatusCode, resp.Status)
	}
	return resp.Body, nil
}

func (s *FromHTTP) GetSourceURL() *url.URL {
	return s.sourceURL
}
