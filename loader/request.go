package loader

import (
	"net/url"
	"strings"
)

// Request is the parsed query of a template request.
type Request struct {
	// ID is the scope id shared with the request that selected the block.
	ID    string
	Query url.Values
}

// ParseRequest parses a resource query. Malformed pairs are skipped; the
// returned error reports the first of them.
func ParseRequest(query string) (Request, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	return Request{ID: values.Get("id"), Query: values}, err
}
