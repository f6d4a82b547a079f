package source

import (
	"fmt"
	"net/url"
	"strings"
)

// Infer returns the Source for a module string: http(s) URLs are fetched,
// file URLs and plain paths are read from disk.
func Infer(module string) (Source, error) {
	module = strings.TrimSpace(module)
	if module == "" {
		return nil, fmt.Errorf("%w: module name is empty", ErrInputEmpty)
	}

	if u, err := url.Parse(module); err == nil && len(u.Scheme) > 1 {
		switch u.Scheme {
		case "http", "https":
			return NewFromHTTP(module)
		case "file":
			return NewFromDisk(u.Path)
		default:
			return nil, fmt.Errorf("%w: %s", ErrSchemeUnsupported, u.Scheme)
		}
	}
	return NewFromDisk(module)
}
