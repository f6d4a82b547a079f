package sfc

import (
	"net/url"
	"strings"

	"github.com/robbyt/go-sfctemplate/internal/helpers"
)

const scopeIDLength = 8

// ScopeID derives the scope identifier for a component. In production the
// source is mixed in so that edited components get a new id.
func ScopeID(shortPath, source string, isProd bool) string {
	input := filepath2slash(shortPath)
	if isProd {
		input += "\n" + source
	}
	return helpers.ShortDigest(input, scopeIDLength)
}

// ScopeAttribute returns the attribute name used to scope CSS for id.
func ScopeAttribute(id string) string {
	return "data-v-" + id
}

// TemplateRequest builds the request string for the template block of the
// component at resourcePath. The id parameter is the correlation token that
// the template loader reads back.
func TemplateRequest(resourcePath, scopeID string, extra url.Values) string {
	q := url.Values{}
	for k, v := range extra {
		q[k] = append([]string(nil), v...)
	}
	q.Set("type", "template")
	q.Set("id", scopeID)
	// "vue" is a bare flag, so it is written before the encoded values.
	return resourcePath + "?vue&" + q.Encode()
}

func filepath2slash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}
