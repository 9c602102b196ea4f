// Package imagepath computes the alternate delivery path for a generated
// photograph when its primary path fails to load.
//
// The generation service publishes each photograph under two equivalent
// prefixes: the static mount and the API image route. A failed load on one
// is retried once on the other.
package imagepath

import "strings"

const (
	// StaticPrefix is the static file mount.
	StaticPrefix = "/static/images/"
	// APIPrefix is the image route served by the generation API.
	APIPrefix = "/api/images/"
)

// Resolve returns the fallback candidate for a path that failed to load.
//
//	/static/images/<name> -> /api/images/<name>
//	/api/images/<name>    -> /static/images/<name>
//	anything else         -> /api/images/<basename>
//
// ok is false when the candidate would equal the input, which keeps the
// fallback from looping on itself.
func Resolve(path string) (candidate string, ok bool) {
	name := Basename(path)
	switch {
	case strings.HasPrefix(path, StaticPrefix):
		candidate = APIPrefix + name
	case strings.HasPrefix(path, APIPrefix):
		candidate = StaticPrefix + name
	default:
		candidate = APIPrefix + name
	}
	if candidate == path {
		return "", false
	}
	return candidate, true
}

// Basename returns the final "/"-delimited segment of path.
func Basename(path string) string {
	if i := strings.LastIndexByte(path, '/'); i >= 0 {
		return path[i+1:]
	}
	return path
}
