package uri

import (
	"strings"

	"github.com/ghettovoice/urikit/internal/constraints"
	"github.com/ghettovoice/urikit/query"
)

// RequestTarget is an HTTP request target ("/path/index.php?arg=value")
// split into the path, its path info and decoded query parameters.
type RequestTarget struct {
	Path string `json:"path" yaml:"path"`
	PathInfo `yaml:",inline"`
	Query *query.Map `json:"query" yaml:"query"`
}

// ParseRequestTarget splits s (string or []byte) at the first '?' into path and query.
// An empty path becomes "/". No scheme or authority is recognized.
func ParseRequestTarget[T constraints.Byteseq](s T) RequestTarget {
	return ParseRequestTargetWith(s, nil)
}

// ParseRequestTargetWith works like [ParseRequestTarget] and decodes the query with the given options.
func ParseRequestTargetWith[T constraints.Byteseq](s T, opts *query.ParseOptions) RequestTarget {
	path, params, _ := strings.Cut(string(s), "?")
	if path == "" {
		path = "/"
	}
	return RequestTarget{
		Path:     path,
		PathInfo: ParsePathInfo(path),
		Query:    query.ParseWith(params, opts),
	}
}
