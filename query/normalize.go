package query

import (
	"net/url"

	"braces.dev/errtrace"

	"github.com/ghettovoice/urikit/internal/errorutil"
)

// ErrInvalidQuery is returned when a value can not be turned into a query mapping.
const ErrInvalidQuery errorutil.Error = "invalid query"

// Normalize turns v into a query mapping.
//
//   - string and []byte are decoded with [Parse];
//   - *Map is returned as is, a nil *Map becomes an empty map;
//   - map[string]string, map[string][]string, [net/url.Values] and map[string]any
//     are converted with keys sorted, nested values are converted recursively;
//   - anything else fails with [ErrInvalidQuery].
//
// Empty strings and empty maps are valid and produce an empty map.
func Normalize(v any) (*Map, error) { return errtrace.Wrap2(NormalizeWith(v, nil)) }

// NormalizeWith works like [Normalize] and decodes strings with the given options.
func NormalizeWith(v any, opts *ParseOptions) (*Map, error) {
	switch v := v.(type) {
	case string:
		return ParseWith(v, opts), nil
	case []byte:
		return ParseWith(v, opts), nil
	case *Map:
		if v == nil {
			return NewMap(), nil
		}
		return v, nil
	case Map:
		return &v, nil
	case map[string]string, map[string]any:
		m, _ := fromAny(v).(*Map)
		return m, nil
	case map[string][]string:
		return fromMultiMap(v), nil
	case url.Values:
		return fromMultiMap(v), nil
	default:
		return nil, errtrace.Wrap(newInvalidQueryErr("unsupported type %T", v))
	}
}

func newInvalidQueryErr(args ...any) error {
	return errorutil.NewWrapperError(ErrInvalidQuery, args...) //errtrace:skip
}
