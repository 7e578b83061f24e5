package query

import (
	"braces.dev/errtrace"
	"github.com/go-viper/mapstructure/v2"

	"github.com/ghettovoice/urikit/internal/errorutil"
)

// Decode binds the map into out, which must be a pointer to a struct or a map.
// Struct fields are matched by the "query" tag or by a case-insensitive field name.
// Scalar values are converted to the field types, so "page=2" fills an int field.
func (m *Map) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "query",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError(err))
	}
	in := m.ToAny()
	if in == nil {
		in = map[string]any{}
	}
	if err := dec.Decode(in); err != nil {
		return errtrace.Wrap(errorutil.NewInvalidArgumentError(err))
	}
	return nil
}
