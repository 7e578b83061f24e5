package query

import (
	"fmt"
	"io"
	"strconv"

	"braces.dev/errtrace"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/ghettovoice/urikit/internal/grammar"
	"github.com/ghettovoice/urikit/internal/ioutil"
	"github.com/ghettovoice/urikit/internal/util"
)

// RenderTo writes the form-encoded representation of the map to w.
// Nested keys are rendered with escaped brackets ("a%5Bb%5D=1"), list elements
// get their index as a key. Empty lists and maps produce nothing.
func (m *Map) RenderTo(w io.Writer) (num int, err error) {
	if m == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	var sep bool
	for k, v := range m.All() {
		renderPair(cw, grammar.EscapeForm(k), v, &sep)
	}
	return errtrace.Wrap2(cw.Result())
}

func renderPair(cw *ioutil.CountingWriter, key string, val Value, sep *bool) {
	switch v := val.(type) {
	case String:
		if *sep {
			cw.WriteByte('&') //nolint:errcheck
		}
		cw.Fprint(key, "=", grammar.EscapeForm(string(v)))
		*sep = true
	case List:
		for i, e := range v {
			renderPair(cw, key+"%5B"+strconv.Itoa(i)+"%5D", e, sep)
		}
	case *Map:
		for k, e := range v.All() {
			renderPair(cw, key+"%5B"+grammar.EscapeForm(k)+"%5D", e, sep)
		}
	}
}

// Encode returns the form-encoded representation of the map.
func (m *Map) Encode() string {
	if m == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	m.RenderTo(sb) //nolint:errcheck
	return sb.String()
}

// String returns the form-encoded representation of the map.
func (m *Map) String() string { return m.Encode() }

// Format implements fmt.Formatter for custom formatting of the map.
func (m *Map) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, m.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(m.String()))
		return
	default:
		fmt.Fprintf(f, fmt.FormatString(f, verb), m.ToAny())
		return
	}
}

// MarshalJSON implements [json.Marshaler]. Keys keep their insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return errtrace.Wrap2(appendJSON(make([]byte, 0, 64), m))
}

func appendJSON(buf []byte, val Value) ([]byte, error) {
	switch v := val.(type) {
	case String:
		b, err := json.Marshal(string(v))
		if err != nil {
			return nil, errtrace.Wrap(err)
		}
		return append(buf, b...), nil
	case List:
		buf = append(buf, '[')
		for i, e := range v {
			if i > 0 {
				buf = append(buf, ',')
			}
			var err error
			if buf, err = appendJSON(buf, e); err != nil {
				return nil, errtrace.Wrap(err)
			}
		}
		return append(buf, ']'), nil
	case *Map:
		buf = append(buf, '{')
		var i int
		for k, e := range v.All() {
			if i > 0 {
				buf = append(buf, ',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return nil, errtrace.Wrap(err)
			}
			buf = append(append(buf, kb...), ':')
			if buf, err = appendJSON(buf, e); err != nil {
				return nil, errtrace.Wrap(err)
			}
			i++
		}
		return append(buf, '}'), nil
	default:
		return append(buf, "null"...), nil
	}
}

// MarshalYAML implements [yaml.Marshaler]. Keys keep their insertion order.
func (m *Map) MarshalYAML() (any, error) {
	return yamlNode(m), nil
}

func yamlNode(val Value) *yaml.Node {
	switch v := val.(type) {
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(v)}
	case List:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range v {
			n.Content = append(n.Content, yamlNode(e))
		}
		return n
	case *Map:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for k, e := range v.All() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k},
				yamlNode(e),
			)
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
