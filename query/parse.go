package query

import (
	"strconv"
	"strings"

	"github.com/ghettovoice/urikit/internal/grammar"
)

// DefaultMaxDepth is the default limit of bracket groups in a key.
const DefaultMaxDepth = 64

// ParseOptions control query string decoding.
type ParseOptions struct {
	// Separators lists bytes that separate key-value pairs. Empty means "&".
	Separators string `json:"separators,omitempty" yaml:"separators,omitempty"`
	// MaxDepth limits the number of bracket groups in a key.
	// Pairs with deeper keys are discarded. Zero or negative means [DefaultMaxDepth].
	MaxDepth int `json:"max_depth,omitempty" yaml:"max_depth,omitempty"`
}

func (o *ParseOptions) separators() string {
	if o == nil || o.Separators == "" {
		return "&"
	}
	return o.Separators
}

func (o *ParseOptions) maxDepth() int {
	if o == nil || o.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

// Parse decodes a form-encoded query string s (string or []byte) with default options.
func Parse[T ~string | ~[]byte](s T) *Map { return ParseWith(s, nil) }

// ParseWith decodes a form-encoded query string s (string or []byte).
// A nil opts means default options.
func ParseWith[T ~string | ~[]byte](s T, opts *ParseOptions) *Map {
	m := NewMap()
	if len(s) == 0 {
		return m
	}

	seps, depth := opts.separators(), opts.maxDepth()
	for _, pair := range strings.FieldsFunc(string(s), func(r rune) bool { return strings.ContainsRune(seps, r) }) {
		k, v, _ := strings.Cut(pair, "=")
		k = grammar.UnescapeForm(k)
		if k == "" {
			continue
		}
		segs, ok := splitKey(k, depth)
		if !ok {
			continue
		}
		m.assign(segs, String(grammar.UnescapeForm(v)))
	}
	return m
}

// splitKey splits a decoded key like "a[b][]" into its segments: "a", "b", "".
// An unclosed first bracket makes the whole key literal, text after the last closed group is ignored.
// It reports false when the key has no name or is nested deeper than depth.
func splitKey(k string, depth int) ([]string, bool) {
	open := strings.IndexByte(k, '[')
	switch {
	case open < 0:
		return []string{k}, true
	case open == 0:
		return nil, false
	}

	segs := []string{k[:open]}
	for pos := open; pos < len(k) && k[pos] == '['; {
		end := strings.IndexByte(k[pos+1:], ']')
		if end < 0 {
			if len(segs) == 1 {
				return []string{k}, true
			}
			break
		}
		segs = append(segs, k[pos+1:pos+1+end])
		pos += end + 2
	}
	if len(segs)-1 > depth {
		return nil, false
	}
	return segs, true
}

func (m *Map) assign(segs []string, val String) {
	assignMap(m, segs, val)
}

func assignMap(m *Map, segs []string, val String) *Map {
	key := segs[0]
	if key == "" {
		key = m.nextIndex()
	}
	if len(segs) == 1 {
		return m.Set(key, val)
	}
	cur, _ := m.Get(key)
	return m.Set(key, assignValue(cur, segs[1:], val))
}

func assignList(l List, segs []string, val String) Value {
	key := segs[0]
	i := len(l)
	if key != "" {
		var ok bool
		if i, ok = listIndex(key, len(l)); !ok {
			return assignMap(listToMap(l), segs, val)
		}
	}

	var v Value = val
	if len(segs) > 1 {
		var cur Value
		if i < len(l) {
			cur = l[i]
		}
		v = assignValue(cur, segs[1:], val)
	}
	if i == len(l) {
		return append(l, v)
	}
	l[i] = v
	return l
}

func assignValue(cur Value, segs []string, val String) Value {
	switch cur := cur.(type) {
	case List:
		return assignList(cur, segs, val)
	case *Map:
		return assignMap(cur, segs, val)
	default:
		// nothing yet or a scalar that gets replaced by a container
		if segs[0] == "" || segs[0] == "0" {
			return assignList(nil, segs, val)
		}
		return assignMap(NewMap(), segs, val)
	}
}

// listIndex reports whether key addresses an existing element of a list of length n
// or the position right after the last one.
func listIndex(key string, n int) (int, bool) {
	if !isIndex(key) {
		return 0, false
	}
	i, err := strconv.Atoi(key)
	if err != nil || i > n {
		return 0, false
	}
	return i, true
}

func listToMap(l List) *Map {
	m := NewMap()
	for i, v := range l {
		m.Set(strconv.Itoa(i), v)
	}
	return m
}
