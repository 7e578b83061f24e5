package query

import (
	"iter"
	"slices"
	"strconv"

	"github.com/google/go-cmp/cmp"
)

// Map is an insertion ordered mapping of query keys to values.
// The zero value is an empty map ready to use.
type Map struct {
	keys []string
	vals map[string]Value
}

// NewMap returns an empty map.
func NewMap() *Map {
	return &Map{vals: make(map[string]Value)}
}

// Len returns the number of top-level keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns top-level keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return slices.Clone(m.keys)
}

// Get returns the value stored under the top-level key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vals[key]
	return v, ok
}

// GetString returns the value under the key if it is a scalar.
func (m *Map) GetString(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	s, ok := v.(String)
	return string(s), ok
}

// Has checks whether the key is present.
func (m *Map) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Set stores the value under the key.
// An existing key keeps its position, a new key is appended.
func (m *Map) Set(key string, val Value) *Map {
	if m.vals == nil {
		m.vals = make(map[string]Value)
	}
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = val
	return m
}

// Del removes the key.
func (m *Map) Del(key string) *Map {
	if m == nil {
		return m
	}
	if _, ok := m.vals[key]; !ok {
		return m
	}
	delete(m.vals, key)
	m.keys = slices.DeleteFunc(m.keys, func(k string) bool { return k == key })
	return m
}

// Clear removes all keys.
func (m *Map) Clear() *Map {
	if m == nil {
		return m
	}
	m.keys = m.keys[:0]
	clear(m.vals)
	return m
}

// All returns an iterator over key-value pairs in insertion order.
func (m *Map) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.vals[k]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	if m == nil {
		return nil
	}
	m2 := &Map{
		keys: slices.Clone(m.keys),
		vals: make(map[string]Value, len(m.vals)),
	}
	for k, v := range m.vals {
		m2.vals[k] = cloneValue(v)
	}
	return m2
}

// Equal compares the map with another one.
// Key order is not significant.
func (m *Map) Equal(val any) bool {
	var other *Map
	switch v := val.(type) {
	case *Map:
		other = v
	case Map:
		other = &v
	default:
		return false
	}

	if m == other {
		return true
	} else if m == nil || other == nil {
		return m.Len() == 0 && other.Len() == 0
	}
	return cmp.Equal(m.ToAny(), other.ToAny())
}

// ToAny converts the map into plain Go values: string, []any and map[string]any.
func (m *Map) ToAny() map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = toAny(m.vals[k])
	}
	return out
}

// nextIndex returns the key used by "[]" assignments: one more than the greatest
// non-negative integer key, or "0".
func (m *Map) nextIndex() string {
	next := 0
	for _, k := range m.keys {
		if !isIndex(k) {
			continue
		}
		if i, err := strconv.Atoi(k); err == nil && i >= next {
			next = i + 1
		}
	}
	return strconv.Itoa(next)
}

// isIndex reports whether k is a canonical non-negative decimal integer.
func isIndex(k string) bool {
	if k == "" || len(k) > 1 && k[0] == '0' {
		return false
	}
	for i := range len(k) {
		if k[i] < '0' || k[i] > '9' {
			return false
		}
	}
	return true
}

// Get returns the value stored in m under the top-level key.
// It never fails: missing keys and nil maps report false.
func Get(m *Map, key string) (Value, bool) { return m.Get(key) }
