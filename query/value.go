package query

//go:generate go tool errtrace -w .

import (
	"fmt"
	"net/url"
	"slices"
	"strconv"
)

// Value is a decoded query value: [String], [List] or [*Map].
type Value interface {
	queryValue()
}

// String is a scalar query value.
type String string

func (String) queryValue() {}

// String returns the value as a plain string.
func (s String) String() string { return string(s) }

// List is a sequence of query values, produced by "key[]=..." pairs.
type List []Value

func (List) queryValue() {}

// Clone returns a deep copy of the list.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	l2 := make(List, len(l))
	for i, v := range l {
		l2[i] = cloneValue(v)
	}
	return l2
}

// Strings returns scalar elements of the list. Nested elements are skipped.
func (l List) Strings() []string {
	ss := make([]string, 0, len(l))
	for _, v := range l {
		if s, ok := v.(String); ok {
			ss = append(ss, string(s))
		}
	}
	return ss
}

func (*Map) queryValue() {}

func cloneValue(v Value) Value {
	switch v := v.(type) {
	case List:
		return v.Clone()
	case *Map:
		return v.Clone()
	default:
		return v
	}
}

// toAny converts v into plain Go values: string, []any and map[string]any.
func toAny(v Value) any {
	switch v := v.(type) {
	case String:
		return string(v)
	case List:
		vs := make([]any, len(v))
		for i := range v {
			vs[i] = toAny(v[i])
		}
		return vs
	case *Map:
		return v.ToAny()
	default:
		return nil
	}
}

// fromAny converts plain Go values into a Value.
// Scalars that are not strings are formatted with fmt.
func fromAny(v any) Value {
	switch v := v.(type) {
	case nil:
		return String("")
	case Value:
		return cloneValue(v)
	case string:
		return String(v)
	case []byte:
		return String(v)
	case bool:
		return String(strconv.FormatBool(v))
	case []string:
		l := make(List, len(v))
		for i := range v {
			l[i] = String(v[i])
		}
		return l
	case []any:
		l := make(List, len(v))
		for i := range v {
			l[i] = fromAny(v[i])
		}
		return l
	case map[string]string:
		m := NewMap()
		for _, k := range sortedKeys(v) {
			m.Set(k, String(v[k]))
		}
		return m
	case map[string][]string:
		return fromMultiMap(v)
	case url.Values:
		return fromMultiMap(v)
	case map[string]any:
		m := NewMap()
		for _, k := range sortedKeys(v) {
			m.Set(k, fromAny(v[k]))
		}
		return m
	case fmt.Stringer:
		return String(v.String())
	default:
		return String(fmt.Sprint(v))
	}
}

func fromMultiMap[M ~map[string][]string](mm M) *Map {
	m := NewMap()
	for _, k := range sortedKeys(mm) {
		switch vs := mm[k]; len(vs) {
		case 0:
			m.Set(k, String(""))
		case 1:
			m.Set(k, String(vs[0]))
		default:
			l := make(List, len(vs))
			for i := range vs {
				l[i] = String(vs[i])
			}
			m.Set(k, l)
		}
	}
	return m
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	ks := make([]string, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	slices.Sort(ks)
	return ks
}
