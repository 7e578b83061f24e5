package query_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/urikit/query"
)

func TestMap_SetKeepsOrder(t *testing.T) {
	t.Parallel()

	m := query.NewMap().
		Set("b", query.String("1")).
		Set("a", query.String("2")).
		Set("b", query.String("3"))

	if got, want := m.Keys(), []string{"b", "a"}; !cmp.Equal(got, want) {
		t.Errorf("m.Keys() = %v, want %v", got, want)
	}
	if got, ok := m.GetString("b"); !ok || got != "3" {
		t.Errorf("m.GetString(\"b\") = (%q, %v), want (\"3\", true)", got, ok)
	}
}

func TestMap_Del(t *testing.T) {
	t.Parallel()

	m := query.Parse("a=1&b=2&c=3")
	m.Del("b").Del("missing")

	if got, want := m.Keys(), []string{"a", "c"}; !cmp.Equal(got, want) {
		t.Errorf("m.Keys() = %v, want %v", got, want)
	}
	if m.Has("b") {
		t.Error("m.Has(\"b\") = true, want false")
	}

	m.Clear()
	if got := m.Len(); got != 0 {
		t.Errorf("m.Len() = %d, want 0", got)
	}
}

func TestMap_ZeroValue(t *testing.T) {
	t.Parallel()

	var m query.Map
	if got := m.Len(); got != 0 {
		t.Errorf("m.Len() = %d, want 0", got)
	}
	m.Set("k", query.String("v"))
	if got, ok := m.GetString("k"); !ok || got != "v" {
		t.Errorf("m.GetString(\"k\") = (%q, %v), want (\"v\", true)", got, ok)
	}
}

func TestMap_NilReceiver(t *testing.T) {
	t.Parallel()

	var m *query.Map
	if got := m.Len(); got != 0 {
		t.Errorf("m.Len() = %d, want 0", got)
	}
	if got := m.Keys(); got != nil {
		t.Errorf("m.Keys() = %v, want nil", got)
	}
	if _, ok := m.Get("k"); ok {
		t.Error("m.Get(\"k\") reports true for nil map")
	}
	if got := m.Clone(); got != nil {
		t.Errorf("m.Clone() = %v, want nil", got)
	}
	if got := m.Encode(); got != "" {
		t.Errorf("m.Encode() = %q, want \"\"", got)
	}
	for k := range m.All() {
		t.Errorf("m.All() yields %q for nil map", k)
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	m := query.Parse("a=1&b[]=x&c[d]=y")
	cases := []struct {
		key    string
		want   query.Value
		wantOk bool
	}{
		{"a", query.String("1"), true},
		{"b", query.List{query.String("x")}, true},
		{"c", query.NewMap().Set("d", query.String("y")), true},
		{"z", nil, false},
		{"", nil, false},
	}

	for _, c := range cases {
		t.Run(c.key, func(t *testing.T) {
			t.Parallel()

			got, ok := query.Get(m, c.key)
			if ok != c.wantOk {
				t.Errorf("query.Get(m, %q) ok = %v, want %v", c.key, ok, c.wantOk)
			}
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("query.Get(m, %q) = %v, want %v\ndiff (-got +want):\n%v", c.key, got, c.want, diff)
			}
		})
	}

	if _, ok := query.Get(nil, "a"); ok {
		t.Error("query.Get(nil, \"a\") reports true")
	}
}

func TestMap_Clone(t *testing.T) {
	t.Parallel()

	m := query.Parse("a[b]=1&l[]=x")
	c := m.Clone()
	if !c.Equal(m) {
		t.Fatalf("m.Clone() = %v, want %v", c, m)
	}

	v, _ := c.Get("a")
	v.(*query.Map).Set("b", query.String("2"))
	if got, _ := m.Get("a"); got.(*query.Map).Equal(v) {
		t.Errorf("modification of the clone is visible in the original: %v", m)
	}
}

func TestMap_Equal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		m    *query.Map
		val  any
		want bool
	}{
		{"nil nil", nil, (*query.Map)(nil), true},
		{"nil empty", nil, query.NewMap(), true},
		{"empty nil", query.NewMap(), (*query.Map)(nil), true},
		{"same", query.Parse("a=1"), query.Parse("a=1"), true},
		{"order", query.Parse("a=1&b=2"), query.Parse("b=2&a=1"), true},
		{"value", query.Parse("a=1&b=2"), *query.Parse("b=2&a=1"), true},
		{"diff value", query.Parse("a=1"), query.Parse("a=2"), false},
		{"diff keys", query.Parse("a=1"), query.Parse("b=1"), false},
		{"list by index", query.Parse("a[]=1"), query.Parse("a[0]=1"), true},
		{"nested", query.Parse("a[b]=1"), query.Parse("a[b]=1"), true},
		{"list vs map", query.Parse("a[]=1"), query.Parse("a[1]=1"), false},
		{"other type", query.Parse("a=1"), "a=1", false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			if got := c.m.Equal(c.val); got != c.want {
				t.Errorf("m.Equal(%v) = %v, want %v", c.val, got, c.want)
			}
		})
	}
}

func TestList_Strings(t *testing.T) {
	t.Parallel()

	l := query.List{query.String("a"), query.NewMap(), query.String("b"), query.List{}}
	if got, want := l.Strings(), []string{"a", "b"}; !cmp.Equal(got, want) {
		t.Errorf("l.Strings() = %v, want %v", got, want)
	}
}
