package query_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/urikit/query"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		input    any
		want     map[string]any
		wantKeys []string
	}{
		{"empty", "", map[string]any{}, nil},
		{"single pair", "arg=value", map[string]any{"arg": "value"}, []string{"arg"}},
		{"pairs", "a=1&b=2", map[string]any{"a": "1", "b": "2"}, []string{"a", "b"}},
		{"bytes", []byte("a=1"), map[string]any{"a": "1"}, []string{"a"}},
		{"no value", "flag&x=", map[string]any{"flag": "", "x": ""}, []string{"flag", "x"}},
		{"empty pairs", "&&a=1&&", map[string]any{"a": "1"}, []string{"a"}},
		{"empty key", "=1&b=2", map[string]any{"b": "2"}, []string{"b"}},
		{"value with equal sign", "a=b=c", map[string]any{"a": "b=c"}, []string{"a"}},
		{"last wins", "a=1&b=2&a=3", map[string]any{"a": "3", "b": "2"}, []string{"a", "b"}},
		{"decoding", "q=hello+world%21&k%20y=%E4%B8%96", map[string]any{"q": "hello world!", "k y": "世"}, []string{"q", "k y"}},
		{"malformed escape", "p=100%&r=%zz", map[string]any{"p": "100%", "r": "%zz"}, []string{"p", "r"}},
		{"semicolon is not a separator", "a=1;b=2", map[string]any{"a": "1;b=2"}, []string{"a"}},
		{"list", "a[]=1&a[]=2", map[string]any{"a": []any{"1", "2"}}, []string{"a"}},
		{"nested", "a[b]=1", map[string]any{"a": map[string]any{"b": "1"}}, []string{"a"}},
		{
			"deep nested",
			"a[b][c]=1&a[b][d]=2&a[e]=3",
			map[string]any{"a": map[string]any{"b": map[string]any{"c": "1", "d": "2"}, "e": "3"}},
			[]string{"a"},
		},
		{"encoded brackets", "a%5Bb%5D=1", map[string]any{"a": map[string]any{"b": "1"}}, []string{"a"}},
		{"list of maps", "a[][x]=1&a[][x]=2", map[string]any{"a": []any{map[string]any{"x": "1"}, map[string]any{"x": "2"}}}, []string{"a"}},
		{"nested list", "a[b][]=1&a[b][]=2", map[string]any{"a": map[string]any{"b": []any{"1", "2"}}}, []string{"a"}},
		{"list index replace", "a[]=1&a[0]=2", map[string]any{"a": []any{"2"}}, []string{"a"}},
		{"list index append", "a[]=1&a[1]=2", map[string]any{"a": []any{"1", "2"}}, []string{"a"}},
		{"zero index starts list", "a[0]=1&a[1]=2", map[string]any{"a": []any{"1", "2"}}, []string{"a"}},
		{"sparse index", "a[0]=1&a[2]=2", map[string]any{"a": map[string]any{"0": "1", "2": "2"}}, []string{"a"}},
		{"index map", "a[5]=1", map[string]any{"a": map[string]any{"5": "1"}}, []string{"a"}},
		{"list to map", "a[]=1&a[x]=2", map[string]any{"a": map[string]any{"0": "1", "x": "2"}}, []string{"a"}},
		{"map append", "a[x]=1&a[]=2&a[5]=3&a[]=4", map[string]any{"a": map[string]any{"x": "1", "0": "2", "5": "3", "6": "4"}}, []string{"a"}},
		{"scalar replaced by map", "a=1&a[b]=2", map[string]any{"a": map[string]any{"b": "2"}}, []string{"a"}},
		{"map replaced by scalar", "a[b]=2&a=1", map[string]any{"a": "1"}, []string{"a"}},
		{"unclosed bracket", "a[b=1", map[string]any{"a[b": "1"}, []string{"a[b"}},
		{"unclosed inner bracket", "a[b][c=1", map[string]any{"a": map[string]any{"b": "1"}}, []string{"a"}},
		{"trailing text", "a[b]c=1", map[string]any{"a": map[string]any{"b": "1"}}, []string{"a"}},
		{"no name", "[a]=1&b=2", map[string]any{"b": "2"}, []string{"b"}},
		{"closing bracket only", "a]=1", map[string]any{"a]": "1"}, []string{"a]"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			var got *query.Map
			switch in := c.input.(type) {
			case string:
				got = query.Parse(in)
			case []byte:
				got = query.Parse(in)
			}
			if diff := cmp.Diff(got.ToAny(), c.want); diff != "" {
				t.Errorf("query.Parse(%q) = %+v, want %+v\ndiff (-got +want):\n%v", c.input, got, c.want, diff)
			}
			if diff := cmp.Diff(got.Keys(), c.wantKeys, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("query.Parse(%q).Keys() = %q, want %q\ndiff (-got +want):\n%v", c.input, got.Keys(), c.wantKeys, diff)
			}
		})
	}
}

func TestParseWith(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		input string
		opts  *query.ParseOptions
		want  map[string]any
	}{
		{"nil options", "a=1;b=2", nil, map[string]any{"a": "1;b=2"}},
		{"semicolon separator", "a=1;b=2&c=3", &query.ParseOptions{Separators: "&;"}, map[string]any{"a": "1", "b": "2", "c": "3"}},
		{"depth within limit", "a[b][c]=1", &query.ParseOptions{MaxDepth: 2}, map[string]any{"a": map[string]any{"b": map[string]any{"c": "1"}}}},
		{"depth over limit", "a[b][c]=1&d=2", &query.ParseOptions{MaxDepth: 1}, map[string]any{"d": "2"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got := query.ParseWith(c.input, c.opts)
			if diff := cmp.Diff(got.ToAny(), c.want); diff != "" {
				t.Errorf("query.ParseWith(%q, %+v) = %+v, want %+v\ndiff (-got +want):\n%v", c.input, c.opts, got, c.want, diff)
			}
		})
	}
}

func TestParse_DefaultMaxDepth(t *testing.T) {
	t.Parallel()

	key := "a"
	for range query.DefaultMaxDepth {
		key += "[x]"
	}
	if got := query.Parse(key + "=1"); got.Len() != 1 {
		t.Errorf("query.Parse(<%d groups>) dropped the pair", query.DefaultMaxDepth)
	}
	if got := query.Parse(key + "[x]=1"); got.Len() != 0 {
		t.Errorf("query.Parse(<%d groups>) = %v, want empty map", query.DefaultMaxDepth+1, got)
	}
}
