package uri_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/urikit/query"
	"github.com/ghettovoice/urikit/uri"
)

func TestParseRequestTarget(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input string
		want  uri.RequestTarget
	}{
		{
			"/path/index.php?arg=value",
			uri.RequestTarget{
				Path:     "/path/index.php",
				PathInfo: uri.PathInfo{Dirname: "/path", Basename: "index.php", Filename: "index", Extension: "php"},
				Query:    query.NewMap().Set("arg", query.String("value")),
			},
		},
		{
			"",
			uri.RequestTarget{Path: "/", PathInfo: uri.PathInfo{Dirname: "/"}, Query: query.NewMap()},
		},
		{
			"?a=1",
			uri.RequestTarget{Path: "/", PathInfo: uri.PathInfo{Dirname: "/"}, Query: query.NewMap().Set("a", query.String("1"))},
		},
		{
			"/a?b?c=1",
			uri.RequestTarget{
				Path:     "/a",
				PathInfo: uri.PathInfo{Dirname: "/", Basename: "a", Filename: "a"},
				Query:    query.NewMap().Set("b?c", query.String("1")),
			},
		},
		{
			"/list?x[]=1&x[]=2",
			uri.RequestTarget{
				Path:     "/list",
				PathInfo: uri.PathInfo{Dirname: "/", Basename: "list", Filename: "list"},
				Query:    query.NewMap().Set("x", query.List{query.String("1"), query.String("2")}),
			},
		},
	}

	for _, c := range cases {
		t.Run(c.input, func(t *testing.T) {
			t.Parallel()

			got := uri.ParseRequestTarget(c.input)
			if diff := cmp.Diff(got, c.want); diff != "" {
				t.Errorf("uri.ParseRequestTarget(%q) = %+v, want %+v\ndiff (-got +want):\n%v", c.input, got, c.want, diff)
			}
		})
	}
}

func TestParseRequestTargetWith(t *testing.T) {
	t.Parallel()

	got := uri.ParseRequestTargetWith([]byte("/?a=1;b=2"), &query.ParseOptions{Separators: ";"})
	want := query.NewMap().Set("a", query.String("1")).Set("b", query.String("2"))
	if !got.Query.Equal(want) {
		t.Errorf("uri.ParseRequestTargetWith() query = %v, want %v", got.Query, want)
	}
}
