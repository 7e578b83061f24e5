package query_test

import (
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ghettovoice/urikit/query"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		input   any
		want    map[string]any
		wantErr error
	}{
		{"string", "a=1&b=2", map[string]any{"a": "1", "b": "2"}, nil},
		{"empty string", "", map[string]any{}, nil},
		{"bytes", []byte("k=v"), map[string]any{"k": "v"}, nil},
		{"nil map", (*query.Map)(nil), map[string]any{}, nil},
		{"map", query.NewMap().Set("k", query.String("v")), map[string]any{"k": "v"}, nil},
		{"map value", *query.NewMap().Set("k", query.String("v")), map[string]any{"k": "v"}, nil},
		{"string map", map[string]string{"k": "v"}, map[string]any{"k": "v"}, nil},
		{"empty string map", map[string]string{}, map[string]any{}, nil},
		{
			"multi map",
			map[string][]string{"a": {"1"}, "b": {"1", "2"}, "c": {}},
			map[string]any{"a": "1", "b": []any{"1", "2"}, "c": ""},
			nil,
		},
		{"url values", url.Values{"a": {"1"}}, map[string]any{"a": "1"}, nil},
		{
			"any map",
			map[string]any{
				"s":   "x",
				"n":   42,
				"f":   1.5,
				"b":   true,
				"nil": nil,
				"l":   []any{"1", 2},
				"ls":  []string{"a", "b"},
				"m":   map[string]any{"k": "v"},
				"sm":  map[string]string{"k": "v"},
				"d":   time.Second,
				"v":   query.List{query.String("q")},
			},
			map[string]any{
				"s":   "x",
				"n":   "42",
				"f":   "1.5",
				"b":   "true",
				"nil": "",
				"l":   []any{"1", "2"},
				"ls":  []any{"a", "b"},
				"m":   map[string]any{"k": "v"},
				"sm":  map[string]any{"k": "v"},
				"d":   "1s",
				"v":   []any{"q"},
			},
			nil,
		},
		{"int", 42, nil, query.ErrInvalidQuery},
		{"nil", nil, nil, query.ErrInvalidQuery},
		{"bool", false, nil, query.ErrInvalidQuery},
		{"slice", []string{"a=1"}, nil, query.ErrInvalidQuery},
		{"int map", map[int]string{1: "a"}, nil, query.ErrInvalidQuery},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			got, err := query.Normalize(c.input)
			if c.wantErr != nil {
				if diff := cmp.Diff(err, c.wantErr, cmpopts.EquateErrors()); diff != "" {
					t.Errorf("query.Normalize(%#v) error = %v, want %v\ndiff (-got +want):\n%v", c.input, err, c.wantErr, diff)
				}
				if got != nil {
					t.Errorf("query.Normalize(%#v) = %v, want nil", c.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("query.Normalize(%#v) error = %v, want nil", c.input, err)
			}
			if diff := cmp.Diff(got.ToAny(), c.want); diff != "" {
				t.Errorf("query.Normalize(%#v) = %v, want %v\ndiff (-got +want):\n%v", c.input, got, c.want, diff)
			}
		})
	}
}

func TestNormalize_PassThrough(t *testing.T) {
	t.Parallel()

	m := query.Parse("a=1&b[c]=2")
	got, err := query.Normalize(m)
	if err != nil {
		t.Fatalf("query.Normalize(m) error = %v, want nil", err)
	}
	if got != m {
		t.Errorf("query.Normalize(m) = %p, want the same map %p", got, m)
	}
}

func TestNormalize_ErrorMessage(t *testing.T) {
	t.Parallel()

	_, err := query.Normalize(42)
	if !errors.Is(err, query.ErrInvalidQuery) {
		t.Fatalf("query.Normalize(42) error = %v, want %v", err, query.ErrInvalidQuery)
	}
	if got, want := err.Error(), "invalid query: unsupported type int"; got != want {
		t.Errorf("query.Normalize(42) error message = %q, want %q", got, want)
	}
}

func TestNormalizeWith(t *testing.T) {
	t.Parallel()

	got, err := query.NormalizeWith("a=1;b=2", &query.ParseOptions{Separators: ";"})
	if err != nil {
		t.Fatalf("query.NormalizeWith() error = %v, want nil", err)
	}
	want := map[string]any{"a": "1", "b": "2"}
	if diff := cmp.Diff(got.ToAny(), want); diff != "" {
		t.Errorf("query.NormalizeWith() = %v, want %v\ndiff (-got +want):\n%v", got, want, diff)
	}
}
