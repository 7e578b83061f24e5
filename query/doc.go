// Package query decodes form-encoded query strings into an ordered, possibly nested mapping.
//
// # Values
//
// A decoded query is a [Map]: string keys in insertion order, each holding a [Value].
// A Value is one of:
//
//   - [String]: a scalar value;
//   - [List]: a sequence produced by the "key[]" or "key[0]" syntax;
//   - [*Map]: a nested mapping produced by the "key[sub]" syntax.
//
// # Parsing
//
// [Parse] follows the usual form decoding rules together with the bracket notation
// understood by most web stacks:
//
//	m := query.Parse("a=1&b[x]=2&b[y]=3&c[]=4&c[]=5")
//	// a => "1"
//	// b => {x => "2", y => "3"}
//	// c => ["4", "5"]
//
// Parsing is lenient and never fails. Malformed percent-escapes are kept verbatim, pairs with
// an empty key are skipped and a later assignment to the same key replaces the former one.
// Use [ParseWith] to change pair separators or the nesting limit.
//
// # Normalization
//
// [Normalize] accepts either a raw query (string or []byte) or an already structured mapping
// and always returns a [*Map]. Any other input fails with [ErrInvalidQuery]:
//
//	m, err := query.Normalize(map[string]any{"page": 2, "tags": []string{"go", "uri"}})
//	_, err = query.Normalize(42) // errors.Is(err, query.ErrInvalidQuery) == true
//
// # Encoding and binding
//
// [Map.Encode] renders the mapping back to a query string, [Map.MarshalJSON] and
// [Map.MarshalYAML] keep key order, [Map.Decode] binds the mapping into a struct using
// the "query" struct tag.
//
// # Thread Safety
//
// Maps are not safe for concurrent modification. Use [Map.Clone] to hand out independent copies.
package query
