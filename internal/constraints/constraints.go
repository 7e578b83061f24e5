// Package constraints holds type sets shared by the generic parse entry points.
package constraints

// Byteseq is satisfied by raw URI input given either as a string or as a byte slice.
// Parsers keep the input type in their results where they return slices of it.
type Byteseq interface {
	~string | ~[]byte
}
