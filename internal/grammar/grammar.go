// Package grammar implements low-level URI grammar helpers: RFC 3986 reference splitting,
// character classes and percent-encoding.
package grammar

//go:generate go tool errtrace -w .

import "strings"

type Error string

func (e Error) Error() string { return string(e) }

func (Error) Grammar() bool { return true }

const (
	ErrEmptyInput     Error = "empty input"
	ErrMalformedInput Error = "malformed input"
)

// IsAlpha reports whether c is an ASCII letter.
func IsAlpha(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }

// IsDigit reports whether c is an ASCII decimal digit.
func IsDigit(c byte) bool { return '0' <= c && c <= '9' }

// IsAlphanum reports whether c is an ASCII letter or digit.
func IsAlphanum(c byte) bool { return IsAlpha(c) || IsDigit(c) }

// IsHex reports whether c is a hexadecimal digit.
func IsHex(c byte) bool {
	return IsDigit(c) || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

// IsCharUnreserved reports whether c is an unreserved character: alphanum or mark.
func IsCharUnreserved(c byte) bool {
	return IsAlphanum(c) || strings.IndexByte("-_.!~*'()", c) >= 0
}

// IsFormCharUnreserved reports whether c passes through form encoding (application/x-www-form-urlencoded)
// unchanged.
func IsFormCharUnreserved(c byte) bool {
	return IsAlphanum(c) || c == '-' || c == '_' || c == '.'
}

// IsDigits reports whether s is a non-empty sequence of decimal digits.
func IsDigits[T ~string | ~[]byte](s T) bool {
	if len(s) == 0 {
		return false
	}
	for i := range len(s) {
		if !IsDigit(s[i]) {
			return false
		}
	}
	return true
}
