package grammar

import "github.com/ghettovoice/urikit/internal/constraints"

const upperhex = "0123456789ABCDEF"

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

func isEscaped[T constraints.Byteseq](s T, i int) bool {
	return s[i] == '%' && i+2 < len(s) && IsHex(s[i+1]) && IsHex(s[i+2])
}

// Escape percent-encodes every byte of s for which shouldEscape returns true.
// Already escaped sequences are kept as is.
// When shouldEscape is nil, every byte that is not [IsCharUnreserved] is escaped.
func Escape[T constraints.Byteseq](s T, shouldEscape func(c byte) bool) T {
	if shouldEscape == nil {
		shouldEscape = func(c byte) bool { return !IsCharUnreserved(c) }
	}

	var n int
	for i := 0; i < len(s); i++ {
		if isEscaped(s, i) {
			i += 2
			continue
		}
		if shouldEscape(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	buf := make([]byte, 0, len(s)+2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isEscaped(s, i):
			buf = append(buf, c, s[i+1], s[i+2])
			i += 2
		case shouldEscape(c):
			buf = append(buf, '%', upperhex[c>>4], upperhex[c&15])
		default:
			buf = append(buf, c)
		}
	}
	return T(buf)
}

// EscapeForm encodes s as a form value: bytes outside of [IsFormCharUnreserved] are percent-encoded,
// spaces become '+'. Percent signs are always escaped.
func EscapeForm[T constraints.Byteseq](s T) T {
	var n int
	for i := range len(s) {
		if !IsFormCharUnreserved(s[i]) && s[i] != ' ' {
			n++
		}
	}
	if n == 0 && !hasByte(s, ' ') {
		return s
	}

	buf := make([]byte, 0, len(s)+2*n)
	for i := range len(s) {
		c := s[i]
		switch {
		case c == ' ':
			buf = append(buf, '+')
		case IsFormCharUnreserved(c):
			buf = append(buf, c)
		default:
			buf = append(buf, '%', upperhex[c>>4], upperhex[c&15])
		}
	}
	return T(buf)
}

// Unescape decodes percent-encoded sequences of s.
// Malformed sequences are left untouched.
func Unescape[T constraints.Byteseq](s T) T { return unescape(s, false) }

// UnescapeForm works like [Unescape] and also decodes '+' into space.
func UnescapeForm[T constraints.Byteseq](s T) T { return unescape(s, true) }

func unescape[T constraints.Byteseq](s T, plus bool) T {
	if !hasByte(s, '%') && (!plus || !hasByte(s, '+')) {
		return s
	}

	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case isEscaped(s, i):
			buf = append(buf, unhex(s[i+1])<<4|unhex(s[i+2]))
			i += 2
		case plus && c == '+':
			buf = append(buf, ' ')
		default:
			buf = append(buf, c)
		}
	}
	return T(buf)
}

func hasByte[T constraints.Byteseq](s T, b byte) bool {
	for i := range len(s) {
		if s[i] == b {
			return true
		}
	}
	return false
}
