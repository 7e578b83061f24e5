package uri

//go:generate go tool errtrace -w .

import (
	"strconv"
	"strings"

	"braces.dev/errtrace"

	"github.com/ghettovoice/urikit/internal/constraints"
	"github.com/ghettovoice/urikit/internal/errorutil"
	"github.com/ghettovoice/urikit/internal/grammar"
)

// Part is a set of URI components.
type Part uint16

const (
	PartScheme Part = 1 << iota
	PartUser
	PartPassword
	PartHost
	PartPort
	PartPath
	PartQuery
	PartFragment
)

var partNames = [...]string{"scheme", "user", "password", "host", "port", "path", "query", "fragment"}

// String returns the names of the parts joined with "|".
func (p Part) String() string {
	if p == 0 {
		return "none"
	}
	var names []string
	for i, n := range partNames {
		if p&(1<<i) != 0 {
			names = append(names, n)
		}
	}
	return strings.Join(names, "|")
}

// Components are the parts of a URI as they appear in the input.
// Nothing is decoded and no defaults are applied,
// Parts tells which components were present.
type Components struct {
	Scheme   string
	User     UserInfo
	Host     string
	Port     uint16
	Path     string
	RawQuery string
	Fragment string
	Parts    Part
}

// Has reports whether all parts in p are present.
func (c Components) Has(p Part) bool { return c.Parts&p == p }

// Split decomposes a raw URI s (string or []byte) following RFC 3986 Appendix B.
//
// The authority is split at its last '@' into userinfo and host:port, userinfo is split
// at the first ':' into username and password. A port is reported only when it is
// a decimal number in the uint16 range, otherwise the host keeps the text before ':'
// and the port is absent. An empty path is absent.
//
// Split never fails: input without recognized delimiters becomes the path.
func Split[T constraints.Byteseq](s T) Components {
	c, _ := split(s)
	return c
}

// split works like [Split] and also returns the reason the port was dropped, if it was.
func split[T constraints.Byteseq](s T) (Components, error) {
	var (
		c   Components
		err error
	)

	ref := grammar.ParseURIReference(s)
	if ref.HasScheme {
		c.Scheme = ref.Scheme
		c.Parts |= PartScheme
	}
	if ref.HasAuthority {
		hp := grammar.SplitAuthority(ref.Authority)
		if hp.HasUserInfo {
			c.User = ParseUserInfo(hp.UserInfo)
			c.Parts |= PartUser
			if _, ok := c.User.Password(); ok {
				c.Parts |= PartPassword
			}
		}
		if hp.Host != "" {
			c.Host = hp.Host
			c.Parts |= PartHost
		}
		if hp.HasPort {
			if c.Port, err = ParsePort(hp.Port); err == nil {
				c.Parts |= PartPort
			}
		}
	}
	if ref.Path != "" {
		c.Path = ref.Path
		c.Parts |= PartPath
	}
	if ref.HasQuery {
		c.RawQuery = ref.Query
		c.Parts |= PartQuery
	}
	if ref.HasFragment {
		c.Fragment = ref.Fragment
		c.Parts |= PartFragment
	}
	return c, errtrace.Wrap(err)
}

// ParsePort parses a decimal port number from the given input s (string or []byte).
func ParsePort[T constraints.Byteseq](s T) (uint16, error) {
	if len(s) == 0 {
		return 0, errtrace.Wrap(errorutil.NewWrapperError(grammar.ErrEmptyInput, "empty port"))
	}
	if !grammar.IsDigits(s) {
		return 0, errtrace.Wrap(errorutil.NewWrapperError(grammar.ErrMalformedInput, "port %q", string(s)))
	}
	p, err := strconv.ParseUint(string(s), 10, 16)
	if err != nil {
		return 0, errtrace.Wrap(errorutil.NewWrapperError(grammar.ErrMalformedInput, "port %q out of range", string(s)))
	}
	return uint16(p), nil
}
