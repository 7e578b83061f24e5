package grammar

import (
	"regexp"
	"strings"

	"github.com/ghettovoice/urikit/internal/constraints"
)

// uriRefRe is the URI reference regular expression from RFC 3986 Appendix B.
// Every group is optional, so it matches any input.
var uriRefRe = regexp.MustCompile(`(?s)^(([^:/?#]+):)?(//([^/?#]*))?([^?#]*)(\?([^#]*))?(#(.*))?`)

// URIReference holds the generic components of a URI reference as matched by
// the RFC 3986 Appendix B expression. Components are not decoded.
type URIReference struct {
	Scheme    string
	Authority string
	Path      string
	Query     string
	Fragment  string

	HasScheme    bool
	HasAuthority bool
	HasQuery     bool
	HasFragment  bool
}

// ParseURIReference splits s into scheme, authority, path, query and fragment.
// It never fails: input without recognizable delimiters is returned as the path.
func ParseURIReference[T constraints.Byteseq](s T) URIReference {
	str := string(s)
	m := uriRefRe.FindStringSubmatchIndex(str)

	var ref URIReference
	if m == nil {
		ref.Path = str
		return ref
	}
	group := func(i int) (string, bool) {
		if m[2*i] < 0 {
			return "", false
		}
		return str[m[2*i]:m[2*i+1]], true
	}
	ref.Scheme, ref.HasScheme = group(2)
	ref.Authority, ref.HasAuthority = group(4)
	ref.Path, _ = group(5)
	ref.Query, ref.HasQuery = group(7)
	ref.Fragment, ref.HasFragment = group(9)
	return ref
}

// Hostport is the result of [SplitAuthority].
type Hostport struct {
	UserInfo string
	Host     string
	Port     string

	HasUserInfo bool
	HasPort     bool
}

// SplitAuthority splits an authority component into userinfo, host and port.
//
// Userinfo is everything before the last '@'. The port is the text after the last ':'
// that is not enclosed in an IP literal ("[...]").
// Port content is not validated here.
func SplitAuthority[T constraints.Byteseq](s T) Hostport {
	var hp Hostport

	auth := string(s)
	if i := strings.LastIndexByte(auth, '@'); i >= 0 {
		hp.UserInfo, hp.HasUserInfo = auth[:i], true
		auth = auth[i+1:]
	}

	hp.Host = auth
	if i := strings.LastIndexByte(auth, ':'); i >= 0 && strings.IndexByte(auth[i:], ']') < 0 {
		hp.Host, hp.Port, hp.HasPort = auth[:i], auth[i+1:], true
	}
	return hp
}
