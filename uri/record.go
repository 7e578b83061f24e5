package uri

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"braces.dev/errtrace"
	json "github.com/goccy/go-json"

	"github.com/ghettovoice/urikit/internal/grammar"
	"github.com/ghettovoice/urikit/internal/ioutil"
	"github.com/ghettovoice/urikit/internal/log"
	"github.com/ghettovoice/urikit/internal/util"
	"github.com/ghettovoice/urikit/query"
)

// Record is a URI decomposed into its components.
//
// A record is created with [New], which seeds the defaults and parses the raw input.
// Setters overwrite a single value without re-parsing, only [Record.SetRaw] parses again.
// The zero value is usable, it gets the defaults on the first [Record.SetRaw] or
// [Record.UnmarshalText] call.
type Record struct {
	label    string
	hasLabel bool
	raw      string

	scheme      string
	usrname     string
	hasUsrname  bool
	passwd      string
	hasPasswd   bool
	host        string
	hasHost     bool
	port        uint16
	hasPort     bool
	path        string
	pathInfo    PathInfo
	query       *query.Map
	fragment    string
	hasFragment bool

	comps  Components
	policy ParsePolicy
	defs   Defaults
	qopts  *query.ParseOptions
	log    *slog.Logger
}

// New creates a record from the raw URI.
// Components missing from raw keep the defaults: scheme "http", port 80, path "/" and an empty query.
// Parsing never fails, input that is not a URI ends up in the path.
func New(raw string, opts ...Option) *Record {
	r := new(Record)
	for _, opt := range opts {
		opt(r)
	}
	r.reset()
	r.parse(raw)
	return r
}

func (r *Record) logger() *slog.Logger {
	if r.log == nil {
		return log.Noop
	}
	return r.log
}

func (r *Record) reset() {
	r.scheme = r.defs.scheme()
	r.usrname, r.hasUsrname = "", false
	r.passwd, r.hasPasswd = "", false
	r.host, r.hasHost = "", false
	r.port, r.hasPort = r.defs.port(), false
	r.path = r.defs.path()
	r.pathInfo = ParsePathInfo(r.path)
	r.query = query.NewMap()
	r.fragment, r.hasFragment = "", false
	r.comps = Components{}
}

func (r *Record) parse(raw string) {
	if r.query == nil || r.policy == ResetToDefaults {
		r.reset()
	}

	r.raw = raw
	c, err := split(raw)
	if c.Has(PartScheme) {
		r.scheme = c.Scheme
	}
	if c.Has(PartUser) {
		r.usrname, r.hasUsrname = c.User.Username(), true
	}
	if c.Has(PartPassword) {
		r.passwd, r.hasPasswd = c.User.Password()
	}
	if c.Has(PartHost) {
		r.host, r.hasHost = c.Host, true
	}
	if c.Has(PartPort) {
		r.port, r.hasPort = c.Port, true
	}
	if c.Has(PartPath) {
		r.path = c.Path
	}
	if c.Has(PartQuery) {
		r.query = query.ParseWith(c.RawQuery, r.qopts)
	}
	if c.Has(PartFragment) {
		r.fragment, r.hasFragment = c.Fragment, true
	}
	r.pathInfo = ParsePathInfo(r.path)
	r.comps = c

	if err != nil {
		r.logger().Debug("URI port ignored", slog.Any("record", r), slog.Any("error", err))
	}
	r.logger().Debug("URI parsed",
		slog.Any("record", r),
		slog.String("parts", c.Parts.String()),
		slog.String("policy", r.policy.String()),
	)
}

// Label returns the record label and whether it was set.
func (r *Record) Label() (string, bool) { return r.label, r.hasLabel }

// SetLabel sets the record label.
func (r *Record) SetLabel(label string) *Record {
	r.label, r.hasLabel = label, true
	return r
}

// Raw returns the input of the last parse.
func (r *Record) Raw() string { return r.raw }

// SetRaw stores raw and parses it, all components are recomputed.
// Components missing from raw are handled according to the record [ParsePolicy].
func (r *Record) SetRaw(raw string) *Record {
	r.parse(raw)
	return r
}

// Policy returns the record parse policy.
func (r *Record) Policy() ParsePolicy { return r.policy }

// Components returns the components extracted by the last parse.
func (r *Record) Components() Components { return r.comps }

func (r *Record) Scheme() string { return r.scheme }

func (r *Record) SetScheme(scheme string) *Record {
	r.scheme = scheme
	return r
}

// Username returns the username and whether it is present.
func (r *Record) Username() (string, bool) { return r.usrname, r.hasUsrname }

func (r *Record) SetUsername(usrname string) *Record {
	r.usrname, r.hasUsrname = usrname, true
	return r
}

// Password returns the password and whether it is present.
func (r *Record) Password() (string, bool) { return r.passwd, r.hasPasswd }

func (r *Record) SetPassword(passwd string) *Record {
	r.passwd, r.hasPasswd = passwd, true
	return r
}

// User returns username and password as a [UserInfo].
func (r *Record) User() UserInfo {
	return UserInfo{usrname: r.usrname, passwd: r.passwd, hasPasswd: r.hasPasswd}
}

// SetUser replaces username and password. A zero [UserInfo] removes both.
func (r *Record) SetUser(ui UserInfo) *Record {
	if ui.IsZero() {
		r.usrname, r.hasUsrname = "", false
		r.passwd, r.hasPasswd = "", false
		return r
	}
	r.usrname, r.hasUsrname = ui.usrname, true
	r.passwd, r.hasPasswd = ui.passwd, ui.hasPasswd
	return r
}

// Host returns the host and whether it is present.
func (r *Record) Host() (string, bool) { return r.host, r.hasHost }

// SetHost sets the host. An empty host removes it.
func (r *Record) SetHost(host string) *Record {
	r.host, r.hasHost = host, host != ""
	return r
}

// Port returns the port. It is the default port until the input or [Record.SetPort] gives one.
func (r *Record) Port() uint16 { return r.port }

// HasPort reports whether the port came from the parsed input or [Record.SetPort].
// Only such a port is rendered.
func (r *Record) HasPort() bool { return r.hasPort }

func (r *Record) SetPort(port uint16) *Record {
	r.port, r.hasPort = port, true
	return r
}

func (r *Record) Path() string { return r.path }

// SetPath sets the path. Path info is not recomputed.
func (r *Record) SetPath(path string) *Record {
	r.path = path
	return r
}

// PathInfo returns the path info computed by the last parse or set by the path info setters.
func (r *Record) PathInfo() PathInfo { return r.pathInfo }

func (r *Record) Dirname() string { return r.pathInfo.Dirname }

func (r *Record) SetDirname(dirname string) *Record {
	r.pathInfo.Dirname = dirname
	return r
}

func (r *Record) Basename() string { return r.pathInfo.Basename }

func (r *Record) SetBasename(basename string) *Record {
	r.pathInfo.Basename = basename
	return r
}

func (r *Record) Filename() string { return r.pathInfo.Filename }

func (r *Record) SetFilename(filename string) *Record {
	r.pathInfo.Filename = filename
	return r
}

func (r *Record) Extension() string { return r.pathInfo.Extension }

func (r *Record) SetExtension(ext string) *Record {
	r.pathInfo.Extension = ext
	return r
}

// Query returns the query mapping. The returned map is owned by the record.
func (r *Record) Query() *query.Map { return r.query }

// QueryValue returns the query value stored under the top-level key.
// A missing key reports false.
func (r *Record) QueryValue(key string) (query.Value, bool) { return query.Get(r.query, key) }

// SetQuery replaces the query with a raw query string or a mapping, see [query.Normalize].
// Any other value fails with [query.ErrInvalidQuery] and leaves the query unchanged.
func (r *Record) SetQuery(v any) error {
	m, err := query.NormalizeWith(v, r.qopts)
	if err != nil {
		return errtrace.Wrap(err)
	}
	r.query = m
	return nil
}

// Fragment returns the fragment and whether it is present.
func (r *Record) Fragment() (string, bool) { return r.fragment, r.hasFragment }

func (r *Record) SetFragment(frag string) *Record {
	r.fragment, r.hasFragment = frag, true
	return r
}

// Clone returns a deep copy of the record.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	r2 := *r
	r2.query = r.query.Clone()
	return &r2
}

// Equal compares URI components of two records.
// Label, raw input and record options are not compared.
func (r *Record) Equal(val any) bool {
	var other *Record
	switch v := val.(type) {
	case Record:
		other = &v
	case *Record:
		other = v
	default:
		return false
	}

	if r == other {
		return true
	} else if r == nil || other == nil {
		return false
	}

	return r.scheme == other.scheme &&
		r.hasUsrname == other.hasUsrname && r.usrname == other.usrname &&
		r.User().Equal(other.User()) &&
		r.hasHost == other.hasHost && util.EqFold(r.host, other.host) &&
		r.hasPort == other.hasPort && r.port == other.port &&
		r.path == other.path &&
		r.pathInfo == other.pathInfo &&
		r.query.Equal(other.query) &&
		r.hasFragment == other.hasFragment && r.fragment == other.fragment
}

// URL converts the record to [net/url.URL].
// Without a host the user info is dropped and a relative path becomes the opaque part, as in [Record.RenderTo].
func (r *Record) URL() *url.URL {
	if r == nil {
		return nil
	}

	u := &url.URL{
		Scheme:   r.scheme,
		Path:     r.path,
		RawQuery: r.query.Encode(),
		Fragment: r.fragment,
	}
	if p, err := url.PathUnescape(r.path); err == nil && p != r.path {
		u.Path, u.RawPath = p, r.path
	}
	if !r.hasHost {
		u.OmitHost = true
		if r.path != "" && r.path[0] != '/' {
			u.Path, u.RawPath = "", ""
			u.Opaque = grammar.Escape(r.path, shouldEscapePathChar)
		}
		return u
	}

	u.Host = r.hostport(nil)
	switch {
	case r.hasPasswd:
		u.User = url.UserPassword(r.usrname, r.passwd)
	case r.hasUsrname:
		u.User = url.User(r.usrname)
	}
	return u
}

// RenderOptions control rendering of a [Record].
type RenderOptions struct {
	// ExplicitPort renders the port even when it is the well-known one for the scheme.
	// A record without a port then gets the well-known port of its scheme, if there is one.
	ExplicitPort bool
}

var schemePorts = map[string]uint16{
	"http":  80,
	"https": 443,
	"ws":    80,
	"wss":   443,
	"ftp":   21,
}

// SchemePort returns the well-known port of the scheme.
func SchemePort(scheme string) (uint16, bool) {
	p, ok := schemePorts[util.LCase(scheme)]
	return p, ok
}

func (r *Record) hostport(opts *RenderOptions) string {
	port, ok := r.port, r.hasPort
	if opts != nil && opts.ExplicitPort {
		if !ok {
			port, ok = SchemePort(r.scheme)
		}
	} else if p, known := SchemePort(r.scheme); ok && known && p == port {
		ok = false
	}
	if !ok || port == 0 {
		return r.host
	}
	return r.host + ":" + strconv.Itoa(int(port))
}

func shouldEscapePathChar(c byte) bool {
	return !grammar.IsCharUnreserved(c) && strings.IndexByte("/:@&=+$,;", c) < 0
}

func shouldEscapeFragmentChar(c byte) bool {
	return !grammar.IsCharUnreserved(c) && strings.IndexByte("/:@&=+$,;?", c) < 0
}

// RenderTo writes the URI built from the current component values to w.
// Only a port taken from the input or set with [Record.SetPort] is written,
// and it is omitted when it is the well-known one for the scheme, unless opts say otherwise.
// With [RenderOptions.ExplicitPort] a record without a port gets the well-known port of its scheme.
func (r *Record) RenderTo(w io.Writer, opts *RenderOptions) (num int, err error) {
	if r == nil {
		return 0, nil
	}

	cw := ioutil.GetCountingWriter(w)
	defer ioutil.FreeCountingWriter(cw)
	if r.scheme != "" {
		cw.Fprint(r.scheme, ":")
	}
	if r.hasHost {
		cw.Fprint("//")
		if ui := r.User(); !ui.IsZero() {
			cw.Fprint(ui, "@")
		}
		cw.Fprint(r.hostport(opts))
		if r.path != "" && r.path[0] != '/' {
			cw.WriteByte('/') //nolint:errcheck
		}
	}
	cw.Fprint(grammar.Escape(r.path, shouldEscapePathChar))
	if r.query.Len() > 0 {
		cw.WriteByte('?') //nolint:errcheck
		cw.Call(r.query.RenderTo)
	}
	if r.hasFragment {
		cw.Fprint("#", grammar.Escape(r.fragment, shouldEscapeFragmentChar))
	}
	return errtrace.Wrap2(cw.Result())
}

// Render returns the URI built from the current component values.
func (r *Record) Render(opts *RenderOptions) string {
	if r == nil {
		return ""
	}
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)
	r.RenderTo(sb, opts) //nolint:errcheck
	return sb.String()
}

// String returns the string representation of the record.
func (r *Record) String() string {
	if r == nil {
		return ""
	}
	return r.Render(nil)
}

// Format implements fmt.Formatter for custom formatting of the record.
// The "%+s" verb renders the port explicitly.
func (r *Record) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		if f.Flag('+') {
			r.RenderTo(f, &RenderOptions{ExplicitPort: true}) //nolint:errcheck
			return
		}
		fmt.Fprint(f, r.String())
		return
	case 'q':
		fmt.Fprint(f, strconv.Quote(r.String()))
		return
	default:
		type hideMethods Record
		type Record hideMethods
		fmt.Fprintf(f, fmt.FormatString(f, verb), (*Record)(r))
		return
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (r *Record) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// The text is parsed as with [Record.SetRaw].
func (r *Record) UnmarshalText(text []byte) error {
	r.parse(string(text))
	return nil
}

type recordDoc struct {
	Label    *string `json:"label,omitempty" yaml:"label,omitempty"`
	Raw      string  `json:"raw" yaml:"raw"`
	Scheme   string  `json:"scheme" yaml:"scheme"`
	Username *string `json:"username,omitempty" yaml:"username,omitempty"`
	Password *string `json:"password,omitempty" yaml:"password,omitempty"`
	Host     *string `json:"host,omitempty" yaml:"host,omitempty"`
	Port     uint16  `json:"port" yaml:"port"`
	Path     string  `json:"path" yaml:"path"`
	PathInfo `yaml:",inline"`
	Query    *query.Map `json:"query" yaml:"query"`
	Fragment *string    `json:"fragment,omitempty" yaml:"fragment,omitempty"`
}

func optional(s string, ok bool) *string {
	if !ok {
		return nil
	}
	return &s
}

func (r *Record) doc() *recordDoc {
	q := r.query
	if q == nil {
		q = query.NewMap()
	}
	return &recordDoc{
		Label:    optional(r.label, r.hasLabel),
		Raw:      r.raw,
		Scheme:   r.scheme,
		Username: optional(r.usrname, r.hasUsrname),
		Password: optional(r.passwd, r.hasPasswd),
		Host:     optional(r.host, r.hasHost),
		Port:     r.port,
		Path:     r.path,
		PathInfo: r.pathInfo,
		Query:    q,
		Fragment: optional(r.fragment, r.hasFragment),
	}
}

// MarshalJSON implements [json.Marshaler].
// The record is encoded as an object with all components, absent ones are omitted.
func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}
	return errtrace.Wrap2(json.Marshal(r.doc()))
}

// MarshalYAML implements [gopkg.in/yaml.v3.Marshaler].
func (r *Record) MarshalYAML() (any, error) {
	if r == nil {
		return nil, nil
	}
	return r.doc(), nil
}

// LogValue implements [slog.LogValuer]. The password is never logged.
func (r *Record) LogValue() slog.Value {
	if r == nil {
		return slog.AnyValue(nil)
	}

	attrs := make([]slog.Attr, 0, 10)
	if r.hasLabel {
		attrs = append(attrs, slog.String("label", r.label))
	}
	attrs = append(attrs, slog.String("scheme", r.scheme))
	if r.hasUsrname {
		attrs = append(attrs, slog.String("username", r.usrname))
	}
	if r.hasHost {
		attrs = append(attrs, slog.String("host", r.host))
	}
	attrs = append(attrs,
		slog.Any("port", r.port),
		slog.String("path", r.path),
		slog.Any("path_info", r.pathInfo),
		slog.Any("query", r.query),
	)
	if r.hasFragment {
		attrs = append(attrs, slog.String("fragment", r.fragment))
	}
	return slog.GroupValue(attrs...)
}
