package uri

import (
	"log/slog"
	"strconv"

	"braces.dev/errtrace"

	"github.com/ghettovoice/urikit/internal/errorutil"
	"github.com/ghettovoice/urikit/internal/util"
	"github.com/ghettovoice/urikit/query"
)

// Default values of a new [Record].
const (
	DefaultScheme = "http"
	DefaultPort   = 80
	DefaultPath   = "/"
)

// Defaults are the values a [Record] starts with.
// Zero fields fall back to [DefaultScheme], [DefaultPort] and [DefaultPath].
type Defaults struct {
	Scheme string `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	// Port is what [Record.Port] reports until a port is parsed or set.
	// Port 0 cannot be chosen, it means [DefaultPort]. The default port is never rendered,
	// see [Record.HasPort].
	Port uint16 `json:"port,omitempty" yaml:"port,omitempty"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
}

func (d Defaults) scheme() string {
	if d.Scheme == "" {
		return DefaultScheme
	}
	return d.Scheme
}

func (d Defaults) port() uint16 {
	if d.Port == 0 {
		return DefaultPort
	}
	return d.Port
}

func (d Defaults) path() string {
	if d.Path == "" {
		return DefaultPath
	}
	return d.Path
}

// ParsePolicy defines what happens to components missing from a re-parsed input.
type ParsePolicy uint8

const (
	// FallbackToCurrent keeps the current value of every component the input lacks.
	FallbackToCurrent ParsePolicy = iota
	// ResetToDefaults resets all components to the defaults before every parse.
	ResetToDefaults
)

// ErrUnknownPolicy is returned when a policy name can not be recognized.
const ErrUnknownPolicy errorutil.Error = "unknown parse policy"

func (p ParsePolicy) String() string {
	switch p {
	case FallbackToCurrent:
		return "fallback"
	case ResetToDefaults:
		return "reset"
	default:
		return "ParsePolicy(" + strconv.Itoa(int(p)) + ")"
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (p ParsePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
// It accepts "fallback" and "reset", case-insensitive.
func (p *ParsePolicy) UnmarshalText(text []byte) error {
	switch util.LCase(string(text)) {
	case "fallback", "":
		*p = FallbackToCurrent
	case "reset":
		*p = ResetToDefaults
	default:
		return errtrace.Wrap(errorutil.NewWrapperError(ErrUnknownPolicy, "%q", string(text)))
	}
	return nil
}

// Option configures a [Record].
type Option func(r *Record)

// WithLabel sets the record label.
func WithLabel(label string) Option {
	return func(r *Record) { r.SetLabel(label) }
}

// WithLogger sets the logger used to report parse results at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(r *Record) { r.log = l }
}

// WithPolicy sets the parse policy, [FallbackToCurrent] by default.
func WithPolicy(p ParsePolicy) Option {
	return func(r *Record) { r.policy = p }
}

// WithDefaults overrides the initial values of scheme, port and path.
func WithDefaults(d Defaults) Option {
	return func(r *Record) { r.defs = d }
}

// WithQueryOptions sets options used to decode query strings.
func WithQueryOptions(opts *query.ParseOptions) Option {
	return func(r *Record) { r.qopts = opts }
}
