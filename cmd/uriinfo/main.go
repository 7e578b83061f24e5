// Command uriinfo decomposes URIs into their components.
//
// Usage:
//
//	uriinfo [flags] [uri ...]
//
// URIs are taken from the arguments or, when there are none, one per line from stdin.
// All URIs are parsed in turn into one record which is printed as text, JSON or YAML
// after every parse. Components missing from a URI keep the values of the previous one,
// unless -reset is given.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"braces.dev/errtrace"
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/ghettovoice/urikit/internal/errorutil"
	"github.com/ghettovoice/urikit/internal/log"
	"github.com/ghettovoice/urikit/internal/util"
	"github.com/ghettovoice/urikit/uri"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	cancel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "uriinfo: %s\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps a run error to the process exit status:
// 2 for invalid flags or configuration values, 1 for everything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp), errorutil.IsInvalidArgumentErr(err):
		return 2
	default:
		return 1
	}
}

type flags struct {
	config  string
	format  string
	label   string
	reset   bool
	dev     bool
	verbose bool
}

func parseFlags(args []string, stderr io.Writer) (*flags, []string, map[string]bool, error) {
	var f flags
	fs := flag.NewFlagSet("uriinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.config, "config", "", "Path to the YAML configuration file.")
	fs.StringVar(&f.format, "format", FormatText, "Output format: text, json or yaml.")
	fs.StringVar(&f.label, "label", "", "Label attached to every record.")
	fs.BoolVar(&f.reset, "reset", false, "Reset missing components to the defaults on every parse.")
	fs.BoolVar(&f.dev, "dev", false, "Use the developer log handler.")
	fs.BoolVar(&f.verbose, "v", false, "Log debug messages.")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, nil, errtrace.Wrap(err)
		}
		return nil, nil, nil, errtrace.Wrap(errorutil.NewInvalidArgumentError(err))
	}

	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return &f, fs.Args(), set, nil
}

// configure loads the configuration file, if any, and applies flags set on the command line over it.
func configure(f *flags, set map[string]bool) (*Config, error) {
	cfg := DefaultConfig()
	if f.config != "" {
		var err error
		if cfg, err = LoadConfig(f.config); err != nil {
			return nil, errtrace.Wrap(err)
		}
	}

	if set["format"] {
		cfg.Format = f.format
	}
	if set["label"] {
		cfg.Label = f.label
	}
	if set["reset"] {
		cfg.Policy = uri.FallbackToCurrent
		if f.reset {
			cfg.Policy = uri.ResetToDefaults
		}
	}
	if set["dev"] && f.dev {
		cfg.Log.Mode = LogModeDev
	}
	if set["v"] && f.verbose {
		cfg.Log.Level = slog.LevelDebug
	}
	return cfg, errtrace.Wrap(cfg.Validate())
}

func newLogger(cfg *Config, w io.Writer) *slog.Logger {
	switch cfg.Log.Mode {
	case LogModeDev:
		return log.NewDev(w, cfg.Log.Level)
	case LogModeNone:
		return log.Noop
	default:
		return log.NewDef(w, cfg.Log.Level)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	f, uris, set, err := parseFlags(args, stderr)
	if err != nil {
		return errtrace.Wrap(err)
	}
	cfg, err := configure(f, set)
	if err != nil {
		return errtrace.Wrap(err)
	}

	logger := newLogger(cfg, stderr)
	logger.Debug("configuration loaded", slog.Any("config", log.FmtValue(cfg, false)))

	p, err := newPrinter(cfg.Format, stdout)
	if err != nil {
		return errtrace.Wrap(err)
	}
	// the shared record carries state between inputs under the fallback policy
	rec := uri.New("", cfg.RecordOptions(logger)...)
	emit := func(raw string) error {
		rec.SetRaw(raw)
		return errtrace.Wrap(p.Print(rec))
	}

	if len(uris) > 0 {
		for _, raw := range uris {
			if err := ctx.Err(); err != nil {
				return errtrace.Wrap(err)
			}
			if err := emit(raw); err != nil {
				return errtrace.Wrap(err)
			}
		}
		return errtrace.Wrap(p.Close())
	}

	sc := bufio.NewScanner(stdin)
	for n := 1; sc.Scan(); n++ {
		if err := ctx.Err(); err != nil {
			return errtrace.Wrap(err)
		}
		line := util.TrimSP(sc.Text())
		if line == "" {
			logger.Debug("empty line skipped", slog.Int("line", n))
			continue
		}
		logger.Debug("input line", slog.Int("line", n), slog.Any("text", log.StringValue(sc.Bytes())))
		if err := emit(line); err != nil {
			return errtrace.Wrap(err)
		}
	}
	if err := sc.Err(); err != nil {
		return errtrace.Wrap(err)
	}
	return errtrace.Wrap(p.Close())
}

type printer interface {
	Print(r *uri.Record) error
	Close() error
}

func newPrinter(format string, w io.Writer) (printer, error) {
	switch format {
	case FormatJSON:
		return &jsonPrinter{enc: json.NewEncoder(w)}, nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return &yamlPrinter{enc: enc}, nil
	case FormatText:
		return &textPrinter{w: w}, nil
	default:
		return nil, errtrace.Wrap(errorutil.NewInvalidArgumentError("unknown format %q", format))
	}
}

type jsonPrinter struct {
	enc *json.Encoder
}

func (p *jsonPrinter) Print(r *uri.Record) error { return errtrace.Wrap(p.enc.Encode(r)) }

func (*jsonPrinter) Close() error { return nil }

type yamlPrinter struct {
	enc *yaml.Encoder
}

func (p *yamlPrinter) Print(r *uri.Record) error { return errtrace.Wrap(p.enc.Encode(r)) }

func (p *yamlPrinter) Close() error { return errtrace.Wrap(p.enc.Close()) }

type textPrinter struct {
	w     io.Writer
	count int
}

const maxTextQueryLen = 120

func (p *textPrinter) Print(r *uri.Record) error {
	sb := util.GetStringBuilder()
	defer util.FreeStringBuilder(sb)

	if p.count > 0 {
		sb.WriteString("\n")
	}
	p.count++

	line := func(k, v string) {
		if v == "" {
			sb.WriteString(k + ":\n")
			return
		}
		fmt.Fprintf(sb, "%-11s%s\n", k+":", v)
	}

	line("raw", r.Raw())
	if v, ok := r.Label(); ok {
		line("label", v)
	}
	line("scheme", r.Scheme())
	if v, ok := r.Username(); ok {
		line("username", v)
	}
	if v, ok := r.Password(); ok {
		line("password", v)
	}
	if v, ok := r.Host(); ok {
		line("host", v)
	}
	line("port", strconv.Itoa(int(r.Port())))
	line("path", r.Path())
	line("dirname", r.Dirname())
	line("basename", r.Basename())
	line("filename", r.Filename())
	line("extension", r.Extension())
	line("query", util.Ellipsis(r.Query().Encode(), maxTextQueryLen))
	if v, ok := r.Fragment(); ok {
		line("fragment", v)
	}

	_, err := io.WriteString(p.w, sb.String())
	return errtrace.Wrap(err)
}

func (*textPrinter) Close() error { return nil }
