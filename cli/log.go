package cli

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/argot/log"
)

// logFormat configures the logger format as a side effect of parsing via
// [encoding.TextUnmarshaler], early enough to affect errors during parsing.
type logFormat string

// UnmarshalText implements [encoding.TextUnmarshaler].
func (f *logFormat) UnmarshalText(text []byte) error {
	*f = logFormat(text)
	log.Config(log.WithFormat(log.ParseFormat(string(*f))))

	return nil
}

// logLevel configures the logger level as a side effect of parsing via
// [encoding.TextUnmarshaler].
type logLevel string

// UnmarshalText implements [encoding.TextUnmarshaler].
func (l *logLevel) UnmarshalText(text []byte) error {
	*l = logLevel(text)
	log.Config(log.WithLevel(log.ParseLevel(string(*l))))

	return nil
}

type logConfig struct {
	Level      logLevel  `default:"${logLevelDefault}"  enum:"${logLevelEnum}"  help:"Set log level."`
	Format     logFormat `default:"${logFormatDefault}" enum:"${logFormatEnum}" help:"Set log format."`
	TimeLayout string    `default:"RFC3339"                                      help:"Set timestamp format."`
	Caller     bool      `default:"false"                                        help:"Include caller information."       negatable:""`
	Pretty     bool      `default:"true"                                         help:"Enable colorized pretty printing." negatable:""`
}

func (*logConfig) vars() kong.Vars {
	return kong.Vars{
		"logLevelEnum":     strings.Join(slices.Collect(log.Levels()), ","),
		"logLevelDefault":  log.DefaultLevel.String(),
		"logFormatEnum":    strings.Join(slices.Collect(log.Formats()), ","),
		"logFormatDefault": log.DefaultFormat.String(),
	}
}

func (*logConfig) group() kong.Group {
	return kong.Group{Key: "log", Title: "Logging options"}
}

func (f *logConfig) start(ctx context.Context) {
	log.Config(
		log.WithLevel(log.ParseLevel(string(f.Level))),
		log.WithFormat(log.ParseFormat(string(f.Format))),
		log.WithTimeLayout(f.TimeLayout),
		log.WithCaller(f.Caller),
		log.WithPretty(f.Pretty),
	)

	log.DebugContext(ctx, "logger initialized",
		slog.String("level", string(f.Level)),
		slog.String("format", string(f.Format)),
		slog.String("time", f.TimeLayout),
		slog.Bool("caller", f.Caller),
		slog.Bool("pretty", f.Pretty),
	)
}

// scanFlag applies one logger flag found by [logConfig.scan].
type scanFlag struct {
	// valued flags consume the next argument when not assigned with '='.
	valued bool
	apply  func(f *logConfig, value string, assigned bool)
}

// toggle returns a scanFlag that sets a boolean field, inverted for the
// negated "--no-" form.
func toggle(field func(*logConfig) *bool, option func(bool) log.Option, negate bool) scanFlag {
	return scanFlag{apply: func(f *logConfig, value string, assigned bool) {
		v := true
		if assigned {
			b, err := strconv.ParseBool(value)
			if err != nil {
				return
			}

			v = b
		}

		if negate {
			v = !v
		}

		*field(f) = v
		log.Config(option(v))
	}}
}

func pretty(f *logConfig) *bool { return &f.Pretty }
func caller(f *logConfig) *bool { return &f.Caller }

var scanFlags = map[string]scanFlag{
	"--log-level": {valued: true, apply: func(f *logConfig, v string, _ bool) {
		_ = f.Level.UnmarshalText([]byte(v))
	}},
	"--log-format": {valued: true, apply: func(f *logConfig, v string, _ bool) {
		_ = f.Format.UnmarshalText([]byte(v))
	}},
	"--log-pretty":    toggle(pretty, log.WithPretty, false),
	"--no-log-pretty": toggle(pretty, log.WithPretty, true),
	"--log-caller":    toggle(caller, log.WithCaller, false),
	"--no-log-caller": toggle(caller, log.WithCaller, true),
}

// scan performs an early pass over command-line arguments to extract and
// apply logger configuration before Kong begins parsing, so the logger is
// configured regardless of flag position on the command line.
//
// Boolean flags like Pretty don't go through [encoding.TextUnmarshaler], so
// the pre-scan is the only way they take effect before parsing completes.
func (f *logConfig) scan(args []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return
		}

		if !strings.HasPrefix(arg, "--log-") && !strings.HasPrefix(arg, "--no-log-") {
			continue
		}

		name, value, assigned := strings.Cut(arg, "=")

		flag, ok := scanFlags[name]
		if !ok {
			continue
		}

		if flag.valued && !assigned && i+1 < len(args) &&
			args[i+1] != "" && args[i+1][0] != '-' {
			i++
			value = args[i]
		}

		flag.apply(f, value, assigned)
	}
}
