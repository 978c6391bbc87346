// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog].
//
// The package offers configurable time formatting, caller information,
// and output formats that are applied at logger creation time using
// functional options.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("parsed", slog.String("key", "count"))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("RFC3339Nano"),
//		log.WithCaller(true))
//
// The package-level functions ([Info], [TraceContext], and so on) write to a
// default logger on [os.Stderr] at [DefaultLevel]. Reconfigure it with
// [Config] or replace it with [SetDefault].
//
// # Levels
//
// [LevelTrace] sits below [LevelDebug] and is rendered as "TRACE". The args
// package reports its fallback decisions at this level.
//
// # Output Formats
//
// [FormatText] (default) and [FormatJSON]. With [WithPretty] enabled both are
// styled with lipgloss; styling is dropped when the output is not a terminal.
package log
