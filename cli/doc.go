// Package cli contains the command line interface for argot.
//
// # Commands
//
//   - parse: parse command text against a signature and print the values
//   - complete: suggest completions for the last token of command text
//   - usage: print the usage line of a signature
//   - kinds: list the argument kinds a signature may use
//   - init: write a config file with the current flag values
//
// A signature is given with repeated --arg flags of the form
// key:kind[=option][?], and command text either as trailing arguments or
// read line by line from --source files:
//
//	argot parse -a target:ip-or-source -a length:duration 203.0.113.7 1d
//	argot parse -s bans.txt -a target:ip -a length:duration -o yaml
//
// # Configuration
//
// Flag values are also read from a config file in the native tree format
// under the user configuration directory. Flags given on the command line
// take precedence. See [resolve].
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o argot .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/argot/pprof)
package cli
