package cli

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/argot/log"
	"github.com/ardnew/argot/tree"
)

// resolve returns a [kong.ConfigurationLoader] that reads flag values from
// the map named name in a config file written in the native tree format.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve("config"), "/path/to/config")
//
// Flag names with hyphens may be written with underscores, so both of these
// set --log-level:
//
//	config {
//	  log_level : "debug"
//	  "log-pretty" : false
//	}
//
// Numbers are handed to Kong in their literal form so that each flag's mapper
// decides how to read them. Command-line flags override config file values.
//
// A file that does not parse is logged and otherwise ignored.
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}

		root, err := tree.NewNative().Parse(context.Background(), string(data))
		if err != nil {
			log.Warn("ignoring unreadable config", slog.Any("error", err))

			return config{}, nil
		}

		node := root.Get(name)
		if node.Kind() != tree.KindMap {
			return config{}, nil
		}

		conf := make(config, node.Len())
		for _, key := range node.Keys() {
			conf[key] = flagInput(node.Get(key))
		}

		return conf, nil
	}
}

// config implements [kong.Resolver] for native tree configs.
type config map[string]any

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	if value, ok := c[strings.ReplaceAll(flag.Name, "-", "_")]; ok {
		return value, nil
	}

	return nil, nil
}

// flagInput converts n to a value Kong's mappers accept.
func flagInput(n *tree.Node) any {
	switch n.Kind() {
	case tree.KindNumber:
		return n.String()
	case tree.KindList:
		out := make([]any, n.Len())
		for i := range out {
			out[i] = flagInput(n.Index(i))
		}

		return out
	default:
		return n.Native()
	}
}
