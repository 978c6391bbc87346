package tree

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
)

// Parser turns configuration text into a tree.
type Parser interface {
	Parse(ctx context.Context, text string) (*Node, error)
}

// ParserFunc adapts a function to a [Parser].
type ParserFunc func(ctx context.Context, text string) (*Node, error)

// Parse implements [Parser].
func (f ParserFunc) Parse(ctx context.Context, text string) (*Node, error) {
	return f(ctx, text)
}

// DefaultParser is the name of the parser returned by [ParserFor] for an empty
// name.
const DefaultParser = "native"

var parsers = map[string]func() Parser{
	"native": func() Parser { return NewNative() },
	"yaml":   func() Parser { return YAML{} },
	"toml":   func() Parser { return TOML{} },
	"json":   func() Parser { return JSON{} },
}

// ErrUnknownParser is returned by [ParserFor] for unrecognized names.
var ErrUnknownParser = NewError("unknown tree parser")

// ParserFor returns the parser registered under name, case-insensitively.
func ParserFor(name string) (Parser, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultParser
	}

	mk, ok := parsers[name]
	if !ok {
		return nil, ErrUnknownParser.Wrap(fmt.Errorf("%q", name)).
			With(slog.String("name", name))
	}

	return mk(), nil
}

// ParserNames returns the registered parser names in lexical order.
func ParserNames() []string {
	return slices.Sorted(maps.Keys(parsers))
}
