package tree

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/token"

	"github.com/ardnew/argot/log"
)

// YAML parses YAML documents. Mapping keys keep their document order.
type YAML struct{}

// Parse implements [Parser].
func (YAML) Parse(ctx context.Context, text string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, WrapError(err)
	}

	var v any
	if err := yaml.UnmarshalContext(ctx, []byte(text), &v, yaml.UseOrderedMap()); err != nil {
		return nil, yamlError(text, err)
	}

	node, err := FromNative(v)
	if err != nil {
		return nil, NewError("unsupported YAML value").Wrap(err)
	}

	log.TraceContext(ctx, "tree parsed",
		slog.String("parser", "yaml"),
		slog.String("kind", node.Kind().String()))

	return node, nil
}

// tokenError is implemented by the errors of goccy/go-yaml that know where the
// failure happened.
type tokenError interface {
	GetToken() *token.Token
	GetMessage() string
}

func yamlError(text string, err error) *Error {
	var te tokenError
	if errors.As(err, &te) {
		if tok := te.GetToken(); tok != nil && tok.Position != nil {
			pos := Position{
				Offset: tok.Position.Offset,
				Line:   tok.Position.Line,
				Column: tok.Position.Column,
			}

			return Errorf(pos, "%s", strings.TrimSpace(te.GetMessage()))
		}
	}

	return NewError("invalid YAML").Wrap(err)
}

// MarshalYAML encodes n as YAML. A positive indent sets the block indentation
// width; zero selects flow style.
func MarshalYAML(ctx context.Context, n *Node, indent int) ([]byte, error) {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	return yaml.MarshalContext(ctx, n.yamlValue(), opts...)
}
