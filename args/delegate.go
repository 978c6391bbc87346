package args

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"

	"github.com/ardnew/argot/bundle"
	"github.com/ardnew/argot/text"
	"github.com/ardnew/argot/tree"
)

type treeElement struct {
	Base

	parser tree.Parser
}

// Tree returns an element that consumes every remaining token, joins them
// with single spaces, and parses the result as a configuration tree with p.
func Tree(key string, p tree.Parser) Element[*tree.Node] {
	return treeElement{Base: NewBase(key), parser: p}
}

func (e treeElement) Parse(
	ctx context.Context,
	_ Source,
	s *Stream,
) (*tree.Node, error) {
	var words []string

	for s.HasNext() {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}

		words = append(words, tok)
	}

	source := strings.Join(words, " ")

	node, err := e.parser.Parse(ctx, source)
	if err != nil {
		return nil, s.Errorf(MalformedInput, source,
			"Node parsing failed: %s", err.Error()).Wrap(err)
	}

	return node, nil
}

type bundleElement struct {
	Base

	uri      Element[*url.URL]
	resolver bundle.Resolver
}

// Bundle returns an element that parses one token as a URI, like [URI], and
// resolves it to a resource bundle with r.
func Bundle(key string, r bundle.Resolver) Element[*bundle.Bundle] {
	return bundleElement{
		Base:     NewBase(key),
		uri:      URI(key),
		resolver: r,
	}
}

func (e bundleElement) Parse(
	ctx context.Context,
	src Source,
	s *Stream,
) (*bundle.Bundle, error) {
	uri, err := e.uri.Parse(ctx, src, s)
	if err != nil {
		return nil, err
	}

	b, err := e.resolver.Resolve(ctx, uri)
	if err != nil {
		if errors.Is(err, bundle.ErrNotFound) {
			return nil, s.Errorf(NotFound, uri.String(),
				"No resource located at this URL!").Wrap(err)
		}

		return nil, s.Errorf(MalformedInput, uri.String(),
			"%s", err.Error()).Wrap(err).
			With(slog.String("uri", uri.String()))
	}

	return b, nil
}

type textElement struct {
	Base
	config

	structured bool
	all        bool
}

// Text returns an element that parses formatted text.
//
// If structured is true the input is deserialized as a JSON text component,
// otherwise as plain text carrying legacy formatting codes introduced by
// [WithCodePrefix] ('&' by default). If all is true the element consumes the
// rest of the input verbatim, otherwise just the next token.
func Text(key string, structured, all bool, opts ...Option) Element[text.Text] {
	return textElement{
		Base:       NewBase(key),
		config:     makeConfig(opts...),
		structured: structured,
		all:        all,
	}
}

// PlainText is Text(key, false, false, opts...).
func PlainText(key string, opts ...Option) Element[text.Text] {
	return Text(key, false, false, opts...)
}

// RemainingText is Text(key, false, true, opts...).
func RemainingText(key string, opts ...Option) Element[text.Text] {
	return Text(key, false, true, opts...)
}

// JSONText is Text(key, true, false).
func JSONText(key string) Element[text.Text] {
	return Text(key, true, false)
}

// RemainingJSONText is Text(key, true, true).
func RemainingJSONText(key string) Element[text.Text] {
	return Text(key, true, true)
}

func (e textElement) Parse(
	_ context.Context,
	_ Source,
	s *Stream,
) (text.Text, error) {
	var input string

	if e.all {
		if !s.HasNext() {
			return text.Text{}, s.NewError(ExhaustedInput, "Not enough arguments!")
		}

		input = s.Remainder()
		s.End()
	} else {
		tok, err := s.Next()
		if err != nil {
			return text.Text{}, err
		}

		input = tok
	}

	var (
		t   text.Text
		err error
	)

	if e.structured {
		t, err = text.ParseJSON(input)
	} else {
		t, err = text.ParseLegacy(input, e.prefix)
	}

	if err != nil {
		return text.Text{}, s.Errorf(MalformedInput, input, "%s", err.Error()).
			Wrap(err)
	}

	return t, nil
}
