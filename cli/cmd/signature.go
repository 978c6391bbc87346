package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/ardnew/argot/args"
	"github.com/ardnew/argot/bundle"
	"github.com/ardnew/argot/log"
	"github.com/ardnew/argot/pkg"
	"github.com/ardnew/argot/text"
	"github.com/ardnew/argot/tree"
)

// Signature is the ordered list of elements of one command.
type Signature struct {
	specs []ArgSpec
	elems []args.Element[any]
}

// NewSignature builds a Signature from --arg specs.
func NewSignature(env Env, specs ...string) (*Signature, error) {
	var sig Signature

	for _, s := range specs {
		spec, err := ParseArgSpec(s)
		if err != nil {
			return nil, err
		}

		if slices.ContainsFunc(sig.specs, func(a ArgSpec) bool { return a.Key == spec.Key }) {
			return nil, pkg.ErrDuplicateKey.Wrapf("%q", spec.Key)
		}

		e, err := spec.Element(env)
		if err != nil {
			return nil, err
		}

		sig.specs = append(sig.specs, spec)
		sig.elems = append(sig.elems, e)
	}

	return &sig, nil
}

// Keys returns the element keys in order.
func (sig *Signature) Keys() []string {
	keys := make([]string, len(sig.specs))
	for i, spec := range sig.specs {
		keys[i] = spec.Key
	}

	return keys
}

// Parse drives every element in order over raw and returns a map from each
// key to its value. Input left over after the last element is an error.
func (sig *Signature) Parse(
	ctx context.Context,
	src args.Source,
	raw string,
) (*tree.Node, error) {
	s := args.NewStream(raw)
	out := tree.Map()

	for _, e := range sig.elems {
		v, err := e.Parse(ctx, src, s)
		if err != nil {
			return nil, err
		}

		node, err := present(v)
		if err != nil {
			return nil, fmt.Errorf("presenting %s: %w", e.Key(), err)
		}

		out.Set(e.Key(), node)
	}

	if s.HasNext() {
		_, _ = s.Next()

		return nil, s.NewError(args.MalformedInput, "Incorrect argument for command")
	}

	log.TraceContext(ctx, "signature parsed",
		slog.String("source", src.Name()),
		slog.Int("tokens", s.Len()))

	return out, nil
}

// Complete returns suggestions for the token being typed at the end of raw.
//
// A raw text ending in whitespace completes a new, empty token. Elements
// before the cursor are parsed to advance the stream, and the first element
// that reaches the token being typed is asked for suggestions. If an earlier
// element fails there is nothing to suggest.
func (sig *Signature) Complete(
	ctx context.Context,
	src args.Source,
	raw string,
) []string {
	s := args.NewStream(raw)

	typed := s.Len()
	if r, _ := utf8.DecodeLastRuneInString(raw); typed > 0 && !unicode.IsSpace(r) {
		typed--
	}

	for _, e := range sig.elems {
		cp := s.Checkpoint()

		if s.Position() < typed {
			if _, err := e.Parse(ctx, src, s); err != nil {
				return nil
			}

			if s.Position() <= typed {
				continue
			}

			if err := s.Restore(cp); err != nil {
				return nil
			}
		}

		out := e.Complete(ctx, src, s)
		_ = s.Restore(cp)

		return out
	}

	return nil
}

// Usage returns the usage of every element joined by spaces.
func (sig *Signature) Usage(src args.Source) string {
	parts := make([]string, len(sig.elems))
	for i, e := range sig.elems {
		parts[i] = e.Usage(src)
	}

	return strings.Join(parts, " ")
}

// present converts a parsed value into a tree node for output.
func present(v any) (*tree.Node, error) {
	switch val := v.(type) {
	case nil:
		return tree.Null(), nil
	case *tree.Node:
		return val, nil
	case *big.Int:
		return tree.Number(json.Number(val.String())), nil
	case args.Decimal:
		return tree.Number(json.Number(val.String())), nil
	case time.Duration:
		return tree.String(val.String()), nil
	case time.Time:
		return tree.String(val.Format(time.RFC3339Nano)), nil
	case text.Text:
		b, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}

		return tree.JSON{}.Parse(context.Background(), string(b))
	case *bundle.Bundle:
		entries := make([]*tree.Node, len(val.Entries))
		for i, name := range val.Entries {
			entries[i] = tree.String(name)
		}

		return tree.Map().
			Set("uri", tree.String(val.URI.String())).
			Set("name", tree.String(val.Name)).
			Set("digest", tree.String(val.Digest.String())).
			Set("size", tree.Number(json.Number(strconv.FormatInt(val.Size, 10)))).
			Set("entries", tree.List(entries...)), nil
	case fmt.Stringer:
		return tree.String(val.String()), nil
	}

	return tree.FromNative(v)
}
