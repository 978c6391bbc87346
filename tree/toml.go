package tree

import (
	"context"
	"errors"
	"log/slog"

	"github.com/BurntSushi/toml"

	"github.com/ardnew/argot/log"
)

// TOML parses TOML documents. Keys keep their document order.
type TOML struct{}

// Parse implements [Parser].
func (TOML) Parse(ctx context.Context, text string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, WrapError(err)
	}

	var doc map[string]any

	md, err := toml.Decode(text, &doc)
	if err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			return nil, Errorf(PositionOf(text, perr.Position.Start), "%s",
				perr.Message)
		}

		return nil, NewError("invalid TOML").Wrap(err)
	}

	root := Map()

	// Keys lists every key, tables included, in definition order. Walking it
	// builds the ordered skeleton; fill then adds anything it did not list.
	for _, key := range md.Keys() {
		if err := place(root, doc, key); err != nil {
			return nil, err
		}
	}

	if err := fill(root, doc); err != nil {
		return nil, err
	}

	log.TraceContext(ctx, "tree parsed",
		slog.String("parser", "toml"),
		slog.Int("entries", root.Len()))

	return root, nil
}

// place inserts the value at path in doc into root, creating intermediate
// map nodes. Paths through arrays of tables are skipped; their values are
// converted whole when their own key is placed.
func place(root *Node, doc map[string]any, path toml.Key) error {
	node, cur := root, doc

	for i, k := range path {
		v, ok := cur[k]
		if !ok {
			return nil
		}

		if i == len(path)-1 {
			if _, ok := v.(map[string]any); ok {
				if node.Get(k) == nil {
					node.Set(k, Map())
				}

				return nil
			}

			child, err := FromNative(v)
			if err != nil {
				return NewError("unsupported TOML value").Wrap(err).
					With(slog.String("key", path.String()))
			}

			node.Set(k, child)

			return nil
		}

		sub, ok := v.(map[string]any)
		if !ok {
			return nil
		}

		next := node.Get(k)
		if next == nil {
			next = Map()
			node.Set(k, next)
		}

		if next.Kind() != KindMap {
			return nil
		}

		node, cur = next, sub
	}

	return nil
}

// fill adds the entries of m missing from node, ordered by key, and
// recurses into tables present in both.
func fill(node *Node, m map[string]any) error {
	extra, err := FromNative(m)
	if err != nil {
		return NewError("unsupported TOML value").Wrap(err)
	}

	for i, k := range extra.keys {
		have := node.Get(k)

		switch {
		case have == nil:
			node.Set(k, extra.items[i])
		case have.Kind() == KindMap:
			if sub, ok := m[k].(map[string]any); ok {
				if err := fill(have, sub); err != nil {
					return err
				}
			}
		}
	}

	return nil
}
