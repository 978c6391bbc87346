package args

import (
	"context"
	"strings"
)

// Element is one typed argument of a command.
//
// Parse may consume any number of tokens, including none. When it fails the
// stream is left wherever the failure happened; an element that wants to fall
// back to a substitute value must take a [Checkpoint] and restore it itself.
//
// Complete must not consume tokens or cause any other visible effect. It
// matches against [Stream.PeekPrefix] and returns suggestions in a stable
// order.
//
// Usage is a pure function of the source and never touches a stream.
type Element[T any] interface {
	Key() string
	Parse(ctx context.Context, src Source, s *Stream) (T, error)
	Complete(ctx context.Context, src Source, s *Stream) []string
	Usage(src Source) string
}

// Base provides the key and the default completion and usage behavior shared
// by all elements. Elements embed Base and override what they need.
type Base struct {
	key string
}

// NewBase returns a Base with the given key.
func NewBase(key string) Base { return Base{key: key} }

// Key returns the name the element's value is stored under.
func (b Base) Key() string { return b.key }

// Complete returns no suggestions.
func (Base) Complete(context.Context, Source, *Stream) []string { return nil }

// Usage returns the key in angle brackets, "<key>".
func (b Base) Usage(Source) string { return "<" + b.key + ">" }

// filterPrefix returns the candidates that start with prefix, preserving
// their order.
func filterPrefix(prefix string, candidates ...string) []string {
	var out []string

	for _, c := range candidates {
		if strings.HasPrefix(c, prefix) {
			out = append(out, c)
		}
	}

	return out
}

// optional makes an element skippable.
type optional[T any] struct {
	elem Element[T]
	def  T
	weak bool
}

// Optional returns an element that yields def without consuming anything when
// no tokens remain, and otherwise delegates to e. Failures of e are returned.
func Optional[T any](e Element[T], def T) Element[T] {
	return optional[T]{elem: e, def: def}
}

// OptionalWeak is like [Optional] except that when e fails, the stream is
// restored to where it was before e ran and def is returned instead of the
// error.
func OptionalWeak[T any](e Element[T], def T) Element[T] {
	return optional[T]{elem: e, def: def, weak: true}
}

func (o optional[T]) Key() string { return o.elem.Key() }

func (o optional[T]) Parse(
	ctx context.Context,
	src Source,
	s *Stream,
) (T, error) {
	if !s.HasNext() {
		return o.def, nil
	}

	if !o.weak {
		return o.elem.Parse(ctx, src, s)
	}

	cp := s.Checkpoint()

	v, err := o.elem.Parse(ctx, src, s)
	if err != nil {
		if rerr := s.Restore(cp); rerr != nil {
			return o.def, rerr
		}

		return o.def, nil
	}

	return v, nil
}

func (o optional[T]) Complete(
	ctx context.Context,
	src Source,
	s *Stream,
) []string {
	return o.elem.Complete(ctx, src, s)
}

func (o optional[T]) Usage(src Source) string {
	return "[" + o.elem.Usage(src) + "]"
}

// erased adapts an Element[T] to Element[any].
type erased[T any] struct {
	Element[T]
}

// Any returns e with its value type erased, so that elements of different
// types can be held in one slice and driven in sequence.
func Any[T any](e Element[T]) Element[any] {
	return erased[T]{e}
}

func (e erased[T]) Parse(
	ctx context.Context,
	src Source,
	s *Stream,
) (any, error) {
	v, err := e.Element.Parse(ctx, src, s)
	if err != nil {
		return nil, err
	}

	return v, nil
}
