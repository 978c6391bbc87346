package args

import (
	"context"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// Choices is an insertion-ordered mapping of unique labels to values. The
// zero value is an empty mapping ready to use.
type Choices[T any] struct {
	labels []string
	values map[string]T
}

// NewChoices returns an empty mapping.
func NewChoices[T any]() *Choices[T] {
	return &Choices[T]{values: make(map[string]T)}
}

// ChoicesOf returns a mapping of the entries of m ordered by label.
func ChoicesOf[T any](m map[string]T) *Choices[T] {
	c := NewChoices[T]()

	for _, label := range slices.Sorted(maps.Keys(m)) {
		c.Add(label, m[label])
	}

	return c
}

// Add maps label to value. Adding a label that already exists replaces its
// value and keeps its position.
func (c *Choices[T]) Add(label string, value T) *Choices[T] {
	if c.values == nil {
		c.values = make(map[string]T)
	}

	if _, ok := c.values[label]; !ok {
		c.labels = append(c.labels, label)
	}

	c.values[label] = value

	return c
}

// Get returns the value mapped to label.
func (c *Choices[T]) Get(label string) (T, bool) {
	if c == nil {
		var zero T

		return zero, false
	}

	v, ok := c.values[label]

	return v, ok
}

// Len returns the number of labels.
func (c *Choices[T]) Len() int {
	if c == nil {
		return 0
	}

	return len(c.labels)
}

// Labels returns the labels in order.
func (c *Choices[T]) Labels() []string {
	if c == nil {
		return nil
	}

	return slices.Clone(c.labels)
}

// All returns an iterator over the label/value pairs in order.
func (c *Choices[T]) All() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		if c == nil {
			return
		}

		for _, label := range c.labels {
			if !yield(label, c.values[label]) {
				return
			}
		}
	}
}

// ChoiceSource provides the choices available to a source.
//
// Choices may be called any number of times while a single command is being
// parsed, completed, or described, with no guarantee about how many or in what
// order. It must have no side effects and must return the same mapping for the
// same source.
type ChoiceSource[T any] interface {
	Choices(src Source) *Choices[T]
}

// ChoiceFunc adapts a function to a [ChoiceSource].
type ChoiceFunc[T any] func(src Source) *Choices[T]

// Choices implements [ChoiceSource].
func (f ChoiceFunc[T]) Choices(src Source) *Choices[T] { return f(src) }

// fixedChoices is a ChoiceSource that ignores the source.
type fixedChoices[T any] struct{ c *Choices[T] }

func (f fixedChoices[T]) Choices(Source) *Choices[T] { return f.c }

// StaticChoices returns a [ChoiceSource] that always provides c.
func StaticChoices[T any](c *Choices[T]) ChoiceSource[T] {
	return fixedChoices[T]{c}
}

// DefaultInlineChoices is the number of labels below which a choice element
// lists its labels in its usage by default.
const DefaultInlineChoices = 5

// ChoiceOption configures a choice element.
type ChoiceOption func(*choiceConfig)

type choiceConfig struct {
	inUsage func(Source) bool
	fuzzy   bool
}

// ShowInUsage sets whether the usage string always (true) or never (false)
// lists the labels.
func ShowInUsage(show bool) ChoiceOption {
	return func(c *choiceConfig) {
		c.inUsage = func(Source) bool { return show }
	}
}

// WithUsagePredicate sets the function deciding whether the usage string lists
// the labels for a given source.
func WithUsagePredicate(pred func(Source) bool) ChoiceOption {
	return func(c *choiceConfig) {
		if pred != nil {
			c.inUsage = pred
		}
	}
}

// WithFuzzy enables fuzzy matching of the partial token when completion finds
// no label with that prefix. Fuzzy matches are ranked best first.
func WithFuzzy(enable bool) ChoiceOption {
	return func(c *choiceConfig) {
		c.fuzzy = enable
	}
}

type choiceElement[T any] struct {
	Base
	choiceConfig

	source ChoiceSource[T]
}

// Choice returns an element that parses one token as one of the labels
// provided by source, and returns the value mapped to it.
//
// By default, the usage string lists the labels when there are fewer than
// [DefaultInlineChoices] of them.
func Choice[T any](
	key string,
	source ChoiceSource[T],
	opts ...ChoiceOption,
) Element[T] {
	e := choiceElement[T]{Base: NewBase(key), source: source}

	e.inUsage = func(src Source) bool {
		return source.Choices(src).Len() < DefaultInlineChoices
	}

	for _, opt := range opts {
		opt(&e.choiceConfig)
	}

	return e
}

func (e choiceElement[T]) Parse(
	_ context.Context,
	src Source,
	s *Stream,
) (T, error) {
	var zero T

	choices := e.source.Choices(src)

	tok, err := s.Next()
	if err != nil {
		return zero, err
	}

	v, ok := choices.Get(tok)
	if !ok {
		return zero, s.Errorf(InvalidChoice, tok,
			"Argument was not a valid choice. Valid choices: [%s]",
			strings.Join(choices.Labels(), ", "))
	}

	return v, nil
}

func (e choiceElement[T]) Complete(
	_ context.Context,
	src Source,
	s *Stream,
) []string {
	labels := e.source.Choices(src).Labels()
	prefix := s.PeekPrefix()

	matches := filterPrefix(prefix, labels...)
	if len(matches) > 0 || !e.fuzzy || prefix == "" {
		return matches
	}

	for _, m := range fuzzy.Find(prefix, labels) {
		matches = append(matches, m.Str)
	}

	return matches
}

func (e choiceElement[T]) Usage(src Source) string {
	choices := e.source.Choices(src)

	if !e.inUsage(src) {
		return e.Base.Usage(src)
	}

	return "<" + strings.Join(choices.Labels(), "|") + ">"
}
