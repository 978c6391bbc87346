package args

import (
	"errors"
	"fmt"
	"iter"
	"unicode"
	"unicode/utf8"
)

// ErrForeignCheckpoint is returned by [Stream.Restore] when the checkpoint was
// not taken from the receiving stream.
var ErrForeignCheckpoint = errors.New("checkpoint belongs to another stream")

// token is a single whitespace-delimited word of the raw input along with its
// byte offsets.
type token struct {
	text       string
	start, end int
}

// Stream is a cursor over the whitespace-delimited tokens of one command
// string.
//
// The raw text and token order never change once a Stream is created. Only
// the cursor moves, and the only way to move it backwards is [Stream.Restore]
// with a [Checkpoint] taken from the same Stream.
//
// A Stream is owned by a single parse, completion, or usage request and is not
// safe for concurrent use.
type Stream struct {
	raw    string
	tokens []token
	curr   int
}

// Checkpoint is an opaque snapshot of a [Stream] cursor.
//
// A Checkpoint is only meaningful to the Stream that created it. The zero
// Checkpoint is not valid for any Stream.
type Checkpoint struct {
	owner *Stream
	curr  int
}

// NewStream tokenises raw and returns a Stream positioned before the first
// token.
func NewStream(raw string) *Stream {
	return &Stream{
		raw:    raw,
		tokens: tokenise(raw),
	}
}

// tokenise splits s on Unicode whitespace, recording the byte offsets of each
// token.
func tokenise(s string) []token {
	var (
		tokens []token
		start  = -1
	)

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])

		if unicode.IsSpace(r) {
			if start >= 0 {
				tokens = append(tokens, token{s[start:i], start, i})
				start = -1
			}
		} else if start < 0 {
			start = i
		}

		i += size
	}

	if start >= 0 {
		tokens = append(tokens, token{s[start:], start, len(s)})
	}

	return tokens
}

// Raw returns the complete raw input.
func (s *Stream) Raw() string { return s.raw }

// Len returns the total number of tokens.
func (s *Stream) Len() int { return len(s.tokens) }

// Position returns the index of the next token to be read.
func (s *Stream) Position() int { return s.curr }

// Remaining returns the number of tokens not yet consumed.
func (s *Stream) Remaining() int { return len(s.tokens) - s.curr }

// Offset returns the byte offset into the raw input of the next token, or the
// length of the raw input if no tokens remain.
func (s *Stream) Offset() int {
	if s.curr < len(s.tokens) {
		return s.tokens[s.curr].start
	}

	return len(s.raw)
}

// HasNext reports whether any tokens remain.
func (s *Stream) HasNext() bool { return s.curr < len(s.tokens) }

// Next consumes and returns the next token.
// It returns an [ExhaustedInput] error if no tokens remain.
func (s *Stream) Next() (string, error) {
	if s.curr >= len(s.tokens) {
		return "", s.NewError(ExhaustedInput, "Not enough arguments!")
	}

	s.curr++

	return s.tokens[s.curr-1].text, nil
}

// Peek returns the next token without consuming it, and a success boolean
// that is false if no tokens remain.
func (s *Stream) Peek() (string, bool) {
	if s.curr >= len(s.tokens) {
		return "", false
	}

	return s.tokens[s.curr].text, true
}

// PeekPrefix returns the partial token a completion request should match
// against: the next unconsumed token, or the empty string if there is none.
func (s *Stream) PeekPrefix() string {
	t, _ := s.Peek()

	return t
}

// Remainder returns the unconsumed raw input starting at the first byte of the
// next token. Whitespace inside and after the remaining tokens is preserved
// exactly. It returns the empty string if no tokens remain.
//
// Remainder does not move the cursor; follow it with [Stream.End] to consume
// the text it returned.
func (s *Stream) Remainder() string {
	if s.curr >= len(s.tokens) {
		return ""
	}

	return s.raw[s.tokens[s.curr].start:]
}

// End moves the cursor past the last token.
func (s *Stream) End() { s.curr = len(s.tokens) }

// All returns an iterator over every token, consumed or not.
func (s *Stream) All() iter.Seq2[int, string] {
	return func(yield func(int, string) bool) {
		for i, t := range s.tokens {
			if !yield(i, t.text) {
				return
			}
		}
	}
}

// Rest returns an iterator over the unconsumed tokens. Iterating does not move
// the cursor.
func (s *Stream) Rest() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, t := range s.tokens[s.curr:] {
			if !yield(t.text) {
				return
			}
		}
	}
}

// Checkpoint returns a snapshot of the cursor that can later be passed to
// [Stream.Restore].
func (s *Stream) Checkpoint() Checkpoint {
	return Checkpoint{owner: s, curr: s.curr}
}

// Restore resets the cursor to the given checkpoint. A checkpoint may be
// restored any number of times.
//
// Restore returns [ErrForeignCheckpoint] and leaves the cursor untouched if
// cp was taken from a different Stream.
func (s *Stream) Restore(cp Checkpoint) error {
	if cp.owner != s {
		return ErrForeignCheckpoint
	}

	s.curr = cp.curr

	return nil
}

// last returns the most recently consumed token, if any.
func (s *Stream) last() (token, bool) {
	if s.curr == 0 || len(s.tokens) == 0 {
		return token{}, false
	}

	return s.tokens[s.curr-1], true
}

// NewError returns an [Error] of the given kind positioned at the most
// recently consumed token, which is also reported as the offending input.
// With nothing consumed yet, the error is positioned at the cursor.
func (s *Stream) NewError(kind Kind, msg string) *Error {
	if t, ok := s.last(); ok {
		return newError(kind, msg, t.text, t.start, s.raw)
	}

	return newError(kind, msg, "", s.Offset(), s.raw)
}

// Errorf is like [Stream.NewError] but reports input as the offending
// fragment and formats the message.
func (s *Stream) Errorf(
	kind Kind,
	input string,
	format string,
	a ...any,
) *Error {
	e := s.NewError(kind, fmt.Sprintf(format, a...))
	e.input = input

	return e
}

// String returns the raw input.
func (s *Stream) String() string { return s.raw }
