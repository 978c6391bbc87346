package args

import (
	"log/slog"
	"strconv"
	"strings"
)

// Kind classifies an argument parse failure.
//
// Kind implements error so that a failure can be matched by category:
//
//	if errors.Is(err, args.MalformedInput) { ... }
type Kind uint8

const (
	// ExhaustedInput means a token was required but none remained and no
	// fallback applied.
	ExhaustedInput Kind = iota + 1 // exhausted input

	// MalformedInput means a token was present but did not have the expected
	// lexical form.
	MalformedInput // malformed input

	// NotFound means a well-formed reference did not resolve to an existing
	// external resource.
	NotFound // not found

	// InvalidChoice means a well-formed token was not a member of the current
	// set of choices.
	InvalidChoice // invalid choice
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case ExhaustedInput:
		return "exhausted input"
	case MalformedInput:
		return "malformed input"
	case NotFound:
		return "not found"
	case InvalidChoice:
		return "invalid choice"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Error implements the error interface.
func (k Kind) Error() string { return k.String() }

// Error is the failure produced by an element that could not parse its
// argument. It implements both error and slog.LogValuer.
//
// An Error is never modified after it is returned; [Error.Wrap] and
// [Error.With] return copies.
type Error struct {
	kind  Kind
	msg   string
	input string
	pos   int
	raw   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
}

func newError(kind Kind, msg, input string, pos int, raw string) *Error {
	return &Error{
		kind:  kind,
		msg:   msg,
		input: input,
		pos:   pos,
		raw:   raw,
	}
}

// Kind returns the failure category.
func (e *Error) Kind() Kind { return e.kind }

// Message returns the human-readable message without the wrapped cause.
func (e *Error) Message() string { return e.msg }

// Input returns the offending input fragment, which may be empty.
func (e *Error) Input() string { return e.input }

// Position returns the byte offset into the raw input at which the failure
// was detected.
func (e *Error) Position() int { return e.pos }

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. "<kind>"       // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil && !strings.Contains(e.msg, e.err.Error()) {
		part = append(part, e.err.Error())
	}

	if len(part) == 0 {
		return e.kind.String()
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the [Kind] of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)

	return ok && k == e.kind
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+5)

	attrs = append(attrs, slog.String("kind", e.kind.String()))

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.input != "" {
		attrs = append(attrs, slog.String("input", e.input))
	}

	attrs = append(attrs, slog.Int("position", e.pos))

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap returns a copy of e wrapping err as its cause.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With returns a copy of e with the given attributes added for structured
// logging.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	c := *e
	c.attrs = newAttrs

	return &c
}

// Snippet renders the raw input on one line followed by a caret under the
// failure position:
//
//	ip not-an-ip
//	   ^
func (e *Error) Snippet() string {
	if e.raw == "" {
		return ""
	}

	line := strings.NewReplacer("\n", " ", "\t", " ", "\r", " ").Replace(e.raw)

	pos := e.pos
	if pos > len(line) {
		pos = len(line)
	}

	// Count runes, not bytes, so the caret lines up under multibyte input.
	col := len([]rune(line[:pos]))

	var buf strings.Builder

	buf.WriteString(line)
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(" ", col))
	buf.WriteByte('^')

	return buf.String()
}
