package tree

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Position identifies a location in parsed text.
type Position struct {
	Offset int // byte offset, starting at 0
	Line   int // line number, starting at 1
	Column int // rune column, starting at 1
}

// PositionOf returns the position of byte offset off in text.
func PositionOf(text string, off int) Position {
	off = max(0, min(off, len(text)))

	head := text[:off]
	line := strings.Count(head, "\n") + 1
	col := utf8.RuneCountInString(head[strings.LastIndexByte(head, '\n')+1:]) + 1

	return Position{Offset: off, Line: line, Column: col}
}

func (p Position) String() string {
	return "line " + strconv.Itoa(p.Line) + ", column " + strconv.Itoa(p.Column)
}

// Error reports a failure to parse a configuration tree.
// It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg    string
	pos    Position
	hasPos bool
	err    error
	attrs  []slog.Attr
}

// NewError creates a new Error with a message and no position.
func NewError(msg string) *Error { return &Error{msg: msg} }

// Errorf creates a new Error at pos with a formatted message.
func Errorf(pos Position, format string, a ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, a...), pos: pos, hasPos: true}
}

// WrapError wraps err into an Error. An err that already is an *Error is
// returned unchanged.
func WrapError(err error) *Error {
	var te *Error
	if errors.As(err, &te) {
		return te
	}

	return &Error{err: err}
}

// Position returns where the error occurred, and whether it is known.
func (e *Error) Position() (Position, bool) { return e.pos, e.hasPos }

// Error implements the error interface, as "line L, column C: msg: cause"
// with absent parts omitted.
func (e *Error) Error() string {
	part := make([]string, 0, 3)

	if e.hasPos {
		part = append(part, e.pos.String())
	}

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is a sentinel created by [NewError] with the same
// message as e, so that copies made by [Error.Wrap], [Error.With], and
// [Error.At] still match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.msg == e.msg && t.err == nil && !t.hasPos
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+4)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.hasPos {
		attrs = append(attrs,
			slog.Int("line", e.pos.Line),
			slog.Int("column", e.pos.Column))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// At returns a copy of e positioned at pos.
func (e *Error) At(pos Position) *Error {
	c := *e
	c.pos, c.hasPos = pos, true

	return &c
}

// Wrap returns a copy of e wrapping err.
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.err = err

	return &c
}

// With returns a copy of e with attrs appended.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := *e
	c.attrs = append(append(make([]slog.Attr, 0, len(e.attrs)+len(attrs)),
		e.attrs...), attrs...)

	return &c
}

// Snippet renders the line of source holding the error with a marker under
// the failing column. It returns the empty string if the position is unknown
// or outside source.
func (e *Error) Snippet(source string) string {
	lines := strings.Split(source, "\n")
	if !e.hasPos || e.pos.Line < 1 || e.pos.Line > len(lines) {
		return ""
	}

	num := strconv.Itoa(e.pos.Line)

	var b strings.Builder

	b.WriteString("  " + num + " | " + lines[e.pos.Line-1] + "\n")
	// 2 leading spaces + " | "
	b.WriteString(strings.Repeat(" ", len(num)+5+max(0, e.pos.Column-1)))
	b.WriteString("^\n")

	return b.String()
}
