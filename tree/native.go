package tree

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/expr-lang/expr"

	"github.com/ardnew/argot/log"
)

// Native parses the native configuration syntax, a small superset of HOCON
// object notation:
//
//	name : "argot"; retries = 3
//	server { host: localhost, ports: [80, 443] }
//	limits : { burst: 2 * 8 } // comment
//
// A document is a sequence of entries, optionally wrapped in braces. Each
// entry is a key (an identifier or a double-quoted string) followed by ':' or
// '=' and a value, or directly by a '{' block. Entries are separated by ';',
// ',', or a line break. A value is a block, a '[' list of values ']', or an
// expression.
//
// Expressions are evaluated with expr-lang against the environment given by
// [WithEnv], so 42, "text", true, nil, and 1 + 2 mean what they say. An
// expression that does not compile, such as a bare word, is kept verbatim as a
// string. Comments start with '#' or "//", or are enclosed in "/* */".
//
// A key defined twice keeps its first position. Its value is replaced, unless
// both values are blocks, which are merged.
type Native struct {
	env map[string]any
}

// NativeOption configures a [Native] parser.
type NativeOption func(*Native)

// WithEnv sets the variables visible to expressions.
func WithEnv(env map[string]any) NativeOption {
	return func(n *Native) {
		for k, v := range env {
			n.env[k] = v
		}
	}
}

// NewNative returns a native syntax parser.
func NewNative(opts ...NativeOption) Native {
	n := Native{env: map[string]any{}}

	for _, opt := range opts {
		opt(&n)
	}

	return n
}

// Parse implements [Parser].
func (n Native) Parse(ctx context.Context, text string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, WrapError(err)
	}

	env := n.env
	if env == nil {
		env = map[string]any{}
	}

	p := &nativeParser{
		input: text,
		line:  1,
		col:   1,
		env:   env,
	}

	root, err := p.parseDocument()
	if err != nil {
		return nil, err
	}

	log.TraceContext(ctx, "tree parsed",
		slog.String("parser", "native"),
		slog.Int("entries", root.Len()))

	return root, nil
}

// nativeParser holds the parser state.
type nativeParser struct {
	input string
	pos   int
	line  int
	col   int
	env   map[string]any
}

func (p *nativeParser) parseDocument() (*Node, error) {
	p.skipSpace()

	if p.peek() == '{' {
		root, err := p.parseBlock()
		if err != nil {
			return nil, err
		}

		p.skipSpace()

		if !p.eof() {
			return nil, Errorf(p.position(), "unexpected %q after root block",
				p.peek())
		}

		return root, nil
	}

	root := Map()

	if err := p.parseEntries(root, 0); err != nil {
		return nil, err
	}

	return root, nil
}

// parseEntries parses entries into m until closer, or until EOF when closer is
// zero.
func (p *nativeParser) parseEntries(m *Node, closer rune) error {
	for {
		p.skipSpace()

		switch {
		case p.eof() && closer == 0:
			return nil
		case p.eof():
			return Errorf(p.position(), "expected %q", closer)
		case closer != 0 && p.peek() == closer:
			p.advance()

			return nil
		}

		if err := p.parseEntry(m); err != nil {
			return err
		}

		p.skipSpace()

		if r := p.peek(); r == ';' || r == ',' {
			p.advance()
		}
	}
}

// parseEntry parses: Key (':' | '=') Value | Key Block.
func (p *nativeParser) parseEntry(m *Node) error {
	key, err := p.parseKey()
	if err != nil {
		return err
	}

	p.skipSpace()

	switch p.peek() {
	case ':', '=':
		p.advance()
		p.skipSpace()
	case '{':
	default:
		return Errorf(p.position(), "expected ':' or '=' after key %q", key).
			With(slog.String("key", key))
	}

	value, err := p.parseValue()
	if err != nil {
		return err
	}

	m.Set(key, value)

	return nil
}

func (p *nativeParser) parseKey() (string, error) {
	pos := p.position()

	if p.peek() == '"' || p.peek() == '`' {
		lit, err := p.scanString(p.peek())
		if err != nil {
			return "", err
		}

		key, err := strconv.Unquote(lit)
		if err != nil {
			return "", Errorf(pos, "invalid quoted key").Wrap(err)
		}

		return key, nil
	}

	return p.parseIdentifier()
}

// parseValue parses a block, a list, or an expression.
func (p *nativeParser) parseValue() (*Node, error) {
	switch p.peek() {
	case '{':
		return p.parseBlock()
	case '[':
		return p.parseList()
	}

	pos := p.position()

	source, err := p.captureExpression()
	if err != nil {
		return nil, err
	}

	if source == "" {
		return nil, Errorf(pos, "expected value")
	}

	return p.evaluate(pos, source)
}

// parseBlock parses: '{' (Entry (Sep Entry)* Sep?)? '}'.
func (p *nativeParser) parseBlock() (*Node, error) {
	if !p.expect('{') {
		return nil, Errorf(p.position(), "expected '{'")
	}

	m := Map()

	if err := p.parseEntries(m, '}'); err != nil {
		return nil, err
	}

	return m, nil
}

// parseList parses: '[' (Value (Sep Value)* Sep?)? ']'.
func (p *nativeParser) parseList() (*Node, error) {
	if !p.expect('[') {
		return nil, Errorf(p.position(), "expected '['")
	}

	list := List()

	for {
		p.skipSpace()

		if p.eof() {
			return nil, Errorf(p.position(), "expected ']'")
		}

		if p.peek() == ']' {
			p.advance()

			return list, nil
		}

		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}

		list.Append(item)

		p.skipSpace()

		if p.peek() == ',' {
			p.advance()
		}
	}
}

// evaluate runs source as an expression. Source that does not compile is
// kept as a string.
func (p *nativeParser) evaluate(pos Position, source string) (*Node, error) {
	program, err := expr.Compile(source, expr.Env(p.env))
	if err != nil {
		return String(source), nil
	}

	out, err := expr.Run(program, p.env)
	if err != nil {
		return nil, Errorf(pos, "evaluating %q", source).Wrap(err)
	}

	node, err := FromNative(out)
	if err != nil {
		return nil, Errorf(pos, "evaluating %q", source).Wrap(err)
	}

	return node, nil
}

// captureExpression captures raw expression text.
// Stops at an unbalanced closing bracket, at ',', ';', a line break, or a
// comment outside brackets, or at EOF. Delimiters inside string literals and
// comments are skipped. Inside brackets '#' belongs to the expression.
func (p *nativeParser) captureExpression() (string, error) {
	var (
		b     strings.Builder
		depth int
	)

scan:
	for !p.eof() {
		switch ch := p.peek(); {
		case ch == '"' || ch == '\'' || ch == '`':
			lit, err := p.scanString(ch)
			if err != nil {
				return "", err
			}

			b.WriteString(lit)

			continue

		case (ch == '#' && depth == 0) || p.peekN(2) == "//":
			p.skipLineComment()

			if depth == 0 {
				break scan
			}

			continue

		case p.peekN(2) == "/*":
			p.skipBlockComment()
			b.WriteByte(' ')

			continue

		case ch == '(' || ch == '[' || ch == '{':
			depth++

		case ch == ')' || ch == ']' || ch == '}':
			if depth == 0 {
				break scan
			}

			depth--

		case ch == ',' || ch == ';' || ch == '\n':
			if depth == 0 {
				break scan
			}
		}

		b.WriteRune(p.peek())
		p.advance()
	}

	return strings.TrimSpace(b.String()), nil
}

// parseIdentifier parses an identifier, which may contain internal '-', '+',
// '.', '@', or '/' separators.
func (p *nativeParser) parseIdentifier() (string, error) {
	start := p.pos

	if !isIdentifierStart(p.peek()) {
		if p.eof() {
			return "", Errorf(p.position(), "expected key")
		}

		return "", Errorf(p.position(), "expected key, found %q", p.peek())
	}

	p.advance()

	for !p.eof() {
		ch := p.peek()

		if isIdentifierContinue(ch) {
			p.advance()

			continue
		}

		if strings.ContainsRune("-+.@/", ch) {
			next, _ := utf8.DecodeRuneInString(p.input[p.pos+1:])
			if p.pos+1 < len(p.input) && isIdentifierContinue(next) {
				p.advance()

				continue
			}
		}

		break
	}

	return p.input[start:p.pos], nil
}

func (p *nativeParser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])

	return r
}

func (p *nativeParser) peekN(n int) string {
	if p.pos+n > len(p.input) {
		return p.input[p.pos:]
	}

	return p.input[p.pos : p.pos+n]
}

func (p *nativeParser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRuneInString(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *nativeParser) expect(ch rune) bool {
	if p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *nativeParser) eof() bool { return p.pos >= len(p.input) }

func (p *nativeParser) position() Position {
	return Position{Offset: p.pos, Line: p.line, Column: p.col}
}

// skipSpace skips whitespace, line breaks, and comments.
func (p *nativeParser) skipSpace() {
	for !p.eof() {
		switch {
		case unicode.IsSpace(p.peek()):
			p.advance()
		case p.peek() == '#' || p.peekN(2) == "//":
			p.skipLineComment()
		case p.peekN(2) == "/*":
			p.skipBlockComment()
		default:
			return
		}
	}
}

// skipLineComment skips to the line break ending a comment, leaving it
// unconsumed.
func (p *nativeParser) skipLineComment() {
	for !p.eof() && p.peek() != '\n' {
		p.advance()
	}
}

func (p *nativeParser) skipBlockComment() {
	p.advance() // '/'
	p.advance() // '*'

	for !p.eof() {
		if p.peekN(2) == "*/" {
			p.advance()
			p.advance()

			return
		}

		p.advance()
	}
}

// scanString consumes a string literal opened by quote and returns it,
// quotes included.
func (p *nativeParser) scanString(quote rune) (string, error) {
	pos := p.position()
	start := p.pos

	p.advance()

	for !p.eof() {
		ch := p.peek()

		if ch == '\\' && quote != '`' {
			p.advance()
			p.advance()

			continue
		}

		p.advance()

		if ch == quote {
			return p.input[start:p.pos], nil
		}
	}

	return "", Errorf(pos, "unterminated string")
}

func isIdentifierStart(r rune) bool {
	return unicode.In(r,
		unicode.L,
		unicode.Nl,
		unicode.Other_ID_Start,
	) || r == '_'
}

func isIdentifierContinue(r rune) bool {
	return unicode.In(r,
		unicode.L,
		unicode.Nl,
		unicode.Other_ID_Start,
		unicode.Mn,
		unicode.Mc,
		unicode.Nd,
		unicode.Pc,
		unicode.Other_ID_Continue,
	)
}
