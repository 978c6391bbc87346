package tree

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"
	"strings"
)

// Format writes n in the syntax read by [Native]. A map is written as a
// sequence of top-level entries rather than a braced block.
//
// A positive indent puts one entry per line; zero writes everything on one
// line separated by "; ".
func Format(w io.Writer, n *Node, indent int) error {
	var buf bytes.Buffer

	f := formatter{buf: &buf, indent: indent}

	if n.Kind() == KindMap {
		f.entries(n, 0)
	} else {
		f.value(n, 0)
	}

	if indent > 0 || buf.Len() > 0 {
		buf.WriteByte('\n')
	}

	_, err := w.Write(buf.Bytes())

	return err
}

// MarshalNative returns n formatted by [Format].
func MarshalNative(n *Node, indent int) ([]byte, error) {
	var buf bytes.Buffer
	if err := Format(&buf, n, indent); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

type formatter struct {
	buf    *bytes.Buffer
	indent int
}

func (f formatter) newline(depth int) {
	if f.indent > 0 {
		f.buf.WriteByte('\n')
		f.buf.WriteString(strings.Repeat(" ", depth*f.indent))
	}
}

func (f formatter) entries(n *Node, depth int) {
	for i, k := range n.keys {
		if i > 0 {
			if f.indent > 0 {
				f.newline(depth)
			} else {
				f.buf.WriteString("; ")
			}
		}

		f.buf.WriteString(formatKey(k))

		if n.items[i].Kind() == KindMap {
			f.buf.WriteByte(' ')
		} else {
			f.buf.WriteString(" : ")
		}

		f.value(n.items[i], depth)
	}
}

func (f formatter) value(n *Node, depth int) {
	switch n.Kind() {
	case KindNull:
		f.buf.WriteString("nil")

	case KindBool:
		f.buf.WriteString(strconv.FormatBool(n.value.(bool)))

	case KindNumber:
		f.buf.WriteString(string(n.value.(json.Number)))

	case KindString:
		f.buf.WriteString(strconv.Quote(n.value.(string)))

	case KindList:
		f.buf.WriteByte('[')

		for i, item := range n.items {
			if i > 0 {
				f.buf.WriteString(", ")
			}

			f.value(item, depth)
		}

		f.buf.WriteByte(']')

	case KindMap:
		if len(n.keys) == 0 {
			f.buf.WriteString("{}")

			return
		}

		f.buf.WriteByte('{')

		if f.indent > 0 {
			f.newline(depth + 1)
			f.entries(n, depth+1)
			f.newline(depth)
		} else {
			f.buf.WriteByte(' ')
			f.entries(n, depth+1)
			f.buf.WriteByte(' ')
		}

		f.buf.WriteByte('}')
	}
}

// formatKey returns k bare if it is an identifier, quoted otherwise.
func formatKey(k string) string {
	if k == "" {
		return `""`
	}

	for i, r := range k {
		if i == 0 && !isIdentifierStart(r) || i > 0 && !isIdentifierContinue(r) {
			return strconv.Quote(k)
		}
	}

	return k
}
