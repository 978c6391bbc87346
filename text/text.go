package text

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Text is a formatted text component: a run of content with a color and
// styles, followed by child components that inherit them.
type Text struct {
	Content       string `json:"text"`
	Color         string `json:"color,omitempty"`
	Bold          bool   `json:"bold,omitempty"`
	Italic        bool   `json:"italic,omitempty"`
	Underlined    bool   `json:"underlined,omitempty"`
	Strikethrough bool   `json:"strikethrough,omitempty"`
	Obfuscated    bool   `json:"obfuscated,omitempty"`
	Extra         []Text `json:"extra,omitempty"`
}

// Plain returns the content of t and its children without formatting.
func (t Text) Plain() string {
	var b strings.Builder

	t.walk(Text{}, func(seg Text) { b.WriteString(seg.Content) })

	return b.String()
}

// String returns t encoded with '&' legacy formatting codes.
func (t Text) String() string { return t.Legacy(DefaultPrefix) }

// Legacy returns t encoded with legacy formatting codes introduced by prefix.
// Every styled segment is preceded by a reset, then its color and styles.
func (t Text) Legacy(prefix rune) string {
	var b strings.Builder

	styled := false

	t.walk(Text{}, func(seg Text) {
		codes := seg.codes()
		if codes == "" && !styled {
			b.WriteString(seg.Content)

			return
		}

		if styled {
			b.WriteRune(prefix)
			b.WriteByte('r')
		}

		for _, c := range codes {
			b.WriteRune(prefix)
			b.WriteRune(c)
		}

		styled = codes != ""

		b.WriteString(seg.Content)
	})

	return b.String()
}

// codes returns the legacy codes selecting the color and styles of t.
func (t Text) codes() string {
	var b strings.Builder

	if code, ok := colorCode[t.Color]; ok {
		b.WriteByte(code)
	}

	for _, s := range []struct {
		on   bool
		code byte
	}{
		{t.Obfuscated, 'k'},
		{t.Bold, 'l'},
		{t.Strikethrough, 'm'},
		{t.Underlined, 'n'},
		{t.Italic, 'o'},
	} {
		if s.on {
			b.WriteByte(s.code)
		}
	}

	return b.String()
}

// Render returns t styled for the terminal behind lipgloss's default
// renderer.
func (t Text) Render() string {
	return t.RenderWith(lipgloss.DefaultRenderer())
}

// RenderWith returns t styled for r. Unstyled output is returned when r has no
// color support.
func (t Text) RenderWith(r *lipgloss.Renderer) string {
	var b strings.Builder

	t.walk(Text{}, func(seg Text) {
		style := r.NewStyle().
			Bold(seg.Bold).
			Italic(seg.Italic).
			Underline(seg.Underlined).
			Strikethrough(seg.Strikethrough).
			Reverse(seg.Obfuscated)

		if hex, ok := colorHex[seg.Color]; ok {
			style = style.Foreground(lipgloss.Color(hex))
		} else if strings.HasPrefix(seg.Color, "#") {
			style = style.Foreground(lipgloss.Color(seg.Color))
		}

		b.WriteString(style.Render(seg.Content))
	})

	return b.String()
}

// walk calls fn with every component in document order, each carrying the
// color and styles it inherits from parent.
func (t Text) walk(parent Text, fn func(Text)) {
	eff := t

	if eff.Color == "" {
		eff.Color = parent.Color
	}

	eff.Bold = t.Bold || parent.Bold
	eff.Italic = t.Italic || parent.Italic
	eff.Underlined = t.Underlined || parent.Underlined
	eff.Strikethrough = t.Strikethrough || parent.Strikethrough
	eff.Obfuscated = t.Obfuscated || parent.Obfuscated

	if t.Content != "" {
		seg := eff
		seg.Extra = nil

		fn(seg)
	}

	for _, child := range t.Extra {
		child.walk(eff, fn)
	}
}

// component is the object form of a JSON text component.
type component struct {
	Text          *string           `json:"text"`
	Color         string            `json:"color"`
	Bold          bool              `json:"bold"`
	Italic        bool              `json:"italic"`
	Underlined    bool              `json:"underlined"`
	Strikethrough bool              `json:"strikethrough"`
	Obfuscated    bool              `json:"obfuscated"`
	Extra         []json.RawMessage `json:"extra"`
}

// UnmarshalJSON implements [json.Unmarshaler]. A component may be a string,
// an object, or an array whose first element is the parent of the rest.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = []byte(strings.TrimSpace(string(data)))
	if len(data) == 0 {
		return errEmptyComponent
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}

		*t = Text{Content: s}

		return nil

	case '[':
		var parts []Text
		if err := json.Unmarshal(data, &parts); err != nil {
			return err
		}

		if len(parts) == 0 {
			return errEmptyComponent
		}

		root := parts[0]
		root.Extra = append(root.Extra, parts[1:]...)
		*t = root

		return nil

	case '{':
		var c component
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}

		if c.Color != "" && !validColor(c.Color) {
			return fmt.Errorf("unknown color %q", c.Color)
		}

		out := Text{
			Color:         c.Color,
			Bold:          c.Bold,
			Italic:        c.Italic,
			Underlined:    c.Underlined,
			Strikethrough: c.Strikethrough,
			Obfuscated:    c.Obfuscated,
		}

		if c.Text != nil {
			out.Content = *c.Text
		}

		for _, raw := range c.Extra {
			var child Text
			if err := child.UnmarshalJSON(raw); err != nil {
				return err
			}

			out.Extra = append(out.Extra, child)
		}

		*t = out

		return nil
	}

	return fmt.Errorf("text component must be a string, object, or array, not %s",
		kindOf(data[0]))
}

func kindOf(b byte) string {
	switch {
	case b == 't' || b == 'f':
		return "a boolean"
	case b == 'n':
		return "null"
	case b == '-' || (b >= '0' && b <= '9'):
		return "a number"
	default:
		return fmt.Sprintf("%q", b)
	}
}
