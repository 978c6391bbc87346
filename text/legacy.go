package text

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultPrefix introduces a legacy formatting code.
const DefaultPrefix = '&'

// SectionPrefix is the section sign used by clients as the native code prefix.
const SectionPrefix = '§'

var (
	errEmptyComponent = errors.New("empty text component")
	errDanglingPrefix = errors.New("formatting code prefix at end of text")
	errInvalidUTF8    = errors.New("text is not valid UTF-8")
)

// named colors in code order, 0 through f.
var colorNames = [16]string{
	"black", "dark_blue", "dark_green", "dark_aqua",
	"dark_red", "dark_purple", "gold", "gray",
	"dark_gray", "blue", "green", "aqua",
	"red", "light_purple", "yellow", "white",
}

var colorHex = map[string]string{
	"black":        "#000000",
	"dark_blue":    "#0000AA",
	"dark_green":   "#00AA00",
	"dark_aqua":    "#00AAAA",
	"dark_red":     "#AA0000",
	"dark_purple":  "#AA00AA",
	"gold":         "#FFAA00",
	"gray":         "#AAAAAA",
	"dark_gray":    "#555555",
	"blue":         "#5555FF",
	"green":        "#55FF55",
	"aqua":         "#55FFFF",
	"red":          "#FF5555",
	"light_purple": "#FF55FF",
	"yellow":       "#FFFF55",
	"white":        "#FFFFFF",
}

// colorCode maps color names to their legacy code.
var colorCode = func() map[string]byte {
	m := make(map[string]byte, len(colorNames))
	for i, name := range colorNames {
		m[name] = "0123456789abcdef"[i]
	}

	return m
}()

// Colors returns the named colors in code order.
func Colors() []string { return colorNames[:] }

// validColor reports whether c is a named color or a "#RRGGBB" hex color.
func validColor(c string) bool {
	if _, ok := colorHex[c]; ok {
		return true
	}

	if len(c) != 7 || c[0] != '#' {
		return false
	}

	for _, r := range c[1:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}

	return true
}

// ParseLegacy parses s as plain text carrying legacy formatting codes, each a
// prefix rune followed by one code character (case-insensitive):
//
//	0-9, a-f  select a color and clear styles
//	k         obfuscated
//	l         bold
//	m         strikethrough
//	n         underlined
//	o         italic
//	r         reset color and styles
//
// A prefix at the end of s, or followed by any other character, is an error.
// Text without codes yields a single component. Invalid UTF-8 is an error.
func ParseLegacy(s string, prefix rune) (Text, error) {
	if !utf8.ValidString(s) {
		return Text{}, errInvalidUTF8
	}

	var (
		segs []Text
		cur  Text
		buf  strings.Builder
	)

	flush := func() {
		if buf.Len() > 0 {
			seg := cur
			seg.Content = buf.String()
			segs = append(segs, seg)

			buf.Reset()
		}
	}

	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size

		if r != prefix {
			buf.WriteRune(r)

			continue
		}

		if i >= len(s) {
			return Text{}, errDanglingPrefix
		}

		code, size := utf8.DecodeRuneInString(s[i:])
		i += size

		flush()

		if err := cur.apply(code); err != nil {
			return Text{}, err
		}
	}

	flush()

	switch len(segs) {
	case 0:
		return Text{}, nil
	case 1:
		return segs[0], nil
	default:
		return Text{Extra: segs}, nil
	}
}

// apply updates t for one legacy code.
func (t *Text) apply(code rune) error {
	c := code
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}

	switch {
	case c >= '0' && c <= '9':
		*t = Text{Color: colorNames[c-'0']}
	case c >= 'a' && c <= 'f':
		*t = Text{Color: colorNames[c-'a'+10]}
	case c == 'k':
		t.Obfuscated = true
	case c == 'l':
		t.Bold = true
	case c == 'm':
		t.Strikethrough = true
	case c == 'n':
		t.Underlined = true
	case c == 'o':
		t.Italic = true
	case c == 'r':
		*t = Text{}
	default:
		return fmt.Errorf("unknown formatting code %q", code)
	}

	return nil
}

// ParseJSON parses s as a JSON text component: a string, an object with a
// "text" field, color, style booleans, and "extra" children, or an array whose
// first element is the parent of the rest. Invalid UTF-8 is an error.
func ParseJSON(s string) (Text, error) {
	if !utf8.ValidString(s) {
		return Text{}, errInvalidUTF8
	}

	var t Text
	if err := json.Unmarshal([]byte(s), &t); err != nil {
		return Text{}, err
	}

	return t, nil
}
