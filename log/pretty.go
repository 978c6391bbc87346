package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles of one pretty handler. Styles are bound to a
// renderer for the handler's writer, so output that is not a terminal carries
// no escape sequences.
type palette struct {
	key, str, num, yes, no, dur, tim, null lipgloss.Style

	trace, debug, info, warn, fail lipgloss.Style
}

func makePalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Foreground(lipgloss.Color(c))
	}

	return palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		yes:   fg("2"),
		no:    fg("1"),
		dur:   fg("5"),
		tim:   fg("4"),
		null:  fg("8"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3"),
		fail:  fg("1").Bold(true),
	}
}

func (p palette) level(l slog.Level) string {
	s := strings.ToUpper(Level(l).String())

	switch {
	case l >= slog.LevelError:
		return p.fail.Render(s)
	case l >= slog.LevelWarn:
		return p.warn.Render(s)
	case l >= slog.LevelInfo:
		return p.info.Render(s)
	case l >= slog.LevelDebug:
		return p.debug.Render(s)
	default:
		return p.trace.Render(s)
	}
}

// prettyBase is the state shared by both pretty handlers.
type prettyBase struct {
	opts       slog.HandlerOptions
	formatTime FormatTime
	colors     palette
	mu         *sync.Mutex
	w          io.Writer
	attrs      []slog.Attr
	prefix     string
}

func makePrettyBase(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) prettyBase {
	return prettyBase{
		opts:       *opts,
		formatTime: formatTime,
		colors:     makePalette(w),
		mu:         &sync.Mutex{},
		w:          w,
	}
}

func (h prettyBase) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// withAttrs returns a copy of h carrying attrs, qualified by the open groups.
func (h prettyBase) withAttrs(attrs []slog.Attr) prettyBase {
	qualified := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	qualified = append(qualified, h.attrs...)

	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		qualified = append(qualified, a)
	}

	h.attrs = qualified

	return h
}

func (h prettyBase) withGroup(name string) prettyBase {
	if name != "" {
		h.prefix += name + "."
	}

	return h
}

// header returns the time, level, source, and message fields of r.
func (h prettyBase) header(r slog.Record) []slog.Attr {
	var fields []slog.Attr

	if !r.Time.IsZero() {
		if ts := h.formatTime(r.Time); ts != "" {
			fields = append(fields, slog.String(slog.TimeKey, ts))
		}
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields,
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)))
		}
	}

	return append(fields, slog.String(slog.MessageKey, r.Message))
}

// fields returns every attribute of r, flattened, after the handler's own.
func (h prettyBase) fields(r slog.Record) []slog.Attr {
	fields := h.header(r)
	fields = append(fields, h.attrs...)

	r.Attrs(func(a slog.Attr) bool {
		fields = appendFlat(fields, h.prefix, a)

		return true
	})

	return fields
}

// appendFlat appends a to dst, expanding groups into dotted keys.
func appendFlat(dst []slog.Attr, prefix string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() != slog.KindGroup {
		if a.Equal(slog.Attr{}) {
			return dst
		}

		a.Key = prefix + a.Key

		return append(dst, a)
	}

	if a.Key != "" {
		prefix += a.Key + "."
	}

	for _, g := range a.Value.Group() {
		dst = appendFlat(dst, prefix, g)
	}

	return dst
}

func (h prettyBase) write(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// prettyTextHandler writes one colorized key=value line per record.
type prettyTextHandler struct{ prettyBase }

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyTextHandler {
	return &prettyTextHandler{makePrettyBase(w, opts, formatTime)}
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for _, a := range h.fields(r) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(h.colors.key.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(h.textValue(a.Value))
	}

	return h.write(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

func (h *prettyTextHandler) textValue(v slog.Value) string {
	c := h.colors

	switch v.Kind() {
	case slog.KindString:
		return c.str.Render(v.String())
	case slog.KindInt64:
		return c.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return c.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return c.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return c.yes.Render("true")
		}

		return c.no.Render("false")
	case slog.KindDuration:
		return c.dur.Render(v.Duration().String())
	case slog.KindTime:
		return c.tim.Render(h.formatTime(v.Time()))
	case slog.KindAny:
		if level, ok := v.Any().(slog.Level); ok {
			return c.level(level)
		}

		if err, ok := v.Any().(error); ok {
			return c.no.Render(err.Error())
		}
	}

	return c.str.Render(v.String())
}

// prettyJSONHandler writes one indented, colorized JSON object per record.
type prettyJSONHandler struct{ prettyBase }

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	formatTime FormatTime,
) *prettyJSONHandler {
	return &prettyJSONHandler{makePrettyBase(w, opts, formatTime)}
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{")

	for i, a := range h.fields(r) {
		if i > 0 {
			buf.WriteByte(',')
		}

		buf.WriteString("\n  ")
		buf.WriteString(h.colors.key.Render(strconv.Quote(a.Key)))
		buf.WriteString(": ")
		buf.WriteString(h.jsonValue(a.Value))
	}

	buf.WriteString("\n}")

	return h.write(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}

func (h *prettyJSONHandler) jsonValue(v slog.Value) string {
	c := h.colors

	switch v.Kind() {
	case slog.KindString:
		return c.str.Render(strconv.Quote(v.String()))
	case slog.KindInt64:
		return c.num.Render(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		return c.num.Render(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		return c.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		if v.Bool() {
			return c.yes.Render("true")
		}

		return c.no.Render("false")
	case slog.KindDuration:
		return c.dur.Render(strconv.Quote(v.Duration().String()))
	case slog.KindTime:
		return c.tim.Render(strconv.Quote(h.formatTime(v.Time())))
	case slog.KindAny:
		switch val := v.Any().(type) {
		case nil:
			return c.null.Render("null")
		case slog.Level:
			return `"` + c.level(val) + `"`
		case error:
			return c.no.Render(strconv.Quote(val.Error()))
		default:
			if b, err := json.Marshal(val); err == nil {
				return c.str.Render(string(b))
			}
		}
	}

	return c.str.Render(strconv.Quote(v.String()))
}
