package args

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ardnew/argot/log"
)

// Layouts tried, in order, by date-time elements.
const (
	DateTimeLayout = "2006-01-02T15:04:05"
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
)

var (
	dateTimeLayouts = []string{DateTimeLayout, "2006-01-02T15:04"}
	timeLayouts     = []string{TimeLayout, "15:04"}
)

type dateTimeElement struct {
	Base
	config

	orNow bool
}

// DateTime returns an element that parses one token as a local date-time.
//
// The token is tried as a full date-time ("2024-01-01T10:30:00"), then as a
// time of day on today's date ("10:30:00"), then as a date at midnight
// ("2024-01-01"). Fractional seconds are accepted and seconds may be omitted.
func DateTime(key string, opts ...Option) Element[time.Time] {
	return dateTimeElement{Base: NewBase(key), config: makeConfig(opts...)}
}

// DateTimeOrNow is like [DateTime] but returns the current time instead of
// failing, either when no tokens remain or when the next token is not a
// date-time. A token that failed to parse is left unconsumed.
func DateTimeOrNow(key string, opts ...Option) Element[time.Time] {
	return dateTimeElement{
		Base:   NewBase(key),
		config: makeConfig(opts...),
		orNow:  true,
	}
}

func (e dateTimeElement) Parse(
	ctx context.Context,
	_ Source,
	s *Stream,
) (time.Time, error) {
	if !s.HasNext() && e.orNow {
		return e.now().In(e.location), nil
	}

	cp := s.Checkpoint()

	tok, err := s.Next()
	if err != nil {
		return time.Time{}, err
	}

	if t, ok := e.parse(tok); ok {
		return t, nil
	}

	if !e.orNow {
		return time.Time{}, s.NewError(MalformedInput, "Invalid date-time!")
	}

	if err := s.Restore(cp); err != nil {
		return time.Time{}, err
	}

	log.TraceContext(ctx, "date-time fallback to now",
		slog.String("key", e.Key()),
		slog.String("input", tok),
	)

	return e.now().In(e.location), nil
}

// parse runs the fallback chain over tok.
func (e dateTimeElement) parse(tok string) (time.Time, bool) {
	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, tok, e.location); err == nil {
			return t, true
		}
	}

	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, tok, e.location); err == nil {
			y, m, d := e.now().In(e.location).Date()

			return time.Date(y, m, d,
				t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
				e.location), true
		}
	}

	if t, err := time.ParseInLocation(DateLayout, tok, e.location); err == nil {
		return t, true
	}

	return time.Time{}, false
}

// Complete suggests the current time, to the second, if it begins with the
// partial token.
func (e dateTimeElement) Complete(
	_ context.Context,
	_ Source,
	s *Stream,
) []string {
	now := e.now().In(e.location).Truncate(time.Second).Format(DateTimeLayout)

	if strings.HasPrefix(now, s.PeekPrefix()) {
		return []string{now}
	}

	return nil
}
