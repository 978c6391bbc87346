package log

import (
	"slices"
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"info+2", Level(2)},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestLevel_UnmarshalText_RejectsUnknown(t *testing.T) {
	var l Level
	if err := l.UnmarshalText([]byte("loud")); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelTrace, "trace"},
		{LevelDebug, "debug"},
		{LevelError, "error"},
		{LevelTrace + 1, "trace+1"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.level.String(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	for _, name := range slices.Collect(Formats()) {
		t.Run(name, func(t *testing.T) {
			if got := ParseFormat(name).String(); got != name {
				t.Errorf("expected %q, got %q", name, got)
			}
		})
	}

	if got := ParseFormat("xml"); got != DefaultFormat {
		t.Errorf("expected default format for unknown input, got %v", got)
	}
}

func TestLevels_Ordered(t *testing.T) {
	want := []string{"trace", "debug", "info", "warn", "error"}
	if got := slices.Collect(Levels()); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestOptions_SetFields(t *testing.T) {
	c := apply(config{},
		WithLevel(LevelWarn),
		WithFormat(FormatJSON),
		WithCaller(true),
		WithPretty(false),
		WithOutput(nil))

	if c.level != LevelWarn {
		t.Errorf("expected level warn, got %v", c.level)
	}
	if c.format != FormatJSON {
		t.Errorf("expected format json, got %v", c.format)
	}
	if !c.caller {
		t.Error("expected caller enabled")
	}
	if c.pretty {
		t.Error("expected pretty disabled")
	}
	if c.output == nil {
		t.Error("expected nil output replaced by io.Discard")
	}
}

func TestMakeFormatTimeFunc(t *testing.T) {
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		layout string
		want   string
	}{
		{"RFC3339", "2024-01-02T03:04:05Z"},
		{"rfc-3339", "2024-01-02T03:04:05Z"},
		{"DateTime", "2024-01-02 03:04:05"},
		{"Kitchen", "3:04AM"},
		{"2006/01/02", "2024/01/02"},
		{"none", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.layout, func(t *testing.T) {
			if got := makeFormatTimeFunc(tt.layout)(ts); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
