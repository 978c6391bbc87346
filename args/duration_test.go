package args

import (
	"errors"
	"testing"
	"time"
)

func TestNormalizeDuration(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1d", "P1D"},
		{"p2w", "P2W"},
		{"P1D", "P1D"},
		{"1h30m", "PT1H30M"},
		{"1d2h", "P1DT2H"},
		{"pt5s", "PT5S"},
		{"1.5s", "PT1.5S"},
		{"-3m", "-PT3M"},
		{"2w1dt4h", "P2W1DT4H"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NormalizeDuration(tt.input); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestParseISODuration(t *testing.T) {
	tests := []struct {
		input string
		want  time.Duration
	}{
		{"P1D", 24 * time.Hour},
		{"P2W", 14 * 24 * time.Hour},
		{"PT1H30M", 90 * time.Minute},
		{"P1DT2H3M4S", 26*time.Hour + 3*time.Minute + 4*time.Second},
		{"PT0.5S", 500 * time.Millisecond},
		{"PT1,25S", 1250 * time.Millisecond},
		{"PT0.0000000019S", 1},
		{"-PT1M", -time.Minute},
		{"PT-1M30S", -30 * time.Second},
		{"pt2h", 2 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseISODuration(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	for _, bad := range []string{
		"", "P", "PT", "1D", "P1Y", "P1M", "PT1D", "P1H", "PT1M1H",
		"P1.5D", "PT1.S", "PT1", "P1D1D", "P106752D",
	} {
		t.Run("bad "+bad, func(t *testing.T) {
			if _, err := ParseISODuration(bad); err == nil {
				t.Errorf("expected error for %q", bad)
			}
		})
	}
}

func TestDuration(t *testing.T) {
	equivalent := [][2]string{
		{"1d", "P1D"},
		{"p2w", "P2W"},
		{"90m", "PT1H30M"},
	}

	for _, pair := range equivalent {
		t.Run(pair[0], func(t *testing.T) {
			a, _, err := run(t, Duration("d"), console, pair[0])
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			b, _, err := run(t, Duration("d"), console, pair[1])
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if a != b {
				t.Errorf("expected %q and %q to be equal, got %v and %v",
					pair[0], pair[1], a, b)
			}
		})
	}

	for _, bad := range []string{"1y", "soon", "3x", "1000000w"} {
		t.Run("bad "+bad, func(t *testing.T) {
			v, _, err := run(t, Duration("d"), console, bad)
			if !errors.Is(err, MalformedInput) || !hasMessage(err, "Invalid duration!") {
				t.Errorf("expected Invalid duration!, got %v", err)
			}

			if v != 0 {
				t.Errorf("expected zero value on failure, got %v", v)
			}
		})
	}
}
