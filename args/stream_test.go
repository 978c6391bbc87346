package args

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewStream_Tokens(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "empty", input: "", want: nil},
		{name: "blank", input: " \t\n ", want: nil},
		{name: "single", input: "one", want: []string{"one"}},
		{name: "collapsed spaces", input: "  a   b\tc\n", want: []string{"a", "b", "c"}},
		{name: "unicode whitespace", input: "a\u00a0b\u2003c", want: []string{"a", "b", "c"}},
		{name: "multibyte tokens", input: "héllo wörld", want: []string{"héllo", "wörld"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStream(tt.input)

			var got []string
			for _, tok := range s.All() {
				got = append(got, tok)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}

			if s.Len() != len(tt.want) {
				t.Errorf("expected Len %d, got %d", len(tt.want), s.Len())
			}

			if s.Raw() != tt.input || s.String() != tt.input {
				t.Errorf("expected raw %q, got %q", tt.input, s.Raw())
			}
		})
	}
}

func TestStream_Next(t *testing.T) {
	s := NewStream("a b")

	for i, want := range []string{"a", "b"} {
		if !s.HasNext() {
			t.Fatalf("expected token %d", i)
		}

		got, err := s.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}

		if s.Position() != i+1 {
			t.Errorf("expected position %d, got %d", i+1, s.Position())
		}
	}

	if s.HasNext() {
		t.Fatalf("expected stream to be exhausted")
	}

	_, err := s.Next()
	if !errors.Is(err, ExhaustedInput) {
		t.Fatalf("expected ExhaustedInput, got %v", err)
	}

	if err.Error() != "Not enough arguments!" {
		t.Errorf("expected message %q, got %q", "Not enough arguments!", err.Error())
	}

	if s.Position() != 2 {
		t.Errorf("expected failed Next to leave position 2, got %d", s.Position())
	}
}

func TestStream_Peek(t *testing.T) {
	s := NewStream("x y")

	if tok, ok := s.Peek(); !ok || tok != "x" {
		t.Errorf("expected (x, true), got (%q, %v)", tok, ok)
	}

	if s.Position() != 0 {
		t.Errorf("expected Peek not to move the cursor")
	}

	if got := s.PeekPrefix(); got != "x" {
		t.Errorf("expected prefix %q, got %q", "x", got)
	}

	s.End()

	if tok, ok := s.Peek(); ok || tok != "" {
		t.Errorf("expected (\"\", false), got (%q, %v)", tok, ok)
	}

	if got := s.PeekPrefix(); got != "" {
		t.Errorf("expected empty prefix, got %q", got)
	}
}

func TestStream_Remainder(t *testing.T) {
	raw := "say  hello   there  "
	s := NewStream(raw)

	if got := s.Remainder(); got != raw {
		t.Errorf("expected %q, got %q", raw, got)
	}

	if _, err := s.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "hello   there  "
	if got := s.Remainder(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if s.Offset() != 5 {
		t.Errorf("expected offset 5, got %d", s.Offset())
	}

	if s.Position() != 1 {
		t.Errorf("expected Remainder not to move the cursor")
	}

	s.End()

	if s.HasNext() || s.Remainder() != "" || s.Offset() != len(raw) {
		t.Errorf("expected end of stream, got remainder %q offset %d",
			s.Remainder(), s.Offset())
	}
}

func TestStream_Rest(t *testing.T) {
	s := NewStream("a b c d")
	_, _ = s.Next()

	got := slices.Collect(s.Rest())
	if diff := cmp.Diff([]string{"b", "c", "d"}, got); diff != "" {
		t.Errorf("rest mismatch (-want +got):\n%s", diff)
	}

	for range s.Rest() {
		break
	}

	if s.Remaining() != 3 {
		t.Errorf("expected 3 remaining, got %d", s.Remaining())
	}
}

func TestStream_CheckpointRoundTrip(t *testing.T) {
	raw := "one two three four"

	for k := 0; k <= 4; k++ {
		s := NewStream(raw)

		for range k {
			if _, err := s.Next(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		cp := s.Checkpoint()
		want := slices.Collect(s.Rest())

		for restore := range 3 {
			for s.HasNext() {
				_, _ = s.Next()
			}

			if err := s.Restore(cp); err != nil {
				t.Fatalf("k=%d restore %d: unexpected error: %v", k, restore, err)
			}

			if s.Position() != k {
				t.Errorf("k=%d: expected position %d, got %d", k, k, s.Position())
			}

			if diff := cmp.Diff(want, slices.Collect(s.Rest())); diff != "" {
				t.Errorf("k=%d: rest mismatch (-want +got):\n%s", k, diff)
			}
		}

		if s.Raw() != raw {
			t.Errorf("expected raw text to be unchanged")
		}
	}
}

func TestStream_RestoreForeign(t *testing.T) {
	a := NewStream("a b")
	b := NewStream("a b")

	_, _ = b.Next()

	if err := b.Restore(a.Checkpoint()); !errors.Is(err, ErrForeignCheckpoint) {
		t.Errorf("expected ErrForeignCheckpoint, got %v", err)
	}

	if b.Position() != 1 {
		t.Errorf("expected cursor untouched, got %d", b.Position())
	}

	if err := b.Restore(Checkpoint{}); !errors.Is(err, ErrForeignCheckpoint) {
		t.Errorf("expected zero checkpoint to be rejected, got %v", err)
	}
}

func TestStream_NewError(t *testing.T) {
	s := NewStream("ip not-an-ip")

	e := s.NewError(MalformedInput, "nothing consumed")
	if e.Position() != 0 || e.Input() != "" {
		t.Errorf("expected position 0 and no input, got %d %q", e.Position(), e.Input())
	}

	_, _ = s.Next()
	_, _ = s.Next()

	e = s.NewError(MalformedInput, "Invalid IP address!")
	if e.Position() != 3 {
		t.Errorf("expected position 3, got %d", e.Position())
	}

	if e.Input() != "not-an-ip" {
		t.Errorf("expected input %q, got %q", "not-an-ip", e.Input())
	}

	e = s.Errorf(InvalidChoice, "other", "bad %s", "thing")
	if e.Input() != "other" || e.Message() != "bad thing" || e.Kind() != InvalidChoice {
		t.Errorf("unexpected error %+v", e)
	}
}
