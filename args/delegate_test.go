package args

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/argot/bundle"
	"github.com/ardnew/argot/text"
	"github.com/ardnew/argot/tree"
)

func TestTree(t *testing.T) {
	e := Tree("config", tree.NewNative())

	node, s, err := run(t, e, console, "host:   localhost,  port: 8080")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if s.HasNext() {
		t.Errorf("expected every token consumed")
	}

	if got := node.Get("port").Native(); got != int64(8080) {
		t.Errorf("expected 8080, got %#v", got)
	}

	if got := node.Get("host").Native(); got != "localhost" {
		t.Errorf("expected localhost, got %#v", got)
	}

	if got := e.Complete(context.Background(), console, NewStream("x")); got != nil {
		t.Errorf("expected no completions, got %v", got)
	}
}

func TestTree_Error(t *testing.T) {
	p, err := tree.ParserFor("json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, err = run(t, Tree("config", p), console, `{"a":   `)
	if !errors.Is(err, MalformedInput) {
		t.Fatalf("expected MalformedInput, got %v", err)
	}

	var e *Error
	if !errors.As(err, &e) || !strings.HasPrefix(e.Message(), "Node parsing failed: ") {
		t.Errorf("unexpected message %q", err.Error())
	}

	var te *tree.Error
	if !errors.As(err, &te) {
		t.Errorf("expected the parser error to be wrapped")
	}

	if e.Input() != `{"a":` {
		t.Errorf("expected rejoined input, got %q", e.Input())
	}
}

func TestBundle(t *testing.T) {
	want := &bundle.Bundle{Name: "ocean"}
	failure := errors.New("archive is corrupt")

	resolver := bundle.ResolverFunc(func(_ context.Context, uri *url.URL) (*bundle.Bundle, error) {
		switch uri.Path {
		case "/ocean.zip":
			want.URI = uri

			return want, nil
		case "/absent.zip":
			return nil, bundle.ErrNotFound
		default:
			return nil, failure
		}
	})

	e := Bundle("pack", resolver)

	t.Run("resolved", func(t *testing.T) {
		got, _, err := run(t, e, console, "https://example.com/ocean.zip")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got != want || got.URI.Host != "example.com" {
			t.Errorf("unexpected bundle %v", got)
		}
	})

	t.Run("not found", func(t *testing.T) {
		_, _, err := run(t, e, console, "https://example.com/absent.zip")
		if !errors.Is(err, NotFound) || !hasMessage(err, "No resource located at this URL!") {
			t.Fatalf("unexpected error %v", err)
		}

		var pe *Error
		if errors.As(err, &pe) && pe.Input() != "https://example.com/absent.zip" {
			t.Errorf("expected the URI as input, got %q", pe.Input())
		}

		if !errors.Is(err, bundle.ErrNotFound) {
			t.Errorf("expected the cause to be wrapped")
		}
	})

	t.Run("failure", func(t *testing.T) {
		_, _, err := run(t, e, console, "https://example.com/broken.zip")
		if !errors.Is(err, MalformedInput) || !hasMessage(err, failure.Error()) {
			t.Errorf("unexpected error %v", err)
		}
	})

	t.Run("bad uri", func(t *testing.T) {
		_, _, err := run(t, e, console, "example.com/ocean.zip")
		if !hasMessage(err, "Invalid URL!") {
			t.Errorf("expected Invalid URL!, got %v", err)
		}
	})
}

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		elem  Element[text.Text]
		input string
		want  text.Text
		left  int
	}{
		{
			name:  "plain",
			elem:  PlainText("msg"),
			input: "&cHi there",
			want:  text.Text{Content: "Hi", Color: "red"},
			left:  1,
		},
		{
			name:  "remaining keeps whitespace",
			elem:  RemainingText("msg"),
			input: "&aHello   big  world",
			want:  text.Text{Content: "Hello   big  world", Color: "green"},
		},
		{
			name:  "section prefix",
			elem:  PlainText("msg", WithCodePrefix(text.SectionPrefix)),
			input: "§lloud&r",
			want:  text.Text{Content: "loud&r", Bold: true},
		},
		{
			name:  "json",
			elem:  JSONText("msg"),
			input: `{"text":"hi","italic":true} extra`,
			want:  text.Text{Content: "hi", Italic: true},
			left:  1,
		},
		{
			name:  "remaining json",
			elem:  RemainingJSONText("msg"),
			input: `{"text": "hi there", "color": "gold"}`,
			want:  text.Text{Content: "hi there", Color: "gold"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, s, err := run(t, tt.elem, console, tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("text mismatch (-want +got):\n%s", diff)
			}

			if s.Remaining() != tt.left {
				t.Errorf("expected %d tokens left, got %d", tt.left, s.Remaining())
			}
		})
	}
}

func TestText_Errors(t *testing.T) {
	tests := []struct {
		name  string
		elem  Element[text.Text]
		input string
		kind  Kind
	}{
		{"unknown code", PlainText("msg"), "&zbad", MalformedInput},
		{"dangling prefix", RemainingText("msg"), "oops &", MalformedInput},
		{"invalid utf-8", PlainText("msg"), "\xff\xfe", MalformedInput},
		{"bad json", JSONText("msg"), `{"text":`, MalformedInput},
		{"remaining empty", RemainingText("msg"), "", ExhaustedInput},
		{"single empty", JSONText("msg"), "", ExhaustedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := run(t, tt.elem, console, tt.input)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}

			if diff := cmp.Diff(text.Text{}, got); diff != "" {
				t.Errorf("expected zero value on failure (-want +got):\n%s", diff)
			}

			if tt.kind == MalformedInput && errors.Unwrap(err) == nil {
				t.Errorf("expected the deserializer error to be wrapped")
			}
		})
	}
}
