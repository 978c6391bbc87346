package tree

import (
	"context"
	"strings"
	"testing"
)

func sampleTree() *Node {
	return Map().
		Set("name", String("argot")).
		Set("log-level", String("debug")).
		Set("server", Map().
			Set("host", String("localhost")).
			Set("ports", List(Number("80"), Number("443")))).
		Set("empty", Map()).
		Set("null", Null())
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		indent int
		want   string
	}{
		{
			name:   "indented",
			indent: 2,
			want: strings.Join([]string{
				`name : "argot"`,
				`"log-level" : "debug"`,
				`server {`,
				`  host : "localhost"`,
				`  ports : [80, 443]`,
				`}`,
				`empty {}`,
				`null : nil`,
				``,
			}, "\n"),
		},
		{
			name:   "flat",
			indent: 0,
			want: `name : "argot"; "log-level" : "debug"; ` +
				`server { host : "localhost"; ports : [80, 443] }; empty {}; null : nil` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalNative(sampleTree(), tt.indent)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if string(got) != tt.want {
				t.Errorf("expected:\n%s\ngot:\n%s", tt.want, got)
			}
		})
	}
}

func TestFormat_RoundTrip(t *testing.T) {
	want := sampleTree().Set("quote", String("say \"hi\"\n")).Set("flag", Bool(false))

	for _, indent := range []int{0, 4} {
		text, err := MarshalNative(want, indent)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got, err := NewNative().Parse(context.Background(), string(text))
		if err != nil {
			t.Fatalf("parsing %q: %v", text, err)
		}

		if got.String() != want.String() {
			t.Errorf("expected %s, got %s", want, got)
		}
	}
}

func TestFormatKey(t *testing.T) {
	tests := map[string]string{
		"plain":     "plain",
		"_under9":   "_under9",
		"log-level": `"log-level"`,
		"9lives":    `"9lives"`,
		"":          `""`,
		"ünïcode":   "ünïcode",
	}

	for in, want := range tests {
		if got := formatKey(in); got != want {
			t.Errorf("formatKey(%q): expected %s, got %s", in, want, got)
		}
	}
}
