package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/netip"
	"net/url"
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/google/go-cmp/cmp"
	"github.com/opencontainers/go-digest"

	"github.com/ardnew/argot/args"
	"github.com/ardnew/argot/bundle"
	"github.com/ardnew/argot/pkg"
	"github.com/ardnew/argot/text"
	"github.com/ardnew/argot/tree"
)

// noHosts fails every host name lookup.
type noHosts struct{}

func (noHosts) LookupNetIP(context.Context, string, string) ([]netip.Addr, error) {
	return nil, errors.New("no such host")
}

var (
	testEnv    = Env{Options: []args.Option{args.WithResolver(noHosts{})}}
	testRemote = args.Remote{ID: "steve", Addr: netip.MustParseAddr("198.51.100.4")}
	console    = args.Console("console")
)

func banSignature(t *testing.T) *Signature {
	t.Helper()

	sig, err := NewSignature(testEnv,
		"target:ip-or-source",
		"length:duration",
		"mode:choice=survival,creative",
		"count:integer?",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return sig
}

func TestSignature_Parse(t *testing.T) {
	sig := banSignature(t)

	tests := []struct {
		name string
		src  args.Source
		raw  string
		want string
	}{
		{
			name: "console",
			src:  console,
			raw:  "203.0.113.7 1d creative",
			want: `{"target":"203.0.113.7","length":"24h0m0s","mode":"creative","count":null}`,
		},
		{
			name: "remote fallback",
			src:  testRemote,
			raw:  "PT90S survival 12",
			want: `{"target":"198.51.100.4","length":"1m30s","mode":"survival","count":12}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := sig.Parse(context.Background(), tt.src, tt.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := node.String(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}

	if diff := cmp.Diff([]string{"target", "length", "mode", "count"}, sig.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestSignature_ParseErrors(t *testing.T) {
	sig := banSignature(t)

	tests := []struct {
		name  string
		raw   string
		kind  args.Kind
		input string
	}{
		{"leftover", "203.0.113.7 1d creative 12 extra", args.MalformedInput, "extra"},
		{"bad address", "nope 1d creative", args.MalformedInput, "nope"},
		{"bad choice", "203.0.113.7 1d spectator", args.InvalidChoice, "spectator"},
		{"exhausted", "203.0.113.7", args.ExhaustedInput, "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sig.Parse(context.Background(), console, tt.raw)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}

			var e *args.Error
			if !errors.As(err, &e) {
				t.Fatalf("expected *args.Error, got %T", err)
			}

			if e.Input() != tt.input {
				t.Errorf("expected input %q, got %q", tt.input, e.Input())
			}
		})
	}
}

func TestNewSignature_Errors(t *testing.T) {
	if _, err := NewSignature(testEnv, "a:integer", "a:decimal"); !errors.Is(err, pkg.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	if _, err := NewSignature(testEnv, "a:integer", "b:colour"); !errors.Is(err, pkg.ErrUnknownKind) {
		t.Errorf("expected ErrUnknownKind, got %v", err)
	}
}

func TestSignature_Complete(t *testing.T) {
	sig, err := NewSignature(testEnv,
		"mode:choice=survival,creative,spectator",
		"target:ip-or-source",
		"letter:choice=alpha,beta",
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		raw  string
		want []string
	}{
		{"", []string{"survival", "creative", "spectator"}},
		{"s", []string{"survival", "spectator"}},
		{"cr", []string{"creative"}},
		{"creative ", nil},
		{"creative 10.0.0.1 ", []string{"alpha", "beta"}},
		{"creative 10.0.0.1 b", []string{"beta"}},
		{"bogus 10.0.0.1 b", nil},
		{"creative 10.0.0.1 beta ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := sig.Complete(context.Background(), console, tt.raw)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("completion mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSignature_CompleteFuzzy(t *testing.T) {
	env := testEnv
	env.Fuzzy = true

	sig, err := NewSignature(env, "mode:choice=survival,creative,spectator")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if diff := cmp.Diff([]string{"spectator"}, sig.Complete(context.Background(), console, "spc")); diff != "" {
		t.Errorf("completion mismatch (-want +got):\n%s", diff)
	}
}

func TestSignature_Usage(t *testing.T) {
	sig := banSignature(t)

	tests := []struct {
		name string
		src  args.Source
		want string
	}{
		{"console", console, "<target> <length> <survival|creative> [<count>]"},
		{"remote", testRemote, "[<target>] <length> <survival|creative> [<count>]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sig.Usage(tt.src); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestPresent(t *testing.T) {
	dec, err := args.ParseDecimal("1.50")
	if err != nil {
		t.Fatal(err)
	}

	msg := text.Text{Content: "hi", Bold: true, Color: "gold"}
	msgJSON, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, `null`},
		{"integer", big.NewInt(-12), `-12`},
		{"decimal", dec, `1.50`},
		{"duration", 90 * time.Second, `"1m30s"`},
		{"time", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), `"2024-01-01T00:00:00Z"`},
		{"address", netip.MustParseAddr("::1"), `"::1"`},
		{"version", semver.MustParse("1.2.3"), `"1.2.3"`},
		{"choice", "creative", `"creative"`},
		{"tree", tree.Map().Set("a", tree.Bool(true)), `{"a":true}`},
		{"text", msg, string(msgJSON)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := present(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got := node.String(); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestPresent_Bundle(t *testing.T) {
	uri, err := url.Parse("https://example.com/ocean.zip")
	if err != nil {
		t.Fatal(err)
	}

	node, err := present(&bundle.Bundle{
		URI:     uri,
		Name:    "ocean",
		Digest:  digest.FromString("ocean"),
		Size:    5,
		Entries: []string{"pack.mcmeta"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]any{
		"uri":     "https://example.com/ocean.zip",
		"name":    "ocean",
		"digest":  digest.FromString("ocean").String(),
		"size":    int64(5),
		"entries": []any{"pack.mcmeta"},
	}

	if diff := cmp.Diff(want, node.Native()); diff != "" {
		t.Errorf("bundle mismatch (-want +got):\n%s", diff)
	}
}
