package cmd

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/argot/pkg"
)

func TestParseArgSpec(t *testing.T) {
	tests := []struct {
		in   string
		want ArgSpec
	}{
		{"n:integer", ArgSpec{Key: "n", Kind: "integer"}},
		{"when:datetime-or-now?", ArgSpec{Key: "when", Kind: "datetime-or-now", Optional: true}},
		{"cfg:tree=yaml", ArgSpec{Key: "cfg", Kind: "tree", Option: "yaml"}},
		{"mode:choice=a,b,c?", ArgSpec{Key: "mode", Kind: "choice", Option: "a,b,c", Optional: true}},
		{"msg:text-all=§", ArgSpec{Key: "msg", Kind: "text-all", Option: "§"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseArgSpec(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("spec mismatch (-want +got):\n%s", diff)
			}

			if got.String() != tt.in {
				t.Errorf("expected %q, got %q", tt.in, got.String())
			}
		})
	}
}

func TestParseArgSpec_Errors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"integer", pkg.ErrInvalidArgSpec},
		{":integer", pkg.ErrInvalidArgSpec},
		{"my key:integer", pkg.ErrInvalidArgSpec},
		{"n:color", pkg.ErrUnknownKind},
		{"n:", pkg.ErrUnknownKind},
		{"mode:choice", pkg.ErrInvalidArgSpec},
		{"n:integer=5", pkg.ErrInvalidArgSpec},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if _, err := ParseArgSpec(tt.in); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestArgSpec_ElementErrors(t *testing.T) {
	for _, in := range []string{"cfg:tree=xml", "mode:choice=,,", "msg:text=&&"} {
		t.Run(in, func(t *testing.T) {
			spec, err := ParseArgSpec(in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if _, err := spec.Element(Env{}); !errors.Is(err, pkg.ErrInvalidArgSpec) {
				t.Errorf("expected ErrInvalidArgSpec, got %v", err)
			}
		})
	}
}

func TestKinds(t *testing.T) {
	want := []string{
		"integer", "decimal", "uuid", "duration", "url", "uri", "version",
		"ip", "ip-or-source", "datetime", "datetime-or-now", "tree", "bundle",
		"text", "text-all", "json", "json-all", "choice",
	}

	var got []string
	for _, k := range AllKinds() {
		got = append(got, k.Name)

		if k.Help == "" {
			t.Errorf("expected help for kind %s", k.Name)
		}

		if _, err := (ArgSpec{Key: "k", Kind: k.Name, Option: "x"}).Element(Env{}); k.needsOption && err != nil {
			t.Errorf("expected kind %s to build, got %v", k.Name, err)
		}
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestKind_String(t *testing.T) {
	tests := map[string]string{
		"integer": "integer",
		"tree":    "tree[=json|native|toml|yaml]",
		"text":    "text[=PREFIX]",
		"choice":  "choice=LABEL,...",
	}

	for name, want := range tests {
		k, ok := lookupKind(name)
		if !ok {
			t.Fatalf("expected kind %s", name)
		}

		if got := k.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
