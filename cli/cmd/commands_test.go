package cmd

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/ardnew/argot/args"
	"github.com/ardnew/argot/tree"
)

var banArgs = []string{"target:ip-or-source", "length:duration", "mode:choice=survival,creative"}

func TestParse_Run(t *testing.T) {
	tests := []struct {
		name   string
		format string
		indent int
		want   string
	}{
		{"json", "json", 0, `{"target":"203.0.113.7","length":"24h0m0s","mode":"creative"}` + "\n"},
		{"json indented", "json", 2, "{\n  \"target\": \"203.0.113.7\",\n  \"length\": \"24h0m0s\",\n  \"mode\": \"creative\"\n}\n"},
		{"native", "native", 0, `target : "203.0.113.7"; length : "24h0m0s"; mode : "creative"` + "\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, out, _ := testContext(t, kong.Vars{})

			p := &Parse{
				Spec:   Spec{Arg: banArgs, As: "console"},
				Format: tt.format,
				Indent: tt.indent,
				Text:   []string{"203.0.113.7", "1d", "creative"},
			}

			if err := p.Run(WithEnv(ctx, testEnv)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if out.String() != tt.want {
				t.Errorf("expected:\n%s\ngot:\n%s", tt.want, out)
			}
		})
	}
}

func TestParse_RunYAML(t *testing.T) {
	ctx, out, _ := testContext(t, kong.Vars{})

	in, err := OpenInput([]string{"-"}, strings.NewReader("203.0.113.7 1d creative\n10.0.0.1 PT1H survival\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx = WithInput(WithEnv(ctx, testEnv), in)

	p := &Parse{Spec: Spec{Arg: banArgs, As: "console"}, Format: "yaml", Indent: 2}
	if err := p.Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	docs := strings.Split(strings.TrimPrefix(out.String(), "---\n"), "---\n")
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %q", out)
	}

	for i, mode := range []string{"creative", "survival"} {
		node, err := tree.YAML{}.Parse(context.Background(), docs[i])
		if err != nil {
			t.Fatalf("document %d: %v", i, err)
		}

		if got := node.Get("mode").Native(); got != mode {
			t.Errorf("document %d: expected mode %s, got %v", i, mode, got)
		}
	}
}

func TestParse_RunRemote(t *testing.T) {
	ctx, out, _ := testContext(t, kong.Vars{})

	p := &Parse{
		Spec:   Spec{Arg: banArgs, As: "steve", Remote: "198.51.100.4"},
		Format: "json",
		Text:   []string{"1d", "survival"},
	}

	if err := p.Run(WithEnv(ctx, testEnv)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(out.String(), `"target":"198.51.100.4"`) {
		t.Errorf("expected the remote address as target, got %s", out)
	}
}

func TestParse_RunErrors(t *testing.T) {
	t.Run("invalid choice", func(t *testing.T) {
		ctx, out, errs := testContext(t, kong.Vars{})

		p := &Parse{
			Spec:   Spec{Arg: banArgs, As: "console"},
			Format: "json",
			Text:   []string{"203.0.113.7 1d spectator"},
		}

		err := p.Run(WithEnv(ctx, testEnv))
		if !errors.Is(err, ErrParse) || !errors.Is(err, args.InvalidChoice) {
			t.Fatalf("expected a parse error, got %v", err)
		}

		if out.Len() != 0 {
			t.Errorf("expected no output, got %q", out)
		}

		lines := strings.Split(strings.TrimSuffix(errs.String(), "\n"), "\n")
		if len(lines) < 3 || !strings.HasPrefix(lines[0], "Argument was not a valid choice.") {
			t.Fatalf("expected message and snippet, got %q", errs)
		}

		if caret := lines[len(lines)-1]; strings.TrimSpace(caret) != "^" {
			t.Errorf("expected a caret line, got %q", caret)
		}
	})

	t.Run("no input", func(t *testing.T) {
		ctx, _, _ := testContext(t, kong.Vars{})

		p := &Parse{Spec: Spec{Arg: banArgs}, Format: "json"}
		if err := p.Run(ctx); !errors.Is(err, ErrNoInput) {
			t.Errorf("expected ErrNoInput, got %v", err)
		}
	})

	t.Run("bad remote", func(t *testing.T) {
		ctx, _, _ := testContext(t, kong.Vars{})

		p := &Parse{Spec: Spec{Arg: banArgs, Remote: "somewhere"}, Format: "json", Text: []string{"1d"}}
		if err := p.Run(ctx); err == nil {
			t.Errorf("expected an error for a non-address remote")
		}
	})
}

func TestComplete_Run(t *testing.T) {
	ctx, out, _ := testContext(t, kong.Vars{})

	c := &Complete{
		Spec: Spec{Arg: []string{"first:choice=alpha,beta", "second:choice=gamma,delta,gecko"}, As: "console"},
		Text: []string{"beta", "g"},
	}

	if err := c.Run(WithEnv(ctx, testEnv)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "gamma\ngecko\n"; out.String() != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestUsage_Run(t *testing.T) {
	ctx, out, _ := testContext(t, kong.Vars{})

	u := &Usage{Spec: Spec{Arg: banArgs, As: "console"}, Command: "ban"}
	if err := u.Run(WithEnv(ctx, testEnv)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if want := "ban <target> <length> <survival|creative>\n"; out.String() != want {
		t.Errorf("expected %q, got %q", want, out)
	}
}

func TestKinds_Run(t *testing.T) {
	ctx, out, _ := testContext(t, kong.Vars{})

	if err := (Kinds{}).Run(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	if len(lines) != len(AllKinds()) {
		t.Fatalf("expected %d lines, got %d", len(AllKinds()), len(lines))
	}

	for i, k := range AllKinds() {
		if !strings.HasPrefix(lines[i], k.String()) || !strings.HasSuffix(lines[i], k.Help) {
			t.Errorf("unexpected line %q for kind %s", lines[i], k.Name)
		}
	}
}

func TestInit_Run(t *testing.T) {
	tests := []struct {
		name    string
		force   bool
		exists  bool
		wantErr error
	}{
		{name: "create new config"},
		{name: "overwrite with force", force: true, exists: true},
		{name: "fail without force", exists: true, wantErr: ErrFileExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			confPath := filepath.Join(t.TempDir(), "config")

			if tt.exists {
				if err := os.WriteFile(confPath, []byte("existing content"), 0o600); err != nil {
					t.Fatal(err)
				}
			}

			var cli struct {
				Level  string   `default:"debug" name:"log-level"`
				Pretty bool     `default:"true"  name:"log-pretty"`
				Source []string `name:"source"`
			}

			parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
			if err != nil {
				t.Fatal(err)
			}

			ktx, err := parser.Parse(nil)
			if err != nil {
				t.Fatal(err)
			}

			err = (&Init{Force: tt.force}).Run(WithContext(context.Background(), ktx))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}

				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			content, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			node, err := tree.NewNative().Parse(context.Background(), string(content))
			if err != nil {
				t.Fatalf("generated config is not valid native syntax: %v\n%s", err, content)
			}

			conf := node.Get(ConfigIdentifier)

			if got := conf.Get("log_level").Native(); got != "debug" {
				t.Errorf("expected log_level debug, got %v", got)
			}

			if got := conf.Get("log_pretty").Native(); got != true {
				t.Errorf("expected log_pretty true, got %v", got)
			}

			if conf.Get("source").Kind() != tree.KindNull || conf.Get("help").Kind() != tree.KindNull {
				t.Errorf("expected unset and help flags to be omitted, got %s", conf)
			}
		})
	}
}
