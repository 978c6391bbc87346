package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/argot/args"
	"github.com/ardnew/argot/log"
	"github.com/ardnew/argot/pkg"
	"github.com/ardnew/argot/tree"
)

// Parse parses command text into typed values and prints them as a map from
// argument key to value.
type Parse struct {
	Spec `embed:""`

	Format string   `default:"json" enum:"json,yaml,native" help:"Output format (${enum})"               short:"o"`
	Indent int      `default:"0"                            help:"Indent width, or 0 for compact output" short:"i"`
	Text   []string `arg:""                                 help:"Command text; read one command per line from --source when omitted" optional:"" sep:"none"`
}

// Run executes the parse command.
func (p *Parse) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	src, sig, err := p.resolve(ctx)
	if err != nil {
		return err
	}

	cmds, err := commands(ctx, p.Text)
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	for i, raw := range cmds {
		node, err := sig.Parse(ctx, src, raw)
		if err != nil {
			reportParseError(ctx, err)

			return ErrParse.Wrap(err).With(
				slog.Int("command", i+1),
				slog.String("text", raw),
			)
		}

		if p.Format == "yaml" && len(cmds) > 1 {
			buf.WriteString("---\n")
		}

		if err := p.encode(ctx, &buf, node); err != nil {
			return err
		}

		log.DebugContext(ctx, "command parsed",
			slog.Int("command", i+1),
			slog.Int("args", node.Len()))
	}

	if _, err := buf.WriteTo(stdout(ctx)); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

func (p *Parse) encode(ctx context.Context, buf *bytes.Buffer, node *tree.Node) error {
	var (
		b   []byte
		err error
	)

	switch p.Format {
	case "json":
		if p.Indent > 0 {
			b, err = json.MarshalIndent(node, "", strings.Repeat(" ", p.Indent))
		} else {
			b, err = json.Marshal(node)
		}

		if err != nil {
			return pkg.ErrJSONMarshal.Wrap(err)
		}

	case "yaml":
		b, err = tree.MarshalYAML(ctx, node, p.Indent)
		if err != nil {
			return pkg.ErrYAMLMarshal.Wrap(err)
		}

	case "native":
		b, err = tree.MarshalNative(node, p.Indent)
		if err != nil {
			return err
		}

	default:
		return pkg.ErrInvalidFormat.Wrapf("%q (expected json, yaml, or native)", p.Format)
	}

	buf.Write(bytes.TrimRight(b, "\n"))
	buf.WriteByte('\n')

	return nil
}

// reportParseError prints the message of an argument error and the command
// text with a caret under the failure.
func reportParseError(ctx context.Context, err error) {
	var e *args.Error
	if !errors.As(err, &e) {
		return
	}

	fmt.Fprintf(stderr(ctx), "%s\n%s\n", e.Message(), e.Snippet())
}
