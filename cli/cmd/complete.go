package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ardnew/argot/log"
)

// Complete prints suggestions for the last token of the command text, one per
// line. Quote the text with a trailing space to complete a new token.
type Complete struct {
	Spec `embed:""`

	Text []string `arg:"" help:"Partial command text" optional:"" sep:"none"`
}

// Run executes the complete command.
func (c *Complete) Run(ctx context.Context) error {
	src, sig, err := c.resolve(ctx)
	if err != nil {
		return err
	}

	raw := strings.Join(c.Text, " ")
	out := sig.Complete(ctx, src, raw)

	log.DebugContext(ctx, "completion",
		slog.String("text", raw),
		slog.Int("suggestions", len(out)))

	w := stdout(ctx)
	for _, s := range out {
		if _, err := fmt.Fprintln(w, s); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
