package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Usage prints the usage line of a signature.
type Usage struct {
	Spec `embed:""`

	Command string `default:"" help:"Command name to print before the arguments" short:"c"`
}

// Run executes the usage command.
func (u *Usage) Run(ctx context.Context) error {
	src, sig, err := u.resolve(ctx)
	if err != nil {
		return err
	}

	w := stdout(ctx)
	r := lipgloss.NewRenderer(w)

	var line strings.Builder

	if u.Command != "" {
		line.WriteString(r.NewStyle().Bold(true).Render(u.Command))
	}

	if usage := sig.Usage(src); usage != "" {
		if line.Len() > 0 {
			line.WriteByte(' ')
		}

		line.WriteString(r.NewStyle().Foreground(lipgloss.Color("8")).Render(usage))
	}

	if _, err := fmt.Fprintln(w, line.String()); err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}

// Kinds lists the argument kinds accepted by --arg.
type Kinds struct{}

// Run executes the kinds command.
func (Kinds) Run(ctx context.Context) error {
	w := stdout(ctx)
	r := lipgloss.NewRenderer(w)

	width := 0
	for _, k := range kinds {
		width = max(width, lipgloss.Width(k.String()))
	}

	name := r.NewStyle().Bold(true).Width(width + 2)

	for _, k := range kinds {
		if _, err := fmt.Fprintln(w, name.Render(k.String())+k.Help); err != nil {
			return ErrWriteOutput.Wrap(err)
		}
	}

	return nil
}
