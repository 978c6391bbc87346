package cmd

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/argot/log"
	"github.com/ardnew/argot/pkg"
)

// ContextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

type inputKey struct{}

// Input reads command text, one command per line, from source files and
// optionally stdin.
type Input struct {
	files []*os.File
	stdin io.Reader
}

// OpenInput opens the given source files for reading.
//
// Paths naming the same file, through symlinks or relative and absolute
// spellings alike, are opened once. Every occurrence of "-" is collapsed into
// a single read of stdin, which is placed after all regular files. OpenInput
// returns nil if sources is empty.
func OpenInput(sources []string, stdin io.Reader) (*Input, error) {
	if len(sources) == 0 {
		return nil, nil
	}

	var (
		in   Input
		seen []os.FileInfo
	)

	for _, src := range sources {
		if src == stdinSource {
			in.stdin = stdin

			continue
		}

		file, err := openUnique(src, &seen)
		if err != nil {
			in.Close()

			return nil, pkg.ErrReadInput.Wrap(err)
		}

		if file != nil {
			in.files = append(in.files, file)
		}
	}

	return &in, nil
}

// openUnique opens path unless it names a file already in seen, in which case
// it returns nil without error.
func openUnique(path string, seen *[]os.FileInfo) (*os.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	for _, prev := range *seen {
		if os.SameFile(prev, info) {
			return nil, nil
		}
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	*seen = append(*seen, info)

	return file, nil
}

// Reader returns a reader over all files in order, then stdin.
func (in *Input) Reader() io.Reader {
	readers := make([]io.Reader, 0, len(in.files)+1)
	for _, f := range in.files {
		readers = append(readers, f)
	}

	if in.stdin != nil {
		readers = append(readers, in.stdin)
	}

	return io.MultiReader(readers...)
}

// Commands returns every non-blank line that does not start with '#'.
func (in *Input) Commands() ([]string, error) {
	var cmds []string

	sc := bufio.NewScanner(in.Reader())
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		cmds = append(cmds, line)
	}

	if err := sc.Err(); err != nil {
		return nil, pkg.ErrReadInput.Wrap(err)
	}

	return cmds, nil
}

// Close closes every opened file.
func (in *Input) Close() error {
	if in == nil {
		return nil
	}

	var errs []error
	for _, f := range in.files {
		errs = append(errs, f.Close())
	}

	return errors.Join(errs...)
}

// WithInput returns a new context.Context carrying in.
func WithInput(ctx context.Context, in *Input) context.Context {
	return context.WithValue(ctx, inputKey{}, in)
}

func inputFrom(ctx context.Context) *Input {
	in, _ := ctx.Value(inputKey{}).(*Input)

	return in
}

// commands returns text as a single command when it is not empty, or else the
// commands read from the input stored in ctx.
func commands(ctx context.Context, text []string) ([]string, error) {
	if len(text) > 0 {
		return []string{strings.Join(text, " ")}, nil
	}

	in := inputFrom(ctx)
	if in == nil {
		return nil, ErrNoInput
	}

	cmds, err := in.Commands()
	if err != nil {
		return nil, err
	}

	log.DebugContext(ctx, "input read", slog.Int("commands", len(cmds)))

	return cmds, nil
}
