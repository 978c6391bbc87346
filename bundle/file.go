package bundle

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/argot/log"
)

// FileResolver resolves "file" URIs from the local filesystem.
type FileResolver struct {
	// Root, if set, confines resolution to paths beneath it. URI paths are
	// then interpreted relative to Root.
	Root string
	// MaxSize limits the bytes read. Zero means [DefaultMaxSize].
	MaxSize int64
}

// Resolve reads and validates the archive at uri.
func (r FileResolver) Resolve(ctx context.Context, uri *url.URL) (*Bundle, error) {
	if !strings.EqualFold(uri.Scheme, "file") {
		return nil, ErrUnsupportedScheme.Wrapf("%q", uri.Scheme)
	}

	name, err := r.path(uri)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound.Wrapf("%s", name)
		}

		return nil, err
	}
	defer f.Close()

	data, err := readLimited(f, limit(r.MaxSize))
	if err != nil {
		return nil, err
	}

	log.TraceContext(ctx, "bundle read",
		slog.String("path", name),
		slog.Int("size", len(data)),
	)

	return Load(uri, data)
}

func (r FileResolver) path(uri *url.URL) (string, error) {
	p := uri.Path
	if p == "" {
		p = uri.Opaque
	}

	if p == "" {
		return "", ErrNotFound.Wrapf("empty path")
	}

	if r.Root == "" {
		return filepath.FromSlash(p), nil
	}

	rel := strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+p)), "/")
	if !filepath.IsLocal(filepath.FromSlash(rel)) {
		return "", ErrNotFound.Wrapf("%s escapes root", p)
	}

	return filepath.Join(r.Root, filepath.FromSlash(rel)), nil
}

func limit(n int64) int64 {
	if n <= 0 {
		return DefaultMaxSize
	}

	return n
}

// readLimited reads all of rd, failing once more than n bytes arrive.
func readLimited(rd io.Reader, n int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(rd, n+1))
	if err != nil {
		return nil, err
	}

	if int64(len(data)) > n {
		return nil, ErrTooLarge.Wrapf("%d bytes", n)
	}

	return data, nil
}
