package bundle

import (
	"bytes"
	"context"
	_ "crypto/sha256" // registers digest algorithms
	_ "crypto/sha512"
	"net/url"
	"path"
	"slices"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/opencontainers/go-digest"

	"github.com/ardnew/argot/pkg"
)

var (
	// ErrNotFound is returned by a [Resolver] when nothing exists at a URI.
	ErrNotFound = pkg.MakeErrorf("bundle not found")
	// ErrNotArchive is returned when bundle content is not a zip archive.
	ErrNotArchive = pkg.MakeErrorf("bundle is not a zip archive")
	// ErrDigestMismatch is returned when content does not match the digest
	// pinned in the URI fragment.
	ErrDigestMismatch = pkg.MakeErrorf("bundle digest mismatch")
	// ErrInvalidDigest is returned when the URI fragment is not a digest.
	ErrInvalidDigest = pkg.MakeErrorf("invalid pinned digest")
	// ErrTooLarge is returned when content exceeds a resolver's size limit.
	ErrTooLarge = pkg.MakeErrorf("bundle exceeds size limit")
	// ErrUnsupportedScheme is returned by a [Mux] with no resolver for a
	// URI's scheme.
	ErrUnsupportedScheme = pkg.MakeErrorf("unsupported URI scheme")
	// ErrResponseStatus is returned for an HTTP response that is neither a
	// success nor a missing resource.
	ErrResponseStatus = pkg.MakeErrorf("unexpected response status")
	// ErrContentEncoding is returned when an HTTP body cannot be decoded.
	ErrContentEncoding = pkg.MakeErrorf("unsupported content encoding")
)

// DefaultMaxSize limits the content a resolver reads when none is configured.
const DefaultMaxSize int64 = 64 << 20

// Bundle is a resolved resource bundle: a zip archive located by URI.
type Bundle struct {
	URI     *url.URL
	Name    string
	Digest  digest.Digest
	Size    int64
	Entries []string
}

// String returns the bundle name and digest.
func (b *Bundle) String() string {
	if b == nil {
		return "<nil>"
	}

	return b.Name + "@" + b.Digest.String()
}

// Has reports whether the archive holds a file named name.
func (b *Bundle) Has(name string) bool {
	if b == nil {
		return false
	}

	_, ok := slices.BinarySearch(b.Entries, name)

	return ok
}

// Resolver locates the bundle identified by a URI.
type Resolver interface {
	Resolve(ctx context.Context, uri *url.URL) (*Bundle, error)
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(ctx context.Context, uri *url.URL) (*Bundle, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(ctx context.Context, uri *url.URL) (*Bundle, error) {
	return f(ctx, uri)
}

// Load validates data as the zip archive located at uri and describes it.
//
// If the fragment of uri is a digest such as "sha256:<hex>", the content must
// match it.
func Load(uri *url.URL, data []byte) (*Bundle, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, ErrNotArchive.Wrap(err)
	}

	dg := digest.FromBytes(data)

	if pin := uri.Fragment; pin != "" {
		want, err := digest.Parse(pin)
		if err != nil {
			return nil, ErrInvalidDigest.Wrapf("%q", pin).Wrap(err)
		}

		if want.Algorithm() != dg.Algorithm() {
			dg = want.Algorithm().FromBytes(data)
		}

		if dg != want {
			return nil, ErrDigestMismatch.Wrapf("expected %s, got %s", want, dg)
		}
	}

	entries := make([]string, 0, len(zr.File))

	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, "/") {
			entries = append(entries, f.Name)
		}
	}

	slices.Sort(entries)

	return &Bundle{
		URI:     uri,
		Name:    nameOf(uri),
		Digest:  dg,
		Size:    int64(len(data)),
		Entries: entries,
	}, nil
}

// nameOf returns the last path element of uri without a ".zip" extension.
func nameOf(uri *url.URL) string {
	p := uri.Path
	if p == "" {
		p = uri.Opaque
	}

	name := strings.TrimSuffix(path.Base(p), ".zip")
	if name == "." || name == "/" || name == "" {
		return uri.Host
	}

	return name
}
