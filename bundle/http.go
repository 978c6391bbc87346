package bundle

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/ardnew/argot/log"
	"github.com/ardnew/argot/pkg"
)

// HTTPResolver resolves "http" and "https" URIs with a GET request.
//
// Responses with status 404 or 410 resolve to [ErrNotFound]. Responses
// compressed with zstd or gzip are decoded before validation.
type HTTPResolver struct {
	// Client performs requests. Nil means [http.DefaultClient].
	Client *http.Client
	// MaxSize limits the decoded bytes read. Zero means [DefaultMaxSize].
	MaxSize int64
}

// Resolve downloads and validates the archive at uri.
func (r HTTPResolver) Resolve(ctx context.Context, uri *url.URL) (*Bundle, error) {
	switch strings.ToLower(uri.Scheme) {
	case "http", "https":
	default:
		return nil, ErrUnsupportedScheme.Wrapf("%q", uri.Scheme)
	}

	// The fragment pins a digest and is never sent.
	target := *uri
	target.Fragment = ""

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/zip, */*")
	req.Header.Set("Accept-Encoding", "zstd, gzip")
	req.Header.Set("User-Agent", pkg.Name+"/"+pkg.Version)

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	log.TraceContext(ctx, "bundle response",
		slog.String("uri", target.String()),
		slog.Int("status", resp.StatusCode),
		slog.String("encoding", resp.Header.Get("Content-Encoding")),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound,
		resp.StatusCode == http.StatusGone:
		return nil, ErrNotFound.Wrapf("%s", resp.Status)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, ErrResponseStatus.Wrapf("%s", resp.Status)
	}

	n := limit(r.MaxSize)
	if resp.ContentLength > n {
		return nil, ErrTooLarge.Wrapf("%d bytes", n)
	}

	body, err := decodeBody(resp)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := readLimited(body, n)
	if err != nil {
		return nil, err
	}

	return Load(uri, data)
}

// decodeBody wraps the response body with a decoder for its content encoding.
func decodeBody(resp *http.Response) (io.ReadCloser, error) {
	switch enc := strings.ToLower(resp.Header.Get("Content-Encoding")); enc {
	case "", "identity":
		return io.NopCloser(resp.Body), nil
	case "gzip":
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, ErrContentEncoding.Wrapf("%s", enc).Wrap(err)
		}

		return zr, nil
	case "zstd":
		zr, err := zstd.NewReader(resp.Body)
		if err != nil {
			return nil, ErrContentEncoding.Wrapf("%s", enc).Wrap(err)
		}

		return zr.IOReadCloser(), nil
	default:
		return nil, ErrContentEncoding.Wrapf("%q", enc)
	}
}
