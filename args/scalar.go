package args

import (
	"context"
	"net/url"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/google/uuid"

	"github.com/ardnew/argot/pkg"
)

type uuidElement struct{ Base }

// UUID returns an element that parses one token as a UUID in the canonical
// 36-character hyphenated form.
func UUID(key string) Element[uuid.UUID] {
	return uuidElement{NewBase(key)}
}

func (uuidElement) Parse(
	_ context.Context,
	_ Source,
	s *Stream,
) (uuid.UUID, error) {
	tok, err := s.Next()
	if err != nil {
		return uuid.Nil, err
	}

	// uuid.Parse also accepts the urn:uuid:, braced, and unhyphenated forms.
	if len(tok) != 36 {
		return uuid.Nil, s.NewError(MalformedInput, "Invalid UUID!")
	}

	id, perr := uuid.Parse(tok)
	if perr != nil {
		return uuid.Nil, s.NewError(MalformedInput, "Invalid UUID!").Wrap(perr)
	}

	return id, nil
}

// protocols are the URL schemes accepted by [URL] and [URI].
var protocols = map[string]bool{
	"http":  true,
	"https": true,
	"ftp":   true,
	"file":  true,
	"jar":   true,
}

type uriElement struct {
	Base
	returnURI bool
}

// URL returns an element that parses one token as an absolute URL with a
// known protocol (http, https, ftp, file, or jar).
func URL(key string) Element[*url.URL] {
	return uriElement{Base: NewBase(key)}
}

// URI is like [URL] but returns the strict URI derived from the parsed URL,
// with its components re-escaped in canonical form.
func URI(key string) Element[*url.URL] {
	return uriElement{Base: NewBase(key), returnURI: true}
}

func (e uriElement) Parse(
	_ context.Context,
	_ Source,
	s *Stream,
) (*url.URL, error) {
	tok, err := s.Next()
	if err != nil {
		return nil, err
	}

	u, perr := parseURL(tok)
	if perr != nil {
		return nil, s.NewError(MalformedInput, "Invalid URL!").Wrap(perr)
	}

	uri, perr := toURI(u)
	if perr != nil {
		return nil, s.NewError(MalformedInput, "Invalid URL!").Wrap(perr)
	}

	if e.returnURI {
		return uri, nil
	}

	return u, nil
}

var (
	errNoProtocol      = pkg.MakeErrorf("no protocol")
	errUnknownProtocol = pkg.MakeErrorf("unknown protocol")
	errIllegalChar     = pkg.MakeErrorf("illegal character in URI")
)

func parseURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}

	if u.Scheme == "" {
		return nil, errNoProtocol.Wrapf("%s", s)
	}

	if !protocols[strings.ToLower(u.Scheme)] {
		return nil, errUnknownProtocol.Wrapf("%s", u.Scheme)
	}

	return u, nil
}

// toURI re-derives a URI from u, rejecting URLs whose textual form contains
// characters a URI may not carry unescaped.
func toURI(u *url.URL) (*url.URL, error) {
	text := u.String()

	for _, r := range text {
		if r <= ' ' || r == 0x7f || r == '"' || r == '<' || r == '>' ||
			r == '\\' || r == '^' || r == '`' || r == '{' || r == '|' ||
			r == '}' {
			return nil, errIllegalChar.Wrapf("%q", r)
		}
	}

	return url.Parse(text)
}

type versionElement struct{ Base }

// Version returns an element that parses one token as a semantic version.
// A leading "v" is accepted.
func Version(key string) Element[*semver.Version] {
	return versionElement{NewBase(key)}
}

func (versionElement) Parse(
	_ context.Context,
	_ Source,
	s *Stream,
) (*semver.Version, error) {
	tok, err := s.Next()
	if err != nil {
		return nil, err
	}

	v, perr := semver.NewVersion(tok)
	if perr != nil {
		return nil, s.NewError(MalformedInput, "Invalid version!").Wrap(perr)
	}

	return v, nil
}
