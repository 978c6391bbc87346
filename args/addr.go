package args

import (
	"context"
	"log/slog"
	"net/netip"

	"github.com/ardnew/argot/log"
	"github.com/ardnew/argot/pkg"
)

var errNoAddress = pkg.MakeErrorf("host has no addresses")

type addrElement struct {
	Base
	config

	self bool
}

// IP returns an element that parses one token as an IP address or resolves it
// as a host name.
func IP(key string, opts ...Option) Element[netip.Addr] {
	return addrElement{Base: NewBase(key), config: makeConfig(opts...)}
}

// IPOrSource is like [IP] but falls back to the remote address of the source
// when it is a [Connection]: if no tokens remain, or if the next token does
// not resolve. A token that failed to resolve is left unconsumed.
func IPOrSource(key string, opts ...Option) Element[netip.Addr] {
	return addrElement{
		Base:   NewBase(key),
		config: makeConfig(opts...),
		self:   true,
	}
}

func (e addrElement) Parse(
	ctx context.Context,
	src Source,
	s *Stream,
) (netip.Addr, error) {
	if !s.HasNext() && e.self {
		if addr, ok := RemoteAddr(src); ok {
			return addr, nil
		}

		return netip.Addr{}, s.NewError(ExhaustedInput,
			"No IP address was specified, and source was not a connection!")
	}

	cp := s.Checkpoint()

	tok, err := s.Next()
	if err != nil {
		return netip.Addr{}, err
	}

	addr, rerr := e.lookup(ctx, tok)
	if rerr == nil {
		return addr, nil
	}

	if !e.self {
		return netip.Addr{}, s.NewError(MalformedInput, "Invalid IP address!").
			Wrap(rerr)
	}

	own, ok := RemoteAddr(src)
	if !ok {
		return netip.Addr{}, s.NewError(MalformedInput,
			"Invalid IP address, and source was not a connection!").Wrap(rerr)
	}

	if err := s.Restore(cp); err != nil {
		return netip.Addr{}, err
	}

	log.TraceContext(ctx, "address fallback to source",
		slog.String("key", e.Key()),
		slog.String("input", tok),
		slog.String("source", src.Name()),
		slog.String("addr", own.String()),
	)

	return own, nil
}

// lookup parses host as an address literal, or resolves it with the
// configured resolver and returns the first address found.
func (e addrElement) lookup(ctx context.Context, host string) (netip.Addr, error) {
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr, nil
	}

	addrs, err := e.resolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return netip.Addr{}, err
	}

	if len(addrs) == 0 {
		return netip.Addr{}, errNoAddress.Wrapf("%s", host)
	}

	return addrs[0].Unmap(), nil
}

func (e addrElement) Usage(src Source) string {
	if _, ok := RemoteAddr(src); ok && e.self {
		return "[" + e.Base.Usage(src) + "]"
	}

	return e.Base.Usage(src)
}
