package args

import (
	"context"
	"net"
	"net/netip"
	"time"
)

// Option applies a configuration option to config.
type Option func(config) config

// apply applies multiple options to a config.
func apply(cfg config, opts ...Option) config {
	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return cfg
}

// Resolver looks up the addresses of a host. [*net.Resolver] satisfies
// Resolver.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// config holds the settings shared by elements that consult the clock or the
// network. Each element reads only the fields relevant to it.
type config struct {
	now      func() time.Time
	location *time.Location
	resolver Resolver
	prefix   rune
}

func makeConfig(opts ...Option) config {
	return apply(config{
		now:      time.Now,
		location: time.Local,
		resolver: net.DefaultResolver,
		prefix:   '&',
	}, opts...)
}

// WithClock sets the function date-time elements use to read the current time.
func WithClock(now func() time.Time) Option {
	return func(c config) config {
		if now != nil {
			c.now = now
		}

		return c
	}
}

// WithLocation sets the time zone date-time elements interpret input in.
func WithLocation(loc *time.Location) Option {
	return func(c config) config {
		if loc != nil {
			c.location = loc
		}

		return c
	}
}

// WithResolver sets the resolver address elements use for host names.
func WithResolver(r Resolver) Option {
	return func(c config) config {
		if r != nil {
			c.resolver = r
		}

		return c
	}
}

// WithCodePrefix sets the rune that introduces a legacy formatting code in
// plain text elements.
func WithCodePrefix(r rune) Option {
	return func(c config) config {
		c.prefix = r

		return c
	}
}
