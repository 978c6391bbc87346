package bundle

import (
	"context"
	"maps"
	"net/url"
	"slices"
	"strings"
	"sync"
)

// Mux dispatches resolution to the [Resolver] registered for a URI's scheme.
// A Mux is safe for concurrent use.
type Mux struct {
	mu       sync.RWMutex
	resolver map[string]Resolver
}

// NewMux returns an empty Mux.
func NewMux() *Mux {
	return &Mux{resolver: make(map[string]Resolver)}
}

// DefaultMux returns a Mux resolving file, http, and https URIs.
func DefaultMux() *Mux {
	m := NewMux()
	m.Handle("file", FileResolver{})
	m.Handle("http", HTTPResolver{})
	m.Handle("https", HTTPResolver{})

	return m
}

// Handle registers r for scheme, replacing any resolver registered before.
// Schemes are case-insensitive.
func (m *Mux) Handle(scheme string, r Resolver) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.resolver == nil {
		m.resolver = make(map[string]Resolver)
	}

	m.resolver[strings.ToLower(scheme)] = r
}

// Schemes returns the registered schemes in sorted order.
func (m *Mux) Schemes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return slices.Sorted(maps.Keys(m.resolver))
}

// Resolve resolves uri with the resolver registered for its scheme.
func (m *Mux) Resolve(ctx context.Context, uri *url.URL) (*Bundle, error) {
	m.mu.RLock()
	r, ok := m.resolver[strings.ToLower(uri.Scheme)]
	m.mu.RUnlock()

	if !ok {
		return nil, ErrUnsupportedScheme.Wrapf("%q", uri.Scheme)
	}

	return r.Resolve(ctx, uri)
}
