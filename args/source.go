package args

import "net/netip"

// Source is the entity on whose behalf a command is being parsed.
type Source interface {
	Name() string
}

// Connection is implemented by sources backed by a live network connection.
type Connection interface {
	Source
	RemoteAddr() netip.Addr
}

// RemoteAddr returns the remote address of src and true if src is a
// [Connection] with a valid address. Otherwise it returns false.
func RemoteAddr(src Source) (netip.Addr, bool) {
	conn, ok := src.(Connection)
	if !ok {
		return netip.Addr{}, false
	}

	addr := conn.RemoteAddr()

	return addr, addr.IsValid()
}

// Console is a [Source] without a network connection, such as a local
// operator or a script.
type Console string

// Name implements [Source].
func (c Console) Name() string { return string(c) }

// Remote is a [Connection] source identified by name and remote address.
type Remote struct {
	ID   string
	Addr netip.Addr
}

// Name implements [Source].
func (r Remote) Name() string { return r.ID }

// RemoteAddr implements [Connection].
func (r Remote) RemoteAddr() netip.Addr { return r.Addr }
