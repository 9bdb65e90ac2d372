// Package transport unifies plain and TLS-wrapped sockets under a single capability set,
// so the connection logic is written once regardless of the underlying stream.
package transport

import (
	"context"
	"net"
	"time"
)

// Transport is a single accepted stream. Read and Write are never called concurrently.
type Transport interface {
	// Handshake negotiates the secure session. Plain transports have nothing to negotiate.
	Handshake(ctx context.Context) error
	// Read issues exactly one receive.
	Read(b []byte) (int, error)
	// Write issues one send covering as much of segs as the transport accepts at once. The
	// returned count may be less than the total length of segs, in which case the caller
	// is expected to retry with the remainder.
	Write(segs [][]byte) (int, error)
	// SetDeadline bounds both pending and future reads and writes.
	SetDeadline(t time.Time) error
	// Shutdown gracefully closes the stream: half-close on plain connections, close-notify
	// on TLS ones. The timeout limits how long the peer may delay it.
	Shutdown(timeout time.Duration) error
	// Stop closes the stream immediately. Pending operations complete with an error.
	Stop() error
	Remote() net.Addr
	Secure() bool
}

// closeWriter is implemented by *net.TCPConn and *net.UnixConn.
type closeWriter interface {
	CloseWrite() error
}

type closeReader interface {
	CloseRead() error
}
