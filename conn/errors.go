package conn

import "errors"

var (
	// ErrParseFailure is logged whenever the request is malformed. The connection recovers
	// from it by responding with 400.
	ErrParseFailure = errors.New("malformed request")
	// ErrTransportFailure wraps I/O errors, including the peer closing the connection.
	ErrTransportFailure = errors.New("transport failure")
	ErrHandshakeFailure = errors.New("handshake failure")
	ErrTimeoutExpiry    = errors.New("idle timeout expired")
	// ErrStopped is the terminal error of connections closed by the registry.
	ErrStopped = errors.New("connection stopped")
)
