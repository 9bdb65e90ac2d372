package transport

import (
	"context"
	"crypto/tls"
	"net"
	"time"

	"github.com/indigo-web/engine/internal/timer"
)

var _ Transport = new(TLS)

// TLS wraps a not yet negotiated server-side tls.Conn.
type TLS struct {
	conn    *tls.Conn
	scratch []byte
}

// NewTLS wraps conn. Segments are coalesced into a buffer of writeBuffSize bytes before
// being encrypted, so a single Write never covers more than that.
func NewTLS(conn *tls.Conn, writeBuffSize int) *TLS {
	return &TLS{
		conn:    conn,
		scratch: make([]byte, 0, writeBuffSize),
	}
}

func (t *TLS) Handshake(ctx context.Context) error {
	return t.conn.HandshakeContext(ctx)
}

func (t *TLS) Read(b []byte) (int, error) {
	return t.conn.Read(b)
}

// Write encrypts as many segments as fit into the coalescing buffer as a single record
// sequence. Each tls.Conn.Write emits at least one record, so writing segments one by one
// would produce lots of tiny records for the header lines.
func (t *TLS) Write(segs [][]byte) (int, error) {
	buff := t.scratch[:0]

	for _, seg := range segs {
		free := cap(buff) - len(buff)
		if free == 0 {
			break
		}

		if len(seg) > free {
			seg = seg[:free]
		}

		buff = append(buff, seg...)
	}

	t.scratch = buff
	return t.conn.Write(buff)
}

func (t *TLS) SetDeadline(tm time.Time) error {
	return t.conn.SetDeadline(tm)
}

// Shutdown sends close_notify and waits up to timeout for the peer to answer with its own,
// after which both directions of the underlying socket are shut down.
func (t *TLS) Shutdown(timeout time.Duration) error {
	if err := t.conn.SetDeadline(timer.Deadline(timeout)); err != nil {
		return err
	}

	if err := t.conn.CloseWrite(); err != nil {
		return err
	}

	var discard [512]byte
	for {
		if _, err := t.conn.Read(discard[:]); err != nil {
			break
		}
	}

	if cr, ok := t.conn.NetConn().(closeReader); ok {
		_ = cr.CloseRead()
	}

	return nil
}

// Stop closes the underlying socket without sending close_notify.
func (t *TLS) Stop() error {
	return t.conn.NetConn().Close()
}

func (t *TLS) Remote() net.Addr {
	return t.conn.RemoteAddr()
}

func (t *TLS) Secure() bool {
	return true
}

// Version returns the negotiated protocol version name, e.g. "TLS 1.3". Valid only
// after a successful handshake.
func (t *TLS) Version() string {
	return tls.VersionName(t.conn.ConnectionState().Version)
}
