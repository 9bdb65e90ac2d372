package transport

import (
	"context"
	"net"
	"time"
)

var _ Transport = new(Plain)

type Plain struct {
	conn net.Conn
	bufs net.Buffers
}

func NewPlain(conn net.Conn) *Plain {
	return &Plain{
		conn: conn,
		bufs: make(net.Buffers, 0, 16),
	}
}

func (p *Plain) Handshake(context.Context) error {
	return nil
}

func (p *Plain) Read(b []byte) (int, error) {
	return p.conn.Read(b)
}

// Write sends all the segments in a single vectored write when the underlying connection
// supports it.
func (p *Plain) Write(segs [][]byte) (int, error) {
	p.bufs = append(p.bufs[:0], segs...)
	// WriteTo advances the slice header, so iterate over a copy of it
	bufs := p.bufs
	n, err := bufs.WriteTo(p.conn)
	clear(p.bufs)

	return int(n), err
}

func (p *Plain) SetDeadline(t time.Time) error {
	return p.conn.SetDeadline(t)
}

// Shutdown shuts down both directions of a TCP stream without releasing the descriptor.
// Connections not supporting half-close are left intact until Stop.
func (p *Plain) Shutdown(time.Duration) error {
	if cw, ok := p.conn.(closeWriter); ok {
		if err := cw.CloseWrite(); err != nil {
			return err
		}
	}

	if cr, ok := p.conn.(closeReader); ok {
		return cr.CloseRead()
	}

	return nil
}

func (p *Plain) Stop() error {
	return p.conn.Close()
}

func (p *Plain) Remote() net.Addr {
	return p.conn.RemoteAddr()
}

func (p *Plain) Secure() bool {
	return false
}

func (p *Plain) Conn() net.Conn {
	return p.conn
}
