package transport

import (
	"crypto/tls"
	"errors"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/indigo-web/engine/config"
	"github.com/indigo-web/engine/internal/timer"
)

// Listener accepts streams and hands each one over to the callback, running in its own
// goroutine.
type Listener interface {
	Bind(addr string) error
	Listen(cfg config.NET, cb func(Transport)) error
	Addr() net.Addr
	Stop()
	Close()
	Wait()
}

type listener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

var _ Listener = new(TCP)

type TCP struct {
	l    listener
	wrap func(conn net.Conn, cfg config.NET) Transport
	wg   *sync.WaitGroup
	stop *atomic.Bool
}

func NewTCP() *TCP {
	tcp := newTCP(func(conn net.Conn, _ config.NET) Transport {
		return NewPlain(conn)
	})
	return &tcp
}

func newTCP(wrap func(net.Conn, config.NET) Transport) TCP {
	return TCP{
		wrap: wrap,
		wg:   new(sync.WaitGroup),
		stop: new(atomic.Bool),
	}
}

func bindTCP(addr string) (*net.TCPListener, error) {
	tcpaddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}

	// the Go runtime sets SO_REUSEADDR on listening sockets by itself
	return net.ListenTCP("tcp", tcpaddr)
}

func (t *TCP) Bind(addr string) error {
	l, err := bindTCP(addr)
	if err != nil {
		return err
	}

	t.l = l
	return nil
}

// Addr returns the bound address. Useful when bound to port 0.
func (t *TCP) Addr() net.Addr {
	if t.l == nil {
		return nil
	}

	return t.l.Addr()
}

func (t *TCP) Listen(cfg config.NET, cb func(Transport)) error {
	for !t.stop.Load() {
		err := t.l.SetDeadline(timer.Deadline(cfg.AcceptLoopInterruptPeriod))
		if err != nil {
			if t.stop.Load() {
				return nil
			}

			return err
		}

		conn, err := t.l.Accept()
		if err != nil {
			switch {
			case errors.Is(err, os.ErrDeadlineExceeded):
				continue
			case t.stop.Load() && errors.Is(err, net.ErrClosed):
				return nil
			}

			return err
		}

		t.wg.Add(1)
		go func(transport Transport) {
			defer t.wg.Done()
			cb(transport)
		}(t.wrap(conn, cfg))
	}

	return nil
}

// Stop breaks the accept loop. Already accepted connections are left untouched.
func (t *TCP) Stop() {
	t.stop.Store(true)
	t.Close()
}

func (t *TCP) Close() {
	if t.l != nil {
		_ = t.l.Close()
	}
}

// Wait blocks until every callback spawned by Listen has returned.
func (t *TCP) Wait() {
	t.wg.Wait()
}

var _ Listener = new(TLSListener)

// TLSListener accepts TCP connections and wraps them into server-side TLS sessions. The
// handshake isn't performed at accept time, it is up to the transport's owner.
type TLSListener struct {
	config *tls.Config
	TCP
}

func NewTLSListener(tlsConfig *tls.Config) *TLSListener {
	return &TLSListener{
		config: tlsConfig,
		TCP: newTCP(func(conn net.Conn, cfg config.NET) Transport {
			return NewTLS(tls.Server(conn, tlsConfig), cfg.WriteBufferSize)
		}),
	}
}
