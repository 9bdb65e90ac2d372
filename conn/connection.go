// Package conn drives accepted connections through the request-response cycle and keeps
// track of the live ones.
package conn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/engine/config"
	"github.com/indigo-web/engine/handler"
	"github.com/indigo-web/engine/http"
	"github.com/indigo-web/engine/http/status"
	"github.com/indigo-web/engine/internal/parser"
	"github.com/indigo-web/engine/internal/segments"
	"github.com/indigo-web/engine/internal/strutil"
	"github.com/indigo-web/engine/internal/timer"
	"github.com/indigo-web/engine/metrics"
	"github.com/indigo-web/engine/transport"
	"go.uber.org/zap"
)

// Connection serves requests coming over a single transport, one at a time. Reading,
// dispatching and writing strictly alternate, so its state is never touched concurrently
// except for Stop, which only closes the transport.
type Connection struct {
	id        string
	cfg       *config.Config
	transport transport.Transport
	handler   handler.Handler
	log       *zap.Logger
	metrics   *metrics.Metrics

	parser    *parser.Parser
	request   *http.Request
	response  *http.Response
	queue     *segments.Queue
	buff      []byte
	keepAlive bool
	started   time.Time

	state   atomic.Uint32
	served  atomic.Uint64
	stopped atomic.Bool
	once    sync.Once
	since   time.Time
	done    chan struct{}
	err     error
}

func New(
	cfg *config.Config, t transport.Transport, h handler.Handler, log *zap.Logger, m *metrics.Metrics,
) *Connection {
	id := uniuri.NewLen(8)
	c := &Connection{
		id:        id,
		cfg:       cfg,
		transport: t,
		handler:   h,
		log:       log.With(zap.String("conn", id), zap.String("remote", addrString(t.Remote()))),
		metrics:   m,
		parser:    parser.New(cfg),
		request:   http.NewRequest(),
		response:  http.NewResponse(),
		queue:     segments.New(32),
		buff:      make([]byte, cfg.NET.ReadBufferSize),
		since:     time.Now(),
		done:      make(chan struct{}),
	}

	c.request.Remote = t.Remote()
	c.request.Secure = t.Secure()
	if !t.Secure() {
		c.state.Store(uint32(Reading))
	}

	return c
}

func (c *Connection) ID() string {
	return c.id
}

// State may be observed from any goroutine.
func (c *Connection) State() State {
	return State(c.state.Load())
}

// Done is closed once the connection is closed and deregistered.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// Err returns the reason the connection was closed for. It's nil if the connection was
// closed gracefully, because either side didn't want to keep it alive. Must be called
// only after Done is closed.
func (c *Connection) Err() error {
	return c.err
}

// serve runs the connection until it's closed, then removes it from the registry.
func (c *Connection) serve(r *Registry) {
	defer close(c.done)

	c.metrics.Accepted(c.transport.Secure())
	c.log.Debug("accepted", zap.Bool("secure", c.transport.Secure()))

	c.err = c.run()
	reason := c.report(c.err)
	r.Stop(c)
	c.state.Store(uint32(Closed))
	c.metrics.Closed(reason)
}

func (c *Connection) run() error {
	if c.stopped.Load() {
		return ErrStopped
	}

	if err := c.handshake(); err != nil {
		return err
	}

	for {
		err := c.read()
		if err == nil {
			err = c.write()
		}

		if err != nil {
			if errors.Is(err, ErrTimeoutExpiry) {
				c.shutdown()
			}

			return err
		}

		if !c.keepAlive {
			c.shutdown()
			return nil
		}

		c.reuse()
	}
}

func (c *Connection) handshake() error {
	if !c.transport.Secure() {
		return nil
	}

	c.setState(Handshaking)
	if err := c.transport.SetDeadline(timer.Deadline(c.cfg.NET.HandshakeTimeout)); err != nil {
		return c.ioError(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.NET.HandshakeTimeout)
	defer cancel()

	if err := c.transport.Handshake(ctx); err != nil {
		if c.stopped.Load() {
			return ErrStopped
		}

		return fmt.Errorf("%w: %w", ErrHandshakeFailure, err)
	}

	if tls, ok := c.transport.(interface{ Version() string }); ok {
		c.log.Debug("handshake completed", zap.String("version", tls.Version()))
	}

	return nil
}

// read receives data until the parser either passes or fails the request. In both cases
// the response is ready to be written once it returns without an error.
func (c *Connection) read() error {
	c.setState(Reading)

	for {
		if err := c.transport.SetDeadline(timer.Deadline(c.readTimeout())); err != nil {
			return c.ioError(err)
		}

		n, err := c.transport.Read(c.buff)
		if err != nil {
			return c.ioError(err)
		}

		data := c.buff[:n]
		switch result, _ := c.parser.Parse(c.request, data); result {
		case parser.Continue:
		case parser.Pass:
			c.dispatch()
			return nil
		case parser.Fail:
			c.malformed(data)
			return nil
		}
	}
}

func (c *Connection) dispatch() {
	c.setState(Dispatching)
	c.started = time.Now()
	c.request.Finalize()
	c.keepAlive = c.request.KeepAlive

	c.log.Debug(
		"request",
		zap.String("method", c.request.Method),
		zap.String("target", c.request.Target),
		zap.String("proto", fmt.Sprintf("HTTP/%d.%d", c.request.Major, c.request.Minor)),
	)

	if err := c.invoke(); err != nil {
		c.log.Debug("handler declined the request", zap.Error(err))
	}
}

func (c *Connection) invoke() (err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("handler panicked", zap.Any("panic", r), zap.Stack("stack"))
			c.response.Stock(status.InternalServerError)
			err = status.ErrInternalServerError
		}
	}()

	return handler.Dispatch(c.handler, c.request, c.response)
}

// malformed prepares the 400 response. The keep-alive flag isn't touched, so the
// connection stays open only if the previous request asked for it.
func (c *Connection) malformed(data []byte) {
	c.setState(Dispatching)
	c.started = time.Now()
	c.metrics.ParseFailed()
	c.log.Warn(
		"rejecting request",
		zap.Error(ErrParseFailure),
		zap.String("at", c.parser.FailedAt()),
		zap.String("data", strutil.Escape(data)),
	)
	c.response.Stock(status.BadRequest)
}

// write sends the response, resuming after every partial send until nothing is left.
func (c *Connection) write() error {
	c.setState(Writing)
	c.response.Prepare(c.keepAlive, c.cfg.Headers.Default)
	c.response.AppendSegments(c.queue)
	c.log.Debug("response", zap.String("status", strings.TrimSpace(status.Line(c.response.Code))))

	for !c.queue.Empty() {
		if err := c.transport.SetDeadline(timer.Deadline(c.writeTimeout())); err != nil {
			return c.ioError(err)
		}

		n, err := c.transport.Write(c.queue.Pending())
		c.queue.Consume(n)
		c.metrics.Written(n)
		c.log.Debug("sent", zap.Int("bytes", n), zap.Int("left", c.queue.Len()))

		switch {
		case err != nil:
			return c.ioError(err)
		case n == 0:
			return fmt.Errorf("%w: %w", ErrTransportFailure, io.ErrShortWrite)
		}
	}

	c.served.Add(1)
	c.metrics.Responded(c.response.Code, c.started)

	return nil
}

func (c *Connection) reuse() {
	c.parser.Reset()
	c.request.Clear()
	c.response.Clear()
	c.queue.Clear()
	c.log.Debug("keeping alive")
}

// shutdown closes the transport gracefully. The transport is released by the registry
// afterward anyway, so failures are only logged.
func (c *Connection) shutdown() {
	if err := c.transport.Shutdown(c.cfg.NET.ShutdownTimeout); err != nil && !c.stopped.Load() {
		c.log.Debug("graceful shutdown failed", zap.Error(err))
	}
}

// stop closes the transport immediately. Safe to call multiple times and concurrently
// with serve.
func (c *Connection) stop() {
	c.once.Do(func() {
		c.stopped.Store(true)
		c.setState(Closed)

		if err := c.transport.Stop(); err != nil && !errors.Is(err, net.ErrClosed) {
			c.log.Debug("closing transport", zap.Error(err))
		}
	})
}

func (c *Connection) readTimeout() time.Duration {
	if c.transport.Secure() || c.served.Load() > 0 {
		return c.cfg.NET.IdleTimeout
	}

	return c.cfg.NET.ActiveTimeout
}

func (c *Connection) writeTimeout() time.Duration {
	if c.transport.Secure() {
		return c.cfg.NET.IdleTimeout
	}

	return c.cfg.NET.ActiveTimeout
}

func (c *Connection) ioError(err error) error {
	switch {
	case c.stopped.Load():
		return ErrStopped
	case errors.Is(err, os.ErrDeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrTimeoutExpiry, err)
	default:
		return fmt.Errorf("%w: %w", ErrTransportFailure, err)
	}
}

// report logs the terminal error and returns the close reason for metrics.
func (c *Connection) report(err error) string {
	served := zap.Uint64("served", c.served.Load())

	switch {
	case err == nil:
		c.log.Debug("closed", served)
		return metrics.ReasonClose
	case errors.Is(err, ErrStopped):
		c.log.Debug("stopped", served)
		return metrics.ReasonStopped
	case errors.Is(err, ErrTimeoutExpiry):
		c.log.Info("timed out", served, zap.Stringer("state", c.State()))
		return metrics.ReasonTimeout
	case errors.Is(err, ErrHandshakeFailure):
		c.log.Error("handshake failed", zap.Error(err))
		return metrics.ReasonHandshake
	case errors.Is(err, io.EOF):
		c.log.Debug("closed by peer", served)
		return metrics.ReasonClose
	default:
		c.log.Warn("transport failed", served, zap.Error(err))
		return metrics.ReasonTransport
	}
}

func (c *Connection) setState(state State) {
	if c.stopped.Load() {
		state = Closed
	}

	c.state.Store(uint32(state))
}

// Info is a point-in-time description of the connection.
type Info struct {
	ID     string    `json:"id"`
	Remote string    `json:"remote"`
	Secure bool      `json:"secure"`
	State  string    `json:"state"`
	Served uint64    `json:"served"`
	Since  time.Time `json:"since"`
}

func (c *Connection) Info() Info {
	return Info{
		ID:     c.id,
		Remote: addrString(c.transport.Remote()),
		Secure: c.transport.Secure(),
		State:  c.State().String(),
		Served: c.served.Load(),
		Since:  c.since,
	}
}

func addrString(addr net.Addr) string {
	if addr == nil {
		return ""
	}

	return addr.String()
}
