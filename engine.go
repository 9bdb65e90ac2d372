// Package engine serves HTTP/1.1 over plain TCP and TLS, delegating response production
// to a handler.
package engine

import (
	"crypto/tls"
	"net"
	"sync/atomic"

	"github.com/indigo-web/engine/config"
	"github.com/indigo-web/engine/conn"
	"github.com/indigo-web/engine/handler"
	"github.com/indigo-web/engine/internal/strutil"
	"github.com/indigo-web/engine/metrics"
	"github.com/indigo-web/engine/transport"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type Server struct {
	cfg      *config.Config
	handler  handler.Handler
	log      *zap.Logger
	metrics  *metrics.Metrics
	registry *conn.Registry
	sup      *transport.Supervisor
	running  *atomic.Bool
	done     chan struct{}
}

// New returns a server with default config, which doesn't log and doesn't export any
// metrics. Nil handler responds 404 to everything.
func New(h handler.Handler) *Server {
	if h == nil {
		h = handler.NotFound
	}

	log := zap.NewNop()

	return &Server{
		cfg:      config.Default(),
		handler:  h,
		log:      log,
		metrics:  metrics.Nop(),
		registry: conn.NewRegistry(log),
		sup:      transport.NewSupervisor(),
		running:  new(atomic.Bool),
		done:     make(chan struct{}),
	}
}

// Tune replaces the default config. Must be called before Serve.
func (s *Server) Tune(cfg *config.Config) *Server {
	s.cfg = cfg
	return s
}

// Logger replaces the no-op logger. Must be called before Serve.
func (s *Server) Logger(log *zap.Logger) *Server {
	s.log = log
	s.registry = conn.NewRegistry(log)
	return s
}

// Metrics registers the engine's collectors at reg. Must be called at most once and
// before Serve.
func (s *Server) Metrics(reg prometheus.Registerer) *Server {
	s.metrics = metrics.New(reg)
	return s
}

// Listen binds a plain TCP listener. Returns an error if the address can't be bound.
func (s *Server) Listen(addr string) error {
	return s.sup.Add(strutil.NormalizeAddress(addr), transport.NewTCP(), s.onConn)
}

// ListenTLS binds a TLS listener. The handshake is performed by each connection on its own,
// bounded by the handshake timeout.
func (s *Server) ListenTLS(addr string, tlsConfig *tls.Config) error {
	return s.sup.Add(strutil.NormalizeAddress(addr), transport.NewTLSListener(tlsConfig), s.onConn)
}

// Addrs returns addresses of every bound listener.
func (s *Server) Addrs() []net.Addr {
	listeners := s.sup.Listeners()
	addrs := make([]net.Addr, len(listeners))
	for i, l := range listeners {
		addrs[i] = l.Addr()
	}

	return addrs
}

// Registry exposes the live connections.
func (s *Server) Registry() *conn.Registry {
	return s.registry
}

// Serve accepts connections on every bound listener until Stop is called or any of the
// listeners fails. Before returning, every live connection is stopped and waited for.
func (s *Server) Serve() error {
	defer close(s.done)

	for _, l := range s.sup.Listeners() {
		scheme := "http"
		if _, secure := l.(*transport.TLSListener); secure {
			scheme = "https"
		}

		s.log.Info("listening", zap.String("url", scheme+"://"+strutil.DisplayAddress(l.Addr().String())))
	}

	s.running.Store(true)
	err := s.sup.Run(s.cfg.NET)
	if err != nil {
		s.log.Error("listener failed", zap.Error(err))
	}

	s.registry.StopAll()
	s.sup.Wait()
	s.log.Info("stopped")

	return err
}

// Stop stops accepting new connections and blocks until Serve has stopped all the live
// ones and returned. Does nothing if the server isn't running.
func (s *Server) Stop() {
	if s.running.Swap(false) {
		s.sup.Stop()
		<-s.done
	}
}

func (s *Server) onConn(t transport.Transport) {
	s.registry.Start(conn.New(s.cfg, t, s.handler, s.log, s.metrics))
}
