package conn

import (
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
)

// Registry owns the set of live connections.
type Registry struct {
	conns  *xsync.MapOf[*Connection, struct{}]
	closed atomic.Bool
	log    *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		conns: xsync.NewMapOf[*Connection, struct{}](),
		log:   log,
	}
}

// Start registers the connection and serves it in the calling goroutine, so it returns
// only after the connection is closed. Connections started after StopAll are stopped
// straight away.
func (r *Registry) Start(c *Connection) {
	r.conns.Store(c, struct{}{})
	if r.closed.Load() {
		r.Stop(c)
	}

	c.serve(r)
}

// Stop deregisters the connection and closes its transport. The transport is closed
// even if the connection isn't registered (anymore), stopping twice is a no-op.
func (r *Registry) Stop(c *Connection) {
	r.conns.Delete(c)
	c.stop()
}

// StopAll stops every registered connection. It doesn't wait for them to finish, use
// Connection.Done for this.
func (r *Registry) StopAll() {
	r.closed.Store(true)

	snapshot := make([]*Connection, 0, r.conns.Size())
	r.conns.Range(func(c *Connection, _ struct{}) bool {
		snapshot = append(snapshot, c)
		return true
	})

	r.log.Info("stopping connections", zap.Int("count", len(snapshot)))

	for _, c := range snapshot {
		r.Stop(c)
	}

	r.conns.Clear()
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	return r.conns.Size()
}

// Range calls fn for every live connection until fn returns false.
func (r *Registry) Range(fn func(c *Connection) bool) {
	r.conns.Range(func(c *Connection, _ struct{}) bool {
		return fn(c)
	})
}

// Snapshot describes every live connection.
func (r *Registry) Snapshot() []Info {
	infos := make([]Info, 0, r.conns.Size())
	r.Range(func(c *Connection) bool {
		infos = append(infos, c.Info())
		return true
	})

	return infos
}
