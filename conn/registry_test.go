package conn

import (
	"testing"
	"time"

	"github.com/indigo-web/engine/metrics"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	t.Run("stop", func(t *testing.T) {
		e := newEnv(t)
		tr := newTransportMock()
		c := e.start(tr, hello)
		require.Eventually(t, func() bool {
			return e.registry.Len() == 1
		}, time.Second, time.Millisecond)

		e.registry.Stop(c)
		wait(t, c)
		require.ErrorIs(t, c.Err(), ErrStopped)
		require.Equal(t, Closed, c.State())
		require.Zero(t, e.registry.Len())
		require.Zero(t, tr.Shutdowns())

		// stopping an absent connection is a no-op
		e.registry.Stop(c)
		require.Zero(t, e.registry.Len())
	})

	t.Run("stop unregistered", func(t *testing.T) {
		e := newEnv(t)
		tr := newTransportMock()
		c := New(e.cfg, tr, hello, e.log, metrics.Nop())

		e.registry.Stop(c)
		select {
		case <-tr.stopped:
		default:
			require.Fail(t, "transport must be closed")
		}

		require.Equal(t, Closed, c.State())
		require.Zero(t, e.registry.Len())
	})

	t.Run("stop all", func(t *testing.T) {
		e := newEnv(t)
		conns := make([]*Connection, 5)
		for i := range conns {
			conns[i] = e.start(newTransportMock(), hello)
		}

		require.Eventually(t, func() bool {
			return e.registry.Len() == len(conns)
		}, time.Second, time.Millisecond)

		snapshot := e.registry.Snapshot()
		require.Len(t, snapshot, len(conns))
		for _, info := range snapshot {
			require.Equal(t, "127.0.0.1:54321", info.Remote)
			require.Len(t, info.ID, 8)
			require.False(t, info.Secure)
		}

		e.registry.StopAll()
		require.Zero(t, e.registry.Len())

		for _, c := range conns {
			wait(t, c)
			require.ErrorIs(t, c.Err(), ErrStopped)
		}
	})

	t.Run("start after stop all", func(t *testing.T) {
		e := newEnv(t)
		e.registry.StopAll()

		tr := newTransportMock("GET / HTTP/1.1\r\n\r\n")
		c := New(e.cfg, tr, hello, e.log, metrics.Nop())
		e.registry.Start(c)

		require.ErrorIs(t, c.Err(), ErrStopped)
		require.Empty(t, tr.Written())
		require.Zero(t, e.registry.Len())
	})

	t.Run("range", func(t *testing.T) {
		e := newEnv(t)
		conns := make([]*Connection, 3)
		for i := range conns {
			conns[i] = e.start(newTransportMock(), hello)
		}

		require.Eventually(t, func() bool {
			return e.registry.Len() == 3
		}, time.Second, time.Millisecond)

		var visited int
		e.registry.Range(func(*Connection) bool {
			visited++
			return false
		})
		require.Equal(t, 1, visited)

		e.registry.StopAll()
		for _, c := range conns {
			wait(t, c)
		}
	})
}
