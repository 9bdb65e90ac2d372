package main

import (
	"net"
	"testing"

	"github.com/indigo-web/engine/config"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestRun(t *testing.T) {
	t.Run("listen failure is returned", func(t *testing.T) {
		busy, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer func() {
			_ = busy.Close()
		}()

		err = run(zaptest.NewLogger(t), config.Default(), options{
			addr: busy.Addr().String(),
			root: t.TempDir(),
		})
		require.Error(t, err)
		require.Contains(t, err.Error(), busy.Addr().String())
	})
}
