package engine

import (
	"bufio"
	"crypto/tls"
	"io"
	"net"
	stdhttp "net/http"
	"strings"
	"testing"
	"time"

	"github.com/indigo-web/engine/config"
	"github.com/indigo-web/engine/handler"
	"github.com/indigo-web/engine/http"
	"github.com/indigo-web/engine/http/status"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var echo = handler.HandlerFunc(func(request *http.Request, response *http.Response) error {
	if request.Target == "/missing" {
		return status.ErrNotFound
	}

	response.
		ContentType("text/plain").
		Header("X-Method", request.Method).
		String("you asked for " + request.Target)

	return nil
})

func run(t *testing.T, s *Server) <-chan error {
	errch := make(chan error, 1)
	go func() {
		errch <- s.Serve()
	}()

	t.Cleanup(func() {
		s.Stop()
	})

	return errch
}

func newServer(t *testing.T) *Server {
	cfg := config.Default()
	cfg.NET.AcceptLoopInterruptPeriod = 100 * time.Millisecond
	cfg.Headers.Default["Server"] = "engine"

	return New(echo).Tune(cfg).Logger(zaptest.NewLogger(t))
}

func TestServer(t *testing.T) {
	t.Run("plain", func(t *testing.T) {
		s := newServer(t)
		require.NoError(t, s.Listen("127.0.0.1:0"))
		run(t, s)

		url := "http://" + s.Addrs()[0].String()
		resp, err := stdhttp.Get(url + "/hello")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())

		require.Equal(t, stdhttp.StatusOK, resp.StatusCode)
		require.Equal(t, "you asked for /hello", string(body))
		require.Equal(t, "GET", resp.Header.Get("X-Method"))
		require.Equal(t, "engine", resp.Header.Get("Server"))

		resp, err = stdhttp.Get(url + "/missing")
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, stdhttp.StatusNotFound, resp.StatusCode)
	})

	t.Run("keep-alive over raw socket", func(t *testing.T) {
		s := newServer(t)
		require.NoError(t, s.Listen("127.0.0.1:0"))
		run(t, s)

		conn, err := net.Dial("tcp", s.Addrs()[0].String())
		require.NoError(t, err)
		defer conn.Close()

		reader := bufio.NewReader(conn)
		for _, target := range []string{"/a", "/b"} {
			_, err = conn.Write([]byte("GET " + target + " HTTP/1.1\r\nConnection: keep-alive\r\n\r\n"))
			require.NoError(t, err)

			resp, err := stdhttp.ReadResponse(reader, nil)
			require.NoError(t, err)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			require.Equal(t, "you asked for "+target, string(body))
			require.Equal(t, "keep-alive", resp.Header.Get("Connection"))
		}

		require.Equal(t, 1, s.Registry().Len())

		_, err = conn.Write([]byte("GET /\r\n\r\n"))
		require.NoError(t, err)
		resp, err := stdhttp.ReadResponse(reader, nil)
		require.NoError(t, err)
		require.Equal(t, stdhttp.StatusBadRequest, resp.StatusCode)
		require.NoError(t, resp.Body.Close())
	})

	t.Run("tls", func(t *testing.T) {
		cert, key, err := selfSignedCert(t.TempDir())
		require.NoError(t, err)
		tlsConfig, err := LoadTLS(cert, key)
		require.NoError(t, err)

		s := newServer(t)
		require.NoError(t, s.ListenTLS("127.0.0.1:0", tlsConfig))
		run(t, s)

		client := &stdhttp.Client{
			Transport: &stdhttp.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		}
		resp, err := client.Get("https://" + s.Addrs()[0].String() + "/secure")
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
		require.Equal(t, "you asked for /secure", string(body))
	})

	t.Run("stop", func(t *testing.T) {
		s := newServer(t)
		require.NoError(t, s.Listen("127.0.0.1:0"))
		errch := run(t, s)

		conn, err := net.Dial("tcp", s.Addrs()[0].String())
		require.NoError(t, err)
		defer conn.Close()

		require.Eventually(t, func() bool {
			return s.Registry().Len() == 1
		}, time.Second, 5*time.Millisecond)

		s.Stop()
		select {
		case err = <-errch:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			require.FailNow(t, "server did not stop")
		}

		require.Zero(t, s.Registry().Len())
		_, err = conn.Read(make([]byte, 1))
		require.Error(t, err)
	})

	t.Run("bad address", func(t *testing.T) {
		require.Error(t, New(nil).Listen("not an address"))
	})
}

func TestTLSHelpers(t *testing.T) {
	t.Run("self-signed is cached", func(t *testing.T) {
		dir := t.TempDir()
		cert, key, err := selfSignedCert(dir)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(cert, dir))

		again, _, err := selfSignedCert(dir)
		require.NoError(t, err)
		require.Equal(t, cert, again)

		_, err = LoadTLS(cert, key)
		require.NoError(t, err)
	})

	t.Run("no certificates", func(t *testing.T) {
		_, err := TLSConfig()
		require.ErrorIs(t, err, ErrNoCertificates)
		_, err = TLSConfig(tls.Certificate{})
		require.ErrorIs(t, err, ErrNoCertificates)
	})

	t.Run("is local", func(t *testing.T) {
		for _, addr := range []string{"localhost:443", ":443", "0.0.0.0:443", "127.0.0.1:8443", "[::1]:443"} {
			require.True(t, IsLocal(addr), addr)
		}

		require.False(t, IsLocal("example.com:443"))
		require.False(t, IsLocal("93.184.216.34:443"))
	})

	t.Run("autocert", func(t *testing.T) {
		t.Setenv("XDG_CACHE_HOME", t.TempDir())
		cfg := AutoTLS("example.com")
		require.NotNil(t, cfg.GetCertificate)
	})
}
