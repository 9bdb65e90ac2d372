package conn

import (
	"bytes"
	"context"
	"io"
	"net"
	"os"
	"sync"
	"time"
)

type transportMock struct {
	mu           sync.Mutex
	input        chan []byte
	written      bytes.Buffer
	writeSizes   []int
	maxWrite     int
	secure       bool
	handshakeErr error
	deadline     time.Time
	shutdowns    int
	stopOnce     sync.Once
	stopped      chan struct{}
}

func newTransportMock(chunks ...string) *transportMock {
	t := &transportMock{
		input:   make(chan []byte, 64),
		stopped: make(chan struct{}),
	}

	for _, chunk := range chunks {
		t.input <- []byte(chunk)
	}

	return t
}

func (t *transportMock) Send(chunk string) {
	t.input <- []byte(chunk)
}

// Hangup makes every subsequent read return io.EOF.
func (t *transportMock) Hangup() {
	close(t.input)
}

func (t *transportMock) Handshake(context.Context) error {
	return t.handshakeErr
}

func (t *transportMock) Read(b []byte) (int, error) {
	t.mu.Lock()
	deadline := t.deadline
	t.mu.Unlock()

	var timeout <-chan time.Time
	if !deadline.IsZero() {
		timeout = time.After(time.Until(deadline))
	}

	select {
	case chunk, ok := <-t.input:
		if !ok {
			return 0, io.EOF
		}

		return copy(b, chunk), nil
	case <-t.stopped:
		return 0, net.ErrClosed
	case <-timeout:
		return 0, os.ErrDeadlineExceeded
	}
}

func (t *transportMock) Write(segs [][]byte) (int, error) {
	select {
	case <-t.stopped:
		return 0, net.ErrClosed
	default:
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	var n int
	for _, seg := range segs {
		if t.maxWrite > 0 && n+len(seg) > t.maxWrite {
			seg = seg[:t.maxWrite-n]
		}

		t.written.Write(seg)
		n += len(seg)

		if t.maxWrite > 0 && n == t.maxWrite {
			break
		}
	}

	t.writeSizes = append(t.writeSizes, n)

	return n, nil
}

func (t *transportMock) SetDeadline(tm time.Time) error {
	t.mu.Lock()
	t.deadline = tm
	t.mu.Unlock()

	return nil
}

func (t *transportMock) Shutdown(time.Duration) error {
	t.mu.Lock()
	t.shutdowns++
	t.mu.Unlock()

	return nil
}

func (t *transportMock) Stop() error {
	t.stopOnce.Do(func() {
		close(t.stopped)
	})

	return nil
}

func (t *transportMock) Remote() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 54321}
}

func (t *transportMock) Secure() bool {
	return t.secure
}

func (t *transportMock) Written() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.written.String()
}

func (t *transportMock) Shutdowns() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.shutdowns
}

func (t *transportMock) WriteSizes() []int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return append([]int(nil), t.writeSizes...)
}
