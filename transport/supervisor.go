package transport

import (
	"sync/atomic"

	"github.com/indigo-web/engine/config"
)

// Supervisor runs several listeners at once. If any of them fails, the rest are stopped
// too and the error is returned from Run.
type Supervisor struct {
	stopped *atomic.Bool
	ls      []boundListener
	stopch  chan struct{}
}

func NewSupervisor() *Supervisor {
	return &Supervisor{
		stopped: new(atomic.Bool),
		stopch:  make(chan struct{}),
	}
}

func (s *Supervisor) Add(addr string, l Listener, cb func(Transport)) error {
	err := l.Bind(addr)
	if err != nil {
		s.close()
		return err
	}

	s.ls = append(s.ls, boundListener{
		cb: cb,
		l:  l,
	})

	return nil
}

// Run blocks until either Stop is called or a listener fails. Either way, no more
// connections are accepted once it returns. Connections already accepted keep running,
// use Wait to block until they're done.
func (s *Supervisor) Run(cfg config.NET) error {
	if len(s.ls) == 0 {
		return nil
	}

	errch := make(chan error)

	for _, l := range s.ls {
		go func(l boundListener, ch chan<- error) {
			ch <- l.l.Listen(cfg, l.cb)
		}(l, errch)
	}

	select {
	case err := <-errch:
		s.stop()
		drain(errch, len(s.ls)-1)

		return err
	case <-s.stopch:
		s.stop()
		drain(errch, len(s.ls))
		s.stopch <- struct{}{}

		return nil
	}
}

// Stop interrupts Run and waits until it returns. Does nothing if Run has already
// returned.
func (s *Supervisor) Stop() {
	if !s.stopped.Load() {
		s.stopch <- struct{}{}
		<-s.stopch
	}
}

// Wait blocks until all the connections accepted by every listener are done.
func (s *Supervisor) Wait() {
	for _, l := range s.ls {
		l.l.Wait()
	}
}

// Listeners returns every bound listener in the order they were added.
func (s *Supervisor) Listeners() []Listener {
	ls := make([]Listener, len(s.ls))
	for i, l := range s.ls {
		ls[i] = l.l
	}

	return ls
}

func (s *Supervisor) stop() {
	if s.stopped.Swap(true) {
		return
	}

	for _, l := range s.ls {
		l.l.Stop()
	}
}

func (s *Supervisor) close() {
	for _, l := range s.ls {
		l.l.Close()
	}
}

type boundListener struct {
	cb func(Transport)
	l  Listener
}

func drain(ch <-chan error, n int) {
	for range n {
		<-ch
	}
}
