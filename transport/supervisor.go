package transport

import (
	"sync/atomic"

	"github.com/indigo-web/hostd/config"
)

// Supervisor runs bound transports and stops all of them as soon as any fails.
type Supervisor struct {
	stopped *atomic.Bool
	ts      []boundTransport
	stopch  chan struct{}
}

func NewSupervisor() Supervisor {
	return Supervisor{
		stopped: new(atomic.Bool),
		stopch:  make(chan struct{}),
	}
}

// Add binds the transport. If binding fails, every transport added before is closed.
func (s *Supervisor) Add(addr string, backlog int, transport Transport, serve, refuse Handler) error {
	err := transport.Bind(addr, backlog)
	if err != nil {
		s.close()
		return err
	}

	s.ts = append(s.ts, boundTransport{
		serve:  serve,
		refuse: refuse,
		t:      transport,
	})

	return nil
}

// Run blocks until either Stop is called or any transport fails. In both cases, it returns
// only after every served connection is done.
func (s *Supervisor) Run(cfg config.NET) error {
	if len(s.ts) == 0 {
		return nil
	}

	errch := make(chan error)

	for _, t := range s.ts {
		go func(t boundTransport, ch chan<- error) {
			ch <- t.t.Listen(cfg, t.serve, t.refuse)
		}(t, errch)
	}

	select {
	case err := <-errch:
		s.stop()
		drain(errch, len(s.ts)-1)

		return err
	case <-s.stopch:
		s.stop()
		drain(errch, len(s.ts))
		s.stopch <- struct{}{}

		return nil
	}
}

// Stop blocks until Run is done. It must be called only while Run is running.
func (s *Supervisor) Stop() {
	if !s.stopped.Load() {
		s.stopch <- struct{}{}
		<-s.stopch
	}
}

func (s *Supervisor) stop() {
	if s.stopped.Swap(true) {
		return
	}

	for _, t := range s.ts {
		t.t.Stop()
	}

	for _, t := range s.ts {
		t.t.Wait()
		t.t.Close()
	}
}

func (s *Supervisor) close() {
	for _, t := range s.ts {
		t.t.Close()
	}
}

type boundTransport struct {
	serve, refuse Handler
	t             Transport
}

func drain(ch <-chan error, n int) {
	for range n {
		<-ch
	}
}
