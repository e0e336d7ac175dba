package transport

import (
	"errors"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/indigo-web/hostd/config"
)

type listener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

var _ Transport = new(TCP)

type TCP struct {
	l    listener
	wg   *sync.WaitGroup
	stop *atomic.Bool
}

func NewTCP() *TCP {
	tcp := newTCP(nil)
	return &tcp
}

func newTCP(l listener) TCP {
	return TCP{
		l:    l,
		wg:   new(sync.WaitGroup),
		stop: new(atomic.Bool),
	}
}

func (t *TCP) Bind(addr string, backlog int) (err error) {
	t.l, err = listen(addr, backlog)
	return err
}

// Addr returns the address the transport is bound to.
func (t *TCP) Addr() net.Addr {
	return t.l.Addr()
}

func (t *TCP) Listen(cfg config.NET, serve, refuse Handler) error {
	var slots chan struct{}
	if cfg.MaxConnections > 0 {
		slots = make(chan struct{}, cfg.MaxConnections)
	}

	for !t.stop.Load() {
		err := t.l.SetDeadline(time.Now().Add(cfg.AcceptLoopInterruptPeriod))
		if err != nil {
			return err
		}

		conn, err := t.l.Accept()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}

			return err
		}

		if !acquire(slots) {
			t.handle(conn, refuse, nil)
			continue
		}

		t.handle(conn, serve, slots)
	}

	return nil
}

func (t *TCP) handle(conn net.Conn, handler Handler, slots chan struct{}) {
	t.wg.Add(1)

	go func() {
		handler(conn)
		_ = conn.Close()
		release(slots)
		t.wg.Done()
	}()
}

// acquire takes a connection slot. Nil slots are unlimited.
func acquire(slots chan struct{}) bool {
	if slots == nil {
		return true
	}

	select {
	case slots <- struct{}{}:
		return true
	default:
		return false
	}
}

func release(slots chan struct{}) {
	if slots != nil {
		<-slots
	}
}

func (t *TCP) Stop() {
	t.stop.Store(true)
}

func (t *TCP) Close() {
	if t.l != nil {
		_ = t.l.Close()
	}
}

func (t *TCP) Wait() {
	t.wg.Wait()
}
