// Package hostd is a minimal HTTP/1.x server of a document root: static files, directory
// tree views, server-side includes and dynamic documents, optionally protected by
// per-directory Basic authentication.
package hostd

import (
	"context"
	"errors"
	"io"
	"net"
	"sync/atomic"
	"time"

	"github.com/indigo-web/hostd/config"
	"github.com/indigo-web/hostd/http/status"
	"github.com/indigo-web/hostd/internal/process"
	"github.com/indigo-web/hostd/internal/protocol/http1"
	"github.com/indigo-web/hostd/router"
	"github.com/indigo-web/hostd/router/site"
	"github.com/indigo-web/hostd/router/virtual"
	"github.com/indigo-web/hostd/transport"
	"go.uber.org/zap"
)

var ErrNotRunning = errors.New("hostd: the application is not running")

// App binds the document root to a listening socket.
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	hooks      hooks
	tcp        *transport.TCP
	supervisor transport.Supervisor
	started    *atomic.Bool
	done       chan struct{}
	stopping   context.Context
	stop       context.CancelFunc
}

// New returns a new App instance. The config must not be modified afterward.
func New(cfg *config.Config, logger *zap.Logger) *App {
	stopping, stop := context.WithCancel(context.Background())

	return &App{
		cfg:        cfg,
		logger:     logger,
		tcp:        transport.NewTCP(),
		supervisor: transport.NewSupervisor(),
		started:    new(atomic.Bool),
		done:       make(chan struct{}),
		stopping:   stopping,
		stop:       stop,
	}
}

// NotifyOnStart calls the callback at the moment the listener is bound, right before
// connections start being accepted.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback after the server stopped. At that moment no connections
// are served anymore.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Serve binds the listener and serves connections until Stop is called or the listener
// fails. Failures to start (bad document root, unavailable address) are returned
// immediately.
func (a *App) Serve() error {
	runner := process.Runner{
		Shell:   a.cfg.Exec.Shell,
		Timeout: a.cfg.Exec.Timeout,
	}

	r, err := site.New(a.cfg, runner, a.logger)
	if err != nil {
		return err
	}

	hosts := virtual.New(a.cfg.Hosts)

	err = a.supervisor.Add(a.cfg.Addr(), a.cfg.NET.Backlog, a.tcp, a.serve(r, hosts), a.refuse(r, hosts))
	if err != nil {
		return err
	}

	a.logger.Info("listening",
		zap.Stringer("addr", a.tcp.Addr()),
		zap.String("root", a.cfg.Documents.Root),
		zap.Int("aliases", hosts.Len()),
	)

	a.started.Store(true)
	defer close(a.done)
	defer a.stop()

	go func() {
		<-a.stopping.Done()
		a.supervisor.Stop()
	}()

	callIfNotNil(a.hooks.OnStart)
	err = a.supervisor.Run(a.cfg.NET)
	callIfNotNil(a.hooks.OnStop)

	return err
}

// Addr returns the address the listener is bound to.
func (a *App) Addr() net.Addr {
	return a.tcp.Addr()
}

// Stop stops accepting new connections and blocks until the served ones are done. Idle
// connections are closed, requests being processed are answered first. External programs
// still running are killed, so their requests are answered with 500. If the App isn't
// serving yet, ErrNotRunning is returned and a later Serve returns right after start.
func (a *App) Stop() error {
	a.stop()

	if !a.started.Load() {
		return ErrNotRunning
	}

	<-a.done
	return nil
}

func (a *App) serve(r router.Router, hosts virtual.Hosts) transport.Handler {
	return func(conn net.Conn) {
		release := context.AfterFunc(a.stopping, func() {
			shutdownRead(conn)
		})
		defer release()

		if a.stopping.Err() != nil {
			return
		}

		client := transport.NewClient(conn, a.cfg.NET.ReadTimeout, make([]byte, a.cfg.NET.ReadBufferSize))
		http1.New(a.stopping, a.cfg, r, client, hosts, a.logger).Serve()
	}
}

func (a *App) refuse(r router.Router, hosts virtual.Hosts) transport.Handler {
	return func(conn net.Conn) {
		a.logger.Warn("too many connections", zap.Stringer("remote", conn.RemoteAddr()))
		client := transport.NewClient(conn, a.cfg.NET.ReadTimeout, nil)
		http1.New(a.stopping, a.cfg, r, client, hosts, a.logger).Refuse(status.ErrServiceUnavailable)
		linger(conn)
	}
}

const (
	lingerTimeout = 200 * time.Millisecond
	lingerLimit   = 64 * 1024
)

// linger discards what the client has sent, so closing the connection with unread data
// doesn't reset it before the client gets the response.
func linger(conn net.Conn) {
	if tcp, ok := conn.(interface{ CloseWrite() error }); ok {
		_ = tcp.CloseWrite()
	}

	_ = conn.SetReadDeadline(time.Now().Add(lingerTimeout))
	_, _ = io.Copy(io.Discard, io.LimitReader(conn, lingerLimit))
}

// shutdownRead makes pending and further reads fail, so the connection is closed as soon as
// the current response, if any, is written.
func shutdownRead(conn net.Conn) {
	if tcp, ok := conn.(interface{ CloseRead() error }); ok {
		_ = tcp.CloseRead()
		return
	}

	_ = conn.SetReadDeadline(time.Now())
}

type hooks struct {
	OnStart, OnStop func()
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
