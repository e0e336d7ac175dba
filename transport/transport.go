package transport

import (
	"net"

	"github.com/indigo-web/hostd/config"
)

// Handler serves an accepted connection. The connection is closed after the handler returns.
type Handler func(conn net.Conn)

type Transport interface {
	// Bind creates the listening socket with the accept queue of the backlog size.
	Bind(addr string, backlog int) error
	// Listen accepts connections until stopped. Connections exceeding cfg.MaxConnections
	// are passed to refuse instead of serve.
	Listen(cfg config.NET, serve, refuse Handler) error
	Addr() net.Addr
	Stop()
	Close()
	Wait()
}
