package http1

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/indigo-web/hostd/config"
	"github.com/indigo-web/hostd/http"
	"github.com/indigo-web/hostd/http/status"
	"github.com/indigo-web/hostd/kv"
	"github.com/indigo-web/hostd/router"
	"github.com/indigo-web/hostd/router/virtual"
	"github.com/indigo-web/hostd/transport"
	"go.uber.org/zap"
)

const (
	responseBuffSize = 4096
	closeConnection  = "close"
)

// Suit serves a single connection: it reads a request, lets the router resolve it and
// writes the response back, as long as the client wants the connection to be kept.
type Suit struct {
	*Reader
	*Serializer
	router  router.Router
	client  transport.Client
	request *http.Request
	hosts   virtual.Hosts
	logger  *zap.Logger
}

func New(
	ctx context.Context,
	cfg *config.Config,
	r router.Router,
	client transport.Client,
	hosts virtual.Hosts,
	logger *zap.Logger,
) *Suit {
	request := http.NewRequest(http.NewResponse(), kv.NewPrealloc(16), client.Remote())
	request.Ctx = ctx

	return &Suit{
		Reader:     NewReader(client, cfg.Headers),
		Serializer: NewSerializer(client, make([]byte, 0, responseBuffSize)),
		router:     r,
		client:     client,
		request:    request,
		hosts:      hosts,
		logger:     logger,
	}
}

// Serve processes requests until either the client or the server decides to close the
// connection. The connection itself isn't closed.
func (s *Suit) Serve() {
	for s.ServeOnce() {
	}
}

// ServeOnce processes a single request and tells whether the connection may be reused.
func (s *Suit) ServeOnce() bool {
	req := s.request
	req.Reset()

	lines, err := s.Next()
	if err != nil {
		s.readFailed(err)
		return false
	}

	if err = Parse(req, lines, s.hosts); err != nil {
		s.fail(err)
		return false
	}

	s.logHeaders(req)

	bodyLength, err := contentLength(req)
	if err != nil {
		s.fail(err)
		return false
	}

	keepAlive := req.KeepAlive()
	resp := notNil(req, s.router.OnRequest(req))

	if resp.Reveal().Code == status.InternalServerError {
		keepAlive = false
		resp.Connection(closeConnection)
	} else if connection, found := req.Headers.Get("Connection"); found {
		resp.Connection(connection)
	}

	if !s.reply(resp) || !keepAlive {
		return false
	}

	if err = s.Discard(bodyLength); err != nil {
		s.readFailed(err)
		return false
	}

	return true
}

// Refuse answers the connection with the error response without reading anything.
func (s *Suit) Refuse(err error) {
	s.fail(err)
}

// fail answers the error. The connection is closed afterward, so the response says so.
func (s *Suit) fail(err error) {
	s.reply(notNil(s.request, s.router.OnError(s.request, err)).Connection(closeConnection))
}

func (s *Suit) reply(resp *http.Response) bool {
	req := s.request
	code := resp.Reveal().Code

	n, err := s.Write(req.Protocol, resp)
	if err != nil {
		s.logger.Warn("write response",
			zap.String("remote", remoteAddr(req.Remote)),
			zap.Error(err),
		)

		return false
	}

	s.logger.Info("request",
		zap.String("remote", remoteAddr(req.Remote)),
		zap.String("method", req.Method),
		zap.String("uri", req.Path),
		zap.Uint16("status", uint16(code)),
		zap.Int("bytes", n),
	)

	return true
}

func (s *Suit) logHeaders(req *http.Request) {
	entry := s.logger.Check(zap.DebugLevel, "request headers")
	if entry == nil {
		return
	}

	headers := make([]zap.Field, 0, req.Headers.Len())
	for key, value := range req.Headers.Pairs() {
		headers = append(headers, zap.String(key, value))
	}

	entry.Write(
		zap.String("remote", remoteAddr(req.Remote)),
		zap.String("uri", req.Path),
		zap.Dict("headers", headers...),
	)
}

// readFailed answers protocol errors, anything else just closes the connection.
func (s *Suit) readFailed(err error) {
	var httpErr status.HTTPError
	switch {
	case errors.As(err, &httpErr):
		s.fail(err)
	case errors.Is(err, io.EOF), errors.Is(err, os.ErrDeadlineExceeded):
		s.logger.Debug("connection closed",
			zap.String("remote", remoteAddr(s.request.Remote)),
			zap.NamedError("reason", err),
		)
	default:
		s.logger.Warn("read request",
			zap.String("remote", remoteAddr(s.request.Remote)),
			zap.Error(err),
		)
	}
}

func contentLength(req *http.Request) (int64, error) {
	value, found := req.Headers.Get("Content-Length")
	if !found {
		return 0, nil
	}

	length, err := strconv.ParseInt(value, 10, 64)
	if err != nil || length < 0 {
		return 0, status.ErrBadRequest
	}

	return length, nil
}

func notNil(req *http.Request, resp *http.Response) *http.Response {
	if resp != nil {
		return resp
	}

	return http.Respond(req)
}

func remoteAddr(addr net.Addr) string {
	if addr == nil {
		return ""
	}

	return addr.String()
}
