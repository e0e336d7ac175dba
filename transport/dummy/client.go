package dummy

import (
	"errors"
	"io"
	"net"

	"github.com/indigo-web/hostd/transport"
)

var _ transport.Client = new(Client)

var ErrWriteFailed = errors.New("dummy: write failed")

// Client returns the pieces of data it was initialised with one by one, then io.EOF,
// unless looped. It also tracks all the written data, making it thereby a universal mock
// suitable for most of the tests.
type Client struct {
	closed     bool
	loop       bool
	failWrites bool
	pointer    int
	tmp        []byte
	written    []byte
	data       [][]byte
	remote     net.Addr
}

func NewMockClient(data ...[]byte) *Client {
	return &Client{
		data: data,
	}
}

func (c *Client) Read() (data []byte, err error) {
	if c.closed {
		return nil, io.EOF
	}

	if len(c.tmp) > 0 {
		data, c.tmp = c.tmp, nil

		return data, nil
	}

	if c.pointer >= len(c.data) {
		if !c.loop || len(c.data) == 0 {
			return nil, io.EOF
		}

		c.pointer = 0
	}

	piece := c.data[c.pointer]
	c.pointer++

	return piece, nil
}

func (c *Client) Pushback(takeback []byte) {
	c.tmp = takeback
}

func (c *Client) Write(p []byte) (int, error) {
	if c.failWrites {
		return 0, ErrWriteFailed
	}

	c.written = append(c.written, p...)
	return len(p), nil
}

func (c *Client) Remote() net.Addr {
	return c.remote
}

func (c *Client) Close() error {
	c.closed = true
	return nil
}

// LoopReads starts over the data once it's exhausted.
func (c *Client) LoopReads() *Client {
	c.loop = true
	return c
}

// FailWrites makes every write fail.
func (c *Client) FailWrites() *Client {
	c.failWrites = true
	return c
}

// WithRemote sets the address returned by Remote.
func (c *Client) WithRemote(addr net.Addr) *Client {
	c.remote = addr
	return c
}

// Written returns everything that was written so far.
func (c *Client) Written() string {
	return string(c.written)
}

// Closed tells whether Close was called.
func (c *Client) Closed() bool {
	return c.closed
}
