package dummy

import (
	"io"
	"net"
	"time"
)

var _ net.Conn = new(Conn)

// Conn is a net.Conn reading the pieces it was initialised with, one per Read, and then
// io.EOF. Written data and read deadlines are recorded.
type Conn struct {
	Data          []byte
	ReadDeadlines []time.Time
	reads         [][]byte
	remote        net.Addr
	closed        bool
}

func NewConn(reads ...[]byte) *Conn {
	return &Conn{
		reads:  reads,
		remote: &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 54321},
	}
}

func (c *Conn) Read(b []byte) (n int, err error) {
	if c.closed || len(c.reads) == 0 {
		return 0, io.EOF
	}

	n = copy(b, c.reads[0])
	if n < len(c.reads[0]) {
		c.reads[0] = c.reads[0][n:]
	} else {
		c.reads = c.reads[1:]
	}

	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	if c.closed {
		return 0, net.ErrClosed
	}

	c.Data = append(c.Data, b...)
	return len(b), nil
}

func (c *Conn) Close() error {
	c.closed = true
	return nil
}

func (c *Conn) LocalAddr() net.Addr {
	return nil
}

func (c *Conn) RemoteAddr() net.Addr {
	return c.remote
}

func (c *Conn) SetDeadline(t time.Time) error {
	return c.SetReadDeadline(t)
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	c.ReadDeadlines = append(c.ReadDeadlines, t)
	return nil
}

func (c *Conn) SetWriteDeadline(time.Time) error {
	return nil
}

// Closed tells whether Close was called.
func (c *Conn) Closed() bool {
	return c.closed
}
