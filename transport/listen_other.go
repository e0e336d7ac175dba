//go:build !linux

package transport

import (
	"fmt"
	"net"
)

// listen binds the listener with the accept queue size chosen by the runtime.
func listen(addr string, _ int) (listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	tcp, ok := l.(*net.TCPListener)
	if !ok {
		_ = l.Close()
		return nil, fmt.Errorf("unexpected listener type %T", l)
	}

	return tcp, nil
}
