//go:build linux

package transport

import (
	"fmt"
	"net"
	"os"

	"golang.org/x/sys/unix"
)

// listen creates the listening socket by hand, as the runtime doesn't allow choosing the
// backlog.
func listen(addr string, backlog int) (listener, error) {
	tcpAddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}

	family, sockaddr := sockaddrOf(tcpAddr)

	fd, err := unix.Socket(family, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}

	if err = setup(fd, sockaddr, backlog); err != nil {
		_ = unix.Close(fd)
		return nil, err
	}

	file := os.NewFile(uintptr(fd), "tcp:"+addr)
	defer file.Close()

	l, err := net.FileListener(file)
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

func setup(fd int, sockaddr unix.Sockaddr, backlog int) error {
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		return fmt.Errorf("setsockopt: %w", err)
	}

	if err := unix.Bind(fd, sockaddr); err != nil {
		return fmt.Errorf("bind: %w", err)
	}

	if backlog <= 0 {
		backlog = unix.SOMAXCONN
	}

	if err := unix.Listen(fd, backlog); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}

func sockaddrOf(addr *net.TCPAddr) (int, unix.Sockaddr) {
	if addr.IP == nil || addr.IP.To4() != nil {
		sockaddr := &unix.SockaddrInet4{Port: addr.Port}
		if addr.IP != nil {
			copy(sockaddr.Addr[:], addr.IP.To4())
		}

		return unix.AF_INET, sockaddr
	}

	sockaddr := &unix.SockaddrInet6{Port: addr.Port}
	copy(sockaddr.Addr[:], addr.IP.To16())

	return unix.AF_INET6, sockaddr
}
