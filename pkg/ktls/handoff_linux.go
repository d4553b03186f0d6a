//go:build linux

package ktls

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

func init() {
	platform = linuxEnabler{}
}

// linuxEnabler implements platformEnabler with real setsockopt calls:
// SOL_TCP/TCP_ULP first, then SOL_TLS/{TLS_TX,TLS_RX} with the packed
// CipherParams bytes.
type linuxEnabler struct{}

func (linuxEnabler) enableULP(conn *net.TCPConn) error {
	rwc, err := conn.SyscallConn()
	if err != nil {
		return fmt.Errorf("ktls: SyscallConn: %w", err)
	}

	var sockErr error
	ctrlErr := rwc.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptString(int(fd), solTCP, tcpULP, "tls")
	})
	if ctrlErr != nil {
		return fmt.Errorf("ktls: Control: %w", ctrlErr)
	}
	if sockErr != nil {
		return fmt.Errorf("%w: %v", ErrKernelUnsupported, sockErr)
	}
	return nil
}

func (linuxEnabler) upload(conn *net.TCPConn, dir Direction, params CipherParams) error {
	optname := tlsTX
	if dir == DirectionRX {
		optname = tlsRX
	}

	rwc, err := conn.SyscallConn()
	if err != nil {
		return fmt.Errorf("ktls: SyscallConn: %w", err)
	}

	var sockErr error
	ctrlErr := rwc.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptString(int(fd), solTLS, optname, string(params.Encoded))
	})
	if ctrlErr != nil {
		return fmt.Errorf("ktls: Control: %w", ctrlErr)
	}
	if sockErr != nil {
		return fmt.Errorf("%w: %s setsockopt(SOL_TLS): %v", ErrSuiteUnsupported, dir, sockErr)
	}
	return nil
}
