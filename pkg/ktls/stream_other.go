//go:build !linux

package ktls

import "net"

// platformRecv has no implementation outside Linux; ConfigureServer and
// ConfigureClient already fail with ErrKernelUnsupported before a Stream
// exists on these platforms, so this is unreachable in practice.
func platformRecv(_ *net.TCPConn, _ []byte) (int, bool, error) {
	return 0, false, ErrKernelUnsupported
}
