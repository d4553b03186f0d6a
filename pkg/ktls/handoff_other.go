//go:build !linux

package ktls

import "net"

func init() {
	platform = unsupportedEnabler{}
}

// unsupportedEnabler makes every handoff attempt fail fast and before any
// socket mutation on platforms that don't have kTLS at all.
type unsupportedEnabler struct{}

func (unsupportedEnabler) enableULP(*net.TCPConn) error { return ErrKernelUnsupported }
func (unsupportedEnabler) upload(*net.TCPConn, Direction, CipherParams) error {
	return ErrKernelUnsupported
}
