//go:build linux

package ktls

import (
	"fmt"
	"io"
	"net"
	"unsafe"

	"golang.org/x/sys/unix"
)

// platformRecv issues a non-blocking recvmsg on conn, requesting the
// ancillary TLS record-type control message (SOL_TLS/TLS_GET_RECORD_TYPE)
// so application data can be told apart from a close_notify alert. The
// syscall is attempted first, and only an EAGAIN arms the runtime poller —
// so a reader that arrives after data is already buffered on the socket
// still sees it immediately, for free, from SyscallConn.Read's own retry
// contract.
func platformRecv(conn *net.TCPConn, p []byte) (n int, closeNotify bool, err error) {
	if len(p) == 0 {
		return 0, false, nil
	}

	cmsgBuf := make([]byte, unix.CmsgSpace(1))
	cmsg := (*unix.Cmsghdr)(unsafe.Pointer(&cmsgBuf[0]))
	cmsg.SetLen(unix.CmsgLen(1))

	iov := unix.Iovec{Base: &p[0]}
	iov.SetLen(len(p))

	msg := unix.Msghdr{
		Control:    &cmsgBuf[0],
		Controllen: cmsg.Len,
		Iov:        &iov,
		Iovlen:     1,
	}

	rwc, scErr := conn.SyscallConn()
	if scErr != nil {
		return 0, false, fmt.Errorf("ktls: SyscallConn: %w", scErr)
	}

	var (
		recvN   int
		recvErr error
	)
	readErr := rwc.Read(func(fd uintptr) bool {
		recvN, recvErr = recvmsg(fd, &msg, 0)
		return recvErr != unix.EAGAIN
	})
	if readErr != nil {
		return 0, false, fmt.Errorf("ktls: Read: %w", readErr)
	}
	if recvErr != nil {
		return 0, false, recvErr
	}
	if recvN == 0 {
		return 0, false, io.EOF
	}

	if cmsg.Level != solTLS || cmsg.Type != tlsGetRecordType {
		// No ancillary record-type data: treat as plain application
		// data (some kernels omit the cmsg for the common case).
		return recvN, false, nil
	}

	typ := recordType(cmsgBuf[unix.SizeofCmsghdr])
	switch typ {
	case recordTypeApplicationData:
		return recvN, false, nil
	case recordTypeAlert:
		if recvN >= 2 && p[1] == alertCloseNotify {
			return 0, true, nil
		}
		return 0, false, fmt.Errorf("ktls: unsupported alert from kernel")
	default:
		return 0, false, fmt.Errorf("ktls: unsupported kernel record type %d", typ)
	}
}

func recvmsg(fd uintptr, msg *unix.Msghdr, flags int) (int, error) {
	r0, _, errno := unix.Syscall(unix.SYS_RECVMSG, fd, uintptr(unsafe.Pointer(msg)), uintptr(flags))
	if errno != 0 {
		return int(r0), errno
	}
	return int(r0), nil
}
