//go:build linux

package ktls

// Linux kernel ABI constants for kTLS (include/uapi/linux/tls.h,
// include/uapi/netinet/tcp.h). golang.org/x/sys/unix does not expose
// SOL_TLS/TLS_TX/TLS_RX/TLS_{SET,GET}_RECORD_TYPE on every architecture it
// supports, so these are defined locally.
const (
	solTCP = 6 // IPPROTO_TCP, used as the setsockopt level for TCP_ULP
	tcpULP = 31

	solTLS = 282

	tlsTX = 1
	tlsRX = 2

	tlsSetRecordType = 1
	tlsGetRecordType = 2
)

// recordType mirrors the TLS content-type byte the kernel reports via the
// TLS_GET_RECORD_TYPE control message.
type recordType byte

const (
	recordTypeAlert           recordType = 0x15
	recordTypeApplicationData recordType = 0x17
)

const alertCloseNotify = 0x00
