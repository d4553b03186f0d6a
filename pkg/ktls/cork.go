package ktls

import (
	"errors"
	"io"
	"net"
	"sync"
	"time"
)

// recordHeaderLen is the length of a TLS record header: 1 byte content
// type, 2 bytes version, 2 bytes length.
const recordHeaderLen = 5

// ErrWouldBlock is returned by CorkStream.Read when the adapter is corked
// and a caller tries to read past the current record boundary.
var ErrWouldBlock = errors.New("ktls: corked, read would block")

// CorkStream wraps a duplex byte stream (in practice the net.Conn backing
// a TLS library's Conn) and can be commanded to stall reads at the next
// TLS record boundary. This gives the Handoff Orchestrator a window to
// extract secrets without the TLS library reading ahead into application
// data the kernel must later decrypt itself.
//
// Writes always pass through; only reads are gated, and only between
// records — a read already inside a record always completes, because the
// TLS framer needs the full record to make progress and corking mid-record
// would just wedge it.
type CorkStream struct {
	inner net.Conn

	mu     sync.Mutex
	corked bool

	// header buffers the current record's 5-byte header as it is read off
	// the wire; headerFilled tracks how much of it has been read from
	// inner, headerSent how much of that has already been copied out to
	// the caller. Both bytes still have to reach the caller — the header
	// is only parsed here to know the record's length, not reframed away.
	header       [recordHeaderLen]byte
	headerFilled int
	headerSent   int

	// remaining is how many body bytes of the current record are left to
	// read from inner before the next cork check.
	remaining int
}

// WrapCork wraps inner in a CorkStream. inner is typically the raw net.Conn
// a TLS library was handed, before or during its handshake.
func WrapCork(inner net.Conn) *CorkStream {
	return &CorkStream{inner: inner}
}

// Cork stalls subsequent Reads once the in-flight record (if any) has been
// fully delivered.
func (c *CorkStream) Cork() {
	c.mu.Lock()
	c.corked = true
	c.mu.Unlock()
}

// Uncork resumes normal passthrough reads.
func (c *CorkStream) Uncork() {
	c.mu.Lock()
	c.corked = false
	c.mu.Unlock()
}

// Corked reports the current cork state.
func (c *CorkStream) Corked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.corked
}

// Read implements net.Conn. While uncorked it behaves exactly like the
// wrapped stream: the record header and body both reach the caller
// unmodified, the header is parsed only to know where the next record
// boundary falls. Once corked, it finishes delivering any record already
// in progress, then returns ErrWouldBlock at the next record boundary
// rather than reading the following header — so no application bytes are
// ever consumed past the point the caller corked at.
func (c *CorkStream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	c.mu.Lock()
	inMiddleOfRecord := c.headerFilled > 0 || c.remaining > 0
	corked := c.corked
	c.mu.Unlock()

	if corked && !inMiddleOfRecord {
		return 0, ErrWouldBlock
	}

	// Header bytes already fetched from the wire but not yet handed to
	// the caller take priority over reading more.
	if c.headerSent < c.headerFilled {
		n := c.deliverHeader(p)
		c.resetIfRecordComplete()
		return n, nil
	}

	if c.remaining == 0 {
		if err := c.fillHeader(); err != nil {
			return 0, err
		}
		n := c.deliverHeader(p)
		c.resetIfRecordComplete()
		return n, nil
	}

	n := len(p)
	if n > c.remaining {
		n = c.remaining
	}

	read, err := c.inner.Read(p[:n])
	c.remaining -= read
	c.resetIfRecordComplete()
	return read, err
}

// resetIfRecordComplete clears header/body tracking once a record has been
// fully delivered to the caller, so the next Read starts clean and a
// concurrent HasResidualCiphertext call never observes a finished record as
// still in flight.
func (c *CorkStream) resetIfRecordComplete() {
	if c.headerFilled > 0 && c.headerSent == c.headerFilled && c.remaining == 0 {
		c.headerFilled, c.headerSent = 0, 0
	}
}

// deliverHeader copies header bytes already fetched from the wire but not
// yet handed to the caller into p, advancing headerSent.
func (c *CorkStream) deliverHeader(p []byte) int {
	n := copy(p, c.header[c.headerSent:c.headerFilled])
	c.headerSent += n
	return n
}

// fillHeader reads the 5-byte record header (resuming a prior partial
// read) and sets c.remaining to the declared record length. The header
// bytes stay in c.header for deliverHeader to hand to the caller — they
// are never dropped, only inspected.
func (c *CorkStream) fillHeader() error {
	for c.headerFilled < recordHeaderLen {
		n, err := c.inner.Read(c.header[c.headerFilled:])
		c.headerFilled += n
		if err != nil {
			return err
		}
		if n == 0 {
			return io.ErrNoProgress
		}
	}
	c.remaining = int(c.header[3])<<8 | int(c.header[4])
	return nil
}

// Write implements net.Conn; writes always pass through regardless of cork
// state — only reads gate on the boundary.
func (c *CorkStream) Write(p []byte) (int, error) { return c.inner.Write(p) }

// Close implements net.Conn.
func (c *CorkStream) Close() error { return c.inner.Close() }

// LocalAddr implements net.Conn.
func (c *CorkStream) LocalAddr() net.Addr { return c.inner.LocalAddr() }

// RemoteAddr implements net.Conn.
func (c *CorkStream) RemoteAddr() net.Addr { return c.inner.RemoteAddr() }

// SetDeadline implements net.Conn.
func (c *CorkStream) SetDeadline(t time.Time) error { return c.inner.SetDeadline(t) }

// SetReadDeadline implements net.Conn.
func (c *CorkStream) SetReadDeadline(t time.Time) error { return c.inner.SetReadDeadline(t) }

// SetWriteDeadline implements net.Conn.
func (c *CorkStream) SetWriteDeadline(t time.Time) error { return c.inner.SetWriteDeadline(t) }

// HasResidualCiphertext reports whether bytes are sitting in the partial
// record buffer mid-header or mid-record while corked — meaning corking
// happened too late and the TLS library already consumed application
// bytes the kernel never saw. The orchestrator treats this as ErrLateCork.
func (c *CorkStream) HasResidualCiphertext() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.headerFilled > 0 || c.remaining > 0
}

// Inner returns the wrapped connection, e.g. so the orchestrator can assert
// it is a *net.TCPConn before arming kTLS.
func (c *CorkStream) Inner() net.Conn { return c.inner }
