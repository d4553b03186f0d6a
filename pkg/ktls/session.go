package ktls

import "github.com/keploy-labs/ktlscore/pkg/ktls/linuxabi"

// Direction distinguishes the TX (outgoing) and RX (incoming) record
// streams, which are marshalled, uploaded, and drained independently.
type Direction int

const (
	DirectionTX Direction = iota
	DirectionRX
)

func (d Direction) String() string {
	if d == DirectionTX {
		return "TX"
	}
	return "RX"
}

// SecretSource is the narrow interface the handoff orchestrator needs from
// a completed userspace TLS session. Go's standard crypto/tls does not
// expose secret extraction, so a real embedder adapts whatever TLS library
// it uses (a forked stdlib, utls, etc.) to this interface rather than this
// module depending on that fork directly.
//
// HandshakeComplete and Extract together give callers an atomicity
// guarantee: callers must not call Extract until HandshakeComplete is
// true, and must not Read the underlying stream again after calling
// Extract.
type SecretSource interface {
	// HandshakeComplete reports whether the handshake has finished and
	// secret extraction was enabled for this session.
	HandshakeComplete() bool

	// NegotiatedSuite returns the suite the handshake settled on.
	NegotiatedSuite() (linuxabi.Suite, error)

	// Extract returns the TX and RX secrets atomically. Must be called at
	// most once; the session must not be read from afterward.
	Extract() (tx, rx linuxabi.Secret, err error)

	// ResidualPlaintext drains and returns any bytes the session already
	// decrypted before the caller extracted secrets, one chunk at a time;
	// returns (nil, false) once empty.
	ResidualPlaintext() (chunk []byte, more bool)

	// PeerCloseNotifyObserved reports whether the session already saw a
	// close_notify from the peer during the handshake tail (e.g. a 0-RTT
	// rejection or an immediate post-handshake alert).
	PeerCloseNotifyObserved() bool
}
