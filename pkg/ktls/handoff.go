package ktls

import (
	"context"
	"fmt"
	"net"

	"go.uber.org/zap"
)

// platformEnabler is the seam between the orchestrator's platform-neutral
// sequencing logic and the Linux-only syscalls that actually arm the
// kernel. handoff_linux.go supplies the real implementation via setsockopt;
// handoff_other.go's always fails with ErrKernelUnsupported, since no other
// OS implements kTLS.
type platformEnabler interface {
	// enableULP attaches the "tls" upper-layer protocol to conn. Returns
	// ErrKernelUnsupported if the kernel module isn't loadable.
	enableULP(conn *net.TCPConn) error
	// upload programs one direction's parameters via setsockopt(SOL_TLS, ...).
	// Returns ErrSuiteUnsupported if the kernel refuses them.
	upload(conn *net.TCPConn, dir Direction, params CipherParams) error
}

// platform is overridden by the linux/other build-tagged files at package
// init.
var platform platformEnabler

// ConfigureServer runs the handoff sequence for the server side of a
// connection and returns a post-handoff Stream.
func ConfigureServer(ctx context.Context, logger *zap.Logger, sess SecretSource, cork *CorkStream) (*Stream, error) {
	return configure(ctx, logger, sess, cork)
}

// ConfigureClient runs the handoff sequence for the client side. The
// sequence is identical to the server's modulo direction, which is carried
// entirely inside the SecretSource's TX/RX labeling.
func ConfigureClient(ctx context.Context, logger *zap.Logger, sess SecretSource, cork *CorkStream) (*Stream, error) {
	return configure(ctx, logger, sess, cork)
}

func configure(_ context.Context, logger *zap.Logger, sess SecretSource, cork *CorkStream) (*Stream, error) {
	// Step 1: pre-cork checks.
	if cork == nil {
		return nil, fmt.Errorf("%w: no CorkStream installed on this connection", ErrLateCork)
	}
	if !sess.HandshakeComplete() {
		return nil, ErrHandshakeIncomplete
	}

	tcpConn, ok := cork.Inner().(*net.TCPConn)
	if !ok {
		return nil, ErrNotTCPConn
	}

	// Step 2: cork.
	cork.Cork()

	// Step 3: extract TX/RX secrets and the negotiated suite atomically.
	// The session must not be read from again after this call.
	suite, err := sess.NegotiatedSuite()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSecretsUnavailable, err)
	}
	txSecret, rxSecret, err := sess.Extract()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSecretsUnavailable, err)
	}

	// Step 4: marshal.
	txParams, err := Marshal(suite, txSecret)
	if err != nil {
		return nil, err
	}
	rxParams, err := Marshal(suite, rxSecret)
	if err != nil {
		return nil, err
	}

	// Step 5: enable kTLS ULP on the socket. Failures here close the
	// socket like every later step, even though no kTLS write has
	// happened yet.
	if err := platform.enableULP(tcpConn); err != nil {
		txParams.Zero()
		rxParams.Zero()
		_ = tcpConn.Close()
		return nil, err
	}

	// Step 6: upload TX then RX. If RX fails, TX is already armed so
	// close_notify can still be transmitted — the socket is considered
	// half-armed and unrecoverable from here on; the descriptor gets
	// discarded rather than retried.
	if err := platform.upload(tcpConn, DirectionTX, txParams); err != nil {
		txParams.Zero()
		rxParams.Zero()
		_ = tcpConn.Close()
		return nil, err
	}
	txParams.Zero()

	if err := platform.upload(tcpConn, DirectionRX, rxParams); err != nil {
		rxParams.Zero()
		_ = tcpConn.Close()
		return nil, err
	}
	rxParams.Zero()

	// Step 7: drain residual plaintext.
	var residual [][]byte
	for {
		chunk, more := sess.ResidualPlaintext()
		if chunk != nil {
			residual = append(residual, chunk)
		}
		if !more {
			break
		}
	}

	// Step 8: residual ciphertext is a hard failure — the kernel cannot
	// retroactively decrypt bytes it never saw with the right sequence
	// number.
	if cork.HasResidualCiphertext() {
		_ = tcpConn.Close()
		return nil, ErrLateCork
	}

	// Step 9: shutdown path handling.
	peerClosed := sess.PeerCloseNotifyObserved()

	if logger != nil {
		logger.Debug("ktls handoff complete",
			zap.Stringer("suite", suite),
			zap.Int("residual_chunks", len(residual)),
			zap.Bool("peer_close_notify_seen", peerClosed),
		)
	}

	// Step 10: construct the post-handoff stream, transferring ownership
	// of the descriptor. The caller must drop sess; we never touch it
	// again.
	return newStream(tcpConn, residual, peerClosed), nil
}
