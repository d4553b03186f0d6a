package ktls

import "errors"

// Sentinel errors for the handoff's failure modes. Check with errors.Is;
// wrapping call sites add context with fmt.Errorf's %w.
var (
	// ErrKernelUnsupported means the kernel's TLS ULP module is not
	// loadable on this host. Fatal, but safe: no socket mutation has
	// happened yet, so the caller may fall back to userspace TLS.
	ErrKernelUnsupported = errors.New("ktls: kernel TLS ULP unsupported")

	// ErrSuiteUnsupported means the kernel refused the negotiated
	// suite's parameters at setsockopt time. The descriptor is
	// considered dead; callers should exclude the suite and retry the
	// connection from scratch.
	ErrSuiteUnsupported = errors.New("ktls: kernel rejected cipher suite parameters")

	// ErrHandshakeIncomplete means ConfigureServer/ConfigureClient was
	// called before the supplied TLS session finished its handshake.
	// Programmer error.
	ErrHandshakeIncomplete = errors.New("ktls: TLS handshake not complete")

	// ErrSecretsUnavailable means the TLS session cannot yield
	// extractable secrets (extraction was not enabled, or the library
	// does not support it). Programmer error.
	ErrSecretsUnavailable = errors.New("ktls: TLS session does not expose extractable secrets")

	// ErrLateCork means residual ciphertext was found buffered in
	// userspace at handoff time: the corking adapter either was not
	// installed, or was corked after application data had already been
	// read past the handshake boundary. The kernel cannot retroactively
	// decrypt bytes it never saw with the correct sequence number, so
	// this is unrecoverable for the connection.
	ErrLateCork = errors.New("ktls: residual ciphertext present at handoff (corked too late)")

	// ErrPostShutdownWrite means a write was attempted on a Stream after
	// local shutdown sent close_notify; the kernel has torn down the TX
	// keys and the write cannot be retried.
	ErrPostShutdownWrite = errors.New("ktls: write after local shutdown")

	// ErrUnknownSuite means the marshaller was asked to encode a suite
	// outside the six-entry enumeration.
	ErrUnknownSuite = errors.New("ktls: cipher suite not supported by kernel TLS offload")

	// ErrNotTCPConn means the collaborator's socket is not a *net.TCPConn;
	// kTLS only attaches to TCP sockets.
	ErrNotTCPConn = errors.New("ktls: underlying connection is not a *net.TCPConn")
)
