// Package ktlstest provides a fake ktls.SecretSource for tests, standing
// in for a real userspace TLS library's secret-extraction API, which Go's
// standard crypto/tls does not expose.
package ktlstest

import "github.com/keploy-labs/ktlscore/pkg/ktls/linuxabi"

// FixtureSession is a minimal, in-memory ktls.SecretSource. Tests
// construct one with known secrets and feed it to ktls.ConfigureServer /
// ktls.ConfigureClient in place of a real TLS library's handoff adapter.
type FixtureSession struct {
	Suite       linuxabi.Suite
	TXSecret    linuxabi.Secret
	RXSecret    linuxabi.Secret
	Complete    bool
	Residual    [][]byte
	PeerClosed  bool
	extractions int
}

// NewFixtureSession builds a completed-handshake fixture for suite with
// the given TX/RX secrets and no residual plaintext.
func NewFixtureSession(suite linuxabi.Suite, tx, rx linuxabi.Secret) *FixtureSession {
	return &FixtureSession{
		Suite:    suite,
		TXSecret: tx,
		RXSecret: rx,
		Complete: true,
	}
}

func (f *FixtureSession) HandshakeComplete() bool { return f.Complete }

func (f *FixtureSession) NegotiatedSuite() (linuxabi.Suite, error) { return f.Suite, nil }

func (f *FixtureSession) Extract() (linuxabi.Secret, linuxabi.Secret, error) {
	f.extractions++
	return f.TXSecret, f.RXSecret, nil
}

// ExtractCount reports how many times Extract was called, so tests can
// assert the orchestrator extracts secrets exactly once per handoff.
func (f *FixtureSession) ExtractCount() int { return f.extractions }

func (f *FixtureSession) ResidualPlaintext() ([]byte, bool) {
	if len(f.Residual) == 0 {
		return nil, false
	}
	chunk := f.Residual[0]
	f.Residual = f.Residual[1:]
	return chunk, len(f.Residual) > 0
}

func (f *FixtureSession) PeerCloseNotifyObserved() bool { return f.PeerClosed }
