package ktls

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keploy-labs/ktlscore/pkg/ktls/ktlstest"
	"github.com/keploy-labs/ktlscore/pkg/ktls/linuxabi"
)

func TestConfigureServerRejectsNilCork(t *testing.T) {
	sess := ktlstest.NewFixtureSession(linuxabi.AES128GCM_TLS12, linuxabi.Secret{}, linuxabi.Secret{})
	_, err := ConfigureServer(context.Background(), nil, sess, nil)
	assert.ErrorIs(t, err, ErrLateCork)
}

func TestConfigureServerRejectsIncompleteHandshake(t *testing.T) {
	client, server := tcpPair(t)
	cork := WrapCork(client)
	sess := &ktlstest.FixtureSession{Suite: linuxabi.AES128GCM_TLS12}

	_, err := ConfigureServer(context.Background(), nil, sess, cork)
	assert.ErrorIs(t, err, ErrHandshakeIncomplete)
	_ = server
}

func TestConfigureServerRejectsNonTCPConn(t *testing.T) {
	client, srv := net.Pipe()
	defer client.Close()
	defer srv.Close()

	cork := WrapCork(client)
	sess := ktlstest.NewFixtureSession(linuxabi.AES128GCM_TLS12, linuxabi.Secret{}, linuxabi.Secret{})

	_, err := ConfigureServer(context.Background(), nil, sess, cork)
	assert.ErrorIs(t, err, ErrNotTCPConn)
}

func TestConfigureServerExtractsSecretsExactlyOnce(t *testing.T) {
	client, server := tcpPair(t)
	defer server.Close()
	cork := WrapCork(client)

	sess := ktlstest.NewFixtureSession(
		linuxabi.AES128GCM_TLS12,
		linuxabi.Secret{Key: make([]byte, 16), IV: make([]byte, 12), Seq: 0},
		linuxabi.Secret{Key: make([]byte, 16), IV: make([]byte, 12), Seq: 0},
	)

	// On non-Linux platforms (or a kernel without the tls module) the
	// handoff fails at enableULP, but Extract must still have already
	// been called exactly once regardless of what happens afterward.
	_, _ = ConfigureServer(context.Background(), nil, sess, cork)
	require.Equal(t, 1, sess.ExtractCount())
}
