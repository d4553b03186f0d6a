package ktls

import (
	"io"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tcpPair(t *testing.T) (client, server *net.TCPConn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	acceptCh := make(chan *net.TCPConn, 1)
	go func() {
		c, err := ln.Accept()
		require.NoError(t, err)
		acceptCh <- c.(*net.TCPConn)
	}()

	c, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	s := <-acceptCh

	t.Cleanup(func() {
		c.Close()
		s.Close()
	})
	return c.(*net.TCPConn), s
}

func TestStreamDeliversResidualPlaintextBeforeEOF(t *testing.T) {
	client, _ := tcpPair(t)
	residual := [][]byte{[]byte("hello "), []byte("world")}
	s := newStream(client, residual, true)

	got := make([]byte, 64)
	n, err := s.Read(got)
	require.NoError(t, err)
	assert.Equal(t, "hello ", string(got[:n]))

	n, err = s.Read(got)
	require.NoError(t, err)
	assert.Equal(t, "world", string(got[:n]))

	n, err = s.Read(got)
	assert.ErrorIs(t, err, io.EOF)
	assert.Zero(t, n)
}

func TestStreamResidualChunkLargerThanBuffer(t *testing.T) {
	client, _ := tcpPair(t)
	s := newStream(client, [][]byte{[]byte("abcdef")}, true)

	got := make([]byte, 3)
	n, err := s.Read(got)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got[:n]))

	n, err = s.Read(got)
	require.NoError(t, err)
	assert.Equal(t, "def", string(got[:n]))
}

func TestStreamReadEOFWithNoResidual(t *testing.T) {
	client, _ := tcpPair(t)
	s := newStream(client, nil, true)

	got := make([]byte, 16)
	n, err := s.Read(got)
	assert.ErrorIs(t, err, io.EOF)
	assert.Zero(t, n)
}

func TestStreamWriteAfterShutdownFails(t *testing.T) {
	client, _ := tcpPair(t)
	s := newStream(client, nil, false)

	require.NoError(t, s.Shutdown())
	_, err := s.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrPostShutdownWrite)
}

func TestStreamShutdownIsIdempotent(t *testing.T) {
	client, _ := tcpPair(t)
	s := newStream(client, nil, false)

	require.NoError(t, s.Shutdown())
	require.NoError(t, s.Shutdown())
}

func TestStreamWriteBeforeShutdownSucceeds(t *testing.T) {
	client, server := tcpPair(t)
	s := newStream(client, nil, false)

	n, err := s.Write([]byte("ping"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	buf := make([]byte, 4)
	_, err = io.ReadFull(server, buf)
	require.NoError(t, err)
	assert.Equal(t, "ping", string(buf))
}
