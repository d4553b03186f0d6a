package ktls

import (
	"encoding/binary"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(contentType byte, payload []byte) []byte {
	buf := make([]byte, recordHeaderLen+len(payload))
	buf[0] = contentType
	binary.BigEndian.PutUint16(buf[1:3], 0x0303)
	binary.BigEndian.PutUint16(buf[3:5], uint16(len(payload)))
	copy(buf[recordHeaderLen:], payload)
	return buf
}

func writeAsync(t *testing.T, conn net.Conn, data []byte) {
	t.Helper()
	go func() {
		_, _ = conn.Write(data)
	}()
}

func TestCorkStreamPassthroughWhenUncorked(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	cork := WrapCork(server)
	full := record(0x17, []byte("hello"))
	writeAsync(t, client, full)

	got := make([]byte, len(full))
	n, err := io.ReadFull(cork, got)
	require.NoError(t, err)
	assert.Equal(t, len(full), n)
	assert.Equal(t, full, got)
	assert.False(t, cork.HasResidualCiphertext())
}

func TestCorkStreamBlocksImmediatelyWhenCorkedBeforeAnyRead(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	cork := WrapCork(server)
	cork.Cork()
	assert.True(t, cork.Corked())

	buf := make([]byte, 4096)
	n, err := cork.Read(buf)
	assert.ErrorIs(t, err, ErrWouldBlock)
	assert.Zero(t, n)
}

func TestCorkStreamBlocksAtNextRecordBoundary(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	cork := WrapCork(server)
	first := record(0x17, []byte("first"))
	second := record(0x17, []byte("second"))
	writeAsync(t, client, append(first, second...))

	got := make([]byte, len(first))
	n, err := io.ReadFull(cork, got)
	require.NoError(t, err)
	assert.Equal(t, first, got[:n])

	cork.Cork()

	buf := make([]byte, 4096)
	_, err = cork.Read(buf)
	assert.ErrorIs(t, err, ErrWouldBlock)
	assert.False(t, cork.HasResidualCiphertext())
}

func TestCorkStreamReassemblesHeaderSplitAcrossReads(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	cork := WrapCork(server)
	full := record(0x17, []byte("x"))

	// Write only part of the header, then the rest after a delay, so the
	// reader observes a partially-buffered header mid-fillHeader.
	go func() {
		_, _ = client.Write(full[:2])
		time.Sleep(20 * time.Millisecond)
		_, _ = client.Write(full[2:])
	}()

	got := make([]byte, len(full))
	n, err := io.ReadFull(cork, got)
	require.NoError(t, err)
	assert.Equal(t, len(full), n)
	assert.Equal(t, full, got)
}

func TestCorkStreamWritePassesThroughRegardlessOfCork(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	cork := WrapCork(server)
	cork.Cork()

	payload := []byte("outgoing")
	done := make(chan struct{})
	go func() {
		_, _ = cork.Write(payload)
		close(done)
	}()

	got := make([]byte, len(payload))
	_, err := io.ReadFull(client, got)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	<-done
}
