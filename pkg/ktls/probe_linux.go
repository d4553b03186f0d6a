//go:build linux

package ktls

import (
	"context"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/keploy-labs/ktlscore/pkg/ktls/linuxabi"
)

// dummySecret returns arbitrary-but-correctly-sized key material for
// suite, used only to probe kernel acceptance; it is never used to protect
// real traffic.
func dummySecret(suite linuxabi.Suite) linuxabi.Secret {
	// Sizing mirrors linuxabi's layout table: 32-byte key and 12-byte iv
	// cover every suite's maximum; the switch below slices each to the
	// exact length Encode requires for the suite.
	key := make([]byte, 32)
	iv := make([]byte, 12)
	for i := range key {
		key[i] = byte(i)
	}
	for i := range iv {
		iv[i] = byte(i)
	}

	switch suite {
	case linuxabi.AES128GCM_TLS12:
		return linuxabi.Secret{Key: key[:16], IV: iv[:12], Seq: 0}
	case linuxabi.AES256GCM_TLS12:
		return linuxabi.Secret{Key: key[:32], IV: iv[:12], Seq: 0}
	case linuxabi.Chacha20Poly1305_TLS12:
		return linuxabi.Secret{Key: key[:32], IV: iv[:12], Seq: 0}
	case linuxabi.AES128GCM_TLS13:
		return linuxabi.Secret{Key: key[:16], IV: iv[:12], Seq: 0}
	case linuxabi.AES256GCM_TLS13:
		return linuxabi.Secret{Key: key[:32], IV: iv[:12], Seq: 0}
	case linuxabi.Chacha20Poly1305_TLS13:
		return linuxabi.Secret{Key: key[:32], IV: iv[:12], Seq: 0}
	default:
		return linuxabi.Secret{}
	}
}

// loopbackPair opens a throwaway TCP connection over the loopback
// interface only — no external network access.
func loopbackPair() (client, server *net.TCPConn, err error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, nil, err
	}
	defer ln.Close()

	acceptCh := make(chan *net.TCPConn, 1)
	errCh := make(chan error, 1)
	go func() {
		c, err := ln.Accept()
		if err != nil {
			errCh <- err
			return
		}
		acceptCh <- c.(*net.TCPConn)
	}()

	c, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		return nil, nil, err
	}

	select {
	case s := <-acceptCh:
		return c.(*net.TCPConn), s, nil
	case err := <-errCh:
		_ = c.Close()
		return nil, nil, err
	}
}

// probePlatform probes every suite concurrently — each suite opens its own
// loopback pair, so the probes share no state and errgroup just needs to
// wait for all of them and propagate ctx cancellation.
func probePlatform(ctx context.Context) (Compatibility, error) {
	result := make(Compatibility, len(linuxabi.AllSuites))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, suite := range linuxabi.AllSuites {
		suite := suite
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ok := probeSuite(suite)
			mu.Lock()
			result[suite] = ok
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}

func probeSuite(suite linuxabi.Suite) bool {
	client, server, err := loopbackPair()
	if err != nil {
		return false
	}
	defer client.Close()
	defer server.Close()

	params, err := Marshal(suite, dummySecret(suite))
	if err != nil {
		return false
	}
	defer params.Zero()

	if err := platform.enableULP(client); err != nil {
		return false
	}
	if err := platform.upload(client, DirectionTX, params); err != nil {
		return false
	}
	return true
}
