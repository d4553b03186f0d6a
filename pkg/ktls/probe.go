package ktls

import (
	"context"
	"sync"
)

var (
	probeOnce   sync.Once
	probeResult Compatibility
	probeErr    error
)

// Probe determines which of the six known cipher suites the running
// kernel will accept kTLS parameters for. It requires no network access
// beyond the loopback interface, leaks no descriptors on failure, and is
// computed once per process — subsequent calls return the cached result.
func Probe(ctx context.Context) (Compatibility, error) {
	probeOnce.Do(func() {
		probeResult, probeErr = probePlatform(ctx)
	})
	return probeResult, probeErr
}
