package ktls

import "github.com/keploy-labs/ktlscore/pkg/ktls/linuxabi"

// Compatibility is the capability probe's output: for each
// suite the marshaller knows about, whether the running kernel accepted
// kTLS parameters for it. Populated once per process and read-only
// thereafter.
type Compatibility map[linuxabi.Suite]bool
