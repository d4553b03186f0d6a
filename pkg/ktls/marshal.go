package ktls

import (
	"errors"
	"fmt"

	"github.com/keploy-labs/ktlscore/pkg/ktls/linuxabi"
)

// CipherParams is a suite tag plus the exact packed byte image the
// kernel's TLS_TX/TLS_RX socket option expects. It carries no padding and
// no Go-level struct fields beyond what setsockopt needs.
type CipherParams struct {
	Suite   linuxabi.Suite
	Encoded []byte
}

// Marshal translates one direction's negotiated secret into CipherParams,
// rejecting any suite outside the six kernel-supported variants.
func Marshal(suite linuxabi.Suite, secret linuxabi.Secret) (CipherParams, error) {
	encoded, err := linuxabi.Encode(suite, secret)
	if errors.Is(err, linuxabi.ErrUnknownSuite) {
		return CipherParams{}, fmt.Errorf("%w: %v", ErrUnknownSuite, suite)
	}
	if err != nil {
		return CipherParams{}, err
	}
	return CipherParams{Suite: suite, Encoded: encoded}, nil
}

// Zero overwrites the encoded secret bytes in place. Called once the
// kernel has the parameters armed so key material does not linger in
// userspace memory.
func (p *CipherParams) Zero() {
	for i := range p.Encoded {
		p.Encoded[i] = 0
	}
}
