//go:build !linux

package ktls

import (
	"context"

	"github.com/keploy-labs/ktlscore/pkg/ktls/linuxabi"
)

// probePlatform reports every suite as unsupported outside Linux — kTLS is
// a Linux-only facility.
func probePlatform(context.Context) (Compatibility, error) {
	result := make(Compatibility, len(linuxabi.AllSuites))
	for _, suite := range linuxabi.AllSuites {
		result[suite] = false
	}
	return result, nil
}
