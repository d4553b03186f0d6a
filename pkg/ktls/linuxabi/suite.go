// Package linuxabi packs TLS secrets into the byte-exact structures the
// Linux kernel's TLS ULP expects at SOL_TLS/TLS_TX and SOL_TLS/TLS_RX. The
// encoding logic here has no OS dependency — it only becomes Linux-specific
// once the packed bytes are handed to setsockopt, which lives in
// pkg/ktls's linux-tagged files.
package linuxabi

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrUnknownSuite is returned by EncodedSize and Encode when asked about a
// Suite value outside the six-entry enumeration.
var ErrUnknownSuite = errors.New("linuxabi: unknown cipher suite")

// Suite identifies one of the six cipher-suite/version combinations the
// kernel's TLS ULP implements. Any value outside this enumeration is a
// programmer error at the marshaller boundary, not a runtime fallback.
type Suite int

const (
	_ Suite = iota
	AES128GCM_TLS12
	AES256GCM_TLS12
	Chacha20Poly1305_TLS12
	AES128GCM_TLS13
	AES256GCM_TLS13
	Chacha20Poly1305_TLS13
)

// String renders the suite name for logging and error messages.
func (s Suite) String() string {
	switch s {
	case AES128GCM_TLS12:
		return "AES-128-GCM/TLS1.2"
	case AES256GCM_TLS12:
		return "AES-256-GCM/TLS1.2"
	case Chacha20Poly1305_TLS12:
		return "ChaCha20-Poly1305/TLS1.2"
	case AES128GCM_TLS13:
		return "AES-128-GCM/TLS1.3"
	case AES256GCM_TLS13:
		return "AES-256-GCM/TLS1.3"
	case Chacha20Poly1305_TLS13:
		return "ChaCha20-Poly1305/TLS1.3"
	default:
		return fmt.Sprintf("Suite(%d)", int(s))
	}
}

// AllSuites enumerates every suite the marshaller and probe know about, in
// a stable order used for deterministic probe output.
var AllSuites = []Suite{
	AES128GCM_TLS12,
	AES256GCM_TLS12,
	Chacha20Poly1305_TLS12,
	AES128GCM_TLS13,
	AES256GCM_TLS13,
	Chacha20Poly1305_TLS13,
}

// Protocol version tags, matching TLS's own wire values (kernel headers use
// the same numbers: 0x0303 for 1.2, 0x0304 for 1.3).
const (
	VersionTLS12 uint16 = 0x0303
	VersionTLS13 uint16 = 0x0304
)

// Kernel cipher_type values (include/uapi/linux/tls.h).
const (
	cipherTypeAESGCM128     = 51
	cipherTypeAESGCM256     = 52
	cipherTypeChacha20Poly1305 = 54
)

// layout describes one suite's field sizes, all in bytes.
type layout struct {
	version    uint16
	cipherType uint16
	keySize    int
	ivSize     int // explicit IV carried on the wire / in TLS 1.3 key schedule output
	saltSize   int // implicit salt, derived from the key schedule, not sent per-record
	seqSize    int
}

var layouts = map[Suite]layout{
	AES128GCM_TLS12:        {VersionTLS12, cipherTypeAESGCM128, 16, 8, 4, 8},
	AES256GCM_TLS12:        {VersionTLS12, cipherTypeAESGCM256, 32, 8, 4, 8},
	Chacha20Poly1305_TLS12: {VersionTLS12, cipherTypeChacha20Poly1305, 32, 12, 0, 8},
	AES128GCM_TLS13:        {VersionTLS13, cipherTypeAESGCM128, 16, 8, 4, 8},
	AES256GCM_TLS13:        {VersionTLS13, cipherTypeAESGCM256, 32, 8, 4, 8},
	Chacha20Poly1305_TLS13: {VersionTLS13, cipherTypeChacha20Poly1305, 32, 12, 0, 8},
}

// EncodedSize returns the exact packed byte length the kernel expects for
// suite.
func EncodedSize(suite Suite) (int, error) {
	l, ok := layouts[suite]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnknownSuite, suite)
	}
	// 2 bytes version + 2 bytes cipher_type + iv + key + salt + seq
	return 4 + l.ivSize + l.keySize + l.saltSize + l.seqSize, nil
}

// Secret is the (key, iv, sequence-number) triple extracted from a TLS
// session for one direction. For every suite IV is the full 12-byte nonce:
// salt||iv (4+8 bytes) for the AES-GCM suites of either version, and the
// whole 12-byte iv for ChaCha20-Poly1305.
type Secret struct {
	Key []byte
	IV  []byte
	Seq uint64
}

// Encode packs secret into suite's kernel ABI layout: version (u16 LE),
// cipher_type (u16 LE), iv, key, salt, seq (big-endian), with salt split
// off the head of the 12-byte nonce for the AES-GCM suites. The result
// has zero padding — it is the literal byte image for setsockopt.
func Encode(suite Suite, secret Secret) ([]byte, error) {
	l, ok := layouts[suite]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrUnknownSuite, suite)
	}

	if len(secret.Key) != l.keySize {
		return nil, fmt.Errorf("linuxabi: %v wants a %d-byte key, got %d", suite, l.keySize, len(secret.Key))
	}

	wantIV := l.ivSize + l.saltSize
	if len(secret.IV) != wantIV {
		return nil, fmt.Errorf("linuxabi: %v wants a %d-byte nonce (salt+iv), got %d", suite, wantIV, len(secret.IV))
	}

	size, err := EncodedSize(suite)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, size)

	binary.LittleEndian.PutUint16(buf[0:2], l.version)
	binary.LittleEndian.PutUint16(buf[2:4], l.cipherType)

	// Kernel field order is iv, key, salt, seq. For ChaCha20-Poly1305 the
	// salt is zero-length and the whole 12-byte nonce lands in iv; for
	// AES-GCM the first saltSize bytes of the nonce are split off as salt
	// and the remainder is the explicit iv.
	var iv, salt []byte
	if l.saltSize == 0 {
		iv, salt = secret.IV, nil
	} else {
		salt, iv = secret.IV[:l.saltSize], secret.IV[l.saltSize:]
	}

	off := 4
	copy(buf[off:off+l.ivSize], iv)
	off += l.ivSize
	copy(buf[off:off+l.keySize], secret.Key)
	off += l.keySize
	copy(buf[off:off+l.saltSize], salt)
	off += l.saltSize
	binary.BigEndian.PutUint64(buf[off:off+l.seqSize], secret.Seq)

	return buf, nil
}
