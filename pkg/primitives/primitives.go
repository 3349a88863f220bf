// Package primitives provides the low-level byte utilities shared by every
// layer above it: hex/base64url encoding, buffer merging, zeroization, and
// constant-time comparison. Nothing in this package makes cryptographic
// decisions; it only moves and compares bytes safely.
package primitives

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"runtime"

	"github.com/nzcore-labs/nzcore/pkg/nzerr"
)

// ToHex lowercases and hex-encodes b. All hex fields in this system are
// lowercase per the wire format.
func ToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// FromHex decodes a lowercase hex string, rejecting anything that isn't
// exactly len*2 lowercase hex characters.
func FromHex(s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'F' {
			return nil, nzerr.Wrap(nzerr.ErrInvalidKey, "invalid hex encoding: uppercase digit", "input", s)
		}
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, nzerr.Wrap(nzerr.ErrInvalidKey, "invalid hex encoding", "input", s)
	}
	return b, nil
}

// ToBase64URL encodes b without padding, as used by export blobs that embed
// binary fields inside JSON.
func ToBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// FromBase64URL decodes an unpadded base64url string.
func FromBase64URL(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, nzerr.Wrap(nzerr.ErrInvalidKey, "invalid base64url encoding", "input", s)
	}
	return b, nil
}

// Concat merges byte slices into a single freshly allocated buffer, in order.
func Concat(parts ...[]byte) []byte {
	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]byte, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Zeroize overwrites b with zeros in three passes (0x00, 0xFF, 0x00) and
// pins the buffer alive past the final write with runtime.KeepAlive, so the
// compiler cannot prove the wipe is dead and elide it.
func Zeroize(b []byte) {
	for pass := 0; pass < 3; pass++ {
		fill := byte(0x00)
		if pass == 1 {
			fill = 0xFF
		}
		for i := range b {
			b[i] = fill
		}
	}
	runtime.KeepAlive(b)
}

// ConstantTimeEqual compares two byte slices without leaking timing
// information through early exit, as required for every signature, hash,
// or canonical-form comparison in this system.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// U32LE encodes v as 4 little-endian bytes, as required by the document id
// derivation's logical_time encoding.
func U32LE(v uint32) []byte {
	return []byte{
		byte(v),
		byte(v >> 8),
		byte(v >> 16),
		byte(v >> 24),
	}
}
