// Package cryptosuite implements the fixed cryptographic suite identified
// as "nzcore-crypto-01": BLAKE2b-256 hashing, Ed25519 signatures, scrypt as
// the memory-hard KDF step, HKDF-SHA256 as the expansion KDF step, and
// BIP-39 mnemonic operations. The suite is pinned; none of these choices
// are configurable at runtime.
package cryptosuite

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"

	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/scrypt"

	"github.com/nzcore-labs/nzcore/pkg/nzerr"
	"github.com/nzcore-labs/nzcore/pkg/primitives"
)

// SuiteID is the identifier every document's crypto_suite field must carry.
const SuiteID = "nzcore-crypto-01"

// HashSize is the output length, in bytes, of every hash in this suite.
const HashSize = 32

// ScryptN, ScryptR, ScryptP, ScryptKeyLen are the pinned memory-hard KDF
// parameters. These are not configurable.
const (
	ScryptN      = 32768
	ScryptR      = 8
	ScryptP      = 1
	ScryptKeyLen = 64
)

// Hash computes the 32-byte BLAKE2b-256 digest of data.
func Hash(data []byte) [HashSize]byte {
	return blake2b.Sum256(data)
}

// DomainHash computes BLAKE2b-256 over `domain || ":" || data`, binding the
// digest to a specific usage so the same bytes hashed for two different
// purposes never collide.
func DomainHash(domain string, data ...[]byte) [HashSize]byte {
	buf := primitives.Concat(append([][]byte{[]byte(domain), []byte(":")}, data...)...)
	return blake2b.Sum256(buf)
}

// DoubleHash computes H(H(data)).
func DoubleHash(data []byte) [HashSize]byte {
	first := Hash(data)
	return Hash(first[:])
}

// GenerateKeypair creates a fresh random Ed25519 keypair, for reference or
// testing use. Identity derivation in this system never calls this; keys
// are deterministically derived from a mnemonic (see pkg/identity).
func GenerateKeypair() (ed25519.PublicKey, ed25519.PrivateKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, nzerr.Wrap(nzerr.ErrInvalidKey, "key generation failed", "cause", err.Error())
	}
	return pub, priv, nil
}

// KeypairFromSeed derives an Ed25519 keypair from a 32-byte seed,
// deterministically: the same seed always yields the same keypair.
func KeypairFromSeed(seed []byte) (ed25519.PublicKey, ed25519.PrivateKey, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, nil, nzerr.Wrap(nzerr.ErrInvalidKey, "seed must be 32 bytes", "length", len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return pub, priv, nil
}

// Sign signs data with priv and requires the result be exactly 64 bytes, as
// mandated by the suite: any other length is treated as a backend failure
// rather than silently returned.
func Sign(priv ed25519.PrivateKey, data []byte) ([]byte, error) {
	sig := ed25519.Sign(priv, data)
	if len(sig) != ed25519.SignatureSize {
		return nil, nzerr.Wrap(nzerr.ErrInvalidSignature, "signing backend returned unexpected length", "length", len(sig))
	}
	return sig, nil
}

// Verify reports whether sig is a valid Ed25519 signature over data under
// pub. A malformed (non-64-byte) signature is treated as invalid, not as
// an error: callers compose this into validation results, not control flow.
func Verify(pub ed25519.PublicKey, data, sig []byte) bool {
	if len(sig) != ed25519.SignatureSize {
		return false
	}
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(pub, data, sig)
}

// ScryptDerive runs the pinned memory-hard KDF over ikm with salt, producing
// ScryptKeyLen bytes. The caller is responsible for zeroizing the result
// once consumed.
func ScryptDerive(ikm, salt []byte) ([]byte, error) {
	key, err := scrypt.Key(ikm, salt, ScryptN, ScryptR, ScryptP, ScryptKeyLen)
	if err != nil {
		return nil, nzerr.Wrap(nzerr.ErrInvalidKey, "scrypt derivation failed", "cause", err.Error())
	}
	return key, nil
}

// HKDFDerive runs HKDF-SHA256 extract-then-expand over ikm, producing
// length bytes. The intermediate pseudorandom key is zeroized before
// returning, per the suite's key-hygiene requirement.
func HKDFDerive(ikm, salt, info []byte, length int) ([]byte, error) {
	extracted := hkdf.Extract(sha256.New, ikm, salt)
	defer primitives.Zeroize(extracted)

	reader := hkdf.Expand(sha256.New, extracted, info)
	out := make([]byte, length)
	if _, err := reader.Read(out); err != nil {
		return nil, nzerr.Wrap(nzerr.ErrInvalidKey, "hkdf expansion failed", "cause", err.Error())
	}
	return out, nil
}

// --- BIP-39 mnemonic operations ---

// GenerateMnemonic produces a fresh 24-word mnemonic from 256 bits of
// entropy.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return "", nzerr.Wrap(nzerr.ErrInvalidMnemonic, "entropy generation failed", "cause", err.Error())
	}
	m, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", nzerr.Wrap(nzerr.ErrInvalidMnemonic, "mnemonic encoding failed", "cause", err.Error())
	}
	return m, nil
}

// ValidateMnemonic checks that mnemonic is a well-formed BIP-39 phrase:
// correct word count, every word in the English list, and a valid checksum.
func ValidateMnemonic(mnemonic string) error {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nzerr.Wrap(nzerr.ErrInvalidMnemonic, "mnemonic failed BIP-39 validation")
	}
	return nil
}

// MnemonicToSeed derives the 64-byte seed from mnemonic using the mandatory
// empty passphrase. Any other passphrase would silently change the derived
// identity, so this function never accepts one.
func MnemonicToSeed(mnemonic string) ([]byte, error) {
	if err := ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}
	seed := bip39.NewSeed(mnemonic, "")
	if len(seed) != 64 {
		return nil, nzerr.Wrap(nzerr.ErrInvalidSeed, "seed derivation produced unexpected length", "length", len(seed))
	}
	return seed, nil
}

// MnemonicToEntropy recovers the original entropy bytes from a valid
// mnemonic.
func MnemonicToEntropy(mnemonic string) ([]byte, error) {
	entropy, err := bip39.EntropyFromMnemonic(mnemonic)
	if err != nil {
		return nil, nzerr.Wrap(nzerr.ErrInvalidMnemonic, "entropy recovery failed", "cause", err.Error())
	}
	return entropy, nil
}

// MnemonicFromEntropy re-encodes entropy bytes as a mnemonic.
func MnemonicFromEntropy(entropy []byte) (string, error) {
	m, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", nzerr.Wrap(nzerr.ErrInvalidMnemonic, "mnemonic encoding failed", "cause", err.Error())
	}
	return m, nil
}

// MaskMnemonic keeps the first three words of mnemonic intact and replaces
// every character of the remaining words with "•", preserving each word's
// length and word-boundary spacing. Whether the leaked word length is an
// acceptable disclosure is left to the caller's policy.
func MaskMnemonic(mnemonic string) string {
	words := splitWords(mnemonic)
	for i := 3; i < len(words); i++ {
		masked := make([]rune, len([]rune(words[i])))
		for j := range masked {
			masked[j] = '•'
		}
		words[i] = string(masked)
	}
	return joinWords(words)
}

func splitWords(s string) []string {
	var words []string
	start := -1
	for i, r := range s {
		if r == ' ' {
			if start >= 0 {
				words = append(words, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		words = append(words, s[start:])
	}
	return words
}

func joinWords(words []string) string {
	out := ""
	for i, w := range words {
		if i > 0 {
			out += " "
		}
		out += w
	}
	return out
}
