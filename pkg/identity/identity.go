// Package identity implements deterministic identity derivation: a BIP-39
// mnemonic is the sole input to a fixed pipeline that produces an Ed25519
// keypair and a stable chain identifier. There is no key rotation — the
// identity equals the mnemonic by design.
package identity

import (
	"crypto/ed25519"

	"github.com/nzcore-labs/nzcore/pkg/cryptosuite"
	"github.com/nzcore-labs/nzcore/pkg/nzerr"
	"github.com/nzcore-labs/nzcore/pkg/primitives"
)

const (
	scryptSalt    = "nzcore-identity-v1"
	hkdfSalt      = "nzcore-hkdf-salt"
	hkdfInfo      = "ed25519-root-key"
	chainIDDomain = "nzcore-nzcore-crypto-01-chain"
	documentIDDomain = "nzcore-nzcore-crypto-01-document"
)

// Root is the identity root key: a public/private Ed25519 keypair and the
// chain id derived from the public key. Immutable after derivation; the
// private key is zeroized on Destroy.
type Root struct {
	PublicKey  ed25519.PublicKey
	privateKey ed25519.PrivateKey
	ChainID    string
	destroyed  bool
}

// Derive runs the deterministic identity pipeline against mnemonic:
// validate, seed, scrypt, HKDF, Ed25519 keypair, chain id. The same
// mnemonic always yields the same Root.
func Derive(mnemonic string) (*Root, error) {
	if err := cryptosuite.ValidateMnemonic(mnemonic); err != nil {
		return nil, err
	}

	seed, err := cryptosuite.MnemonicToSeed(mnemonic)
	if err != nil {
		return nil, err
	}

	scryptKey, err := cryptosuite.ScryptDerive(seed, []byte(scryptSalt))
	if err != nil {
		return nil, err
	}
	defer primitives.Zeroize(scryptKey)

	derived, err := cryptosuite.HKDFDerive(scryptKey, []byte(hkdfSalt), []byte(hkdfInfo), ed25519.SeedSize)
	if err != nil {
		return nil, err
	}
	defer primitives.Zeroize(derived)

	pub, priv, err := cryptosuite.KeypairFromSeed(derived)
	if err != nil {
		return nil, err
	}

	chainIDBytes := cryptosuite.DomainHash(chainIDDomain, pub)
	chainID := primitives.ToHex(chainIDBytes[:])

	return &Root{
		PublicKey:  pub,
		privateKey: priv,
		ChainID:    chainID,
	}, nil
}

// Sign signs data with the root's private key. Fails with InvalidKey if the
// root has been destroyed.
func (r *Root) Sign(data []byte) ([]byte, error) {
	if r.destroyed {
		return nil, nzerr.Wrap(nzerr.ErrInvalidKey, "identity root has been destroyed")
	}
	return cryptosuite.Sign(r.privateKey, data)
}

// PublicKeyHex returns the root's public key as lowercase hex.
func (r *Root) PublicKeyHex() string {
	return primitives.ToHex(r.PublicKey)
}

// Destroy zeroizes the private key buffer. All subsequent Sign calls fail.
func (r *Root) Destroy() {
	if r.destroyed {
		return
	}
	primitives.Zeroize(r.privateKey)
	r.destroyed = true
}

// DeriveDocumentID computes the deterministic document id from its three
// identity-bound inputs: `domain_hash(chainId || parentHash || logical_time
// as 4 little-endian bytes)`, truncated to 32 bytes and hex-encoded. This is
// used both when building a document and when re-verifying chain integrity,
// so the two paths MUST call this same function.
func DeriveDocumentID(chainID, parentHash string, logicalTime uint32) (string, error) {
	chainBytes, err := primitives.FromHex(chainID)
	if err != nil {
		return "", nzerr.Wrap(nzerr.ErrInvalidKey, "chain id is not valid hex", "chain_id", chainID)
	}
	parentBytes, err := primitives.FromHex(parentHash)
	if err != nil {
		return "", nzerr.Wrap(nzerr.ErrInvalidKey, "parent hash is not valid hex", "parent_hash", parentHash)
	}

	digest := cryptosuite.DomainHash(documentIDDomain, chainBytes, parentBytes, primitives.U32LE(logicalTime))
	return primitives.ToHex(digest[:]), nil
}
