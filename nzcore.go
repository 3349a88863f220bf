// Package nzcore implements a personal, autonomous Root of Trust: a
// deterministic cryptographic library that turns a mnemonic into a
// lifelong identity and maintains a hash-linked, signed, linear document
// chain under that identity.
//
// A Facade is the single owning handle for one identity and its chain
// state. There is no internal concurrency — operations on a Facade are
// sequential, and concurrent use across goroutines requires external
// mutual exclusion.
package nzcore

import (
	"crypto/ed25519"
	"log/slog"
	"time"

	"github.com/nzcore-labs/nzcore/pkg/canonicalize"
	"github.com/nzcore-labs/nzcore/pkg/chain"
	"github.com/nzcore-labs/nzcore/pkg/clock"
	"github.com/nzcore-labs/nzcore/pkg/cryptosuite"
	"github.com/nzcore-labs/nzcore/pkg/document"
	"github.com/nzcore-labs/nzcore/pkg/fork"
	"github.com/nzcore-labs/nzcore/pkg/identity"
	"github.com/nzcore-labs/nzcore/pkg/nzerr"
	"github.com/nzcore-labs/nzcore/pkg/policy"
	"github.com/nzcore-labs/nzcore/pkg/primitives"
	"github.com/nzcore-labs/nzcore/pkg/validator"
)

// Options customizes facade construction. All fields are optional.
type Options struct {
	ChainID     string
	InitialTime uint64
	Policy      policy.Evaluator
}

// Facade binds identity derivation, the chain state manager, the clock,
// and the validator behind the public operation surface described by the
// system this library implements.
type Facade struct {
	mnemonic  string
	identity  *identity.Root
	chain     *chain.State
	policy    policy.Evaluator
	destroyed bool
}

// Create validates mnemonic, derives an identity from it, and constructs a
// chain state manager and validator around that identity.
func Create(mnemonic string, opts Options) (*Facade, error) {
	root, err := identity.Derive(mnemonic)
	if err != nil {
		slog.Error("facade creation failed", "error", err)
		return nil, err
	}

	chainID := opts.ChainID
	if chainID == "" {
		chainID = root.ChainID
	}

	initialTime := opts.InitialTime
	if initialTime == 0 {
		initialTime = 1
	}

	state, err := chain.New(chainID, initialTime)
	if err != nil {
		slog.Error("facade creation failed constructing chain state", "error", err)
		return nil, err
	}

	return &Facade{
		mnemonic: mnemonic,
		identity: root,
		chain:    state,
		policy:   opts.Policy,
	}, nil
}

func (f *Facade) checkAlive() error {
	if f.destroyed {
		return nzerr.Wrap(nzerr.ErrInvalidKey, "facade has been destroyed")
	}
	return nil
}

// CreateDocument builds, signs, and appends a new document of the given
// type with an optional payload.
func (f *Facade) CreateDocument(docType string, payload map[string]interface{}) (*document.Document, error) {
	if err := f.checkAlive(); err != nil {
		return nil, err
	}

	t, err := f.chain.Clock().Tick()
	if err != nil {
		return nil, err
	}

	parent := f.chain.LastHash()

	builder := document.NewBuilder().
		WithType(docType).
		WithChainID(f.chain.ChainID()).
		WithParentHash(parent).
		WithLogicalTime(t).
		WithCreatedAt(time.Now().UTC().Format(time.RFC3339))
	if payload != nil {
		builder = builder.WithPayload(payload)
	}

	doc, err := builder.Build()
	if err != nil {
		return nil, err
	}

	toSign, err := canonicalize.PrepareForSigning(doc)
	if err != nil {
		return nil, err
	}

	sig, err := f.identity.Sign(toSign)
	if err != nil {
		return nil, err
	}
	doc.Signature = primitives.ToHex(sig)

	if err := f.chain.Append(doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// VerifyDocument runs the three-layer validator against doc, trusting only
// this facade's own public key, with current_time set from the chain's
// clock.
func (f *Facade) VerifyDocument(doc *document.Document) validator.Result {
	if f.destroyed {
		return validator.Result{Errors: []string{nzerr.ErrInvalidKey.Error()}}
	}
	current := f.chain.Clock().Current()
	return validator.Validate(doc, validator.Context{
		TrustedKeys:     []ed25519.PublicKey{f.identity.PublicKey},
		CurrentTime:     &current,
		PolicyEvaluator: f.policy,
	})
}

// VerifyDocumentBytes runs the three-layer validator against raw wire-form
// JSON, additionally asserting raw is already in RFC 8785 canonical form
// before the signature is checked. Use this instead of VerifyDocument
// whenever the document bytes as received (over a file, a socket, a CLI
// argument) are available, since a *document.Document alone can no longer
// prove the caller didn't send a re-encoded, tampered wire form.
func (f *Facade) VerifyDocumentBytes(raw []byte) (validator.Result, *document.Document) {
	if f.destroyed {
		return validator.Result{Errors: []string{nzerr.ErrInvalidKey.Error()}}, nil
	}
	current := f.chain.Clock().Current()
	return validator.ValidateBytes(raw, validator.Context{
		TrustedKeys:     []ed25519.PublicKey{f.identity.PublicKey},
		CurrentTime:     &current,
		PolicyEvaluator: f.policy,
	})
}

// GetChainState returns a snapshot of the chain's documents, last hash,
// and logical clock.
func (f *Facade) GetChainState() ChainStateSnapshot {
	if f.destroyed {
		return ChainStateSnapshot{}
	}
	return ChainStateSnapshot{
		ChainID:      f.chain.ChainID(),
		LastHash:     f.chain.LastHash(),
		LogicalClock: f.chain.Clock().Current(),
		Documents:    f.chain.Documents(),
	}
}

// ChainStateSnapshot is a read-only view of the chain at a point in time.
type ChainStateSnapshot struct {
	ChainID      string
	LastHash     string
	LogicalClock uint64
	Documents    []*document.Document
}

// DetectFork runs the fork scan over the chain's current documents.
func (f *Facade) DetectFork() []fork.Info {
	if f.destroyed {
		return nil
	}
	return f.chain.DetectForks()
}

// IdentityExport is the wire form returned by ExportIdentity.
type IdentityExport struct {
	Mnemonic string `json:"mnemonic"`
	ChainID  string `json:"chain_id"`
}

// ExportIdentity returns the mnemonic and chain id, for the caller to
// persist externally. This is the only way the mnemonic ever leaves the
// facade other than at Destroy time.
func (f *Facade) ExportIdentity() (IdentityExport, error) {
	if f.destroyed {
		return IdentityExport{}, nzerr.Wrap(nzerr.ErrInvalidKey, "facade has been destroyed")
	}
	return IdentityExport{Mnemonic: f.mnemonic, ChainID: f.identity.ChainID}, nil
}

// ExportState serializes the chain's state to a self-describing byte blob.
func (f *Facade) ExportState() ([]byte, error) {
	if err := f.checkAlive(); err != nil {
		return nil, err
	}
	return f.chain.Export()
}

// ImportState reinstalls a previously exported chain state, replacing the
// facade's current chain (including its clock). Rejects with
// ValidationFailed if the blob's chain id does not match this facade's.
func (f *Facade) ImportState(data []byte) error {
	if err := f.checkAlive(); err != nil {
		return err
	}
	restored, err := chain.Import(data, f.chain.ChainID())
	if err != nil {
		slog.Error("state import failed", "error", err)
		return err
	}
	f.chain = restored
	return nil
}

// GetPublicKey returns the identity's raw public key bytes.
func (f *Facade) GetPublicKey() []byte {
	if f.destroyed {
		return nil
	}
	return append([]byte(nil), f.identity.PublicKey...)
}

// GetPublicKeyHex returns the identity's public key as lowercase hex.
func (f *Facade) GetPublicKeyHex() string {
	if f.destroyed {
		return ""
	}
	return f.identity.PublicKeyHex()
}

// GetChainID returns the facade's chain id.
func (f *Facade) GetChainID() string {
	if f.destroyed {
		return ""
	}
	return f.chain.ChainID()
}

// Destroy zeroizes the private key buffer, clears the stored mnemonic, and
// marks the facade destroyed. All subsequent operations fail or return
// zero values.
func (f *Facade) Destroy() {
	if f.destroyed {
		return
	}
	f.identity.Destroy()
	f.mnemonic = ""
	f.destroyed = true
	slog.Info("facade destroyed", "chain_id", f.chain.ChainID())
}

// SuiteID exposes the fixed cryptographic suite identifier this library
// implements, for callers that want to assert compatibility.
const SuiteID = cryptosuite.SuiteID

// LogicalTimeValidateOrder re-exposes the clock's static ordering helper
// for callers composing their own chain-validity checks.
func LogicalTimeValidateOrder(prev, next uint64) bool {
	return clock.ValidateOrder(prev, next)
}
