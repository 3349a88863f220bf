// Package document defines the Document record and a fluent builder that
// assembles one: field schema, canonicalization on build, and deterministic
// id derivation. The builder never touches private key material — signing
// is the facade's job.
package document

import (
	"encoding/json"
	"strings"

	"github.com/nzcore-labs/nzcore/pkg/canonicalize"
	"github.com/nzcore-labs/nzcore/pkg/cryptosuite"
	"github.com/nzcore-labs/nzcore/pkg/identity"
	"github.com/nzcore-labs/nzcore/pkg/nzerr"
)

// Version is the document schema version written into every document.
const Version = "1.0"

// ZeroHash is the parent_hash value used by the first document in a chain.
var ZeroHash = strings.Repeat("0", 64)

// Document is an ordered record in a chain. Unknown fields are preserved
// verbatim (via Extra) and are covered by the signature.
type Document struct {
	Type        string                 `json:"type"`
	Version     string                 `json:"version"`
	ID          string                 `json:"id"`
	ChainID     string                 `json:"chain_id"`
	ParentHash  string                 `json:"parent_hash"`
	LogicalTime uint64                 `json:"logical_time"`
	CryptoSuite string                 `json:"crypto_suite"`
	CreatedAt   string                 `json:"created_at"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	Signature   string                 `json:"signature"`
	Extra       map[string]interface{} `json:"-"`
}

// MarshalJSON flattens Extra fields alongside the named fields, so unknown
// top-level fields round-trip and remain covered by the signature.
func (d Document) MarshalJSON() ([]byte, error) {
	type alias Document
	base, err := json.Marshal(alias(d))
	if err != nil {
		return nil, err
	}
	if len(d.Extra) == 0 {
		return base, nil
	}

	var merged map[string]interface{}
	if err := json.Unmarshal(base, &merged); err != nil {
		return nil, err
	}
	for k, v := range d.Extra {
		if _, exists := merged[k]; !exists {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// UnmarshalJSON populates named fields and stashes anything else in Extra.
func (d *Document) UnmarshalJSON(data []byte) error {
	type alias Document
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = Document(a)

	var generic map[string]interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return err
	}
	known := map[string]bool{
		"type": true, "version": true, "id": true, "chain_id": true,
		"parent_hash": true, "logical_time": true, "crypto_suite": true,
		"created_at": true, "payload": true, "signature": true,
	}
	extra := make(map[string]interface{})
	for k, v := range generic {
		if !known[k] {
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		d.Extra = extra
	}
	return nil
}

// Builder constructs a Document field by field before finalizing it with
// Build.
type Builder struct {
	doc Document
	set map[string]bool
}

// NewBuilder starts a fresh, empty builder.
func NewBuilder() *Builder {
	return &Builder{
		doc: Document{Extra: map[string]interface{}{}},
		set: map[string]bool{},
	}
}

func (b *Builder) WithType(t string) *Builder {
	b.doc.Type = t
	b.set["type"] = true
	return b
}

func (b *Builder) WithID(id string) *Builder {
	b.doc.ID = id
	b.set["id"] = true
	return b
}

func (b *Builder) WithChainID(chainID string) *Builder {
	b.doc.ChainID = chainID
	b.set["chain_id"] = true
	return b
}

func (b *Builder) WithParentHash(parentHash string) *Builder {
	b.doc.ParentHash = parentHash
	b.set["parent_hash"] = true
	return b
}

func (b *Builder) WithLogicalTime(t uint64) *Builder {
	b.doc.LogicalTime = t
	b.set["logical_time"] = true
	return b
}

func (b *Builder) WithCreatedAt(ts string) *Builder {
	b.doc.CreatedAt = ts
	b.set["created_at"] = true
	return b
}

func (b *Builder) WithPayload(payload map[string]interface{}) *Builder {
	b.doc.Payload = payload
	b.set["payload"] = true
	return b
}

func (b *Builder) WithVersion(v string) *Builder {
	b.doc.Version = v
	b.set["version"] = true
	return b
}

func (b *Builder) WithCryptoSuite(suite string) *Builder {
	b.doc.CryptoSuite = suite
	b.set["crypto_suite"] = true
	return b
}

func (b *Builder) WithSignature(sig string) *Builder {
	b.doc.Signature = sig
	b.set["signature"] = true
	return b
}

// AddField sets an unknown top-level field, unless that key has already
// been set by this or a prior call — AddField never overwrites.
func (b *Builder) AddField(key string, value interface{}) *Builder {
	if b.set[key] {
		return b
	}
	b.doc.Extra[key] = value
	b.set[key] = true
	return b
}

// Build asserts required fields are present, fills version/crypto_suite
// defaults, derives the id if unset, and returns a canonicalized Document.
func (b *Builder) Build() (*Document, error) {
	if b.doc.Type == "" {
		return nil, nzerr.Wrap(nzerr.ErrValidationFailed, "document type is required")
	}
	if b.doc.ChainID == "" {
		return nil, nzerr.Wrap(nzerr.ErrValidationFailed, "document chain_id is required")
	}
	if b.doc.ParentHash == "" {
		return nil, nzerr.Wrap(nzerr.ErrValidationFailed, "document parent_hash is required")
	}
	if b.doc.LogicalTime == 0 {
		return nil, nzerr.Wrap(nzerr.ErrValidationFailed, "document logical_time is required")
	}
	if !b.set["version"] {
		b.doc.Version = Version
	}
	if !b.set["crypto_suite"] {
		b.doc.CryptoSuite = cryptosuite.SuiteID
	} else if b.doc.CryptoSuite != cryptosuite.SuiteID {
		return nil, nzerr.Wrap(nzerr.ErrCryptoSuiteMismatch, "document declares an unsupported crypto suite",
			"expected", cryptosuite.SuiteID, "got", b.doc.CryptoSuite)
	}
	if !b.set["id"] || b.doc.ID == "" {
		if b.doc.LogicalTime > 0xffffffff {
			return nil, nzerr.Wrap(nzerr.ErrValidationFailed, "logical_time exceeds 32-bit id-derivation bound", "logical_time", b.doc.LogicalTime)
		}
		id, err := identity.DeriveDocumentID(b.doc.ChainID, b.doc.ParentHash, uint32(b.doc.LogicalTime))
		if err != nil {
			return nil, err
		}
		b.doc.ID = id
	}

	out := b.doc
	if _, err := canonicalize.Serialize(out); err != nil {
		return nil, err
	}
	return &out, nil
}

// IsZeroHash reports whether h is the sentinel parent hash used by the
// first document in a chain.
func IsZeroHash(h string) bool {
	return h == strings.Repeat("0", 64)
}
