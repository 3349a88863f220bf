// Package validator implements the three-layer document validation
// pipeline: structural, cryptographic, and policy checks, run strictly in
// order and combined by logical conjunction.
package validator

import (
	"crypto/ed25519"
	"fmt"
	"regexp"
	"sort"

	"github.com/nzcore-labs/nzcore/pkg/canonicalize"
	"github.com/nzcore-labs/nzcore/pkg/cryptosuite"
	"github.com/nzcore-labs/nzcore/pkg/document"
	"github.com/nzcore-labs/nzcore/pkg/policy"
	"github.com/nzcore-labs/nzcore/pkg/primitives"
)

var parentHashPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

// Result is the outcome of validating a single document.
type Result struct {
	StructuralValid    bool     `json:"structural_valid"`
	CryptographicValid bool     `json:"cryptographic_valid"`
	PolicyValid        bool     `json:"policy_valid"`
	Final              bool     `json:"final"`
	Errors             []string `json:"errors,omitempty"`
	Warnings           []string `json:"warnings,omitempty"`
}

// Context supplies the inputs the cryptographic and policy layers need.
type Context struct {
	TrustedKeys     []ed25519.PublicKey
	CurrentTime     *uint64
	PolicyEvaluator policy.Evaluator

	// RawBytes, when set, is the exact wire-form JSON the caller received
	// for doc. The cryptographic layer asserts it is already in RFC 8785
	// canonical form before verifying the signature, rejecting any document
	// that was re-encoded (reordered keys, insignificant whitespace, a
	// non-NFC string) on its way in. Callers that only have a parsed
	// *document.Document with no surviving wire bytes can leave this nil;
	// the canonicality check is then skipped, since a struct marshal can't
	// stand in for it (the struct's field order differs from RFC 8785's).
	RawBytes []byte
}

// Validate runs all three layers in order. Later layers only run if the
// prior layer passed.
func Validate(doc *document.Document, ctx Context) Result {
	var result Result

	result.StructuralValid, result.Errors = validateStructural(doc)
	if !result.StructuralValid {
		result.Final = false
		return result
	}

	cryptoValid, cryptoErrs, warnings := validateCryptographic(doc, ctx)
	result.CryptographicValid = cryptoValid
	result.Errors = append(result.Errors, cryptoErrs...)
	result.Warnings = append(result.Warnings, warnings...)
	if !result.CryptographicValid {
		result.Final = false
		return result
	}

	result.PolicyValid = true
	if ctx.PolicyEvaluator != nil {
		ok, err := func() (ok bool, err error) {
			defer func() {
				if r := recover(); r != nil {
					ok, err = false, fmt.Errorf("policy evaluator panicked: %v", r)
				}
			}()
			return ctx.PolicyEvaluator.Evaluate(doc)
		}()
		if err != nil {
			result.PolicyValid = false
			result.Errors = append(result.Errors, err.Error())
		} else {
			result.PolicyValid = ok
		}
	}

	result.Final = result.StructuralValid && result.CryptographicValid && result.PolicyValid
	return result
}

// ValidateBytes unmarshals raw into a document and runs Validate against it,
// with raw itself asserted canonical as part of the cryptographic layer.
// This is the entrypoint that actually exercises the canonical-input-form
// rejection: a *document.Document alone has lost the original wire bytes,
// so Validate can only check canonicality when called this way.
func ValidateBytes(raw []byte, ctx Context) (Result, *document.Document) {
	var doc document.Document
	if err := doc.UnmarshalJSON(raw); err != nil {
		return Result{Errors: []string{"raw input is not a valid document: " + err.Error()}}, nil
	}
	if ctx.RawBytes == nil {
		ctx.RawBytes = raw
	}
	return Validate(&doc, ctx), &doc
}

func validateStructural(doc *document.Document) (bool, []string) {
	var errs []string

	if doc.Type == "" {
		errs = append(errs, "type is required")
	}
	if doc.Version == "" {
		errs = append(errs, "version is required")
	}
	if doc.ID == "" {
		errs = append(errs, "id is required")
	}
	if doc.ChainID == "" {
		errs = append(errs, "chain_id is required")
	}
	if doc.ParentHash == "" {
		errs = append(errs, "parent_hash is required")
	}
	if doc.CryptoSuite == "" {
		errs = append(errs, "crypto_suite is required")
	}
	if doc.CreatedAt == "" {
		errs = append(errs, "created_at is required")
	}
	if doc.Signature == "" {
		errs = append(errs, "signature is required")
	}
	if doc.LogicalTime < 1 {
		errs = append(errs, "logical_time must be >= 1")
	}
	if doc.CryptoSuite != "" && doc.CryptoSuite != cryptosuite.SuiteID {
		errs = append(errs, "crypto_suite must be "+cryptosuite.SuiteID)
	}
	if doc.Version != "" && doc.Version != document.Version {
		errs = append(errs, "version must be "+document.Version)
	}
	if doc.ParentHash != "" && !parentHashPattern.MatchString(doc.ParentHash) {
		errs = append(errs, "parent_hash must be 64 lowercase hex characters")
	}

	return len(errs) == 0, errs
}

func validateCryptographic(doc *document.Document, ctx Context) (bool, []string, []string) {
	var errs, warnings []string

	if ctx.RawBytes != nil {
		if err := canonicalize.AssertCanonical(ctx.RawBytes); err != nil {
			return false, []string{err.Error()}, nil
		}
	}

	signatureBytes, err := primitives.FromHex(doc.Signature)
	if err != nil {
		return false, []string{"signature is not valid hex"}, nil
	}

	canonicalBytes, err := canonicalize.PrepareForSigning(doc)
	if err != nil {
		return false, []string{err.Error()}, nil
	}

	verified := false
	for _, key := range ctx.TrustedKeys {
		if cryptosuite.Verify(key, canonicalBytes, signatureBytes) {
			verified = true
			break
		}
	}
	if !verified {
		errs = append(errs, "signature did not verify against any trusted key")
	}

	if ctx.CurrentTime != nil && doc.LogicalTime > *ctx.CurrentTime {
		warnings = append(warnings, "document logical_time is ahead of current_time")
	}

	return len(errs) == 0, errs, warnings
}

// QuickValidate returns the cryptographic-layer boolean alone, against a
// single public key.
func QuickValidate(doc *document.Document, publicKey ed25519.PublicKey) bool {
	ok, _, _ := validateCryptographic(doc, Context{TrustedKeys: []ed25519.PublicKey{publicKey}})
	return ok
}

// ValidateChain sorts documents by logical_time and verifies adjacent
// linkage: curr.parent_hash == prev.id and curr.logical_time > prev.logical_time.
func ValidateChain(docs []*document.Document) bool {
	sorted := make([]*document.Document, len(docs))
	copy(sorted, docs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LogicalTime < sorted[j].LogicalTime
	})

	for i := 1; i < len(sorted); i++ {
		prev, curr := sorted[i-1], sorted[i]
		if curr.ParentHash != prev.ID {
			return false
		}
		if curr.LogicalTime <= prev.LogicalTime {
			return false
		}
	}
	return true
}
