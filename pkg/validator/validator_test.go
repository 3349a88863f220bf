package validator

import (
	"crypto/ed25519"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzcore-labs/nzcore/pkg/canonicalize"
	"github.com/nzcore-labs/nzcore/pkg/cryptosuite"
	"github.com/nzcore-labs/nzcore/pkg/document"
	"github.com/nzcore-labs/nzcore/pkg/primitives"
)

func signedDoc(t *testing.T, chainID string, pub ed25519.PublicKey, priv ed25519.PrivateKey) *document.Document {
	t.Helper()

	doc, err := document.NewBuilder().
		WithType("note").
		WithChainID(chainID).
		WithParentHash(document.ZeroHash).
		WithLogicalTime(1).
		WithCreatedAt("2026-01-01T00:00:00Z").
		Build()
	require.NoError(t, err)

	toSign, err := canonicalize.PrepareForSigning(doc)
	require.NoError(t, err)

	sig, err := cryptosuite.Sign(priv, toSign)
	require.NoError(t, err)
	doc.Signature = primitives.ToHex(sig)

	return doc
}

func TestValidate_FullySucceeds(t *testing.T) {
	pub, priv, err := cryptosuite.GenerateKeypair()
	require.NoError(t, err)

	chainID := strings.Repeat("a", 64)
	doc := signedDoc(t, chainID, pub, priv)

	result := Validate(doc, Context{TrustedKeys: []ed25519.PublicKey{pub}})
	assert.True(t, result.StructuralValid)
	assert.True(t, result.CryptographicValid)
	assert.True(t, result.PolicyValid)
	assert.True(t, result.Final)
}

func TestValidate_FailsStructuralWithoutSignature(t *testing.T) {
	doc, err := document.NewBuilder().
		WithType("note").
		WithChainID(strings.Repeat("a", 64)).
		WithParentHash(document.ZeroHash).
		WithLogicalTime(1).
		Build()
	require.NoError(t, err)

	result := Validate(doc, Context{})
	assert.False(t, result.StructuralValid)
	assert.False(t, result.Final)
	assert.NotEmpty(t, result.Errors)
}

func TestValidate_FailsCryptographicOnTamperedPayload(t *testing.T) {
	pub, priv, err := cryptosuite.GenerateKeypair()
	require.NoError(t, err)

	chainID := strings.Repeat("a", 64)
	doc := signedDoc(t, chainID, pub, priv)
	doc.Type = "tampered"

	result := Validate(doc, Context{TrustedKeys: []ed25519.PublicKey{pub}})
	assert.True(t, result.StructuralValid)
	assert.False(t, result.CryptographicValid)
	assert.False(t, result.Final)
}

func TestValidate_WarnsOnFutureLogicalTime(t *testing.T) {
	pub, priv, err := cryptosuite.GenerateKeypair()
	require.NoError(t, err)

	chainID := strings.Repeat("a", 64)
	doc := signedDoc(t, chainID, pub, priv)

	past := uint64(0)
	result := Validate(doc, Context{TrustedKeys: []ed25519.PublicKey{pub}, CurrentTime: &past})
	assert.True(t, result.CryptographicValid)
	assert.NotEmpty(t, result.Warnings)
}

func TestQuickValidate(t *testing.T) {
	pub, priv, err := cryptosuite.GenerateKeypair()
	require.NoError(t, err)

	chainID := strings.Repeat("a", 64)
	doc := signedDoc(t, chainID, pub, priv)

	assert.True(t, QuickValidate(doc, pub))

	otherPub, _, err := cryptosuite.GenerateKeypair()
	require.NoError(t, err)
	assert.False(t, QuickValidate(doc, otherPub))
}

func TestValidateBytes_RejectsNonCanonicalInput(t *testing.T) {
	pub, priv, err := cryptosuite.GenerateKeypair()
	require.NoError(t, err)

	chainID := strings.Repeat("a", 64)
	doc := signedDoc(t, chainID, pub, priv)

	raw, err := doc.MarshalJSON()
	require.NoError(t, err)

	// Reorder the top-level keys and add insignificant whitespace; this is
	// still valid, semantically identical JSON, but no longer the RFC 8785
	// canonical encoding.
	var generic map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &generic))
	reordered, err := json.MarshalIndent(generic, "", "  ")
	require.NoError(t, err)

	result, _ := ValidateBytes(reordered, Context{TrustedKeys: []ed25519.PublicKey{pub}})
	assert.False(t, result.CryptographicValid)
	assert.False(t, result.Final)
	assert.NotEmpty(t, result.Errors)
}

func TestValidateBytes_AcceptsCanonicalInput(t *testing.T) {
	pub, priv, err := cryptosuite.GenerateKeypair()
	require.NoError(t, err)

	chainID := strings.Repeat("a", 64)
	doc := signedDoc(t, chainID, pub, priv)

	canonical, err := canonicalize.Serialize(doc)
	require.NoError(t, err)

	result, restored := ValidateBytes(canonical, Context{TrustedKeys: []ed25519.PublicKey{pub}})
	assert.True(t, result.Final)
	require.NotNil(t, restored)
	assert.Equal(t, doc.ID, restored.ID)
}

func TestValidateChain(t *testing.T) {
	pub, priv, err := cryptosuite.GenerateKeypair()
	require.NoError(t, err)
	chainID := strings.Repeat("a", 64)

	doc1 := signedDoc(t, chainID, pub, priv)

	doc2, err := document.NewBuilder().
		WithType("note").
		WithChainID(chainID).
		WithParentHash(doc1.ID).
		WithLogicalTime(2).
		Build()
	require.NoError(t, err)

	assert.True(t, ValidateChain([]*document.Document{doc2, doc1}))
}

func TestValidateChain_FailsOnBrokenLinkage(t *testing.T) {
	pub, priv, err := cryptosuite.GenerateKeypair()
	require.NoError(t, err)
	chainID := strings.Repeat("a", 64)

	doc1 := signedDoc(t, chainID, pub, priv)

	doc2, err := document.NewBuilder().
		WithType("note").
		WithChainID(chainID).
		WithParentHash(strings.Repeat("f", 64)).
		WithLogicalTime(2).
		Build()
	require.NoError(t, err)

	assert.False(t, ValidateChain([]*document.Document{doc1, doc2}))
}
