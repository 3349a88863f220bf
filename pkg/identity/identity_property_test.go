//go:build property
// +build property

package identity_test

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/nzcore-labs/nzcore/pkg/identity"
)

// TestDeriveDeterminism verifies that identity derivation is a pure function
// of the mnemonic: two derivations from the same valid mnemonic must yield
// identical public keys and chain ids.
func TestDeriveDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 20
	properties := gopter.NewProperties(parameters)

	mnemonics := []string{
		"abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about",
		"legal winner thank year wave sausage worth useful legal winner thank yellow",
		"letter advice cage absurd amount doctor acoustic avoid letter advice cage above",
	}

	properties.Property("derivation is deterministic per mnemonic", prop.ForAll(
		func(idx int) bool {
			m := mnemonics[idx%len(mnemonics)]
			r1, err1 := identity.Derive(m)
			r2, err2 := identity.Derive(m)
			if err1 != nil || err2 != nil {
				return false
			}
			return r1.PublicKeyHex() == r2.PublicKeyHex() && r1.ChainID == r2.ChainID
		},
		gen.IntRange(0, 1000),
	))

	properties.TestingRun(t)
}

// TestDeriveDocumentIDDeterminism verifies document id derivation is a pure
// function of (chain_id, parent_hash, logical_time).
func TestDeriveDocumentIDDeterminism(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	r, err := identity.Derive("abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about")
	if err != nil {
		t.Fatal(err)
	}

	properties.Property("document id is a pure function of its inputs", prop.ForAll(
		func(logicalTime uint32) bool {
			parent := strings.Repeat("0", 64)
			id1, err1 := identity.DeriveDocumentID(r.ChainID, parent, logicalTime)
			id2, err2 := identity.DeriveDocumentID(r.ChainID, parent, logicalTime)
			if err1 != nil || err2 != nil {
				return false
			}
			return id1 == id2 && len(id1) == 64
		},
		gen.UInt32(),
	))

	properties.TestingRun(t)
}
