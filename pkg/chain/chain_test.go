package chain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzcore-labs/nzcore/pkg/document"
	"github.com/nzcore-labs/nzcore/pkg/identity"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func newTestChain(t *testing.T) (*State, *identity.Root) {
	t.Helper()
	root, err := identity.Derive(testMnemonic)
	require.NoError(t, err)

	s, err := New(root.ChainID, 1)
	require.NoError(t, err)
	return s, root
}

func TestAppend_RejectsWrongChainID(t *testing.T) {
	s, _ := newTestChain(t)
	doc, err := document.NewBuilder().
		WithType("note").
		WithChainID(strings.Repeat("9", 64)).
		WithParentHash(document.ZeroHash).
		WithLogicalTime(1).
		Build()
	require.NoError(t, err)

	assert.Error(t, s.Append(doc))
}

func TestAppend_UpdatesLastHash(t *testing.T) {
	s, root := newTestChain(t)
	assert.Equal(t, document.ZeroHash, s.LastHash())

	doc, err := document.NewBuilder().
		WithType("note").
		WithChainID(root.ChainID).
		WithParentHash(s.LastHash()).
		WithLogicalTime(s.Clock().Current()).
		Build()
	require.NoError(t, err)

	require.NoError(t, s.Append(doc))
	assert.Equal(t, doc.ID, s.LastHash())
}

func TestVerifyIntegrity_PassesForValidChain(t *testing.T) {
	s, root := newTestChain(t)

	for i := 0; i < 3; i++ {
		doc, err := document.NewBuilder().
			WithType("note").
			WithChainID(root.ChainID).
			WithParentHash(s.LastHash()).
			WithLogicalTime(s.Clock().Current()).
			Build()
		require.NoError(t, err)
		require.NoError(t, s.Append(doc))
		_, _ = s.Clock().Tick()
	}

	assert.True(t, s.VerifyIntegrity())
}

func TestVerifyIntegrity_FailsOnTamperedParentHash(t *testing.T) {
	s, root := newTestChain(t)

	doc, err := document.NewBuilder().
		WithType("note").
		WithChainID(root.ChainID).
		WithParentHash(s.LastHash()).
		WithLogicalTime(s.Clock().Current()).
		Build()
	require.NoError(t, err)
	require.NoError(t, s.Append(doc))

	doc.ParentHash = strings.Repeat("f", 64)
	assert.False(t, s.VerifyIntegrity())
}

func TestExportImport_RoundTrip(t *testing.T) {
	s, root := newTestChain(t)

	doc, err := document.NewBuilder().
		WithType("note").
		WithChainID(root.ChainID).
		WithParentHash(s.LastHash()).
		WithLogicalTime(s.Clock().Current()).
		Build()
	require.NoError(t, err)
	require.NoError(t, s.Append(doc))

	blob, err := s.Export()
	require.NoError(t, err)

	restored, err := Import(blob, root.ChainID)
	require.NoError(t, err)

	assert.Equal(t, s.LastHash(), restored.LastHash())
	assert.Equal(t, s.Clock().Current(), restored.Clock().Current())

	got, ok := restored.Get(doc.ID)
	require.True(t, ok)
	assert.Equal(t, doc.Type, got.Type)
}

func TestImport_RejectsChainIDMismatch(t *testing.T) {
	s, root := newTestChain(t)
	_ = root

	blob, err := s.Export()
	require.NoError(t, err)

	_, err = Import(blob, strings.Repeat("1", 64))
	assert.Error(t, err)
}

func TestDetectForks_FindsSharedParent(t *testing.T) {
	s, root := newTestChain(t)

	parent := s.LastHash()
	doc1, err := document.NewBuilder().
		WithType("a").
		WithChainID(root.ChainID).
		WithParentHash(parent).
		WithLogicalTime(1).
		Build()
	require.NoError(t, err)
	require.NoError(t, s.Append(doc1))

	doc2, err := document.NewBuilder().
		WithType("b").
		WithChainID(root.ChainID).
		WithID(strings.Repeat("b", 64)).
		WithParentHash(parent).
		WithLogicalTime(1).
		Build()
	require.NoError(t, err)

	s.documents[doc2.ID] = doc2
	s.order = append(s.order, doc2.ID)
	s.forkCacheSet = false

	forks := s.DetectForks()
	require.Len(t, forks, 1)
	assert.ElementsMatch(t, []string{doc1.ID, doc2.ID}, forks[0].IDs)
}

func TestPaginate(t *testing.T) {
	s, root := newTestChain(t)

	for i := 0; i < 5; i++ {
		doc, err := document.NewBuilder().
			WithType("note").
			WithChainID(root.ChainID).
			WithParentHash(s.LastHash()).
			WithLogicalTime(s.Clock().Current()).
			Build()
		require.NoError(t, err)
		require.NoError(t, s.Append(doc))
		_, _ = s.Clock().Tick()
	}

	page := s.Paginate(2, 0)
	assert.Len(t, page.Documents, 2)
	assert.Equal(t, 5, page.Total)
	assert.True(t, page.HasMore)

	last := s.Paginate(2, 4)
	assert.Len(t, last.Documents, 1)
	assert.False(t, last.HasMore)
}
