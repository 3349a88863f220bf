package policy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzcore-labs/nzcore/pkg/document"
)

func testDoc(t *testing.T, docType string) *document.Document {
	t.Helper()
	doc, err := document.NewBuilder().
		WithType(docType).
		WithChainID(strings.Repeat("a", 64)).
		WithParentHash(document.ZeroHash).
		WithLogicalTime(1).
		Build()
	require.NoError(t, err)
	return doc
}

func TestCELEvaluator_AllowsMatchingType(t *testing.T) {
	ev, err := NewCELEvaluator(`document.type == "note"`)
	require.NoError(t, err)

	ok, err := ev.Evaluate(testDoc(t, "note"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCELEvaluator_RejectsNonMatchingType(t *testing.T) {
	ev, err := NewCELEvaluator(`document.type == "note"`)
	require.NoError(t, err)

	ok, err := ev.Evaluate(testDoc(t, "merge"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewCELEvaluator_RejectsInvalidExpression(t *testing.T) {
	_, err := NewCELEvaluator(`this is not valid cel (((`)
	assert.Error(t, err)
}

func TestCELEvaluator_RejectsNonBooleanExpression(t *testing.T) {
	ev, err := NewCELEvaluator(`document.logical_time`)
	require.NoError(t, err)

	_, err = ev.Evaluate(testDoc(t, "note"))
	assert.Error(t, err)
}
