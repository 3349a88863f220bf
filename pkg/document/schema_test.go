package document_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nzcore-labs/nzcore/pkg/document"
)

const noteSchema = `{
	"type": "object",
	"properties": {
		"text": {"type": "string"}
	},
	"required": ["text"]
}`

func TestSchemaValidator_AcceptsMatchingPayload(t *testing.T) {
	v, err := document.NewSchemaValidator(noteSchema)
	require.NoError(t, err)

	doc, err := document.NewBuilder().
		WithType("note").
		WithChainID(strings.Repeat("a", 64)).
		WithParentHash(document.ZeroHash).
		WithLogicalTime(1).
		WithPayload(map[string]interface{}{"text": "hello"}).
		Build()
	require.NoError(t, err)

	assert.NoError(t, v.ValidatePayload(doc))
}

func TestSchemaValidator_RejectsMissingRequiredField(t *testing.T) {
	v, err := document.NewSchemaValidator(noteSchema)
	require.NoError(t, err)

	doc, err := document.NewBuilder().
		WithType("note").
		WithChainID(strings.Repeat("a", 64)).
		WithParentHash(document.ZeroHash).
		WithLogicalTime(1).
		Build()
	require.NoError(t, err)

	assert.Error(t, v.ValidatePayload(doc))
}

func TestNewSchemaValidator_RejectsInvalidSchema(t *testing.T) {
	_, err := document.NewSchemaValidator(`{"type": "not-a-real-type"}`)
	assert.Error(t, err)
}
