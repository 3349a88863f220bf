package document

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nzcore-labs/nzcore/pkg/nzerr"
)

const payloadSchemaURL = "https://nzcore.local/schemas/document-payload.schema.json"

// SchemaValidator runs an optional JSON-Schema pre-check over a document's
// payload before the hand-written structural validator runs. It exists for
// embedders who want to constrain payload shape per document type; nothing
// in the core pipeline requires it.
type SchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles schemaJSON (a JSON Schema 2020-12 document)
// for later use against document payloads.
func NewSchemaValidator(schemaJSON string) (*SchemaValidator, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020

	if err := c.AddResource(payloadSchemaURL, strings.NewReader(schemaJSON)); err != nil {
		return nil, nzerr.Wrap(nzerr.ErrValidationFailed, "failed to load payload schema", "cause", err.Error())
	}
	compiled, err := c.Compile(payloadSchemaURL)
	if err != nil {
		return nil, nzerr.Wrap(nzerr.ErrValidationFailed, "failed to compile payload schema", "cause", err.Error())
	}
	return &SchemaValidator{schema: compiled}, nil
}

// ValidatePayload checks doc.Payload against the compiled schema. A nil
// payload is passed through as an empty object.
func (v *SchemaValidator) ValidatePayload(doc *Document) error {
	payload := doc.Payload
	if payload == nil {
		payload = map[string]interface{}{}
	}
	if err := v.schema.Validate(payload); err != nil {
		return nzerr.Wrap(nzerr.ErrValidationFailed, fmt.Sprintf("payload failed schema validation for type %q", doc.Type), "cause", err.Error())
	}
	return nil
}
