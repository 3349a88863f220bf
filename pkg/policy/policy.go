// Package policy implements the reference pluggable policy evaluator for
// the validator's third layer, using CEL expressions compiled once and
// cached by program.
package policy

import (
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/nzcore-labs/nzcore/pkg/document"
	"github.com/nzcore-labs/nzcore/pkg/nzerr"
)

// Evaluator is the interface the validator's policy layer consumes.
// Failures and panics inside an Evaluate call are translated by the
// validator into policy_valid = false with a recorded error; the evaluator
// itself should simply return an error rather than panic.
type Evaluator interface {
	Evaluate(doc *document.Document) (bool, error)
}

// CELEvaluator evaluates a single CEL boolean expression against a
// document, exposed as the variable `document`.
type CELEvaluator struct {
	env  *cel.Env
	expr string

	mu      sync.RWMutex
	program cel.Program
}

// NewCELEvaluator compiles expr once against a document-shaped environment.
// expr must evaluate to a boolean.
func NewCELEvaluator(expr string) (*CELEvaluator, error) {
	env, err := cel.NewEnv(cel.Variable("document", cel.DynType))
	if err != nil {
		return nil, nzerr.Wrap(nzerr.ErrValidationFailed, "failed to construct CEL environment", "cause", err.Error())
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, nzerr.Wrap(nzerr.ErrValidationFailed, "policy expression failed to compile", "cause", issues.Err().Error())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, nzerr.Wrap(nzerr.ErrValidationFailed, "failed to build CEL program", "cause", err.Error())
	}

	return &CELEvaluator{env: env, expr: expr, program: program}, nil
}

// Evaluate runs the compiled expression against doc.
func (e *CELEvaluator) Evaluate(doc *document.Document) (bool, error) {
	input := map[string]any{
		"document": map[string]any{
			"type":         doc.Type,
			"version":      doc.Version,
			"id":           doc.ID,
			"chain_id":     doc.ChainID,
			"parent_hash":  doc.ParentHash,
			"logical_time": int64(doc.LogicalTime),
			"crypto_suite": doc.CryptoSuite,
			"created_at":   doc.CreatedAt,
			"payload":      doc.Payload,
		},
	}

	e.mu.RLock()
	program := e.program
	e.mu.RUnlock()

	out, _, err := program.Eval(input)
	if err != nil {
		return false, nzerr.Wrap(nzerr.ErrValidationFailed, "policy evaluation failed", "expr", e.expr, "cause", err.Error())
	}

	result, ok := out.Value().(bool)
	if !ok {
		return false, nzerr.Wrap(nzerr.ErrValidationFailed, "policy expression did not evaluate to a boolean", "expr", e.expr)
	}
	return result, nil
}
