// Package policy decides whether an inbound utterance is admitted before any
// remote assistant call is made.
package policy

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Decisions returned by the policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Input is the document the policy evaluates.
type Input struct {
	Content   string `json:"content"`
	Locale    string `json:"locale"`
	MaxLength int    `json:"max_length"`
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.chat_policy.decision"),
		rego.Module("chat_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}
	return &Engine{query: query}, nil
}

// NewEngineFromFile loads a policy file, falling back to DefaultPolicy when
// path is empty.
func NewEngineFromFile(ctx context.Context, path string) (*Engine, error) {
	content := DefaultPolicy
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read policy file: %w", err)
		}
		content = string(data)
	}
	return NewEngine(ctx, content)
}

// Evaluate returns the decision for an utterance. A policy that yields no
// result defaults to allow.
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil
	}
	if decision, ok := results[0].Expressions[0].Value.(string); ok {
		return decision, nil
	}
	return DecisionAllow, nil
}

// DefaultPolicy admits everything under the length cap.
const DefaultPolicy = `
package chat_policy

default decision := "allow"

decision := "block" if {
	input.max_length > 0
	count(input.content) > input.max_length
}
`
