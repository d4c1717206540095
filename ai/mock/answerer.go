package mock

import (
	"context"
	"fmt"

	"github.com/poiesic/docquery/core"
)

// MockAnswerer is a test double for ai.Answerer.
// It allows custom behavior injection via function fields.
type MockAnswerer struct {
	// AnswerFunc is called by Answer if set.
	// If nil, uses default canned behavior.
	AnswerFunc func(ctx context.Context, query string, evidence *core.MergedEvidence) (string, error)

	callCount int
}

// NewMockAnswerer creates a mock answerer with default canned behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockAnswerer() *MockAnswerer {
	return &MockAnswerer{}
}

// Answer returns a deterministic canned response describing the evidence.
// Sentinel messages from retrieval are returned verbatim, matching the
// production answerer's short-circuit.
func (m *MockAnswerer) Answer(ctx context.Context, query string, evidence *core.MergedEvidence) (string, error) {
	m.callCount++

	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, query, evidence)
	}

	if evidence != nil && evidence.Message != "" {
		return evidence.Message, nil
	}

	count := 0
	if evidence != nil {
		count = len(evidence.Items)
	}
	return fmt.Sprintf("mock answer for %q based on %d evidence items", query, count), nil
}

// CallCount returns the number of times Answer was called.
func (m *MockAnswerer) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockAnswerer) Reset() {
	m.callCount = 0
	m.AnswerFunc = nil
}
