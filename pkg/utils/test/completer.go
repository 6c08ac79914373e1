package testutils

import (
	"context"
	"fmt"

	"github.com/zubale/querybot/pkg/llm"
)

// MockCompleter is a test completer returning canned responses
type MockCompleter struct {
	// Response is returned from every Complete call
	Response string

	// Fail causes Complete to return an error
	Fail bool

	// Requests records every completion request in order
	Requests []llm.CompletionRequest
}

func NewMockCompleter(response string) *MockCompleter {
	return &MockCompleter{Response: response}
}

func (m *MockCompleter) Complete(_ context.Context, req llm.CompletionRequest) (string, error) {
	m.Requests = append(m.Requests, req)

	if m.Fail {
		return "", fmt.Errorf("%w: mock completion failure", llm.ErrCompletion)
	}

	return m.Response, nil
}

func (m *MockCompleter) Close() error {
	return nil
}

// LastRequest returns the most recent completion request, or nil.
func (m *MockCompleter) LastRequest() *llm.CompletionRequest {
	if len(m.Requests) == 0 {
		return nil
	}
	return &m.Requests[len(m.Requests)-1]
}
