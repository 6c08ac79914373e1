package testutils

import (
	"context"

	"github.com/zubale/querybot/pkg/vector"
)

// MockVectorDriver is a test vector driver
type MockVectorDriver struct {
	// Results are returned from Query, truncated to topK
	Results []vector.QueryResult

	// FailQuery causes Query to return an error
	FailQuery bool

	documents []vector.Document
}

func NewMockVectorDriver() *MockVectorDriver {
	return &MockVectorDriver{
		Results:   make([]vector.QueryResult, 0),
		documents: make([]vector.Document, 0),
	}
}

func (m *MockVectorDriver) Add(_ context.Context, docs []vector.Document) error {
	m.documents = append(m.documents, docs...)
	return nil
}

func (m *MockVectorDriver) Query(_ context.Context, _ []float32, topK int) ([]vector.QueryResult, error) {
	if m.FailQuery {
		return nil, vector.ErrConnection
	}
	if len(m.Results) < topK {
		return m.Results, nil
	}
	return m.Results[:topK], nil
}

func (m *MockVectorDriver) Count(_ context.Context) (int, error) {
	return len(m.documents), nil
}

func (m *MockVectorDriver) Close() error {
	return nil
}

// Added returns the documents stored via Add.
func (m *MockVectorDriver) Added() []vector.Document {
	return m.documents
}
