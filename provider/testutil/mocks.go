package testutil

import (
	"context"
	"sync"

	"chatwire/model"
)

// MockProvider implements model.Provider for testing
type MockProvider struct {
	// Configurable responses
	CompleteFunc func(ctx context.Context, turns []model.Turn, params model.Params) (*model.Completion, error)
	PingFunc     func(ctx context.Context) error

	// State
	currentModel string

	mu    sync.Mutex
	calls [][]model.Turn
}

// NewMockProvider creates a mock provider with default implementations
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{
		currentModel: modelName,
	}
	mock.CompleteFunc = mock.defaultComplete
	mock.PingFunc = mock.defaultPing
	return mock
}

// NewReplyingProvider returns a mock that answers every call with reply.
func NewReplyingProvider(reply string) *MockProvider {
	mock := NewMockProvider("mock-model")
	mock.CompleteFunc = func(ctx context.Context, turns []model.Turn, params model.Params) (*model.Completion, error) {
		return &model.Completion{Text: reply}, nil
	}
	return mock
}

// NewFailingProvider returns a mock whose calls all fail with err.
func NewFailingProvider(err error) *MockProvider {
	mock := NewMockProvider("mock-model")
	mock.CompleteFunc = func(ctx context.Context, turns []model.Turn, params model.Params) (*model.Completion, error) {
		return nil, err
	}
	return mock
}

func (m *MockProvider) defaultComplete(ctx context.Context, turns []model.Turn, params model.Params) (*model.Completion, error) {
	// Default: echo back a mock response
	return &model.Completion{Text: "Mock response"}, nil
}

func (m *MockProvider) defaultPing(ctx context.Context) error {
	return nil
}

func (m *MockProvider) Complete(ctx context.Context, turns []model.Turn, params model.Params) (*model.Completion, error) {
	m.mu.Lock()
	recorded := make([]model.Turn, len(turns))
	copy(recorded, turns)
	m.calls = append(m.calls, recorded)
	m.mu.Unlock()

	return m.CompleteFunc(ctx, turns, params)
}

// Calls returns the prompts received so far, in call order.
func (m *MockProvider) Calls() [][]model.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]model.Turn, len(m.calls))
	copy(out, m.calls)
	return out
}

// LastCall returns the most recent prompt, or nil.
func (m *MockProvider) LastCall() []model.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return nil
	}
	return m.calls[len(m.calls)-1]
}

func (m *MockProvider) Name() string {
	return "mock"
}

func (m *MockProvider) GetModel() string {
	return m.currentModel
}

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}
