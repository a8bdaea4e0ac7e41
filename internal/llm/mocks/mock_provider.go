// Package mocks provides a testify-based test double for the llm.Provider
// interface. Tests drive StreamChat through a Run hook that feeds chunks
// into the channel and closes it, mirroring what real providers do.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"note-ai/assistant/internal/llm"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type MockProvider struct {
	mock.Mock
}

func NewMockProvider(t testingT) *MockProvider {
	m := &MockProvider{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockProvider) StreamChat(ctx context.Context, req *llm.ChatRequest, ch chan<- llm.StreamChunk) error {
	args := m.Called(ctx, req, ch)
	return args.Error(0)
}

func (m *MockProvider) Complete(ctx context.Context, req *llm.ChatRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
