// Package mocks provides a testify-based test double for the Repository
// interface.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"note-ai/assistant/internal/model"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type MockRepository struct {
	mock.Mock
}

func NewMockRepository(t testingT) *MockRepository {
	m := &MockRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRepository) CreateSession(ctx context.Context, session *model.ChatSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockRepository) GetSession(ctx context.Context, uid string) (*model.ChatSession, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatSession), args.Error(1)
}

func (m *MockRepository) ListSessions(ctx context.Context) ([]*model.ChatSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ChatSession), args.Error(1)
}

func (m *MockRepository) UpdateSessionTitle(ctx context.Context, uid, title string) error {
	return m.Called(ctx, uid, title).Error(0)
}

func (m *MockRepository) TouchSession(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

func (m *MockRepository) DeleteSession(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

func (m *MockRepository) AddMessage(ctx context.Context, sessionUID string, message *model.ChatMessage) error {
	return m.Called(ctx, sessionUID, message).Error(0)
}

func (m *MockRepository) GetMessagesBySessionUID(ctx context.Context, sessionUID string) ([]model.ChatMessage, error) {
	args := m.Called(ctx, sessionUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ChatMessage), args.Error(1)
}
