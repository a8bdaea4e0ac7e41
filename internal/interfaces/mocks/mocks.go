// Package mocks provides testify-based test doubles for the service
// interfaces. The constructors register the mock with the test so that
// expectations are asserted automatically on cleanup.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"note-ai/assistant/internal/model"
	"note-ai/assistant/internal/service"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockSessionService mocks interfaces.SessionService.
type MockSessionService struct {
	mock.Mock
}

func NewMockSessionService(t testingT) *MockSessionService {
	m := &MockSessionService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSessionService) ListSessions(ctx context.Context) ([]*model.ChatSession, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.ChatSession), args.Error(1)
}

func (m *MockSessionService) GetSession(ctx context.Context, uid string) (*model.ChatSession, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ChatSession), args.Error(1)
}

func (m *MockSessionService) UpdateSessionTitle(ctx context.Context, uid, title string) error {
	return m.Called(ctx, uid, title).Error(0)
}

func (m *MockSessionService) DeleteSession(ctx context.Context, uid string) error {
	return m.Called(ctx, uid).Error(0)
}

// MockGenerationService mocks interfaces.GenerationService.
type MockGenerationService struct {
	mock.Mock
}

func NewMockGenerationService(t testingT) *MockGenerationService {
	m := &MockGenerationService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockGenerationService) Generate(ctx context.Context, req *model.GenerateRequest, stream chan<- model.StreamEvent) {
	m.Called(ctx, req, stream)
}

// MockSettingsService mocks interfaces.SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func NewMockSettingsService(t testingT) *MockSettingsService {
	m := &MockSettingsService{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockSettingsService) Get(ctx context.Context) (*service.AISetting, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AISetting), args.Error(1)
}

func (m *MockSettingsService) Save(ctx context.Context, setting *service.AISetting) error {
	return m.Called(ctx, setting).Error(0)
}
