package interfaces

import (
	"context"

	"note-ai/assistant/internal/model"
	"note-ai/assistant/internal/service"
)

// This file defines the interfaces for our core services.
// Depending on these interfaces, instead of concrete implementations, allows for
// decoupling (e.g., API layer from Service layer) and easier testing via mocking.

// SessionService defines the contract for chat session business logic.
type SessionService interface {
	ListSessions(ctx context.Context) ([]*model.ChatSession, error)
	GetSession(ctx context.Context, uid string) (*model.ChatSession, error)
	UpdateSessionTitle(ctx context.Context, uid, title string) error
	DeleteSession(ctx context.Context, uid string) error
}

// GenerationService defines the contract for producing a generation event
// stream. Implementations close the channel when the stream ends.
type GenerationService interface {
	Generate(ctx context.Context, req *model.GenerateRequest, stream chan<- model.StreamEvent)
}

// SettingsService defines the contract for the workspace AI configuration.
type SettingsService interface {
	Get(ctx context.Context) (*service.AISetting, error)
	Save(ctx context.Context, setting *service.AISetting) error
}
