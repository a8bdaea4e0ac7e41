package repository

import (
	"context"

	"note-ai/assistant/internal/model"
)

// Repository defines the interface for data storage operations.
// This interface makes it easy to switch database implementations.
type Repository interface {
	CreateSession(ctx context.Context, session *model.ChatSession) error
	GetSession(ctx context.Context, uid string) (*model.ChatSession, error)
	ListSessions(ctx context.Context) ([]*model.ChatSession, error)
	UpdateSessionTitle(ctx context.Context, uid, title string) error
	TouchSession(ctx context.Context, uid string) error
	DeleteSession(ctx context.Context, uid string) error

	AddMessage(ctx context.Context, sessionUID string, message *model.ChatMessage) error
	GetMessagesBySessionUID(ctx context.Context, sessionUID string) ([]model.ChatMessage, error)
}
