package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	app_errors "note-ai/assistant/internal/errors"
	"note-ai/assistant/internal/model"
	"note-ai/assistant/internal/repository"
)

type SessionService struct {
	repo repository.Repository
}

func NewSessionService(repo repository.Repository) *SessionService {
	return &SessionService{repo: repo}
}

// ListSessions retrieves session summaries, newest first. Messages are not
// populated; clients fetch them per session.
func (s *SessionService) ListSessions(ctx context.Context) ([]*model.ChatSession, error) {
	return s.repo.ListSessions(ctx)
}

// GetSession retrieves a session's metadata and its full message history.
func (s *SessionService) GetSession(ctx context.Context, uid string) (*model.ChatSession, error) {
	session, err := s.repo.GetSession(ctx, uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: chat session %s", app_errors.ErrNotFound, uid)
		}
		return nil, fmt.Errorf("could not get session: %w", err)
	}
	messages, err := s.repo.GetMessagesBySessionUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("could not get messages: %w", err)
	}
	session.Messages = messages
	return session, nil
}

// UpdateSessionTitle handles the logic for manually renaming a session.
func (s *SessionService) UpdateSessionTitle(ctx context.Context, uid, title string) error {
	if title == "" {
		return fmt.Errorf("%w: title cannot be empty", app_errors.ErrValidation)
	}
	slog.Info("Updating session title", "session", uid, "title", title)
	if err := s.repo.UpdateSessionTitle(ctx, uid, title); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: chat session %s", app_errors.ErrNotFound, uid)
		}
		return err
	}
	return nil
}

// DeleteSession removes a session and all its messages.
func (s *SessionService) DeleteSession(ctx context.Context, uid string) error {
	slog.Info("Deleting session", "session", uid)
	if err := s.repo.DeleteSession(ctx, uid); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: chat session %s", app_errors.ErrNotFound, uid)
		}
		return err
	}
	return nil
}
