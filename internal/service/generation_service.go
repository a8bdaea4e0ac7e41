package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"note-ai/assistant/internal/llm"
	"note-ai/assistant/internal/model"
	"note-ai/assistant/internal/repository"
)

// User-facing failure phrases carried in-band on the stream. Clients classify
// errors by matching substrings of these, so the wording is part of the wire
// contract and must stay stable.
const (
	msgConfigAbsent     = "AI configuration is not set up. Please configure API key, model, and base URL in workspace settings. Contact your administrator to set up AI configuration."
	msgConfigIncomplete = "AI configuration incomplete. Please fill in API key, model, and base URL in workspace settings."
	msgInvalidAPIKey    = "Invalid API key. Please check your API key in workspace settings"
	msgRateLimited      = "Rate limit exceeded. Please try again later"
	msgQuotaExceeded    = "API quota exceeded or billing issue. Please check your provider account"
)

const newSessionTitle = "New Conversation"

// GenerationService produces the event stream for one generation request:
// MODEL_READY, CONTENT deltas, then on success SESSION_UPDATED,
// TITLE_GENERATED for first exchanges, and the OUTPUT_COMPLETE / OUTPUT_END
// markers. Messages are persisted only after the model produced content, so
// a failed generation leaves no trace in the session history.
type GenerationService struct {
	repo     repository.Repository
	settings *SettingsService
	provider llm.Factory
}

func NewGenerationService(repo repository.Repository, settings *SettingsService, provider llm.Factory) *GenerationService {
	return &GenerationService{repo: repo, settings: settings, provider: provider}
}

// Generate streams events for req into stream and closes it when done.
// Failures are reported in-band as an event with a non-empty Error field.
// Every send is guarded by ctx so a consumer that stops reading (a dropped
// SSE connection cancels the request context) never strands this goroutine.
func (s *GenerationService) Generate(ctx context.Context, req *model.GenerateRequest, stream chan<- model.StreamEvent) {
	defer close(stream)

	if len(req.Messages) == 0 {
		emit(ctx, stream, model.StreamEvent{Error: "messages are required"})
		return
	}

	setting, err := s.settings.Get(ctx)
	if err != nil {
		slog.Error("Failed to load AI settings", "error", err)
		emit(ctx, stream, model.StreamEvent{Error: "Could not load AI settings"})
		return
	}
	if setting.IsAbsent() {
		emit(ctx, stream, model.StreamEvent{Error: msgConfigAbsent})
		return
	}
	if !setting.IsComplete() {
		emit(ctx, stream, model.StreamEvent{Error: msgConfigIncomplete})
		return
	}

	// Resolve the session up front when the client already has one.
	var session *model.ChatSession
	if req.SessionUid != "" {
		session, err = s.repo.GetSession(ctx, req.SessionUid)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				emit(ctx, stream, model.StreamEvent{Error: "chat session not found"})
			} else {
				slog.Error("Failed to resolve session", "session", req.SessionUid, "error", err)
				emit(ctx, stream, model.StreamEvent{Error: "Could not load chat session"})
			}
			return
		}
	}

	if !emit(ctx, stream, model.StreamEvent{Type: model.EventModelReady, Session: session}) {
		return
	}

	provider := s.provider(setting.APIKey, setting.BaseURL)
	llmReq := &llm.ChatRequest{Model: setting.Model, Messages: toLLMMessages(req.Messages)}

	chunks := make(chan llm.StreamChunk)
	errCh := make(chan error, 1)
	go func() {
		errCh <- provider.StreamChat(ctx, llmReq, chunks)
	}()

	var response strings.Builder
	for chunk := range chunks {
		if chunk.Content == "" {
			continue
		}
		response.WriteString(chunk.Content)
		if !emit(ctx, stream, model.StreamEvent{Type: model.EventContent, Content: chunk.Content}) {
			// The provider honors the same ctx, so it unblocks and closes
			// chunks on its own; errCh is buffered and needs no reader.
			return
		}
	}
	if err := <-errCh; err != nil {
		slog.Warn("Provider stream failed", "error", err)
		emit(ctx, stream, model.StreamEvent{Error: classifyProviderError(err)})
		return
	}

	if response.Len() > 0 {
		session = s.persistExchange(ctx, session, req.Messages, response.String(), setting, stream)
	}

	if !emit(ctx, stream, model.StreamEvent{Type: model.EventOutputComplete}) {
		return
	}
	emit(ctx, stream, model.StreamEvent{Type: model.EventOutputEnd})
}

// emit delivers event unless ctx is done first. A false return means the
// consumer is gone and the stream should be abandoned.
func emit(ctx context.Context, stream chan<- model.StreamEvent, event model.StreamEvent) bool {
	select {
	case stream <- event:
		return true
	case <-ctx.Done():
		return false
	}
}

// persistExchange saves the exchange, creating the session lazily when the
// client had none, and emits the session-bearing events. Persistence errors
// are logged but never fail the stream; the model's answer already reached
// the client.
func (s *GenerationService) persistExchange(
	ctx context.Context,
	session *model.ChatSession,
	requestMessages []model.ChatMessage,
	response string,
	setting *AISetting,
	stream chan<- model.StreamEvent,
) *model.ChatSession {
	isNewSession := session == nil
	now := time.Now().Unix()

	if isNewSession {
		session = &model.ChatSession{
			Title:     newSessionTitle,
			Status:    model.SessionStatusActive,
			CreatedTs: now,
			UpdatedTs: now,
		}
		if err := s.repo.CreateSession(ctx, session); err != nil {
			slog.Error("Failed to create session", "error", err)
			return nil
		}
	}

	// A new session persists the whole request history; an existing one only
	// the latest user turn, since everything before it is already stored.
	userMessages := requestMessages
	if !isNewSession {
		userMessages = requestMessages[len(requestMessages)-1:]
	}
	for _, msg := range userMessages {
		if msg.Role != model.RoleUser {
			continue
		}
		saved := msg
		saved.CreatedTs = time.Now().Unix()
		if err := s.repo.AddMessage(ctx, session.UID, &saved); err != nil {
			slog.Error("Failed to save user message", "session", session.UID, "error", err)
		}
	}
	assistant := &model.ChatMessage{Role: model.RoleAssistant, Content: response, CreatedTs: time.Now().Unix()}
	if err := s.repo.AddMessage(ctx, session.UID, assistant); err != nil {
		slog.Error("Failed to save assistant message", "session", session.UID, "error", err)
	}
	session.UpdatedTs = time.Now().Unix()

	if !emit(ctx, stream, model.StreamEvent{Type: model.EventSessionUpdated, Session: session}) {
		return session
	}

	if session.Title == newSessionTitle && len(requestMessages) > 0 {
		title := s.generateTitle(ctx, setting, requestMessages[0].Content, response)
		if err := s.repo.UpdateSessionTitle(ctx, session.UID, title); err != nil {
			slog.Error("Failed to update session title", "session", session.UID, "error", err)
		} else {
			session.Title = title
			emit(ctx, stream, model.StreamEvent{Type: model.EventTitleGenerated, Session: session})
		}
	}

	return session
}

// generateTitle asks the model for a short conversation title, falling back
// to a truncation of the first user message when the call fails or comes
// back empty.
func (s *GenerationService) generateTitle(ctx context.Context, setting *AISetting, userQuery, assistantResponse string) string {
	provider := s.provider(setting.APIKey, setting.BaseURL)
	req := &llm.ChatRequest{
		Model: setting.Model,
		Messages: []llm.Message{
			{
				Role:    "system",
				Content: "You are an expert at creating short, concise titles for conversations. Respond with only the title, and nothing else.",
			},
			{
				Role: model.RoleUser,
				Content: fmt.Sprintf("Based on the following conversation, what would be a good title?\n\n---\nUser: %s\n\nAssistant: %s\n---",
					truncate(userQuery, 150),
					truncate(assistantResponse, 200),
				),
			},
		},
	}

	resp, err := provider.Complete(ctx, req)
	if err != nil {
		slog.Warn("Title generation failed, falling back to truncation", "error", err)
		return fallbackTitle(userQuery)
	}

	title := strings.TrimSpace(resp)
	title = strings.Trim(title, `"'`)
	if title == "" {
		return fallbackTitle(userQuery)
	}
	return truncate(title, 100)
}

// fallbackTitle derives a title from the first user message when the model
// could not produce one, marking the cut with an ellipsis.
func fallbackTitle(userQuery string) string {
	const maxRunes = 50
	if cut := truncate(userQuery, maxRunes); cut != userQuery {
		return cut + "..."
	}
	return userQuery
}

// classifyProviderError maps a raw provider error onto the stable user-facing
// phrases. The provider does not expose structured codes for every failure
// mode, so this matches message substrings the same way the upstream APIs
// phrase them.
func classifyProviderError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "invalid api key") || strings.Contains(msg, "authentication"):
		return msgInvalidAPIKey
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit"):
		return msgRateLimited
	case strings.Contains(msg, "quota") || strings.Contains(msg, "billing"):
		return msgQuotaExceeded
	default:
		return fmt.Sprintf("AI service error: %v", err)
	}
}

func toLLMMessages(messages []model.ChatMessage) []llm.Message {
	out := make([]llm.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, llm.Message{Role: m.Role, Content: m.Content})
	}
	return out
}

// truncate shortens a string to a specified number of runes.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
