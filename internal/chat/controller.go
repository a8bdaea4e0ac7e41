// Package chat holds the client-side state machine for one conversation
// panel: it sends a message, consumes the resulting event stream, folds the
// events into conversation state, and recovers from failure.
package chat

import (
	"context"
	"log/slog"
	"strings"

	"note-ai/assistant/internal/model"
)

// SessionDirectory is the slice of the session API the controller needs.
type SessionDirectory interface {
	ListSessions(ctx context.Context) ([]*model.ChatSession, error)
	GetSession(ctx context.Context, uid string) (*model.ChatSession, error)
	UpdateSessionTitle(ctx context.Context, uid, title string) error
	DeleteSession(ctx context.Context, uid string) error
}

// Generator produces the event stream for one generation request. The
// returned channel closes when the stream ends; mid-stream failures arrive
// in-band as an event with a non-empty Error field.
type Generator interface {
	Generate(ctx context.Context, req *model.GenerateRequest) (<-chan model.StreamEvent, error)
}

// Notifier surfaces user-facing messages. Errors never propagate past the
// controller; they all end up here.
type Notifier interface {
	Notify(message string)
}

// Controller owns the conversation state for a chat panel. It is not safe
// for concurrent use: all methods must be called from a single goroutine,
// the same discipline a UI event loop imposes. IsStreaming gates SendMessage
// re-entrancy from that goroutine.
type Controller struct {
	sessions  SessionDirectory
	generator Generator
	notifier  Notifier

	currentSession   *model.ChatSession
	messages         []model.ChatMessage
	isStreaming      bool
	streamingContent string

	sessionList   []*model.ChatSession
	pendingDelete string

	// onContent, when set, receives each content delta as it is folded in.
	// Used by UIs to render the draft live.
	onContent func(delta string)
}

func NewController(sessions SessionDirectory, generator Generator, notifier Notifier) *Controller {
	return &Controller{
		sessions:  sessions,
		generator: generator,
		notifier:  notifier,
	}
}

// SetContentListener registers a callback invoked for every content delta of
// an active stream.
func (c *Controller) SetContentListener(fn func(delta string)) {
	c.onContent = fn
}

// CurrentSession returns the active session, or nil before the first
// exchange of a fresh conversation.
func (c *Controller) CurrentSession() *model.ChatSession { return c.currentSession }

// Messages returns a copy of the conversation history, including the
// optimistic user message while a stream is active. Mutating the result
// never affects controller state.
func (c *Controller) Messages() []model.ChatMessage {
	return append([]model.ChatMessage(nil), c.messages...)
}

// IsStreaming reports whether a generation stream is being consumed.
func (c *Controller) IsStreaming() bool { return c.isStreaming }

// StreamingContent returns the accumulated draft of the in-flight assistant
// reply. Empty outside an active stream.
func (c *Controller) StreamingContent() string { return c.streamingContent }

// Sessions returns the last fetched session list.
func (c *Controller) Sessions() []*model.ChatSession { return c.sessionList }

// PendingDelete returns the UID awaiting delete confirmation, if any.
func (c *Controller) PendingDelete() string { return c.pendingDelete }

// SendMessage runs one send-message interaction: optimistic append, stream
// consumption, state convergence, error recovery. Empty input (after
// trimming) and calls made while a stream is active are silent no-ops.
// Cancelling ctx tears down the in-flight stream.
func (c *Controller) SendMessage(ctx context.Context, content string) {
	content = strings.TrimSpace(content)
	if content == "" || c.isStreaming {
		return
	}

	c.messages = append(c.messages, model.ChatMessage{Role: model.RoleUser, Content: content})
	c.isStreaming = true
	c.streamingContent = ""
	defer func() {
		c.isStreaming = false
		c.streamingContent = ""
	}()

	// Snapshot before any stream-driven mutation so a session assigned
	// during this stream is never confused with the one we started from.
	sessionToUse := c.currentSession

	req := &model.GenerateRequest{Messages: append([]model.ChatMessage(nil), c.messages...)}
	if sessionToUse != nil {
		req.SessionUid = sessionToUse.UID
	}

	events, err := c.generator.Generate(ctx, req)
	if err != nil {
		c.failSend("", err.Error())
		return
	}

	var accumulated strings.Builder
	sessionAssigned := false
	sessionSeen := false

	appendContent := func(delta string) {
		if delta == "" {
			return
		}
		accumulated.WriteString(delta)
		c.streamingContent = accumulated.String()
		if c.onContent != nil {
			c.onContent(delta)
		}
	}
	// First session wins within a stream; TITLE_GENERATED is the one
	// authoritative override since it carries the final title.
	trackSession := func(session *model.ChatSession) {
		if session == nil {
			return
		}
		sessionSeen = true
		if !sessionAssigned {
			c.currentSession = session
			sessionAssigned = true
		}
	}

	for event := range events {
		if event.Error != "" {
			go drain(events)
			c.failSend(accumulated.String(), event.Error)
			return
		}

		switch event.Type {
		case model.EventModelReady:
			trackSession(event.Session)
		case model.EventContent:
			appendContent(event.Content)
		case model.EventSessionUpdated:
			trackSession(event.Session)
		case model.EventTitleGenerated:
			if event.Session != nil {
				sessionSeen = true
				c.currentSession = event.Session
				sessionAssigned = true
			}
		case model.EventOutputComplete, model.EventOutputEnd:
			// Terminal markers, no state effect.
		default:
			// Untyped events from older servers: fold whatever payload is
			// present under the content and session rules above.
			appendContent(event.Content)
			trackSession(event.Session)
		}
	}

	if accumulated.Len() > 0 {
		c.messages = append(c.messages, model.ChatMessage{Role: model.RoleAssistant, Content: accumulated.String()})
	}

	// One list refresh per exchange, no matter how many session-bearing
	// events arrived.
	if sessionToUse != nil || sessionSeen {
		c.refreshSessions(ctx)
	}
}

// failSend recovers from a failed stream. With no accumulated content the
// optimistic user message is rolled back; once the model said anything, the
// exchange is kept and the partial reply becomes the assistant message so
// the user does not lose what already arrived.
func (c *Controller) failSend(partial, rawErr string) {
	if partial == "" {
		c.messages = c.messages[:len(c.messages)-1]
	} else {
		c.messages = append(c.messages, model.ChatMessage{Role: model.RoleAssistant, Content: partial})
	}
	slog.Warn("Generation stream failed", "error", rawErr)
	c.notifier.Notify(UserMessage(Classify(rawErr), rawErr))
}

// SelectSession replaces the conversation with the server's authoritative
// record for uid. On failure the prior state is left intact and the error is
// surfaced, not retried.
func (c *Controller) SelectSession(ctx context.Context, uid string) {
	session, err := c.sessions.GetSession(ctx, uid)
	if err != nil {
		slog.Warn("Failed to load session", "session", uid, "error", err)
		c.notifier.Notify("Failed to load chat messages.")
		return
	}
	c.currentSession = session
	c.messages = append([]model.ChatMessage(nil), session.Messages...)
}

// RenameSession sets a new title for uid and refreshes the session list so
// the rename shows up immediately.
func (c *Controller) RenameSession(ctx context.Context, uid, title string) {
	if err := c.sessions.UpdateSessionTitle(ctx, uid, title); err != nil {
		slog.Warn("Failed to rename session", "session", uid, "error", err)
		c.notifier.Notify("Failed to update conversation.")
		return
	}
	c.refreshSessions(ctx)
	if c.currentSession != nil && c.currentSession.UID == uid {
		c.currentSession.Title = title
	}
}

// NewSession clears the conversation without contacting the backend; the
// server creates a session lazily on the first successful exchange.
func (c *Controller) NewSession() {
	c.currentSession = nil
	c.messages = nil
}

// DeleteSession marks uid for deletion and opens the confirmation gate.
func (c *Controller) DeleteSession(uid string) {
	c.pendingDelete = uid
}

// CancelDelete closes the confirmation gate without side effects.
func (c *Controller) CancelDelete() {
	c.pendingDelete = ""
}

// ConfirmDelete performs the pending deletion, refreshes the session list,
// and clears the conversation if the deleted session was the active one.
func (c *Controller) ConfirmDelete(ctx context.Context) {
	uid := c.pendingDelete
	if uid == "" {
		return
	}
	defer func() { c.pendingDelete = "" }()

	if err := c.sessions.DeleteSession(ctx, uid); err != nil {
		slog.Warn("Failed to delete session", "session", uid, "error", err)
		c.notifier.Notify("Failed to delete conversation.")
		return
	}
	c.refreshSessions(ctx)
	if c.currentSession != nil && c.currentSession.UID == uid {
		c.currentSession = nil
		c.messages = nil
	}
}

// RefreshSessions reloads the session list from the server.
func (c *Controller) RefreshSessions(ctx context.Context) {
	c.refreshSessions(ctx)
}

func (c *Controller) refreshSessions(ctx context.Context) {
	sessions, err := c.sessions.ListSessions(ctx)
	if err != nil {
		slog.Warn("Failed to load sessions", "error", err)
		c.notifier.Notify("Failed to load chat history.")
		return
	}
	c.sessionList = sessions
}

// drain consumes the remainder of an abandoned stream so the producer is not
// left blocked on an unbuffered channel.
func drain(events <-chan model.StreamEvent) {
	for range events {
	}
}
