package model

// RoleUser and RoleAssistant are the only roles the client ever renders.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// SessionStatusActive is the status of every session the API serves;
// deletion removes the row rather than flipping the status.
const SessionStatusActive = "ACTIVE"

// ChatSession stores metadata about a conversation thread. The UID is
// server-assigned and stable for the session's lifetime; clients never mint
// one. Messages may be omitted in list views and are populated on a full
// fetch by UID.
type ChatSession struct {
	UID       string        `json:"uid"`
	Title     string        `json:"title"`
	Status    string        `json:"status"`
	CreatedTs int64         `json:"created_ts"`
	UpdatedTs int64         `json:"updated_ts"`
	Messages  []ChatMessage `json:"messages,omitempty"`
}

// ChatMessage is a single message in a session's history.
type ChatMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedTs int64  `json:"created_ts,omitempty"`
}

// StreamEventType discriminates the variants of a generation stream event.
type StreamEventType string

const (
	EventModelReady     StreamEventType = "MODEL_READY"
	EventContent        StreamEventType = "CONTENT"
	EventSessionUpdated StreamEventType = "SESSION_UPDATED"
	EventTitleGenerated StreamEventType = "TITLE_GENERATED"
	EventOutputComplete StreamEventType = "OUTPUT_COMPLETE"
	EventOutputEnd      StreamEventType = "OUTPUT_END"
)

// StreamEvent is one unit of a generation stream. Unknown Type values are
// valid: older servers emit untyped chunks, and consumers fall back to
// interpreting whatever Content or Session payload is present. A non-empty
// Error means the stream failed; the channel closes after it.
type StreamEvent struct {
	Type    StreamEventType `json:"type,omitempty"`
	Content string          `json:"content,omitempty"`
	Session *ChatSession    `json:"session,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// GenerateRequest is the payload for a content generation call. SessionUid
// is empty when the conversation has no server-side session yet; the server
// creates one lazily after the first successful exchange.
type GenerateRequest struct {
	Messages   []ChatMessage `json:"messages"`
	SessionUid string        `json:"session_uid"`
}
