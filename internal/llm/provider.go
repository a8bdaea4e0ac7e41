package llm

import (
	"context"
)

// Message is a single turn handed to the model.
type Message struct {
	Role    string
	Content string
}

// ChatRequest carries everything one completion call needs.
type ChatRequest struct {
	Model    string
	Messages []Message
}

// StreamChunk is one content delta from a streaming completion.
type StreamChunk struct {
	Content string
	Done    bool
}

// Provider defines the interface for interacting with a language model.
type Provider interface {
	// StreamChat runs a streaming completion, pushing deltas into ch until
	// the model finishes or the call fails. The channel is closed before
	// returning, success or not.
	StreamChat(ctx context.Context, req *ChatRequest, ch chan<- StreamChunk) error
	// Complete runs a one-shot completion and returns the full response text.
	Complete(ctx context.Context, req *ChatRequest) (string, error)
}

// Factory builds a Provider for a given credential pair. The AI settings are
// editable at runtime, so providers are constructed per request rather than
// once at startup.
type Factory func(apiKey, baseURL string) Provider
