package llm

import (
	"context"
	"errors"
	"fmt"
	"io"

	openai "github.com/sashabaranov/go-openai"
)

type openAIProvider struct {
	client *openai.Client
}

// NewOpenAIProvider returns a Provider backed by any OpenAI-compatible
// endpoint. baseURL points at the API root, e.g. "https://api.openai.com/v1"
// or a self-hosted gateway.
func NewOpenAIProvider(apiKey, baseURL string) Provider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &openAIProvider{client: openai.NewClientWithConfig(cfg)}
}

func (p *openAIProvider) StreamChat(ctx context.Context, req *ChatRequest, ch chan<- StreamChunk) error {
	defer close(ch)

	stream, err := p.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: toOpenAIMessages(req.Messages),
		Stream:   true,
	})
	if err != nil {
		return fmt.Errorf("could not open completion stream: %w", err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to receive from completion stream: %w", err)
		}
		if len(resp.Choices) == 0 {
			continue
		}

		chunk := StreamChunk{Content: resp.Choices[0].Delta.Content}
		select {
		case ch <- chunk:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	select {
	case ch <- StreamChunk{Done: true}:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

func (p *openAIProvider) Complete(ctx context.Context, req *ChatRequest) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: toOpenAIMessages(req.Messages),
	})
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}
