package llm_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"note-ai/assistant/internal/llm"
)

// sseChunk renders one streaming completion chunk in the OpenAI wire format.
func sseChunk(content string) string {
	payload, _ := json.Marshal(map[string]interface{}{
		"id":      "chatcmpl-test",
		"object":  "chat.completion.chunk",
		"model":   "gpt-4o-mini",
		"choices": []map[string]interface{}{{"index": 0, "delta": map[string]string{"content": content}}},
	})
	return fmt.Sprintf("data: %s\n\n", payload)
}

func TestOpenAIProvider_StreamChat(t *testing.T) {
	t.Run("Forwards deltas and closes with a done marker", func(t *testing.T) {
		// ARRANGE
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

			var req map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "gpt-4o-mini", req["model"])
			assert.Equal(t, true, req["stream"])

			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, sseChunk("Hel"))
			fmt.Fprint(w, sseChunk("lo"))
			fmt.Fprint(w, "data: [DONE]\n\n")
		}))
		defer server.Close()

		provider := llm.NewOpenAIProvider("sk-test", server.URL)
		ch := make(chan llm.StreamChunk)
		errCh := make(chan error, 1)

		// ACT
		go func() {
			errCh <- provider.StreamChat(context.Background(), &llm.ChatRequest{
				Model:    "gpt-4o-mini",
				Messages: []llm.Message{{Role: "user", Content: "hi"}},
			}, ch)
		}()

		var chunks []llm.StreamChunk
		for chunk := range ch {
			chunks = append(chunks, chunk)
		}

		// ASSERT
		require.NoError(t, <-errCh)
		require.Len(t, chunks, 3)
		assert.Equal(t, "Hel", chunks[0].Content)
		assert.Equal(t, "lo", chunks[1].Content)
		assert.True(t, chunks[2].Done)
	})

	t.Run("API error closes the channel and returns the failure", func(t *testing.T) {
		// ARRANGE
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"error": {"message": "Incorrect API key provided", "type": "invalid_request_error"}}`)
		}))
		defer server.Close()

		provider := llm.NewOpenAIProvider("sk-bad", server.URL)
		ch := make(chan llm.StreamChunk)
		errCh := make(chan error, 1)

		// ACT
		go func() {
			errCh <- provider.StreamChat(context.Background(), &llm.ChatRequest{
				Model:    "gpt-4o-mini",
				Messages: []llm.Message{{Role: "user", Content: "hi"}},
			}, ch)
		}()
		for range ch {
		}

		// ASSERT
		err := <-errCh
		require.Error(t, err)
		assert.Contains(t, err.Error(), "could not open completion stream")
		assert.Contains(t, err.Error(), "401")
	})
}

func TestOpenAIProvider_Complete(t *testing.T) {
	t.Run("Returns the first choice's message", func(t *testing.T) {
		// ARRANGE
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{
				"id": "chatcmpl-test",
				"object": "chat.completion",
				"model": "gpt-4o-mini",
				"choices": [{"index": 0, "message": {"role": "assistant", "content": "Quick Greeting"}, "finish_reason": "stop"}]
			}`)
		}))
		defer server.Close()

		provider := llm.NewOpenAIProvider("sk-test", server.URL)

		// ACT
		got, err := provider.Complete(context.Background(), &llm.ChatRequest{
			Model:    "gpt-4o-mini",
			Messages: []llm.Message{{Role: "user", Content: "title please"}},
		})

		// ASSERT
		require.NoError(t, err)
		assert.Equal(t, "Quick Greeting", got)
	})

	t.Run("Empty choice list is an error", func(t *testing.T) {
		// ARRANGE
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"id": "chatcmpl-test", "object": "chat.completion", "model": "gpt-4o-mini", "choices": []}`)
		}))
		defer server.Close()

		provider := llm.NewOpenAIProvider("sk-test", server.URL)

		// ACT
		_, err := provider.Complete(context.Background(), &llm.ChatRequest{
			Model:    "gpt-4o-mini",
			Messages: []llm.Message{{Role: "user", Content: "title please"}},
		})

		// ASSERT
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no choices")
	})
}
