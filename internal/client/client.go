// Package client is the HTTP implementation of the collaborators the chat
// controller depends on: session CRUD over JSON and generation over SSE.
package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"note-ai/assistant/internal/model"
)

type Client struct {
	// No Timeout on the client: the generation stream stays open for as
	// long as the model keeps talking. Callers bound requests with contexts.
	http    *http.Client
	baseURL string
}

func New(baseURL string) *Client {
	return &Client{
		http:    &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) ListSessions(ctx context.Context) ([]*model.ChatSession, error) {
	var sessions []*model.ChatSession
	if err := c.getJSON(ctx, "/api/v1/sessions", &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (c *Client) GetSession(ctx context.Context, uid string) (*model.ChatSession, error) {
	var session model.ChatSession
	if err := c.getJSON(ctx, "/api/v1/sessions/"+uid, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (c *Client) UpdateSessionTitle(ctx context.Context, uid, title string) error {
	body, err := json.Marshal(map[string]string{"title": title})
	if err != nil {
		return fmt.Errorf("could not marshal title request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/api/v1/sessions/"+uid+"/title", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doExpectOK(req)
}

func (c *Client) DeleteSession(ctx context.Context, uid string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/v1/sessions/"+uid, nil)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	return c.doExpectOK(req)
}

// Generate opens the SSE stream and returns a channel of decoded events. The
// channel closes when the server finishes, the connection drops, or ctx is
// cancelled. Transport failures mid-stream surface in-band as a final event
// with Error set, matching how the server reports its own failures.
func (c *Client) Generate(ctx context.Context, genReq *model.GenerateRequest) (<-chan model.StreamEvent, error) {
	body, err := json.Marshal(genReq)
	if err != nil {
		return nil, fmt.Errorf("could not marshal generate request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generate request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, fmt.Errorf("generate request failed: %s", readAPIError(resp))
	}

	events := make(chan model.StreamEvent)
	go func() {
		defer close(events)
		defer resp.Body.Close()

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			var event model.StreamEvent
			if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &event); err != nil {
				events <- model.StreamEvent{Error: fmt.Sprintf("failed to decode stream event: %v", err)}
				return
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			events <- model.StreamEvent{Error: fmt.Sprintf("stream read failed: %v", err)}
		}
	}()

	return events, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s", readAPIError(resp))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}
	return nil
}

func (c *Client) doExpectOK(req *http.Request) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s", readAPIError(resp))
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

// readAPIError extracts the server's error message from a non-200 response,
// falling back to the raw body when it is not the standard JSON shape.
func readAPIError(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var apiErr struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return apiErr.Error
	}
	return fmt.Sprintf("server returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}
