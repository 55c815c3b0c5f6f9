package llm

import (
	"context"
	"errors"
	"fmt"
)

// FailoverClient tries an ordered list of clients, falling through to the
// next one when a call fails with a retryable provider error. It lets a
// deployment pair e.g. an OpenAI primary with an Anthropic fallback without
// the caller knowing which provider answered.
type FailoverClient struct {
	clients []Client
}

// NewFailoverClient creates a failover client. At least one client is required.
func NewFailoverClient(clients ...Client) (*FailoverClient, error) {
	if len(clients) == 0 {
		return nil, errors.New("at least one client is required")
	}
	return &FailoverClient{clients: clients}, nil
}

// Chat implements the Client interface
func (f *FailoverClient) Chat(ctx context.Context, req *ChatRequest) (*Response, error) {
	var lastErr error
	for _, c := range f.clients {
		resp, err := c.Chat(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !IsRetryableError(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("all %d providers failed: %w", len(f.clients), lastErr)
}

// Completion implements the Client interface
func (f *FailoverClient) Completion(ctx context.Context, prompt string) (*Response, error) {
	return f.Chat(ctx, &ChatRequest{
		Messages: []Message{{Role: "user", Content: prompt}},
	})
}

// Model implements the Client interface; reports the primary's model
func (f *FailoverClient) Model() string {
	return f.clients[0].Model()
}

// Provider implements the Client interface; reports the primary's provider
func (f *FailoverClient) Provider() Provider {
	return f.clients[0].Provider()
}

// Validate implements the Client interface
func (f *FailoverClient) Validate() error {
	for i, c := range f.clients {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("client %d: %w", i, err)
		}
	}
	return nil
}

var _ Client = (*FailoverClient)(nil)
