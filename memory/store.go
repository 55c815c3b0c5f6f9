// Package memory defines conversation persistence for agent sessions.
// Implementations live in subpackages: inmemory for tests and single-process
// use, redis for shared short-lived sessions, postgres for durable history.
package memory

import "context"

// Store is a generic key/value store for agent state.
type Store interface {
	// Store saves data with the given key.
	Store(ctx context.Context, key string, value interface{}) error

	// Retrieve gets data by key. Missing keys are an error.
	Retrieve(ctx context.Context, key string) (interface{}, error)

	// Delete removes data by key.
	Delete(ctx context.Context, key string) error

	// List returns all keys.
	List(ctx context.Context) ([]string, error)

	// Clear removes all stored data.
	Clear(ctx context.Context) error
}

// ConversationStore manages per-session message history. Sessions are
// identified by opaque IDs; an unknown session reads as empty, not an error.
type ConversationStore interface {
	Store

	// AppendMessage adds a message to the session history.
	AppendMessage(ctx context.Context, sessionID string, msg Message) error

	// GetMessages retrieves the session history in append order.
	GetMessages(ctx context.Context, sessionID string) ([]Message, error)

	// ClearSession removes all messages for a session.
	ClearSession(ctx context.Context, sessionID string) error
}

// Message is one turn of a conversation. Tool exchanges round-trip through
// ToolCallID and Name so a resumed session can replay them to the model.
type Message struct {
	Role       string            `json:"role"`
	Content    string            `json:"content"`
	Name       string            `json:"name,omitempty"`
	ToolCallID string            `json:"tool_call_id,omitempty"`
	Timestamp  int64             `json:"timestamp"`
	Meta       map[string]string `json:"meta,omitempty"`
}
