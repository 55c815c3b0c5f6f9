// Package agent runs the model/tool loop: it sends the conversation and the
// tool catalog to an LLM, executes any tool calls the model issues, and
// feeds results back until the model produces a final answer.
package agent

import (
	"context"
)

// Message represents a conversation message with role and content
type Message struct {
	Role    string            `json:"role"`
	Content string            `json:"content"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// Agent defines the core interface for AI agents
type Agent interface {
	// Run executes one reasoning-action loop with the given input and returns output
	Run(ctx context.Context, input Message) (Message, error)
}

// DefaultMaxIterations bounds the tool loop when Config.MaxIterations is unset.
// Each iteration is one model call; tool results consume an iteration.
const DefaultMaxIterations = 3

// Config holds configuration for creating agents
type Config struct {
	// MaxIterations caps model calls per Run. Zero means DefaultMaxIterations.
	MaxIterations int

	// Timeout bounds the whole Run including tool execution. Zero means none.
	Timeout string

	// SystemPrompt is sent ahead of the conversation on every model call.
	SystemPrompt string

	// SessionID selects the conversation history to load and append to.
	// Empty disables persistence even when a store is configured.
	SessionID string
}
