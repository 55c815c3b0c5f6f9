package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/KamdynS/weather-agent/llm"
	"github.com/KamdynS/weather-agent/memory"
	obs "github.com/KamdynS/weather-agent/observability"
	"github.com/KamdynS/weather-agent/tools"
)

// exhaustedAnswer is returned when the model still wants tools on its
// last permitted call and produced no text of its own.
const exhaustedAnswer = "I could not finish answering within the allowed number of model calls. Please try again, or allow more iterations."

// ChatAgent is the default implementation of the Agent interface
type ChatAgent struct {
	Model  llm.Client
	Tools  tools.Registry
	Mem    memory.ConversationStore
	Guard  Guardrails
	Config Config
}

// ChatConfig holds configuration for ChatAgent
type ChatConfig struct {
	Model  llm.Client
	Tools  tools.Registry
	Mem    memory.ConversationStore
	Guard  Guardrails
	Config Config
}

// NewChatAgent creates a new ChatAgent with the given configuration
func NewChatAgent(config ChatConfig) *ChatAgent {
	return &ChatAgent{
		Model:  config.Model,
		Tools:  config.Tools,
		Mem:    config.Mem,
		Guard:  config.Guard,
		Config: config.Config,
	}
}

// Run implements the Agent interface
func (a *ChatAgent) Run(ctx context.Context, input Message) (Message, error) {
	span, ctx := obs.TracerImpl.StartSpan(ctx, "agent.run")
	defer span.End()
	span.SetAttribute(obs.AttrProvider, string(a.Model.Provider()))
	span.SetAttribute(obs.AttrModel, a.Model.Model())
	span.SetAttribute(obs.AttrSessionID, a.Config.SessionID)

	if a.Config.Timeout != "" {
		timeout, err := time.ParseDuration(a.Config.Timeout)
		if err != nil {
			span.SetStatus(obs.StatusCodeError, err.Error())
			return Message{}, fmt.Errorf("invalid timeout duration: %w", err)
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	if a.Guard != nil {
		filtered, err := a.Guard.CheckInput(ctx, input.Content)
		if err != nil {
			span.SetStatus(obs.StatusCodeError, err.Error())
			return Message{}, err
		}
		input.Content = filtered
	}

	history, err := a.loadHistory(ctx)
	if err != nil {
		span.SetStatus(obs.StatusCodeError, err.Error())
		return Message{}, err
	}
	if err := a.persist(ctx, memory.Message{Role: "user", Content: input.Content}); err != nil {
		span.SetStatus(obs.StatusCodeError, err.Error())
		return Message{}, err
	}

	messages := make([]llm.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, llm.Message{Role: "user", Content: input.Content})

	toolDefs := a.toolDefinitions()

	maxIterations := a.Config.MaxIterations
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	var finalResp *llm.Response
	for iter := 0; iter < maxIterations; iter++ {
		req := &llm.ChatRequest{
			Messages:     messages,
			SystemPrompt: a.Config.SystemPrompt,
			Tools:        toolDefs,
		}

		response, err := a.Model.Chat(ctx, req)
		if err != nil {
			span.SetStatus(obs.StatusCodeError, err.Error())
			return Message{}, fmt.Errorf("LLM call failed: %w", err)
		}
		finalResp = response

		if len(response.ToolCalls) == 0 || a.Tools == nil {
			break
		}

		if iter == maxIterations-1 {
			// The budget is spent: any tool results would never reach
			// the model, so skip execution and answer with what we have.
			if finalResp.Content == "" {
				finalResp.Content = exhaustedAnswer
			}
			break
		}

		messages = append(messages, llm.Message{
			Role:      "assistant",
			Content:   response.Content,
			ToolCalls: response.ToolCalls,
		})

		for _, tc := range response.ToolCalls {
			result, err := a.Tools.Execute(ctx, tc.Function.Name, tc.Function.Arguments)
			if err != nil {
				// The model sees the failure and can recover or explain it.
				span.AddEvent("tool.error", map[string]interface{}{
					obs.AttrToolName: tc.Function.Name,
					"error":          err.Error(),
				})
				result = fmt.Sprintf("error: %v", err)
			}

			messages = append(messages, llm.Message{
				Role:       "tool",
				Content:    result,
				Name:       tc.Function.Name,
				ToolCallID: tc.ID,
			})
			if err := a.persist(ctx, memory.Message{
				Role:       "tool",
				Content:    result,
				Name:       tc.Function.Name,
				ToolCallID: tc.ID,
			}); err != nil {
				span.SetStatus(obs.StatusCodeError, err.Error())
				return Message{}, err
			}
		}
	}

	if finalResp == nil {
		span.SetStatus(obs.StatusCodeError, "no response")
		return Message{}, fmt.Errorf("no response from model")
	}

	if finalResp.Usage != nil {
		span.SetAttribute(obs.AttrTokensInput, finalResp.Usage.InputTokens)
		span.SetAttribute(obs.AttrTokensOutput, finalResp.Usage.OutputTokens)
	}

	result := Message{Role: "assistant", Content: finalResp.Content}
	if err := a.persist(ctx, memory.Message{Role: "assistant", Content: result.Content}); err != nil {
		span.SetStatus(obs.StatusCodeError, err.Error())
		return Message{}, err
	}

	span.SetStatus(obs.StatusCodeOk, "")
	return result, nil
}

// loadHistory replays prior user and assistant turns. Tool exchanges are
// persisted for audit but not replayed: without their triggering assistant
// tool_calls turn the providers reject orphan tool messages.
func (a *ChatAgent) loadHistory(ctx context.Context) ([]llm.Message, error) {
	if a.Mem == nil || a.Config.SessionID == "" {
		return nil, nil
	}
	stored, err := a.Mem.GetMessages(ctx, a.Config.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", a.Config.SessionID, err)
	}
	history := make([]llm.Message, 0, len(stored))
	for _, msg := range stored {
		if msg.Role != "user" && msg.Role != "assistant" {
			continue
		}
		history = append(history, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	return history, nil
}

func (a *ChatAgent) persist(ctx context.Context, msg memory.Message) error {
	if a.Mem == nil || a.Config.SessionID == "" {
		return nil
	}
	if err := a.Mem.AppendMessage(ctx, a.Config.SessionID, msg); err != nil {
		return fmt.Errorf("persist message: %w", err)
	}
	return nil
}

func (a *ChatAgent) toolDefinitions() []llm.Tool {
	if a.Tools == nil {
		return nil
	}
	var defs []llm.Tool
	for _, name := range a.Tools.List() {
		if t, ok := a.Tools.Get(name); ok {
			defs = append(defs, llm.Tool{
				Type: "function",
				Function: llm.ToolFunction{
					Name:        t.Name(),
					Description: t.Description(),
					Parameters:  t.Schema(),
				},
			})
		}
	}
	return defs
}
