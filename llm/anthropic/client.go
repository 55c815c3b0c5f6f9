package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/KamdynS/weather-agent/llm"
)

// Client implements the llm.Client interface for Anthropic Claude
type Client struct {
	client  *anthropic.Client
	config  Config
	retrier *llm.Retrier
}

// Config holds Anthropic-specific configuration
type Config struct {
	APIKey      string          `json:"api_key"`
	Model       string          `json:"model"` // e.g., "claude-3-5-haiku-20241022"
	BaseURL     string          `json:"base_url,omitempty"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
	Timeout     time.Duration   `json:"timeout,omitempty"`
	RetryConfig llm.RetryConfig `json:"retry_config,omitempty"`
}

// NewClient creates a new Anthropic client
func NewClient(config Config) (*Client, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if config.Model == "" {
		config.Model = llm.ModelClaude35Haiku
	}
	if config.Temperature == 0 {
		config.Temperature = 0.7
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 1000
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RetryConfig.MaxRetries == 0 {
		config.RetryConfig = llm.DefaultRetryConfig()
	}

	opts := []anthropic.ClientOption{
		anthropic.WithHTTPClient(&http.Client{Timeout: config.Timeout}),
	}
	if config.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(config.BaseURL))
	}

	return &Client{
		client:  anthropic.NewClient(config.APIKey, opts...),
		config:  config,
		retrier: llm.NewRetrier(config.RetryConfig),
	}, nil
}

func validateConfig(config Config) error {
	if config.APIKey == "" {
		return fmt.Errorf("API key is required")
	}

	if config.Model != "" {
		if err := llm.ValidateModel(config.Model); err != nil {
			return fmt.Errorf("invalid model: %w", err)
		}
		model, _ := llm.GetModel(config.Model)
		if model.Provider != llm.ProviderAnthropic {
			return fmt.Errorf("model %s is not an Anthropic model", config.Model)
		}
	}

	if config.Temperature < 0 || config.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1")
	}
	if config.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be non-negative")
	}

	return nil
}

// Chat implements llm.Client interface
func (c *Client) Chat(ctx context.Context, req *llm.ChatRequest) (*llm.Response, error) {
	start := time.Now()

	result, err := llm.Execute(c.retrier, ctx, func(ctx context.Context, attempt int) (*llm.Response, error) {
		return c.chat(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	result.Latency = time.Since(start)
	return result, nil
}

func (c *Client) chat(ctx context.Context, req *llm.ChatRequest) (*llm.Response, error) {
	messages, systemPrompt := convertMessages(req)

	model := c.config.Model
	if req.Model != "" {
		model = req.Model
	}

	anthReq := anthropic.MessagesRequest{
		Model:     anthropic.Model(model),
		Messages:  messages,
		MaxTokens: c.config.MaxTokens,
	}
	if systemPrompt != "" {
		anthReq.System = systemPrompt
	}

	if req.Temperature != nil {
		t := float32(*req.Temperature)
		anthReq.Temperature = &t
	} else {
		t := float32(c.config.Temperature)
		anthReq.Temperature = &t
	}

	if req.MaxTokens != nil {
		anthReq.MaxTokens = *req.MaxTokens
	}

	if len(req.Stop) > 0 {
		anthReq.StopSequences = req.Stop
	}

	if len(req.Tools) > 0 {
		tools := make([]anthropic.ToolDefinition, len(req.Tools))
		for i, tool := range req.Tools {
			tools[i] = anthropic.ToolDefinition{
				Name:        tool.Function.Name,
				Description: tool.Function.Description,
				InputSchema: tool.Function.Parameters,
			}
		}
		anthReq.Tools = tools
	}

	resp, err := c.client.CreateMessages(ctx, anthReq)
	if err != nil {
		return nil, c.convertError(err)
	}

	if len(resp.Content) == 0 {
		return nil, llm.NewLLMError(llm.ProviderAnthropic, llm.ErrorTypeUnknown, "no content returned")
	}

	var content strings.Builder
	var toolCalls []llm.ToolCall

	for _, block := range resp.Content {
		switch block.Type {
		case anthropic.MessagesContentTypeText:
			if block.Text != nil {
				content.WriteString(*block.Text)
			}
		case anthropic.MessagesContentTypeToolUse:
			if block.MessageContentToolUse == nil {
				continue
			}
			toolCalls = append(toolCalls, llm.ToolCall{
				ID:   block.MessageContentToolUse.ID,
				Type: "function",
				Function: llm.Function{
					Name:      block.MessageContentToolUse.Name,
					Arguments: string(block.MessageContentToolUse.Input),
				},
			})
		}
	}

	var usage *llm.Usage
	if resp.Usage.OutputTokens > 0 {
		modelInfo, _ := llm.GetModel(model)
		usage = &llm.Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.InputTokens + resp.Usage.OutputTokens,
			Cost:         modelInfo.EstimateCost(resp.Usage.InputTokens, resp.Usage.OutputTokens),
		}
	}

	finishReason := string(resp.StopReason)
	if resp.StopReason == anthropic.MessagesStopReasonToolUse {
		finishReason = "tool_calls"
	}

	return &llm.Response{
		Content:      content.String(),
		Role:         "assistant",
		Model:        model,
		Provider:     llm.ProviderAnthropic,
		Usage:        usage,
		FinishReason: finishReason,
		ToolCalls:    toolCalls,
	}, nil
}

// convertMessages maps provider-neutral messages onto Anthropic's content
// blocks. Anthropic separates the system prompt from the message list, and
// tool results travel as tool_result blocks in user messages.
func convertMessages(req *llm.ChatRequest) ([]anthropic.Message, string) {
	messages := make([]anthropic.Message, 0, len(req.Messages))
	systemPrompt := req.SystemPrompt

	for i := range req.Messages {
		msg := req.Messages[i]
		switch msg.Role {
		case "system":
			if systemPrompt != "" {
				systemPrompt += "\n\n" + msg.Content
			} else {
				systemPrompt = msg.Content
			}
		case "assistant":
			var content []anthropic.MessageContent
			if msg.Content != "" {
				content = append(content, anthropic.MessageContent{Type: anthropic.MessagesContentTypeText, Text: &req.Messages[i].Content})
			}
			for _, tc := range msg.ToolCalls {
				content = append(content, anthropic.MessageContent{
					Type: anthropic.MessagesContentTypeToolUse,
					MessageContentToolUse: &anthropic.MessageContentToolUse{
						ID:    tc.ID,
						Name:  tc.Function.Name,
						Input: json.RawMessage(tc.Function.Arguments),
					},
				})
			}
			messages = append(messages, anthropic.Message{
				Role:    anthropic.RoleAssistant,
				Content: content,
			})
		case "tool":
			messages = append(messages, anthropic.Message{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{{
					Type: anthropic.MessagesContentTypeToolResult,
					MessageContentToolResult: &anthropic.MessageContentToolResult{
						ToolUseID: &req.Messages[i].ToolCallID,
						Content:   []anthropic.MessageContent{{Type: anthropic.MessagesContentTypeText, Text: &req.Messages[i].Content}},
					},
				}},
			})
		default:
			messages = append(messages, anthropic.Message{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{{Type: anthropic.MessagesContentTypeText, Text: &req.Messages[i].Content}},
			})
		}
	}

	return messages, systemPrompt
}

// Completion implements llm.Client interface
func (c *Client) Completion(ctx context.Context, prompt string) (*llm.Response, error) {
	return c.Chat(ctx, &llm.ChatRequest{
		Messages: []llm.Message{{Role: "user", Content: prompt}},
	})
}

// convertError converts Anthropic SDK errors to LLM errors
func (c *Client) convertError(err error) error {
	if err == nil {
		return nil
	}

	var reqErr *anthropic.RequestError
	if errors.As(err, &reqErr) {
		llmErr := llm.ParseHTTPError(llm.ProviderAnthropic, reqErr.StatusCode, reqErr.Error())
		llmErr.Cause = err
		return llmErr
	}

	var apiErr *anthropic.APIError
	if errors.As(err, &apiErr) {
		llmErr := llm.NewLLMErrorWithCause(llm.ProviderAnthropic, classifyAPIError(apiErr), apiErr.Message, err)
		llmErr.Code = string(apiErr.Type)
		return llmErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return llm.NewLLMErrorWithCause(llm.ProviderAnthropic, llm.ErrorTypeTimeout, "request timeout", err)
	}

	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "connection") || strings.Contains(lower, "network") {
		return llm.NewLLMErrorWithCause(llm.ProviderAnthropic, llm.ErrorTypeConnectionError, "connection error", err)
	}

	return llm.NewLLMErrorWithCause(llm.ProviderAnthropic, llm.ErrorTypeUnknown, err.Error(), err)
}

func classifyAPIError(apiErr *anthropic.APIError) llm.ErrorType {
	switch {
	case apiErr.IsRateLimitErr():
		return llm.ErrorTypeRateLimit
	case apiErr.IsAuthenticationErr():
		return llm.ErrorTypeAuthentication
	case apiErr.IsPermissionErr():
		return llm.ErrorTypePermission
	case apiErr.IsNotFoundErr():
		return llm.ErrorTypeNotFound
	case apiErr.IsApiErr(), apiErr.IsOverloadedErr():
		return llm.ErrorTypeServerError
	case apiErr.IsInvalidRequestErr():
		return llm.ErrorTypeInvalidRequest
	default:
		return llm.ErrorTypeUnknown
	}
}

// Model implements llm.Client interface
func (c *Client) Model() string {
	return c.config.Model
}

// Provider implements llm.Client interface
func (c *Client) Provider() llm.Provider {
	return llm.ProviderAnthropic
}

// Validate implements llm.Client interface
func (c *Client) Validate() error {
	return validateConfig(c.config)
}

var _ llm.Client = (*Client)(nil)
