package llm

import "fmt"

// Provider represents LLM providers
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Model represents an LLM model with its properties
type Model struct {
	Provider    Provider `json:"provider"`
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	ContextSize int      `json:"context_size"`
	InputCost   float64  `json:"input_cost"`  // Cost per 1M input tokens in USD
	OutputCost  float64  `json:"output_cost"` // Cost per 1M output tokens in USD
	ToolUse     bool     `json:"tool_use"`
}

// OpenAI models
const (
	ModelGPT4o     = "gpt-4o"
	ModelGPT4oMini = "gpt-4o-mini"
)

// Anthropic models
const (
	ModelClaude35Sonnet = "claude-3-5-sonnet-20241022"
	ModelClaude35Haiku  = "claude-3-5-haiku-20241022"
)

// AvailableModels is the registry of models this module knows how to price
// and validate. Unknown model names are rejected by ValidateModel.
var AvailableModels = map[string]Model{
	ModelGPT4o: {
		Provider:    ProviderOpenAI,
		Name:        ModelGPT4o,
		DisplayName: "GPT-4o",
		ContextSize: 128000,
		InputCost:   2.50,
		OutputCost:  10.00,
		ToolUse:     true,
	},
	ModelGPT4oMini: {
		Provider:    ProviderOpenAI,
		Name:        ModelGPT4oMini,
		DisplayName: "GPT-4o mini",
		ContextSize: 128000,
		InputCost:   0.15,
		OutputCost:  0.60,
		ToolUse:     true,
	},
	ModelClaude35Sonnet: {
		Provider:    ProviderAnthropic,
		Name:        ModelClaude35Sonnet,
		DisplayName: "Claude 3.5 Sonnet",
		ContextSize: 200000,
		InputCost:   3.00,
		OutputCost:  15.00,
		ToolUse:     true,
	},
	ModelClaude35Haiku: {
		Provider:    ProviderAnthropic,
		Name:        ModelClaude35Haiku,
		DisplayName: "Claude 3.5 Haiku",
		ContextSize: 200000,
		InputCost:   0.80,
		OutputCost:  4.00,
		ToolUse:     true,
	},
}

// GetModel returns model metadata for a given model name
func GetModel(name string) (Model, error) {
	model, exists := AvailableModels[name]
	if !exists {
		return Model{}, fmt.Errorf("unknown model: %s", name)
	}
	return model, nil
}

// GetModelsByProvider returns all models for a given provider
func GetModelsByProvider(provider Provider) []Model {
	var models []Model
	for _, model := range AvailableModels {
		if model.Provider == provider {
			models = append(models, model)
		}
	}
	return models
}

// ValidateModel checks if a model name is valid
func ValidateModel(name string) error {
	_, err := GetModel(name)
	return err
}

// String returns a human-readable representation of the model
func (m Model) String() string {
	return fmt.Sprintf("%s (%s) - %s", m.DisplayName, m.Name, m.Provider)
}

// EstimateCost estimates the cost for given token counts
func (m Model) EstimateCost(inputTokens, outputTokens int) float64 {
	inputCost := (float64(inputTokens) / 1000000) * m.InputCost
	outputCost := (float64(outputTokens) / 1000000) * m.OutputCost
	return inputCost + outputCost
}
