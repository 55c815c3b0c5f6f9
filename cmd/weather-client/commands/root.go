// Package commands implements the weather-client CLI. The client connects
// to an MCP weather server, offers its tools to an LLM, and relays tool
// calls until the model settles on an answer.
package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	rds "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/KamdynS/weather-agent/agent"
	"github.com/KamdynS/weather-agent/config"
	"github.com/KamdynS/weather-agent/llm"
	"github.com/KamdynS/weather-agent/llm/anthropic"
	"github.com/KamdynS/weather-agent/llm/openai"
	"github.com/KamdynS/weather-agent/mcp"
	"github.com/KamdynS/weather-agent/memory"
	"github.com/KamdynS/weather-agent/memory/inmemory"
	"github.com/KamdynS/weather-agent/memory/postgres"
	"github.com/KamdynS/weather-agent/memory/redis"
	"github.com/KamdynS/weather-agent/tools"
)

const systemPrompt = "You are a weather assistant. Use the available tools " +
	"to answer questions about weather alerts and forecasts in the United " +
	"States. Cite the state or coordinates you looked up."

var (
	serverCmd string
	sseURL    string
	provider  string
	modelName string
	sessionID string
	maxIters  int

	cfg       *config.Config
	mcpClient mcp.ClientLike
	registry  tools.Registry
	store     memory.ConversationStore
	model     llm.Client
)

func Execute() error {
	root := &cobra.Command{
		Use:          "weather-client",
		Short:        "LLM-backed client for the MCP weather server",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return teardown()
		},
	}

	root.PersistentFlags().StringVar(&serverCmd, "server", "weather-server", "MCP server command to spawn over stdio")
	root.PersistentFlags().StringVar(&sseURL, "sse", "", "connect to a running SSE server instead of spawning one (overrides MCP_SSE_URL)")
	root.PersistentFlags().StringVar(&provider, "provider", "", "LLM provider: openai or anthropic (overrides LLM_PROVIDER)")
	root.PersistentFlags().StringVar(&modelName, "model", "", "model identifier (overrides LLM_MODEL)")
	root.PersistentFlags().StringVar(&sessionID, "session", "", "conversation session ID (default: a fresh UUID)")
	root.PersistentFlags().IntVar(&maxIters, "max-iterations", agent.DefaultMaxIterations, "max model calls per question")

	root.AddCommand(askCmd(), chatCmd(), toolsCmd(), serveCmd())
	return root.Execute()
}

func setup(ctx context.Context) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}
	if provider == "" {
		provider = cfg.Provider
	}
	if modelName == "" {
		modelName = cfg.Model
	}
	cfg.Provider = provider
	cfg.Model = modelName
	if err := cfg.ValidateLLM(); err != nil {
		return err
	}
	if sseURL == "" {
		sseURL = cfg.MCPSSEURL
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	model, err = buildModel()
	if err != nil {
		return err
	}

	mcpClient, err = connect(ctx)
	if err != nil {
		return err
	}

	registry = tools.NewRegistry()
	if err := mcp.RegisterAllTools(ctx, registry, mcpClient); err != nil {
		mcpClient.Close()
		return fmt.Errorf("register server tools: %w", err)
	}

	store, err = buildStore(ctx)
	if err != nil {
		mcpClient.Close()
		return err
	}
	return nil
}

func teardown() error {
	if mcpClient != nil {
		return mcpClient.Close()
	}
	return nil
}

// buildModel creates the primary provider client, with the other provider
// as a failover when its key is also configured.
func buildModel() (llm.Client, error) {
	var clients []llm.Client

	switch llm.Provider(provider) {
	case llm.ProviderAnthropic:
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
		primary, err := anthropic.NewClient(anthropic.Config{APIKey: cfg.AnthropicKey, Model: anthropicModel()})
		if err != nil {
			return nil, err
		}
		clients = append(clients, primary)
		if cfg.OpenAIKey != "" {
			fallback, err := openai.NewClient(openai.Config{APIKey: cfg.OpenAIKey})
			if err != nil {
				return nil, err
			}
			clients = append(clients, fallback)
		}
	case llm.ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		primary, err := openai.NewClient(openai.Config{APIKey: cfg.OpenAIKey, Model: openaiModel()})
		if err != nil {
			return nil, err
		}
		clients = append(clients, primary)
		if cfg.AnthropicKey != "" {
			fallback, err := anthropic.NewClient(anthropic.Config{APIKey: cfg.AnthropicKey})
			if err != nil {
				return nil, err
			}
			clients = append(clients, fallback)
		}
	default:
		return nil, fmt.Errorf("unsupported provider %q", provider)
	}

	if len(clients) == 1 {
		return clients[0], nil
	}
	return llm.NewFailoverClient(clients...)
}

func openaiModel() string {
	if modelName != "" {
		if m, err := llm.GetModel(modelName); err == nil && m.Provider == llm.ProviderOpenAI {
			return modelName
		}
	}
	return ""
}

func anthropicModel() string {
	if modelName != "" {
		if m, err := llm.GetModel(modelName); err == nil && m.Provider == llm.ProviderAnthropic {
			return modelName
		}
	}
	return ""
}

func connect(ctx context.Context) (mcp.ClientLike, error) {
	if sseURL != "" {
		client, err := mcp.ConnectSSE(ctx, sseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to %s: %w", sseURL, err)
		}
		return client, nil
	}

	fields, err := splitCommand(serverCmd)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty --server command")
	}
	client, err := mcp.ConnectStdio(ctx, fields[0], os.Environ(), fields[1:]...)
	if err != nil {
		return nil, fmt.Errorf("spawn %q: %w", serverCmd, err)
	}
	return client, nil
}

// splitCommand splits a command line into a binary and its arguments.
// Single or double quotes group tokens, so server paths containing
// spaces survive: --server '"/opt/my tools/server" --addr :9000'.
func splitCommand(s string) ([]string, error) {
	var fields []string
	var cur strings.Builder
	var quote rune
	inToken := false

	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inToken = true
		case unicode.IsSpace(r):
			if inToken {
				fields = append(fields, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in command %q", s)
	}
	if inToken {
		fields = append(fields, cur.String())
	}
	return fields, nil
}

func buildStore(ctx context.Context) (memory.ConversationStore, error) {
	switch {
	case cfg.RedisAddr != "":
		client := rds.NewClient(&rds.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis at %s: %w", cfg.RedisAddr, err)
		}
		return redis.NewConversationStore(client, "weather", cfg.SessionTTL), nil
	case cfg.DatabaseURL != "":
		return postgres.NewConversationStore(ctx, cfg.DatabaseURL)
	default:
		return inmemory.NewConversationStore(), nil
	}
}

func newAgent(session string) agent.Agent {
	return agent.NewChatAgent(agent.ChatConfig{
		Model: model,
		Tools: registry,
		Mem:   store,
		Config: agent.Config{
			MaxIterations: maxIters,
			Timeout:       (2 * time.Minute).String(),
			SystemPrompt:  systemPrompt,
			SessionID:     session,
		},
	})
}
