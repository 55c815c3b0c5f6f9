package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/KamdynS/weather-agent/tools"
)

const defaultExecuteTimeout = 30 * time.Second

// RegisterAllTools lists the server's tools and registers a proxy for each
// into the local registry. Tool calls made through the registry are then
// forwarded over the MCP session.
func RegisterAllTools(ctx context.Context, reg tools.Registry, client ClientLike) error {
	if reg == nil || client == nil {
		return fmt.Errorf("nil registry or client")
	}
	toolsList, err := client.ListTools(ctx)
	if err != nil {
		return err
	}
	for _, t := range toolsList {
		proxy := &toolProxy{client: client, name: t.Name, desc: t.Description, schema: t.Schema}
		if err := reg.Register(proxy); err != nil {
			return err
		}
	}
	return nil
}

type toolProxy struct {
	client ClientLike
	name   string
	desc   string
	schema map[string]interface{}
}

func (p *toolProxy) Name() string                   { return p.name }
func (p *toolProxy) Description() string            { return p.desc }
func (p *toolProxy) Schema() map[string]interface{} { return p.schema }

func (p *toolProxy) Execute(ctx context.Context, args string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultExecuteTimeout)
	defer cancel()
	return p.client.ExecuteTool(ctx, p.name, args)
}

var _ tools.Tool = (*toolProxy)(nil)
