package weathertools

import (
	"context"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/KamdynS/weather-agent/tools"
	"github.com/KamdynS/weather-agent/weather"
)

// AlertsTool reports active NWS alerts for a US state
type AlertsTool struct {
	client   *weather.Client
	schema   map[string]interface{}
	compiled *jsonschema.Schema
}

// NewAlertsTool creates the get_alerts tool
func NewAlertsTool(client *weather.Client) (*AlertsTool, error) {
	schema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"state": map[string]interface{}{
				"type":        "string",
				"description": "Two-letter US state code (e.g. CA, NY)",
				"minLength":   2,
				"maxLength":   2,
			},
		},
		"required": []interface{}{"state"},
	}

	compiled, err := compileSchema(schema)
	if err != nil {
		return nil, err
	}
	return &AlertsTool{client: client, schema: schema, compiled: compiled}, nil
}

// Name implements tools.Tool interface
func (t *AlertsTool) Name() string { return "get_alerts" }

// Description implements tools.Tool interface
func (t *AlertsTool) Description() string {
	return "Get active weather alerts for a US state. Takes a two-letter state code."
}

// Schema implements tools.Tool interface
func (t *AlertsTool) Schema() map[string]interface{} { return t.schema }

// Execute implements tools.Tool interface
func (t *AlertsTool) Execute(ctx context.Context, args string) (string, error) {
	var params struct {
		State string `json:"state"`
	}
	if err := decodeArgs(t.compiled, args, &params); err != nil {
		return "", err
	}

	alerts, err := t.client.ActiveAlerts(ctx, params.State)
	if err != nil {
		return "", fmt.Errorf("get_alerts: %w", err)
	}
	return weather.FormatAlerts(alerts), nil
}

var _ tools.Tool = (*AlertsTool)(nil)
