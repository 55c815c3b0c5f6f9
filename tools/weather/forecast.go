package weathertools

import (
	"context"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/KamdynS/weather-agent/tools"
	"github.com/KamdynS/weather-agent/weather"
)

// defaultForecastPeriods bounds how many periods the tool reports so the
// model isn't flooded with a week of text.
const defaultForecastPeriods = 5

// ForecastTool reports the NWS period forecast for a coordinate
type ForecastTool struct {
	client   *weather.Client
	schema   map[string]interface{}
	compiled *jsonschema.Schema
}

// NewForecastTool creates the get_forecast tool
func NewForecastTool(client *weather.Client) (*ForecastTool, error) {
	schema := map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"latitude": map[string]interface{}{
				"type":        "number",
				"description": "Latitude of the location",
				"minimum":     -90,
				"maximum":     90,
			},
			"longitude": map[string]interface{}{
				"type":        "number",
				"description": "Longitude of the location",
				"minimum":     -180,
				"maximum":     180,
			},
		},
		"required": []interface{}{"latitude", "longitude"},
	}

	compiled, err := compileSchema(schema)
	if err != nil {
		return nil, err
	}
	return &ForecastTool{client: client, schema: schema, compiled: compiled}, nil
}

// Name implements tools.Tool interface
func (t *ForecastTool) Name() string { return "get_forecast" }

// Description implements tools.Tool interface
func (t *ForecastTool) Description() string {
	return "Get the weather forecast for a location. Takes latitude and longitude."
}

// Schema implements tools.Tool interface
func (t *ForecastTool) Schema() map[string]interface{} { return t.schema }

// Execute implements tools.Tool interface
func (t *ForecastTool) Execute(ctx context.Context, args string) (string, error) {
	var params struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	}
	if err := decodeArgs(t.compiled, args, &params); err != nil {
		return "", err
	}

	periods, err := t.client.Forecast(ctx, params.Latitude, params.Longitude)
	if err != nil {
		return "", fmt.Errorf("get_forecast: %w", err)
	}
	return weather.FormatForecast(periods, defaultForecastPeriods), nil
}

var _ tools.Tool = (*ForecastTool)(nil)
