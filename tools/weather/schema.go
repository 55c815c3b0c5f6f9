// Package weathertools exposes NWS weather lookups as agent tools. The same
// implementations back the MCP server's tool handlers and any locally wired
// registry.
package weathertools

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// compileSchema compiles a tool's parameter schema once at construction.
// Arguments from the model are validated against it before execution, so a
// malformed call becomes a tool error the model can react to instead of a
// panic deep in the NWS client.
func compileSchema(schema map[string]interface{}) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	c := jsonschema.NewCompiler()
	if err := c.AddResource("schema.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("schema resource: %w", err)
	}
	s, err := c.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return s, nil
}

// decodeArgs parses and validates a raw JSON argument string
func decodeArgs(s *jsonschema.Schema, args string, out interface{}) error {
	if args == "" {
		args = "{}"
	}

	var doc interface{}
	if err := json.Unmarshal([]byte(args), &doc); err != nil {
		return fmt.Errorf("parse arguments: %w", err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return json.Unmarshal([]byte(args), out)
}
