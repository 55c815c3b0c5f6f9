// Package weatheragent provides top-level documentation for the
// weather-agent module: an MCP weather server and an LLM-backed client that
// lets a model answer weather questions by calling the server's tools.
//
// The module is organized as multiple subpackages. Importers typically
// depend on the subpackages directly, for example:
//
//	import (
//	  "github.com/KamdynS/weather-agent/agent"
//	  "github.com/KamdynS/weather-agent/llm"
//	  "github.com/KamdynS/weather-agent/mcp"
//	  "github.com/KamdynS/weather-agent/weather"
//	)
//
// The two binaries live under cmd/: weather-server exposes get_alerts and
// get_forecast over MCP (stdio or SSE), and weather-client connects to a
// server, advertises its tool catalog to an LLM, and relays tool calls.
package weatheragent
