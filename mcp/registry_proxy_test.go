package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/KamdynS/weather-agent/tools"
)

type fakeClient struct {
	tools    []ToolInfo
	listErr  error
	execErr  error
	lastName string
	lastArgs string
}

func (f *fakeClient) ListTools(ctx context.Context) ([]ToolInfo, error) {
	return f.tools, f.listErr
}

func (f *fakeClient) ExecuteTool(ctx context.Context, name string, args string) (string, error) {
	f.lastName = name
	f.lastArgs = args
	if f.execErr != nil {
		return "", f.execErr
	}
	return "result for " + name, nil
}

func (f *fakeClient) Close() error { return nil }

func TestRegisterAllTools(t *testing.T) {
	client := &fakeClient{tools: []ToolInfo{
		{Name: "get_alerts", Description: "Active alerts for a state", Schema: map[string]interface{}{"type": "object"}},
		{Name: "get_forecast", Description: "Forecast for coordinates", Schema: map[string]interface{}{"type": "object"}},
	}}
	reg := tools.NewRegistry()

	if err := RegisterAllTools(context.Background(), reg, client); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	list := reg.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 tools, got %d", len(list))
	}

	proxy, ok := reg.Get("get_alerts")
	if !ok {
		t.Fatal("get_alerts not registered")
	}
	if proxy.Description() != "Active alerts for a state" {
		t.Errorf("unexpected description %q", proxy.Description())
	}
}

func TestRegisterAllToolsNil(t *testing.T) {
	if err := RegisterAllTools(context.Background(), nil, &fakeClient{}); err == nil {
		t.Error("expected error for nil registry")
	}
	if err := RegisterAllTools(context.Background(), tools.NewRegistry(), nil); err == nil {
		t.Error("expected error for nil client")
	}
}

func TestRegisterAllToolsListFailure(t *testing.T) {
	client := &fakeClient{listErr: errors.New("connection reset")}
	if err := RegisterAllTools(context.Background(), tools.NewRegistry(), client); err == nil {
		t.Error("expected list error to propagate")
	}
}

func TestToolProxyForwardsArgs(t *testing.T) {
	client := &fakeClient{tools: []ToolInfo{{Name: "get_alerts", Description: "alerts"}}}
	reg := tools.NewRegistry()
	if err := RegisterAllTools(context.Background(), reg, client); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	proxy, _ := reg.Get("get_alerts")
	out, err := proxy.Execute(context.Background(), `{"state":"CA"}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "result for get_alerts" {
		t.Errorf("unexpected result %q", out)
	}
	if client.lastName != "get_alerts" || client.lastArgs != `{"state":"CA"}` {
		t.Errorf("proxy forwarded name=%q args=%q", client.lastName, client.lastArgs)
	}
}

func TestToolProxySurfacesErrors(t *testing.T) {
	client := &fakeClient{
		tools:   []ToolInfo{{Name: "get_forecast", Description: "forecast"}},
		execErr: errors.New("tool get_forecast reported error: upstream timeout"),
	}
	reg := tools.NewRegistry()
	if err := RegisterAllTools(context.Background(), reg, client); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	proxy, _ := reg.Get("get_forecast")
	if _, err := proxy.Execute(context.Background(), "{}"); err == nil {
		t.Error("expected execution error to propagate")
	}
}
