package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/KamdynS/weather-agent/agent"
)

type stubAgent struct {
	sessionID string
	reply     string
	err       error
	lastInput agent.Message
}

func (s *stubAgent) Run(ctx context.Context, input agent.Message) (agent.Message, error) {
	s.lastInput = input
	if s.err != nil {
		return agent.Message{}, s.err
	}
	return agent.Message{Role: "assistant", Content: s.reply}, nil
}

func newTestServer(reply string, err error) (*Server, *stubAgent) {
	stub := &stubAgent{reply: reply, err: err}
	srv := NewServer(func(sessionID string) agent.Agent {
		stub.sessionID = sessionID
		return stub
	}, Config{})
	return srv, stub
}

func postChat(t *testing.T, srv *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer("", nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestChat(t *testing.T) {
	srv, stub := newTestServer("Expect rain in Seattle.", nil)
	rec := postChat(t, srv, `{"message":"Forecast for Seattle?","session_id":"s1"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	var resp ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Expect rain in Seattle." {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.SessionID != "s1" {
		t.Errorf("session not echoed: %q", resp.SessionID)
	}
	if stub.sessionID != "s1" {
		t.Errorf("agent built for session %q", stub.sessionID)
	}
	if stub.lastInput.Content != "Forecast for Seattle?" {
		t.Errorf("agent got input %q", stub.lastInput.Content)
	}
}

func TestChatGeneratesSessionID(t *testing.T) {
	srv, stub := newTestServer("ok", nil)
	rec := postChat(t, srv, `{"message":"hi"}`)

	var resp ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.SessionID == "" {
		t.Fatal("expected generated session id")
	}
	if stub.sessionID != resp.SessionID {
		t.Errorf("agent session %q does not match response %q", stub.sessionID, resp.SessionID)
	}
}

func TestChatValidation(t *testing.T) {
	srv, _ := newTestServer("ok", nil)

	rec := postChat(t, srv, `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid JSON: expected 400, got %d", rec.Code)
	}

	rec = postChat(t, srv, `{"session_id":"s1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing message: expected 400, got %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/chat", nil)
	recorder := httptest.NewRecorder()
	srv.Handler().ServeHTTP(recorder, req)
	if recorder.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET: expected 405, got %d", recorder.Code)
	}
}

func TestChatAgentError(t *testing.T) {
	srv, _ := newTestServer("", errors.New("model unavailable"))
	rec := postChat(t, srv, `{"message":"hi"}`)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp ChatResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error == "" {
		t.Error("expected error in body")
	}
}
