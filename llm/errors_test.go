package llm

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestParseHTTPError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantType  ErrorType
		retryable bool
	}{
		{"bad request", http.StatusBadRequest, "", ErrorTypeInvalidRequest, false},
		{"unauthorized", http.StatusUnauthorized, "", ErrorTypeAuthentication, false},
		{"forbidden", http.StatusForbidden, "", ErrorTypePermission, false},
		{"not found", http.StatusNotFound, "", ErrorTypeNotFound, false},
		{"rate limited", http.StatusTooManyRequests, "", ErrorTypeRateLimit, true},
		{"server error", http.StatusInternalServerError, "", ErrorTypeServerError, true},
		{"gateway timeout", http.StatusGatewayTimeout, "", ErrorTypeServerError, true},
		{"unknown", 418, "", ErrorTypeUnknown, false},
		{"rate limit in body", http.StatusBadRequest, "Rate limit reached for gpt-4o-mini", ErrorTypeRateLimit, true},
		{"context length in body", http.StatusBadRequest, "maximum context length exceeded, reduce token limit", ErrorTypeContextLength, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ParseHTTPError(ProviderOpenAI, tt.status, tt.body)
			if err.Type != tt.wantType {
				t.Errorf("expected type %s, got %s", tt.wantType, err.Type)
			}
			if err.IsRetryable() != tt.retryable {
				t.Errorf("expected retryable=%v, got %v", tt.retryable, err.IsRetryable())
			}
			if err.HTTPStatus != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, err.HTTPStatus)
			}
		})
	}
}

func TestLLMErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewLLMErrorWithCause(ProviderAnthropic, ErrorTypeServerError, "server error", cause)

	if !errors.Is(err, cause) {
		t.Errorf("expected errors.Is to find the cause")
	}
	if err.Provider != ProviderAnthropic {
		t.Errorf("expected provider anthropic, got %s", err.Provider)
	}
}

func TestErrorString(t *testing.T) {
	err := NewLLMError(ProviderOpenAI, ErrorTypeRateLimit, "slow down")
	if got := err.Error(); got != "openai: slow down" {
		t.Errorf("unexpected error string: %q", got)
	}

	err.Code = "rate_limit_exceeded"
	if got := err.Error(); got != "openai [rate_limit_exceeded]: slow down" {
		t.Errorf("unexpected error string with code: %q", got)
	}
}

func TestErrorPredicates(t *testing.T) {
	if IsRetryableError(errors.New("plain")) {
		t.Errorf("plain errors must not be retryable")
	}
	if !IsRateLimitError(NewLLMError(ProviderOpenAI, ErrorTypeRateLimit, "x")) {
		t.Errorf("expected rate limit error")
	}
	if !IsAuthenticationError(NewLLMError(ProviderOpenAI, ErrorTypeAuthentication, "x")) {
		t.Errorf("expected authentication error")
	}
	if IsRateLimitError(NewLLMError(ProviderOpenAI, ErrorTypeTimeout, "x")) {
		t.Errorf("timeout is not a rate limit error")
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("operation failed after 3 attempts: %w",
		NewLLMError(ProviderOpenAI, ErrorTypeServerError, "down"))

	llmErr, ok := IsLLMError(wrapped)
	if !ok {
		t.Fatalf("expected wrapped LLMError to be found")
	}
	if llmErr.Type != ErrorTypeServerError {
		t.Errorf("expected server_error, got %s", llmErr.Type)
	}
	if !IsRetryableError(wrapped) {
		t.Errorf("wrapped retryable error must stay retryable")
	}
}
