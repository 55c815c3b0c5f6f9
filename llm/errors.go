package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents the type of LLM error
type ErrorType string

const (
	ErrorTypeUnknown         ErrorType = "unknown"
	ErrorTypeInvalidRequest  ErrorType = "invalid_request"
	ErrorTypeAuthentication  ErrorType = "authentication_error"
	ErrorTypePermission      ErrorType = "permission_error"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeRateLimit       ErrorType = "rate_limit_exceeded"
	ErrorTypeContextLength   ErrorType = "context_length_exceeded"
	ErrorTypeServerError     ErrorType = "server_error"
	ErrorTypeTimeout         ErrorType = "timeout"
	ErrorTypeConnectionError ErrorType = "connection_error"
)

// LLMError represents an error from an LLM provider
type LLMError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Code       string    `json:"code,omitempty"`
	Provider   Provider  `json:"provider"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	RetryAfter int       `json:"retry_after,omitempty"` // Seconds to wait before retry
	Cause      error     `json:"-"`
}

// Error implements the error interface
func (e *LLMError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Provider, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// Unwrap returns the underlying error
func (e *LLMError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns true if the error is retryable
func (e *LLMError) IsRetryable() bool {
	return isRetryableError(e.Type)
}

// NewLLMError creates a new LLM error
func NewLLMError(provider Provider, errorType ErrorType, message string) *LLMError {
	return &LLMError{
		Type:      errorType,
		Message:   message,
		Provider:  provider,
		Retryable: isRetryableError(errorType),
	}
}

// NewLLMErrorWithCause creates a new LLM error with an underlying cause
func NewLLMErrorWithCause(provider Provider, errorType ErrorType, message string, cause error) *LLMError {
	err := NewLLMError(provider, errorType, message)
	err.Cause = cause
	return err
}

func isRetryableError(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeRateLimit, ErrorTypeServerError, ErrorTypeTimeout, ErrorTypeConnectionError:
		return true
	default:
		return false
	}
}

// ParseHTTPError parses HTTP status codes into appropriate LLM errors
func ParseHTTPError(provider Provider, statusCode int, body string) *LLMError {
	var errorType ErrorType
	var message string

	switch statusCode {
	case http.StatusBadRequest:
		errorType = ErrorTypeInvalidRequest
		message = "invalid request parameters"
	case http.StatusUnauthorized:
		errorType = ErrorTypeAuthentication
		message = "invalid API key or authentication failed"
	case http.StatusForbidden:
		errorType = ErrorTypePermission
		message = "permission denied"
	case http.StatusNotFound:
		errorType = ErrorTypeNotFound
		message = "resource not found"
	case http.StatusTooManyRequests:
		errorType = ErrorTypeRateLimit
		message = "rate limit exceeded"
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		errorType = ErrorTypeServerError
		message = "server error occurred"
	default:
		errorType = ErrorTypeUnknown
		message = fmt.Sprintf("HTTP %d error", statusCode)
	}

	if body != "" {
		if specific := classifyErrorBody(provider, body); specific != nil {
			specific.HTTPStatus = statusCode
			return specific
		}
		message = fmt.Sprintf("%s: %s", message, truncateBody(body, 200))
	}

	err := NewLLMError(provider, errorType, message)
	err.HTTPStatus = statusCode
	return err
}

// classifyErrorBody extracts provider-specific error information from a
// response body when the status code alone is ambiguous.
func classifyErrorBody(provider Provider, body string) *LLMError {
	lower := strings.ToLower(body)

	switch {
	case strings.Contains(lower, "rate limit") || strings.Contains(lower, "too many requests"):
		return NewLLMError(provider, ErrorTypeRateLimit, "rate limit exceeded")
	case strings.Contains(lower, "context length") || strings.Contains(lower, "token limit"):
		return NewLLMError(provider, ErrorTypeContextLength, "context length exceeded")
	case strings.Contains(lower, "model") && (strings.Contains(lower, "not found") || strings.Contains(lower, "invalid")):
		return NewLLMError(provider, ErrorTypeNotFound, "invalid or unavailable model")
	}
	return nil
}

func truncateBody(body string, maxLength int) string {
	if len(body) <= maxLength {
		return body
	}
	return body[:maxLength] + "..."
}

// IsLLMError checks if an error is or wraps an LLMError. Errors from
// provider adapters arrive wrapped by the retrier, so this walks the
// chain rather than type-asserting the top error.
func IsLLMError(err error) (*LLMError, bool) {
	var llmErr *LLMError
	if errors.As(err, &llmErr) {
		return llmErr, true
	}
	return nil, false
}

// IsRetryableError checks if an error is retryable
func IsRetryableError(err error) bool {
	if llmErr, ok := IsLLMError(err); ok {
		return llmErr.IsRetryable()
	}
	return false
}

// IsRateLimitError checks if an error is a rate limit error
func IsRateLimitError(err error) bool {
	if llmErr, ok := IsLLMError(err); ok {
		return llmErr.Type == ErrorTypeRateLimit
	}
	return false
}

// IsAuthenticationError checks if an error is an authentication error
func IsAuthenticationError(err error) bool {
	if llmErr, ok := IsLLMError(err); ok {
		return llmErr.Type == ErrorTypeAuthentication
	}
	return false
}
