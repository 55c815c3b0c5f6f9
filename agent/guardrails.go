package agent

import (
	"context"
	"errors"
	"strings"
)

// Guardrails filters user input before it reaches the model.
type Guardrails interface {
	// CheckInput returns the input to send, possibly truncated, or an error
	// if the request should be rejected outright.
	CheckInput(ctx context.Context, input string) (string, error)
}

// SimpleGuardrails provides minimal input filtering and allow/deny checks.
type SimpleGuardrails struct {
	// Deny if any of these substrings appear in the input
	DenySubstrings []string
	// Allow only if at least one of these substrings appears; if empty, allow all
	AllowSubstrings []string
	// Max input length; longer input is truncated
	MaxInputChars int
}

func (g *SimpleGuardrails) CheckInput(ctx context.Context, input string) (string, error) {
	if g.MaxInputChars > 0 && len(input) > g.MaxInputChars {
		input = input[:g.MaxInputChars]
	}

	lower := strings.ToLower(input)
	for _, s := range g.DenySubstrings {
		if s == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(s)) {
			return "", errors.New("request blocked by guardrails")
		}
	}

	if len(g.AllowSubstrings) > 0 {
		allowed := false
		for _, s := range g.AllowSubstrings {
			if s == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(s)) {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", errors.New("request not permitted by guardrails")
		}
	}

	return input, nil
}

var _ Guardrails = (*SimpleGuardrails)(nil)
