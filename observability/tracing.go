package observability

import "context"

// Tracer defines the interface for distributed tracing
type Tracer interface {
	// StartSpan creates a new span with the given name
	StartSpan(ctx context.Context, name string) (Span, context.Context)
}

// Span represents a tracing span
type Span interface {
	// SetAttribute sets an attribute on the span
	SetAttribute(key string, value interface{})

	// SetStatus sets the span status
	SetStatus(code StatusCode, message string)

	// AddEvent adds an event to the span
	AddEvent(name string, attributes map[string]interface{})

	// End finishes the span
	End()
}

// StatusCode represents span status codes
type StatusCode int

const (
	StatusCodeUnset StatusCode = iota
	StatusCodeOk
	StatusCodeError
)

// Common attribute keys (align loosely with OTel GenAI conventions)
const (
	AttrProvider     = "genai.provider"
	AttrModel        = "genai.model"
	AttrFinishReason = "genai.finish_reason"
	AttrToolName     = "genai.tool.name"
	AttrTokensInput  = "genai.tokens.input"
	AttrTokensOutput = "genai.tokens.output"
	AttrSessionID    = "session.id"
)

// Global, swappable implementations (no-ops by default)
var (
	TracerImpl  Tracer  = &NoOpTracer{}
	MetricsImpl Metrics = &NoOpMetrics{}
)

// SetTracer swaps the global tracer implementation
func SetTracer(t Tracer) { TracerImpl = t }

// SetMetrics swaps the global metrics implementation
func SetMetrics(m Metrics) { MetricsImpl = m }

// NoOpTracer is a no-operation implementation of Tracer
type NoOpTracer struct{}

// StartSpan implements Tracer interface
func (t *NoOpTracer) StartSpan(ctx context.Context, name string) (Span, context.Context) {
	return &NoOpSpan{}, ctx
}

// NoOpSpan is a no-operation implementation of Span
type NoOpSpan struct{}

// SetAttribute implements Span interface
func (s *NoOpSpan) SetAttribute(key string, value interface{}) {}

// SetStatus implements Span interface
func (s *NoOpSpan) SetStatus(code StatusCode, message string) {}

// AddEvent implements Span interface
func (s *NoOpSpan) AddEvent(name string, attributes map[string]interface{}) {}

// End implements Span interface
func (s *NoOpSpan) End() {}
