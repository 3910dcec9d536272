package refine

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Describer providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config selects and configures a Describer.
type Config struct {
	Provider     string // "openai", "anthropic", or "" to disable
	BaseURL      string
	APIKey       string
	Model        string
	MaxTokens    int64
	ExtraHeaders map[string]string
}

func (c Config) maxTokens() int64 {
	if c.MaxTokens <= 0 {
		return 256
	}
	return c.MaxTokens
}

// NewDescriber builds the describer named by cfg.Provider. An empty
// provider returns a nil Describer and no error.
func NewDescriber(cfg Config) (Describer, error) {
	switch cfg.Provider {
	case "":
		return nil, nil
	case ProviderOpenAI:
		if cfg.Model == "" {
			return nil, fmt.Errorf("refine: model is required for provider %q", cfg.Provider)
		}
		return NewOpenAIDescriber(cfg), nil
	case ProviderAnthropic:
		if cfg.Model == "" {
			return nil, fmt.Errorf("refine: model is required for provider %q", cfg.Provider)
		}
		return NewAnthropicDescriber(cfg), nil
	default:
		return nil, fmt.Errorf("refine: unknown provider %q (want %q or %q)", cfg.Provider, ProviderOpenAI, ProviderAnthropic)
	}
}

var describeTracer = otel.Tracer("stepcast/refine")

// startDescribeSpan opens a GenAI client span named "describe {model}".
func startDescribeSpan(ctx context.Context, provider, model string, maxTokens int64) (context.Context, trace.Span) {
	return describeTracer.Start(ctx, "describe "+model,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gen_ai.operation.name", "chat"),
			attribute.String("gen_ai.provider.name", provider),
			attribute.String("gen_ai.request.model", model),
			attribute.Int64("gen_ai.request.max_tokens", maxTokens),
		),
	)
}
