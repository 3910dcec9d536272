package refine

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel/attribute"
)

// AnthropicDescriber describes images through the Anthropic Messages API.
type AnthropicDescriber struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnthropicDescriber creates a new Anthropic describer.
func NewAnthropicDescriber(cfg Config) *AnthropicDescriber {
	var opts []option.RequestOption

	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	for k, v := range cfg.ExtraHeaders {
		opts = append(opts, option.WithHeader(k, v))
	}

	return &AnthropicDescriber{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.maxTokens(),
	}
}

// Provider returns "anthropic".
func (d *AnthropicDescriber) Provider() string { return ProviderAnthropic }

// Model returns the model name.
func (d *AnthropicDescriber) Model() string { return d.model }

// Describe sends the image followed by the prompt.
func (d *AnthropicDescriber) Describe(ctx context.Context, img []byte, mediaType, prompt string) (string, error) {
	ctx, span := startDescribeSpan(ctx, ProviderAnthropic, d.model, d.maxTokens)
	defer span.End()

	resp, err := d.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(d.model),
		MaxTokens: d.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewImageBlockBase64(mediaType, base64.StdEncoding.EncodeToString(img)),
				anthropic.NewTextBlock(prompt),
			),
		},
	})
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "api_error"))
		return "", fmt.Errorf("anthropic API call failed: %w", err)
	}
	if len(resp.Content) == 0 {
		span.SetAttributes(attribute.String("error.type", "empty_response"))
		return "", fmt.Errorf("anthropic API returned empty response")
	}

	span.SetAttributes(
		attribute.String("gen_ai.response.model", d.model),
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.InputTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.OutputTokens),
	)
	if string(resp.StopReason) != "" {
		span.SetAttributes(attribute.StringSlice("gen_ai.response.finish_reasons", []string{string(resp.StopReason)}))
	}
	return resp.Content[0].Text, nil
}
