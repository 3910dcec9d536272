package refine

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
)

// OpenAIDescriber describes images through an OpenAI-compatible Chat
// Completions API. Works with OpenAI, Ollama and llama.cpp server.
type OpenAIDescriber struct {
	client    openai.Client
	model     string
	maxTokens int64
}

// NewOpenAIDescriber creates a new OpenAI-compatible describer.
func NewOpenAIDescriber(cfg Config) *OpenAIDescriber {
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

	return &OpenAIDescriber{
		client:    openai.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.maxTokens(),
	}
}

// Provider returns "openai".
func (d *OpenAIDescriber) Provider() string { return ProviderOpenAI }

// Model returns the model name.
func (d *OpenAIDescriber) Model() string { return d.model }

// Describe sends the image and prompt as one user message.
func (d *OpenAIDescriber) Describe(ctx context.Context, img []byte, mediaType, prompt string) (string, error) {
	ctx, span := startDescribeSpan(ctx, ProviderOpenAI, d.model, d.maxTokens)
	defer span.End()

	dataURL := "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(img)
	resp, err := d.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: d.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: dataURL}),
				openai.TextContentPart(prompt),
			}),
		},
		MaxCompletionTokens: openai.Int(d.maxTokens),
	})
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "api_error"))
		return "", fmt.Errorf("openai API call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		span.SetAttributes(attribute.String("error.type", "empty_response"))
		return "", fmt.Errorf("openai API returned empty response")
	}

	span.SetAttributes(
		attribute.String("gen_ai.response.model", resp.Model),
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.PromptTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.CompletionTokens),
	)
	if resp.Choices[0].FinishReason != "" {
		span.SetAttributes(attribute.StringSlice("gen_ai.response.finish_reasons", []string{string(resp.Choices[0].FinishReason)}))
	}
	return resp.Choices[0].Message.Content, nil
}
