package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicClient generates text through the Anthropic Messages API.
type anthropicClient struct {
	*generator
	api anthropic.Client
}

// NewAnthropicClient creates an LLMClient backed by the Anthropic SDK.
// Retries are owned by the shared generator, so the SDK's own are disabled.
func NewAnthropicClient(cfg LLMConfig, observer Observer) LLMClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" && cfg.BaseURL != DefaultBaseURL {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	c := &anthropicClient{api: anthropic.NewClient(opts...)}
	c.generator = newGenerator(cfg, ProviderAnthropic, observer, c.send)
	return c
}

func (c *anthropicClient) send(ctx context.Context, in call) (string, string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(in.model),
		MaxTokens:   int64(in.maxTokens),
		Temperature: anthropic.Float(in.temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(in.user)),
		},
	}
	if in.system != "" {
		params.System = []anthropic.TextBlockParam{{Text: in.system}}
	}

	msg, err := c.api.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", "", &StatusError{Code: apiErr.StatusCode, Body: apiErr.Error()}
		}
		return "", "", fmt.Errorf("anthropic messages: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		b.WriteString(block.Text)
	}
	return b.String(), string(msg.Model), nil
}

func (c *anthropicClient) Available(ctx context.Context) bool {
	_, err := c.api.Models.List(ctx, anthropic.ModelListParams{})
	return err == nil
}
