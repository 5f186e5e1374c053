// Package summary produces one-sentence email summaries via an
// OpenAI-compatible chat completion API. Every failure mode collapses into
// a fixed fallback string; callers never see an error from this package.
package summary

import (
	"context"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"mailgram/internal/metrics"
)

const (
	// MinInputChars is the threshold below which the collaborator is not
	// invoked at all. Tunable policy, not a contract value.
	MinInputChars = 20

	// MaxInputChars caps the text sent to the model. The cut is a plain
	// character slice, not a sentence boundary.
	MaxInputChars = 2000

	// FallbackTooShort is returned without invoking the collaborator.
	FallbackTooShort = "No content available to summarize."

	// FallbackEmpty is returned when the collaborator succeeds but yields
	// no usable text.
	FallbackEmpty = "Summary generation yielded no result."

	// FallbackUnavailable is returned on any collaborator fault.
	FallbackUnavailable = "Automated summary temporarily unavailable."
)

const instruction = "You summarize emails. Reply with exactly one concise sentence capturing the point of the message. No preamble, no quotes."

// Client calls the completion API with bounded input.
type Client struct {
	api      *openai.Client
	model    string
	minInput int
	maxInput int
	logger   *slog.Logger
}

type Config struct {
	APIKey        string
	APIBase       string // override for OpenAI-compatible endpoints
	Model         string
	MinInputChars int
	MaxInputChars int
	Logger        *slog.Logger
}

func New(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4oMini
	}
	if cfg.MinInputChars <= 0 {
		cfg.MinInputChars = MinInputChars
	}
	if cfg.MaxInputChars <= 0 {
		cfg.MaxInputChars = MaxInputChars
	}
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.APIBase != "" {
		apiCfg.BaseURL = cfg.APIBase
	}
	return &Client{
		api:      openai.NewClientWithConfig(apiCfg),
		model:    cfg.Model,
		minInput: cfg.MinInputChars,
		maxInput: cfg.MaxInputChars,
		logger:   cfg.Logger,
	}
}

// Summarize returns a one-sentence summary of text, or one of the fixed
// fallback strings. It never returns an error: the pipeline must proceed
// to dispatch regardless of what happens here.
func (c *Client) Summarize(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) < c.minInput {
		metrics.SummaryFallbacks.Inc()
		return FallbackTooShort
	}
	if len(runes) > c.maxInput {
		text = string(runes[:c.maxInput])
	}

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instruction},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   80,
		Temperature: 0.2,
	})
	if err != nil {
		c.logger.Warn("summary generation failed", "err", err)
		metrics.SummaryFallbacks.Inc()
		return FallbackUnavailable
	}
	if len(resp.Choices) == 0 {
		metrics.SummaryFallbacks.Inc()
		return FallbackEmpty
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		metrics.SummaryFallbacks.Inc()
		return FallbackEmpty
	}
	return out
}
