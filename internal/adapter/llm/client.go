// Package llm implements the text-generation gateway over the Anthropic
// Messages API. Rate-limit failures are mapped to domain.ErrRateLimited so
// the transport can tell the user to come back tomorrow; everything else is
// a generic gateway failure. No retries, no streaming.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/soundous/haven-backend/internal/config"
	"github.com/soundous/haven-backend/internal/domain"
)

// systemPersona shapes every companion reply. The views never see it.
const systemPersona = `You are a warm, gentle wellness companion for Soundous. ` +
	`You speak informally, with short caring replies, and you never give medical advice. ` +
	`You remember you are talking to one person you know well.`

// Client is the Anthropic-backed text generation gateway.
type Client struct {
	api       anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// New creates a gateway client from LLMConfig.
func New(cfg config.LLMConfig) *Client {
	return &Client{
		api:       anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:     anthropic.Model(cfg.Model),
		maxTokens: cfg.MaxTokens,
	}
}

// Generate produces a single response for a standalone prompt (weekly
// summaries, capsule reflections, check-in replies).
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	return c.send(ctx, []anthropic.MessageParam{
		anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
	})
}

// Chat produces the next companion turn given the full prior conversation.
// History is replayed in order; the trailing message must come from the user.
func (c *Client) Chat(ctx context.Context, history []*domain.ChatMessage, message string) (string, error) {
	msgs := make([]anthropic.MessageParam, 0, len(history)+1)
	for _, m := range history {
		block := anthropic.NewTextBlock(m.Content)
		if m.Sender == domain.SenderAI {
			msgs = append(msgs, anthropic.NewAssistantMessage(block))
		} else {
			msgs = append(msgs, anthropic.NewUserMessage(block))
		}
	}
	msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(message)))

	return c.send(ctx, msgs)
}

func (c *Client) send(ctx context.Context, msgs []anthropic.MessageParam) (string, error) {
	resp, err := c.api.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: systemPersona},
		},
		Messages: msgs,
	})
	if err != nil {
		return "", mapError(err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("text generation: %w: empty response", domain.ErrUnavailable)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		sb.WriteString(block.Text)
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("text generation: %w: empty response", domain.ErrUnavailable)
	}

	return text, nil
}

// mapError classifies gateway failures. Quota exhaustion gets its own
// sentinel; context cancellation passes through untouched.
func mapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("text generation: %w", domain.ErrRateLimited)
		}
		return fmt.Errorf("text generation: %w: %v", domain.ErrUnavailable, err)
	}

	// Quota errors from intermediary proxies arrive as plain strings.
	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "429") || strings.Contains(lower, "quota") || strings.Contains(lower, "rate limit") {
		return fmt.Errorf("text generation: %w", domain.ErrRateLimited)
	}

	return fmt.Errorf("text generation: %w: %v", domain.ErrUnavailable, err)
}
