// Package claude implements ticket.Provider on top of the Anthropic SDK.
package claude

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/linnemanlabs/helpdesk/internal/ticket"
)

// Config carries the provider selection injected at construction: model
// identifier, sampling temperature, and credential.
type Config struct {
	APIKey      string
	Model       string
	Temperature float64
}

// Client is a Claude-backed text completion provider.
type Client struct {
	client      anthropic.Client
	model       string
	temperature float64
}

// New creates a new Claude client from the given config.
func New(cfg Config) *Client {
	return &Client{
		client:      anthropic.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}
}

// Complete sends the conversation to the Claude API and returns the text
// completion.
func (c *Client) Complete(ctx context.Context, req *ticket.CompletionRequest) (*ticket.Completion, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(c.temperature),
		Messages:    toSDKMessages(req.Turns),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("claude: %w", err)
	}
	return fromSDKResponse(msg), nil
}

// toSDKMessages converts conversation turns to SDK message params.
func toSDKMessages(turns []ticket.Turn) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		block := anthropic.NewTextBlock(t.Text)
		if t.Role == ticket.RoleAssistant {
			out = append(out, anthropic.NewAssistantMessage(block))
		} else {
			out = append(out, anthropic.NewUserMessage(block))
		}
	}
	return out
}

// fromSDKResponse flattens the response content blocks into a single text
// completion with usage attached.
func fromSDKResponse(msg *anthropic.Message) *ticket.Completion {
	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return &ticket.Completion{
		Text:  text.String(),
		Model: string(msg.Model),
		Usage: ticket.Usage{
			InputTokens:  int(msg.Usage.InputTokens),
			OutputTokens: int(msg.Usage.OutputTokens),
		},
	}
}
