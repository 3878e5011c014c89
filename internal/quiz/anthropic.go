package quiz

import (
	"context"
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// AnthropicProvider drafts items through the Anthropic Messages API.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

func (p *AnthropicProvider) Draft(ctx context.Context, req Request) ([]Draft, error) {
	userPrompt := buildDraftPrompt(req)
	log.Printf("quiz draft provider=anthropic model=%s items=%d", p.model, len(req.Items))

	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: draftSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return nil, providerErr(p.Name(), err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			drafts, perr := parseDrafts(block.Text)
			if perr != nil {
				return nil, providerErr(p.Name(), perr)
			}
			return drafts, nil
		}
	}
	return nil, providerErr(p.Name(), fmt.Errorf("no text content in response"))
}
