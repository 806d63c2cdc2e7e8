package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type AnthropicClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	modelName string
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{
		client:    &client,
		// anthropic.ModelClaudeSonnet4_5 is not defined in SDK v1.5.0
		// (pinned; newer SDK releases require Go >= 1.23); same value inlined.
		model:     anthropic.Model("claude-sonnet-4-5"),
		modelName: "claude-4.5-sonnet",
	}
}

func (c *AnthropicClient) WriteDebrief(orgName, industry string, items []DebriefItem) (*DebriefResult, error) {
	resp, err := c.client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 4000,
		System: []anthropic.TextBlockParam{
			{Text: buildDebriefPrompt(orgName, industry)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildDebriefRequest(items))),
		},
	})

	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("no response from anthropic")
	}

	return &DebriefResult{
		Content:   resp.Content[0].Text,
		ModelUsed: c.modelName,
	}, nil
}
