package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIClient struct {
	client    *openai.Client
	model     openai.ChatModel
	modelName string
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{
		client:    &client,
		model:     openai.ChatModelGPT4o,
		modelName: "gpt-4o",
	}
}

func (c *OpenAIClient) WriteDebrief(orgName, industry string, items []DebriefItem) (*DebriefResult, error) {
	resp, err := c.client.Chat.Completions.New(context.Background(), openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(buildDebriefPrompt(orgName, industry)),
			openai.UserMessage(buildDebriefRequest(items)),
		},
	})

	if err != nil {
		return nil, fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	return &DebriefResult{
		Content:   resp.Choices[0].Message.Content,
		ModelUsed: c.modelName,
	}, nil
}
