package genai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const systemPrompt = "你是一名敏捷项目管理助手。"

// OpenAIClient talks to an OpenAI-compatible chat-completion endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIClient builds a client for the given credential. An empty
// API key yields an unconfigured client; Generate refuses to run until
// a key is supplied, so no network call can ever be attempted without
// one.
func NewOpenAIClient(apiKey, model string, logger *zap.Logger) *OpenAIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	if model == "" {
		model = openai.GPT4oMini
	}

	c := &OpenAIClient{
		model:  model,
		logger: logger,
	}
	if apiKey != "" {
		c.client = openai.NewClient(apiKey)
	}
	return c
}

func (c *OpenAIClient) Configured() bool {
	return c != nil && c.client != nil
}

func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("generator has no API key configured")
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	c.logger.Debug("generation finished",
		zap.String("model", c.model),
		zap.String("finish_reason", string(resp.Choices[0].FinishReason)))
	return resp.Choices[0].Message.Content, nil
}

var _ Generator = (*OpenAIClient)(nil)
