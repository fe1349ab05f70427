package classifier

import (
	"context"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// Completer sends one prompt to a text-completion provider and returns the
// raw answer.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// AzureClient talks to an Azure OpenAI chat-completions deployment. There is
// no timeout, retry or circuit breaker here; the request context bounds it.
type AzureClient struct {
	client     *openai.Client
	deployment string
}

func NewAzureClient(apiKey, endpoint, deployment, apiVersion string) *AzureClient {
	cfg := openai.DefaultAzureConfig(apiKey, strings.TrimRight(endpoint, "/"))
	if apiVersion != "" {
		cfg.APIVersion = apiVersion
	}
	cfg.AzureModelMapperFunc = func(string) string { return deployment }

	return &AzureClient{
		client:     openai.NewClientWithConfig(cfg),
		deployment: deployment,
	}
}

func (c *AzureClient) Deployment() string {
	return c.deployment
}

func (c *AzureClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	resp, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.deployment,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxTokens: maxTokens,
			// temperature is omitempty; 0 would be dropped and the API default (1) used.
			Temperature: math.SmallestNonzeroFloat32,
		},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return resp.Choices[0].Message.Content, nil
}
