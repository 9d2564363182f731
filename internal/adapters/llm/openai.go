// Package llm provides the inference client against Azure OpenAI, plus a
// scripted mock for local development and tests.
package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"github.com/tvonment/tarot-backend/internal/domain"
)

// OpenAIClient implements domain.InferenceClient. Failures propagate to the
// caller wrapped as domain.ErrUpstream; no retry or backoff happens here.
type OpenAIClient struct {
	client openai.Client
	model  string
}

// NewAzureClient targets an Azure OpenAI deployment.
func NewAzureClient(endpoint, apiVersion, apiKey, deployment string) (*OpenAIClient, error) {
	if endpoint == "" || apiKey == "" {
		return nil, fmt.Errorf("azure openai endpoint and api key are required")
	}
	if deployment == "" {
		return nil, fmt.Errorf("azure openai deployment is required")
	}

	client := openai.NewClient(
		azure.WithEndpoint(endpoint, apiVersion),
		azure.WithAPIKey(apiKey),
	)
	return &OpenAIClient{client: client, model: deployment}, nil
}

// NewOpenAIClient targets the public OpenAI API instead of Azure.
func NewOpenAIClient(apiKey, model string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIClient{client: client, model: model}, nil
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []domain.ChatMessage) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: toParams(messages),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in completion", domain.ErrUpstream)
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) CompleteStructured(ctx context.Context, messages []domain.ChatMessage, schema domain.StructuredSchema) ([]byte, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: toParams(messages),
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
				JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   schema.Name,
					Strict: openai.Bool(true),
					Schema: schema.Schema,
				},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: no choices in completion", domain.ErrUpstream)
	}
	return []byte(resp.Choices[0].Message.Content), nil
}

func toParams(messages []domain.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case domain.RoleSystem:
			out = append(out, openai.SystemMessage(m.Text))
		case domain.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Text))
		default:
			if len(m.ImageURLs) == 0 {
				out = append(out, openai.UserMessage(m.Text))
				continue
			}
			parts := []openai.ChatCompletionContentPartUnionParam{
				openai.TextContentPart(m.Text),
			}
			for _, url := range m.ImageURLs {
				parts = append(parts, openai.ImageContentPart(
					openai.ChatCompletionContentPartImageImageURLParam{URL: url},
				))
			}
			out = append(out, openai.UserMessage(parts))
		}
	}
	return out
}
