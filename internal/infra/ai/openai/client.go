package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/civicworks/udcpr-compliance/internal/infra/ai/prompt"
)

const maxTokens = 2048

// Client adalah rules.LogicParser berbasis OpenAI chat completion
type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

// ParseClause kirim klausa ke model dan validasi hasilnya sebagai JSON
func (c *Client) ParseClause(ctx context.Context, clauseNumber, clauseText string) (json.RawMessage, error) {
	model := c.Model
	if model == "" {
		model = "o3-2025-04-16"
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(clauseNumber, clauseText)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}

	content := resp.Choices[0].Message.Content
	var check map[string]any
	if err := json.Unmarshal([]byte(content), &check); err != nil {
		return nil, fmt.Errorf("model returned non-JSON logic: %w", err)
	}
	return json.RawMessage(content), nil
}
