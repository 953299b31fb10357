// Package llm adapts the OpenAI chat completion API to ports.LanguageModel.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = openai.GPT4oMini

// ErrEmptyAnswer is returned when the model produced no content.
var ErrEmptyAnswer = errors.New("language model returned an empty answer")

const systemPrompt = "You recommend dishes of a food delivery service. " +
	"Answer only with comma separated dish ids taken from the orders you are given."

// Config selects the model and endpoint.
type Config struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint, for proxies and tests.
	BaseURL string
}

// OpenAIModel asks a chat model a single question per call.
type OpenAIModel struct {
	client *openai.Client
	model  string
}

func NewOpenAIModel(cfg Config) *OpenAIModel {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	return &OpenAIModel{client: openai.NewClientWithConfig(clientCfg), model: model}
}

func (m *OpenAIModel) Ask(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: m.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyAnswer
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", ErrEmptyAnswer
	}
	return answer, nil
}
