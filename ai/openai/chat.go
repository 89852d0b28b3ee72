package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/hrchat/ai"
	"github.com/poiesic/hrchat/core"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// ChatModel implements ai.ChatModel using OpenAI-compatible chat APIs.
type ChatModel struct {
	client llms.Model
	config *ai.Config
	logger *slog.Logger
}

// newChatModel is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newChatModel(config *ai.Config) (*ChatModel, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken(config.Token()),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return newChatModelWithClient(client, config), nil
}

// newChatModelWithClient wraps any langchaingo model.
func newChatModelWithClient(client llms.Model, config *ai.Config) *ChatModel {
	return &ChatModel{
		client: client,
		config: config,
		logger: slog.Default().With("component", "openai-chat"),
	}
}

// NewChatModel creates a new chat model using the provided configuration.
//
// Returns ai.ChatModel interface to enforce abstraction.
func NewChatModel(config *ai.Config) (ai.ChatModel, error) {
	return newChatModel(config)
}

// Complete sends the system prompt and messages to the model and returns its reply.
// Transient failures are retried according to the provider configuration.
func (m *ChatModel) Complete(ctx context.Context, system string, messages []core.Message) (string, error) {
	content := buildMessages(system, messages)

	var reply string
	err := ai.RetryIf(ctx, func() error {
		callCtx, cancel := withTimeout(ctx, m.config.RequestTimeout)
		defer cancel()

		response, err := m.client.GenerateContent(callCtx, content, llms.WithTemperature(m.config.Temperature))
		if err != nil {
			return ai.WrapProviderError(core.ErrLLMProvider, err)
		}
		if len(response.Choices) < 1 {
			return fmt.Errorf("%w: no choices returned from model", core.ErrLLMProvider)
		}
		reply = strings.TrimSpace(response.Choices[0].Content)
		return nil
	}, m.config.MaxRetries, m.config.RetryDelay, ai.IsRetryable)
	if err != nil {
		m.logger.Error("failed to generate content", "messages", len(content), "err", err)
		return "", err
	}

	m.logger.Debug("generated completion", "messages", len(content), "length", len(reply))
	return reply, nil
}

// buildMessages converts a system prompt and transcript into langchaingo messages.
func buildMessages(system string, messages []core.Message) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(messages)+1)
	if system != "" {
		content = append(content, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		})
	}
	for _, msg := range messages {
		role := llms.ChatMessageTypeHuman
		if msg.Role == core.RoleAI {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}
	return content
}
