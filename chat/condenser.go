package chat

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/hrchat/ai"
	"github.com/poiesic/hrchat/core"
)

// Condenser rewrites follow-up questions into standalone questions.
type Condenser struct {
	model  ai.ChatModel
	logger *slog.Logger
}

// NewCondenser creates a condenser backed by model.
func NewCondenser(model ai.ChatModel) *Condenser {
	return &Condenser{
		model:  model,
		logger: slog.Default().With("component", "condenser"),
	}
}

// Condense returns a question that can be understood without history.
// With an empty history the question is returned unchanged without a
// model call. An empty model reply also falls back to the question.
func (c *Condenser) Condense(ctx context.Context, question string, history core.ChatHistory) (string, error) {
	if len(history) == 0 {
		return question, nil
	}

	messages := historyMessages(history)
	messages = append(messages, core.Message{Role: core.RoleHuman, Content: question})

	reply, err := c.model.Complete(ctx, CondenseSystemPrompt, messages)
	if err != nil {
		return "", ai.WrapProviderError(core.ErrLLMProvider, err)
	}

	standalone := strings.TrimSpace(reply)
	if standalone == "" {
		c.logger.Warn("model returned an empty standalone question, using the original")
		return question, nil
	}
	c.logger.Debug("condensed question", "question", question, "standalone", standalone)
	return standalone, nil
}
