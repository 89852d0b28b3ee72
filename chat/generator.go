package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/hrchat/ai"
	"github.com/poiesic/hrchat/core"
	"github.com/tmc/langchaingo/prompts"
)

// Generator answers questions grounded in retrieved chunks.
// It holds no per-conversation state and is safe for concurrent use.
type Generator struct {
	model    ai.ChatModel
	template prompts.PromptTemplate
	budget   int
	counter  TokenCounter
	logger   *slog.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator) error

// WithContextBudget limits the retrieved context to tokens as measured by
// counter. Lower-ranked chunks are dropped first; the top chunk is always kept.
func WithContextBudget(tokens int, counter TokenCounter) GeneratorOption {
	return func(g *Generator) error {
		if tokens <= 0 || counter == nil {
			return fmt.Errorf("%w: got %d", ErrInvalidBudget, tokens)
		}
		g.budget = tokens
		g.counter = counter
		return nil
	}
}

// WithSystemPrompt replaces the answer prompt template.
// The template receives the retrieved context as {{.context}}.
func WithSystemPrompt(template string) GeneratorOption {
	return func(g *Generator) error {
		if strings.TrimSpace(template) == "" {
			return errors.New("system prompt cannot be empty")
		}
		g.template = newAnswerTemplate(template)
		return nil
	}
}

// WithGeneratorLogger sets a custom logger.
func WithGeneratorLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) error {
		if logger == nil {
			logger = slog.Default()
		}
		g.logger = logger.With("component", "generator")
		return nil
	}
}

// NewGenerator creates a generator backed by model.
func NewGenerator(model ai.ChatModel, opts ...GeneratorOption) (*Generator, error) {
	if model == nil {
		return nil, ErrChatModelRequired
	}

	g := &Generator{
		model:    model,
		template: newAnswerTemplate(DefaultAnswerPrompt),
		logger:   slog.Default().With("component", "generator"),
	}
	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Generate answers question using the chunks in retrieval and the prior
// conversation in history. standalone is the condensed question used for
// retrieval and is recorded in the response.
func (g *Generator) Generate(ctx context.Context, question, standalone string, retrieval core.RetrievalResult, history core.ChatHistory) (core.QueryResponse, error) {
	retrieval.Chunks = g.fit(retrieval.Chunks)

	system, err := g.template.Format(map[string]any{
		"context": buildContext(retrieval.Texts()),
	})
	if err != nil {
		return core.QueryResponse{}, fmt.Errorf("failed to render system prompt: %w", err)
	}

	messages := historyMessages(history)
	messages = append(messages, core.Message{Role: core.RoleHuman, Content: question})
	answer, err := g.model.Complete(ctx, system, messages)
	if err != nil {
		return core.QueryResponse{}, ai.WrapProviderError(core.ErrLLMProvider, err)
	}

	return core.QueryResponse{
		Question:           question,
		StandaloneQuestion: standalone,
		Answer:             strings.TrimSpace(answer),
		Retrieval:          retrieval,
	}, nil
}

// fit drops chunks from the tail until the joined context fits the budget.
func (g *Generator) fit(chunks []core.ScoredChunk) []core.ScoredChunk {
	if g.counter == nil || len(chunks) <= 1 {
		return chunks
	}

	total := 0
	for i, c := range chunks {
		cost := g.counter.Count(c.Chunk.Text)
		if i > 0 {
			cost += g.counter.Count(contextSeparator)
		}
		if i > 0 && total+cost > g.budget {
			g.logger.Debug("context budget reached", "kept", i, "dropped", len(chunks)-i, "budget", g.budget)
			return chunks[:i:i]
		}
		total += cost
	}
	return chunks
}
