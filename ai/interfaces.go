package ai

import (
	"context"

	"github.com/poiesic/hrchat/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Failures wrap core.ErrEmbeddingProvider.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatModel produces completions for a conversation.
// Implementations must be thread-safe for concurrent use.
type ChatModel interface {
	// Complete sends the system prompt followed by messages and returns the
	// model's reply. Failures wrap core.ErrLLMProvider.
	Complete(ctx context.Context, system string, messages []core.Message) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
type AIProvider interface {
	// Embedder returns the text embedding service.
	Embedder() Embedder

	// ChatModel returns the chat completion service.
	ChatModel() ChatModel

	// EmbeddingModel returns the identifier of the embedding model in use.
	// Indexes record it so queries are never embedded with a different model.
	EmbeddingModel() string

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
