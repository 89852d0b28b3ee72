package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poiesic/hrchat/ai"
	"github.com/poiesic/hrchat/core"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 4

// Index is the read side of a vector index.
type Index interface {
	Query(vector []float32, k int) ([]core.ScoredChunk, error)
	Len() int
}

// Retriever ranks indexed chunks against a question.
// It holds no mutable state and is safe for concurrent use.
type Retriever struct {
	index    Index
	embedder ai.Embedder
	topK     int
	monitor  RetrievalMonitor
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever) error

// WithTopK sets the number of chunks returned per question.
// Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(r *Retriever) error {
		if k <= 0 {
			return fmt.Errorf("%w: got %d", core.ErrInvalidTopK, k)
		}
		r.topK = k
		return nil
	}
}

// WithMonitor sets the monitor used when Retrieve is called.
func WithMonitor(monitor RetrievalMonitor) Option {
	return func(r *Retriever) error {
		if monitor == nil {
			monitor = &noopMonitor{}
		}
		r.monitor = monitor
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewRetriever creates a new retriever over index.
func NewRetriever(index Index, embedder ai.Embedder, opts ...Option) (*Retriever, error) {
	if index == nil {
		return nil, ErrIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	r := &Retriever{
		index:    index,
		embedder: embedder,
		topK:     DefaultTopK,
		monitor:  &noopMonitor{},
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// TopK returns the configured number of chunks per question.
func (r *Retriever) TopK() int {
	return r.topK
}

// Retrieve returns the chunks most similar to question.
func (r *Retriever) Retrieve(ctx context.Context, question string) (core.RetrievalResult, error) {
	return r.RetrieveWithMonitor(ctx, question, r.monitor)
}

// RetrieveWithMonitor retrieves chunks for question, reporting each stage
// to monitor instead of the configured one.
// Returns up to TopK chunks ordered by descending similarity.
func (r *Retriever) RetrieveWithMonitor(ctx context.Context, question string, monitor RetrievalMonitor) (core.RetrievalResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if strings.TrimSpace(question) == "" {
		return core.RetrievalResult{}, core.ErrEmptyQuestion
	}

	monitor.Start(question)

	// 1. Embed the question
	vector, err := r.embedder.EmbedText(ctx, question)
	if err != nil {
		r.logger.Error("error generating embedding for question", "err", err)
		return core.RetrievalResult{}, err
	}
	monitor.AfterEmbedding(vector)

	// 2. Rank indexed chunks
	chunks, err := r.index.Query(vector, r.topK)
	if err != nil {
		r.logger.Error("error querying index", "err", err)
		return core.RetrievalResult{}, err
	}
	monitor.AfterQuery(chunks)

	result := core.RetrievalResult{
		Question: question,
		Chunks:   chunks,
	}
	r.logger.Debug("retrieved chunks", "requested", r.topK, "returned", len(chunks), "indexed", r.index.Len())
	monitor.Finish(result)

	return result, nil
}
