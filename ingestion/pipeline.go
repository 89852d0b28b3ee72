package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/hrchat/ai"
	"github.com/poiesic/hrchat/core"
	"github.com/poiesic/hrchat/storage"
)

// DefaultBatchSize is the number of chunks sent in one embedding request.
const DefaultBatchSize = 32

// Loader produces the documents of a corpus.
type Loader interface {
	Load(ctx context.Context) ([]core.Document, error)
}

// Chunker splits a document into chunks.
type Chunker interface {
	Split(doc core.Document) iter.Seq[core.Chunk]
}

// Report summarizes a completed ingestion run.
type Report struct {
	Documents int
	Chunks    int
	Dimension int
	IndexPath string
	Elapsed   time.Duration
}

// Pipeline orchestrates loading, chunking, embedding and indexing of the corpus.
type Pipeline struct {
	loader         Loader
	chunker        Chunker
	embedder       ai.Embedder
	store          storage.IndexStore
	pool           *ants.Pool
	batchSize      int
	embeddingModel string
	progress       io.Writer
	reportInterval int
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent embedding.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithBatchSize sets how many chunks are embedded per request.
// Default is DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			return fmt.Errorf("%w: got %d", ErrInvalidBatchSize, size)
		}
		p.batchSize = size
		return nil
	}
}

// WithEmbeddingModel records the embedding model name in the saved index.
func WithEmbeddingModel(model string) Option {
	return func(p *Pipeline) error {
		p.embeddingModel = model
		return nil
	}
}

// WithProgress reports embedding progress to w every interval chunks.
func WithProgress(w io.Writer, interval int) Option {
	return func(p *Pipeline) error {
		p.progress = w
		p.reportInterval = interval
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	loader Loader,
	chunker Chunker,
	embedder ai.Embedder,
	store storage.IndexStore,
	opts ...Option,
) (*Pipeline, error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	if chunker == nil {
		return nil, ErrChunkerRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	// Create pipeline with defaults
	p := &Pipeline{
		loader:    loader,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		pool:      pool,
		batchSize: DefaultBatchSize,
		logger:    slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	p.logger = p.logger.With("component", "ingestion")

	return p, nil
}

// Run rebuilds the index at indexPath from the corpus.
// Returns core.ErrEmptyIndex when the corpus produces no chunks. On any
// error nothing is saved.
func (p *Pipeline) Run(ctx context.Context, indexPath string) (*Report, error) {
	start := time.Now()

	docs, err := p.loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	var chunks []core.Chunk
	for _, doc := range docs {
		for chunk := range p.chunker.Split(doc) {
			chunks = append(chunks, chunk)
		}
	}
	p.logger.Info("chunked corpus", "documents", len(docs), "chunks", len(chunks))

	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: corpus produced no chunks", core.ErrEmptyIndex)
	}

	entries, err := p.embed(ctx, chunks)
	if err != nil {
		return nil, err
	}

	idx, err := storage.Build(entries, storage.WithEmbeddingModel(p.embeddingModel))
	if err != nil {
		return nil, err
	}

	if err := p.store.Save(ctx, idx, indexPath); err != nil {
		return nil, err
	}

	report := &Report{
		Documents: len(docs),
		Chunks:    len(chunks),
		Dimension: idx.Dimension(),
		IndexPath: indexPath,
		Elapsed:   time.Since(start),
	}
	p.logger.Info("ingestion complete", "documents", report.Documents, "chunks", report.Chunks,
		"dimension", report.Dimension, "elapsed", report.Elapsed)
	return report, nil
}

// embed embeds all chunks in batches on the worker pool. Each batch writes
// its entries at its own offset, so the result keeps reading order no
// matter which batch finishes first. The first failure cancels the rest.
func (p *Pipeline) embed(ctx context.Context, chunks []core.Chunk) ([]core.IndexEntry, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var tracker *ProgressTracker
	if p.progress != nil {
		tracker = NewProgressTracker(p.progress, len(chunks), p.reportInterval)
		tracker.Start()
		defer tracker.Finish()
	}

	entries := make([]core.IndexEntry, len(chunks))
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
		cancel()
	}

	batches := makeBatches(chunks, p.batchSize)
	p.logger.Debug("embedding chunks", "chunks", len(chunks), "batches", len(batches))

	for _, b := range batches {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			batchEntries, err := embedBatch(ctx, p.embedder, b)
			if err != nil {
				// Batches interrupted by another batch's failure add nothing.
				if ctx.Err() == nil || !errors.Is(err, context.Canceled) {
					fail(err)
				}
				return
			}
			copy(entries[b.offset:], batchEntries)
			if tracker != nil {
				tracker.Increment(len(batchEntries))
			}
		})
		if submitErr != nil {
			wg.Done()
			fail(submitErr)
			break
		}
	}
	wg.Wait()

	if len(errs) > 0 {
		p.logger.Error("embedding failed", "errors", len(errs))
		return nil, errors.Join(errs...)
	}
	// Only the caller can have cancelled ctx when no batch failed.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Release releases resources including the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
