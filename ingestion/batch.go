package ingestion

import (
	"context"
	"fmt"

	"github.com/poiesic/hrchat/ai"
	"github.com/poiesic/hrchat/core"
)

// batch is a contiguous run of chunks embedded with one provider call.
type batch struct {
	offset int
	chunks []core.Chunk
}

// makeBatches splits chunks into runs of at most size, keeping their order.
func makeBatches(chunks []core.Chunk, size int) []batch {
	batches := make([]batch, 0, (len(chunks)+size-1)/size)
	for offset := 0; offset < len(chunks); offset += size {
		end := min(offset+size, len(chunks))
		batches = append(batches, batch{offset: offset, chunks: chunks[offset:end]})
	}
	return batches
}

// embedBatch embeds every chunk of b and pairs each vector with its chunk.
func embedBatch(ctx context.Context, embedder ai.Embedder, b batch) ([]core.IndexEntry, error) {
	texts := make([]string, len(b.chunks))
	for i, chunk := range b.chunks {
		texts[i] = chunk.Text
	}

	vectors, err := embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embedding chunks %d-%d: %w", b.offset, b.offset+len(b.chunks)-1, err)
	}

	if len(vectors) != len(b.chunks) {
		return nil, fmt.Errorf("%w: embedding count mismatch: expected %d, got %d",
			core.ErrEmbeddingProvider, len(b.chunks), len(vectors))
	}

	entries := make([]core.IndexEntry, len(b.chunks))
	for i, chunk := range b.chunks {
		entries[i] = core.NewIndexEntry(chunk, vectors[i])
	}
	return entries, nil
}
