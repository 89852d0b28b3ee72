package storage

import (
	"fmt"
	"slices"
	"time"

	"github.com/poiesic/hrchat/core"
)

// VectorIndex is an immutable, in-memory collection of embedded chunks
// searchable by cosine similarity. Vectors are stored unit-normalised so
// similarity reduces to a dot product.
//
// A built index is never modified, so any number of goroutines may query
// it concurrently without locking.
type VectorIndex struct {
	entries        []core.IndexEntry
	dimension      int
	embeddingModel string
	createdAt      time.Time
}

// BuildOption configures Build.
type BuildOption func(*VectorIndex)

// WithEmbeddingModel records the model that produced the vectors.
func WithEmbeddingModel(model string) BuildOption {
	return func(idx *VectorIndex) {
		idx.embeddingModel = model
	}
}

// WithCreatedAt overrides the build timestamp.
func WithCreatedAt(t time.Time) BuildOption {
	return func(idx *VectorIndex) {
		idx.createdAt = t
	}
}

// Build creates an index from entries, preserving their order.
//
// Every entry is validated and all vectors must share one dimension.
// The stored vectors are normalised copies; the caller's slices are not
// modified. Returns core.ErrEmptyIndex when entries is empty.
func Build(entries []core.IndexEntry, opts ...BuildOption) (*VectorIndex, error) {
	if len(entries) == 0 {
		return nil, core.ErrEmptyIndex
	}

	dimension := len(entries[0].Vector)
	stored := make([]core.IndexEntry, len(entries))
	for i := range entries {
		entry := entries[i]
		if err := core.ValidateIndexEntry(&entry); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		if len(entry.Vector) != dimension {
			return nil, fmt.Errorf("%w: entry %d has dimension %d, expected %d",
				core.ErrDimensionMismatch, i, len(entry.Vector), dimension)
		}
		entry.Vector = core.NormalizeVector(entry.Vector)
		stored[i] = entry
	}

	idx := &VectorIndex{
		entries:   stored,
		dimension: dimension,
		createdAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx, nil
}

// Len returns the number of entries.
func (idx *VectorIndex) Len() int {
	return len(idx.entries)
}

// Dimension returns the shared vector dimension.
func (idx *VectorIndex) Dimension() int {
	return idx.dimension
}

// EmbeddingModel returns the model recorded at build time, which may be empty.
func (idx *VectorIndex) EmbeddingModel() string {
	return idx.embeddingModel
}

// CreatedAt returns the build timestamp.
func (idx *VectorIndex) CreatedAt() time.Time {
	return idx.createdAt
}

// Entries returns the entries in insertion order.
// The returned slice must not be modified.
func (idx *VectorIndex) Entries() []core.IndexEntry {
	return idx.entries
}

// Query returns the min(k, Len()) entries most similar to vector, by
// descending cosine similarity. Equal scores keep insertion order.
func (idx *VectorIndex) Query(vector []float32, k int) ([]core.ScoredChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: got %d", core.ErrInvalidTopK, k)
	}
	if len(vector) != idx.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, index has %d",
			core.ErrDimensionMismatch, len(vector), idx.dimension)
	}
	if !core.IsFinite(vector) {
		return nil, core.ErrNonFiniteVector
	}

	query := core.NormalizeVector(vector)
	results := make([]core.ScoredChunk, len(idx.entries))
	for i := range idx.entries {
		results[i] = core.ScoredChunk{
			Chunk: idx.entries[i].Chunk,
			Score: core.DotProduct(query, idx.entries[i].Vector),
		}
	}

	slices.SortStableFunc(results, func(a, b core.ScoredChunk) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}
