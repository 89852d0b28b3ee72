package storage

import "context"

// IndexStore persists and restores a VectorIndex as a single artifact.
// Implementations must be safe for concurrent use.
type IndexStore interface {
	// Save writes idx to path, replacing any existing artifact atomically.
	// A failed Save leaves the previous artifact untouched.
	Save(ctx context.Context, idx *VectorIndex, path string) error

	// Load restores the index stored at path.
	// Returns core.ErrIndexNotFound when nothing exists at path and
	// core.ErrIndexCorrupt when the artifact fails verification.
	Load(ctx context.Context, path string) (*VectorIndex, error)

	// Exists reports whether an artifact exists at path.
	Exists(path string) bool
}
