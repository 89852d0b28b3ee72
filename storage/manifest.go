package storage

import (
	"bytes"
	"fmt"
	"hash"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// FormatVersion is the artifact layout written by this package.
const FormatVersion = 1

// Manifest describes a persisted index and lets a loader verify it.
type Manifest struct {
	Version        uint64
	Count          int
	Dimension      int
	EmbeddingModel string
	CreatedAt      time.Time
	Checksum       []byte // BLAKE2b-256 over the serialized entries in order
}

// Checksum accumulates the BLAKE2b-256 digest of serialized entries.
type Checksum struct {
	h hash.Hash
}

// NewChecksum creates an empty entry checksum.
func NewChecksum() *Checksum {
	h, _ := blake2b.New(32, nil) // 32 bytes = 256 bits
	return &Checksum{h: h}
}

// Add feeds one serialized entry into the digest. The length prefix keeps
// entry boundaries part of the digest.
func (c *Checksum) Add(entry []byte) {
	var prefix [8]byte
	n := len(entry)
	for i := range prefix {
		prefix[i] = byte(n >> (8 * i))
	}
	c.h.Write(prefix[:])
	c.h.Write(entry)
}

// Sum returns the digest of everything added so far.
func (c *Checksum) Sum() []byte {
	return c.h.Sum(nil)
}

// NewManifest describes idx with the given entry checksum.
func NewManifest(idx *VectorIndex, checksum []byte) *Manifest {
	return &Manifest{
		Version:        FormatVersion,
		Count:          idx.Len(),
		Dimension:      idx.Dimension(),
		EmbeddingModel: idx.EmbeddingModel(),
		CreatedAt:      idx.CreatedAt(),
		Checksum:       checksum,
	}
}

// Verify checks that the loaded entries match the manifest.
func (m *Manifest) Verify(count, dimension int, checksum []byte) error {
	if m.Version != FormatVersion {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, m.Version)
	}
	if count != m.Count {
		return fmt.Errorf("manifest lists %d entries, found %d", m.Count, count)
	}
	if dimension != m.Dimension {
		return fmt.Errorf("manifest dimension is %d, entries have %d", m.Dimension, dimension)
	}
	if !bytes.Equal(checksum, m.Checksum) {
		return ErrChecksumMismatch
	}
	return nil
}
