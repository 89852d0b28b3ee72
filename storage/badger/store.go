package badger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/poiesic/hrchat/core"
	"github.com/poiesic/hrchat/storage"
)

// Store implements storage.IndexStore with one BadgerDB directory per artifact.
type Store struct {
	logger *slog.Logger
}

var _ storage.IndexStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
	}
}

// NewStore creates a badger-backed index store.
func NewStore(opts ...Option) storage.IndexStore {
	s := &Store{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "index-store")
	return s
}

// Exists reports whether an artifact exists at path.
func (s *Store) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Save writes idx into a fresh database next to path and swaps it into
// place. An existing artifact is moved aside first and removed only once
// the new one is in position, so a failure at any step leaves the
// previous artifact readable.
func (s *Store) Save(ctx context.Context, idx *storage.VectorIndex, path string) (err error) {
	if idx == nil || idx.Len() == 0 {
		return core.ErrEmptyIndex
	}

	path = filepath.Clean(path)
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating index parent directory: %w", err)
	}

	tmp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%s", name, uuid.NewString()))
	defer func() {
		if err != nil {
			if rmErr := os.RemoveAll(tmp); rmErr != nil {
				s.logger.Warn("failed to remove temporary index", "path", tmp, "err", rmErr)
			}
		}
	}()

	if err := s.write(ctx, idx, tmp); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	var aside string
	if s.Exists(path) {
		aside = filepath.Join(dir, fmt.Sprintf(".%s.old-%s", name, uuid.NewString()))
		if err := os.Rename(path, aside); err != nil {
			return fmt.Errorf("moving previous index aside: %w", err)
		}
	}

	if err := os.Rename(tmp, path); err != nil {
		if aside != "" {
			if restoreErr := os.Rename(aside, path); restoreErr != nil {
				return errors.Join(fmt.Errorf("installing index: %w", err),
					fmt.Errorf("restoring previous index: %w", restoreErr))
			}
		}
		return fmt.Errorf("installing index: %w", err)
	}

	if aside != "" {
		if rmErr := os.RemoveAll(aside); rmErr != nil {
			s.logger.Warn("failed to remove previous index", "path", aside, "err", rmErr)
		}
	}

	s.logger.Info("saved index", "path", path, "entries", idx.Len(), "dimension", idx.Dimension())
	return nil
}

// write stores every entry and the manifest in a new database at dir.
func (s *Store) write(ctx context.Context, idx *storage.VectorIndex, dir string) error {
	backend, err := OpenBackend(dir, ModeReadWrite, s.logger)
	if err != nil {
		return fmt.Errorf("opening index database: %w", err)
	}

	checksum := storage.NewChecksum()
	err = backend.WithBatch(func(wb *badger.WriteBatch) error {
		for i, entry := range idx.Entries() {
			if err := ctx.Err(); err != nil {
				return err
			}
			data := storage.MarshalIndexEntry(&entry)
			checksum.Add(data)
			if err := wb.Set(makeEntryKey(uint64(i)), data); err != nil {
				return err
			}
		}
		manifest := storage.NewManifest(idx, checksum.Sum())
		return wb.Set([]byte(manifestKey), storage.MarshalManifest(manifest))
	})
	if err != nil {
		backend.Close()
		return fmt.Errorf("writing index: %w", err)
	}

	if err := backend.Close(); err != nil {
		return fmt.Errorf("closing index database: %w", err)
	}
	return nil
}

// Load opens the artifact at path read-only and verifies it against its
// manifest before building the in-memory index.
func (s *Store) Load(ctx context.Context, path string) (*storage.VectorIndex, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrIndexNotFound, path)
		}
		return nil, fmt.Errorf("%w: %w", core.ErrIndexCorrupt, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not an index directory", core.ErrIndexCorrupt, path)
	}

	backend, err := OpenBackend(path, ModeReadOnly, s.logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrIndexCorrupt, err)
	}
	defer backend.Close()

	manifest, entries, err := s.read(ctx, backend)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", core.ErrIndexCorrupt, err)
	}

	idx, err := storage.Build(entries,
		storage.WithEmbeddingModel(manifest.EmbeddingModel),
		storage.WithCreatedAt(manifest.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrIndexCorrupt, err)
	}

	s.logger.Info("loaded index", "path", path, "entries", idx.Len(),
		"dimension", idx.Dimension(), "model", idx.EmbeddingModel())
	return idx, nil
}

// read decodes the manifest and all entries, checking them against each other.
func (s *Store) read(ctx context.Context, backend *Backend) (*storage.Manifest, []core.IndexEntry, error) {
	var (
		manifest *storage.Manifest
		entries  []core.IndexEntry
	)
	checksum := storage.NewChecksum()
	dimension := -1

	err := backend.View(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(manifestKey))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return errors.New("manifest missing")
			}
			return err
		}
		if err := item.Value(func(val []byte) error {
			var err error
			manifest, err = storage.UnmarshalManifest(val)
			return err
		}); err != nil {
			return fmt.Errorf("reading manifest: %w", err)
		}
		entries = make([]core.IndexEntry, 0, min(manifest.Count, 1<<16))

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(entryPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		var expected uint64
		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			item := iter.Item()
			seq, err := parseEntryKey(item.Key())
			if err != nil {
				return err
			}
			if seq != expected {
				return fmt.Errorf("entry %d missing", expected)
			}
			expected++

			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			checksum.Add(val)
			entry, err := storage.UnmarshalIndexEntry(val)
			if err != nil {
				return fmt.Errorf("entry %d: %w", seq, err)
			}
			if dimension < 0 {
				dimension = len(entry.Vector)
			}
			entries = append(entries, *entry)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if dimension < 0 {
		dimension = 0
	}
	if err := manifest.Verify(len(entries), dimension, checksum.Sum()); err != nil {
		return nil, nil, err
	}
	return manifest, entries, nil
}
