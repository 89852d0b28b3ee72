package loader

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/hrchat/core"
)

// DefaultExtensions are the file extensions loaded when none are configured.
var DefaultExtensions = []string{".html", ".htm"}

// DirectoryLoader loads every HTML page below a root directory.
type DirectoryLoader struct {
	root        string
	extensions  []string
	concurrency int
	logger      *slog.Logger
}

// Option configures a DirectoryLoader.
type Option func(*DirectoryLoader)

// WithExtensions sets the file extensions to load. Matching is case-insensitive.
func WithExtensions(exts ...string) Option {
	return func(l *DirectoryLoader) {
		l.extensions = l.extensions[:0]
		for _, ext := range exts {
			ext = strings.ToLower(ext)
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			l.extensions = append(l.extensions, ext)
		}
	}
}

// WithConcurrency sets how many files are parsed in parallel.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithConcurrency(n int) Option {
	return func(l *DirectoryLoader) {
		if n < 1 {
			n = 1
		}
		l.concurrency = n
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *DirectoryLoader) {
		if logger == nil {
			logger = slog.Default()
		}
		l.logger = logger
	}
}

// NewDirectoryLoader creates a loader for the corpus rooted at root.
func NewDirectoryLoader(root string, opts ...Option) *DirectoryLoader {
	l := &DirectoryLoader{
		root:        root,
		extensions:  slices.Clone(DefaultExtensions),
		concurrency: max(runtime.NumCPU()/2, 1),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.logger = l.logger.With("component", "loader")
	return l
}

// Root returns the corpus directory.
func (l *DirectoryLoader) Root() string {
	return l.root
}

// Matches reports whether path has one of the configured extensions.
func (l *DirectoryLoader) Matches(path string) bool {
	return slices.Contains(l.extensions, strings.ToLower(filepath.Ext(path)))
}

// Load reads and parses every matching file below the root, sorted by path.
// An empty tree yields an empty slice. Any failure is reported as core.ErrLoad.
func (l *DirectoryLoader) Load(ctx context.Context) ([]core.Document, error) {
	paths, err := l.discover()
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		l.logger.Warn("no documents found", "root", l.root)
		return []core.Document{}, nil
	}

	pool, err := ants.NewPool(l.concurrency)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrLoad, err)
	}
	defer pool.Release()

	docs := make([]core.Document, len(paths))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for i, path := range paths {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				fail(err)
				return
			}
			doc, err := l.LoadFile(path)
			if err != nil {
				fail(err)
				return
			}
			docs[i] = doc
		})
		if submitErr != nil {
			wg.Done()
			fail(fmt.Errorf("%w: %w", core.ErrLoad, submitErr))
			break
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	l.logger.Info("loaded documents", "root", l.root, "count", len(docs))
	return docs, nil
}

// LoadFile reads and parses a single file. The document Source is the path
// relative to the loader root when the file lies below it.
func (l *DirectoryLoader) LoadFile(path string) (core.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Document{}, fmt.Errorf("%w: %w", core.ErrLoad, err)
	}
	defer f.Close()

	p, err := parseHTML(f)
	if err != nil {
		return core.Document{}, fmt.Errorf("%w: parsing %s: %w", core.ErrLoad, path, err)
	}

	doc := core.Document{
		Text:   p.text,
		Source: l.relative(path),
		Title:  p.title,
	}
	if strings.TrimSpace(doc.Text) == "" {
		l.logger.Warn("document has no text", "source", doc.Source)
	}
	l.logger.Debug("loaded document", "source", doc.Source, "title", doc.Title, "runes", len([]rune(doc.Text)))
	return doc, nil
}

// discover walks the root and returns matching file paths in sorted order.
func (l *DirectoryLoader) discover() ([]string, error) {
	info, err := os.Stat(l.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrLoad, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", core.ErrLoad, l.root)
	}

	var paths []string
	err = filepath.WalkDir(l.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !l.Matches(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrLoad, err)
	}

	slices.Sort(paths)
	return paths, nil
}

func (l *DirectoryLoader) relative(path string) string {
	rel, err := filepath.Rel(l.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
