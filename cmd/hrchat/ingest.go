package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/poiesic/hrchat"
	"github.com/poiesic/hrchat/loader"
	"github.com/urfave/cli/v2"
)

func ingestCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	corpus := c.String("corpus")
	indexPath := c.String("index")
	opts := []hrchat.Option{
		hrchat.WithAIConfig(aiConfig(c)),
		hrchat.WithChunking(c.Int("chunk-size"), c.Int("chunk-overlap")),
		hrchat.WithBatchSize(c.Int("batch-size")),
		hrchat.WithPoolSize(c.Int("workers")),
		hrchat.WithProgress(c.App.ErrWriter),
	}

	rebuild := func() error {
		report, err := hrchat.Ingest(ctx, corpus, indexPath, opts...)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "Indexed %d chunks from %d documents into %s in %s\n",
			report.Chunks, report.Documents, report.IndexPath, report.Elapsed.Round(time.Millisecond))
		return nil
	}

	if !c.Bool("watch") {
		return rebuild()
	}

	if err := rebuild(); err != nil {
		slog.Error("initial ingestion failed", "err", err)
	}
	fmt.Fprintf(c.App.Writer, "Watching %s for changes\n", corpus)
	return watchCorpus(ctx, loader.NewDirectoryLoader(corpus), c.Duration("debounce"), func() {
		if err := rebuild(); err != nil && ctx.Err() == nil {
			slog.Error("ingestion failed", "err", err)
		}
	})
}

// watchCorpus calls rebuild once the corpus has been quiet for debounce
// after a change to a matching file. It returns when ctx is done.
func watchCorpus(ctx context.Context, corpus *loader.DirectoryLoader, debounce time.Duration, rebuild func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchTree(watcher, corpus.Root()); err != nil {
		return err
	}

	logger := slog.Default().With("component", "watcher")
	timer := time.NewTimer(debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchTree(watcher, event.Name); err != nil {
						logger.Warn("failed to watch new directory", "path", event.Name, "err", err)
					}
					continue
				}
			}
			if !relevant(corpus, event) {
				continue
			}
			describeChange(logger, corpus, event)
			timer.Reset(debounce)

		case <-timer.C:
			rebuild()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

// watchTree adds root and every directory below it to watcher.
func watchTree(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// relevant reports whether event changes the content of a corpus page.
func relevant(corpus *loader.DirectoryLoader, event fsnotify.Event) bool {
	if !corpus.Matches(event.Name) {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func describeChange(logger *slog.Logger, corpus *loader.DirectoryLoader, event fsnotify.Event) {
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		logger.Info("page removed", "path", event.Name)
		return
	}
	doc, err := corpus.LoadFile(event.Name)
	if err != nil {
		logger.Warn("changed page cannot be parsed", "path", event.Name, "err", err)
		return
	}
	logger.Info("page changed", "source", doc.Source, "title", doc.Title)
}

