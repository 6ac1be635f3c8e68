package markdown

import (
	"context"
	"io/fs"
	"iter"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"wanderingrag/internal/index"
)

// Deleter removes document records when their files disappear. The prefix
// form covers whole folders, whose notes share a path-shaped doc id prefix.
type Deleter interface {
	DeleteByDocID(ctx context.Context, docID string) error
	DeleteByDocIDPrefix(ctx context.Context, prefix string) (int, error)
}

// Watcher keeps the index in sync with the folders as files change, instead
// of re-scanning everything.
type Watcher struct {
	reader   *Reader
	pipeline *index.Pipeline
	deleter  Deleter
}

func NewWatcher(reader *Reader, pipeline *index.Pipeline, deleter Deleter) *Watcher {
	return &Watcher{reader: reader, pipeline: pipeline, deleter: deleter}
}

// Run blocks until the context is cancelled, reindexing notes as they are
// written and dropping records of removed notes. Editors that write via a
// temp-file rename fire Create rather than Write, so both are handled the
// same way.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, folder := range w.reader.folders {
		if err := addRecursive(watcher, folder); err != nil {
			return err
		}
		slog.InfoContext(ctx, "watching folder", "folder", folder)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, watcher, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.ErrorContext(ctx, "watch error", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, watcher *fsnotify.Watcher, event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		// New subdirectories need their own watch; for plain files this is a no-op.
		if event.Has(fsnotify.Create) {
			_ = addRecursive(watcher, event.Name)
		}
		if !isMarkdown(event.Name) {
			return
		}
		report, err := w.pipeline.Run(ctx, &fileSource{reader: w.reader, path: event.Name})
		if err != nil {
			slog.ErrorContext(ctx, "reindex failed", "path", event.Name, "error", err)
			return
		}
		slog.InfoContext(ctx, "reindexed changed note", "path", event.Name, "report", report.String())

	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		if !isMarkdown(event.Name) {
			// The entry is gone and cannot be stat'ed anymore. An
			// extension-less name was most likely a directory, so drop
			// everything indexed under it.
			if filepath.Ext(event.Name) != "" {
				return
			}
			docID := w.reader.DocID(event.Name)
			if docID == "" {
				return
			}
			n, err := w.deleter.DeleteByDocIDPrefix(ctx, docID+"/")
			if err != nil {
				slog.ErrorContext(ctx, "failed to drop removed folder", "doc_id", docID, "error", err)
				return
			}
			if n > 0 {
				slog.InfoContext(ctx, "dropped removed folder", "doc_id", docID, "points", n)
			}
			return
		}
		docID := w.reader.DocID(event.Name)
		if docID == "" {
			return
		}
		if err := w.deleter.DeleteByDocID(ctx, docID); err != nil {
			slog.ErrorContext(ctx, "failed to drop removed note", "doc_id", docID, "error", err)
			return
		}
		slog.InfoContext(ctx, "dropped removed note", "doc_id", docID)
	}
}

func isMarkdown(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".md")
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}

// fileSource feeds a single changed file through the regular pipeline so
// that watch mode shares the hash-check and replace semantics of a full run.
type fileSource struct {
	reader *Reader
	path   string
}

func (f *fileSource) Name() string { return "markdown-watch" }

func (f *fileSource) Documents(ctx context.Context) iter.Seq2[index.Document, error] {
	return func(yield func(index.Document, error) bool) {
		yield(f.reader.ReadFile(f.path))
	}
}
