// Package markdown reads notes from folders of Markdown files, e.g. an
// Obsidian vault. A document's identity is its path relative to the folder
// root, prefixed with the root folder's name, so moving the vault around on
// disk does not invalidate the index.
package markdown

import (
	"context"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"wanderingrag/internal/index"
	"wanderingrag/internal/vectorstore"
)

type Reader struct {
	folders []string
}

func NewReader(folders []string) *Reader {
	return &Reader{folders: folders}
}

func (r *Reader) Name() string { return "markdown" }

// Documents walks every configured folder recursively and yields one
// document per *.md file. Unreadable files are yielded with their error so
// the pipeline can count them as failures and move on.
func (r *Reader) Documents(ctx context.Context) iter.Seq2[index.Document, error] {
	return func(yield func(index.Document, error) bool) {
		// Once yield returns false nothing may be yielded again, including
		// from the walk of a later folder.
		stopped := false
		for _, folder := range r.folders {
			if stopped {
				return
			}
			root := filepath.Clean(folder)
			walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if err != nil {
					if !yield(index.Document{ID: path, Source: vectorstore.SourceMarkdown}, err) {
						stopped = true
						return fs.SkipAll
					}
					return nil
				}
				if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".md") {
					return nil
				}

				doc, err := r.readNote(root, path)
				if !yield(doc, err) {
					stopped = true
					return fs.SkipAll
				}
				return nil
			})
			if walkErr != nil && ctx.Err() == nil {
				if !yield(index.Document{ID: root, Source: vectorstore.SourceMarkdown}, walkErr) {
					return
				}
			}
		}
	}
}

// ReadFile builds the document for a single file inside one of the
// configured folders. Used by watch mode to reindex just the changed note.
func (r *Reader) ReadFile(path string) (index.Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return index.Document{ID: path, Source: vectorstore.SourceMarkdown}, err
	}
	for _, folder := range r.folders {
		root := filepath.Clean(folder)
		absRoot, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		if rel, err := filepath.Rel(absRoot, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return r.readNote(root, path)
		}
	}
	return index.Document{ID: path, Source: vectorstore.SourceMarkdown},
		fmt.Errorf("%s is outside the configured folders", path)
}

// DocID returns the identity a file would be indexed under, without reading
// it. Empty when the path is outside the configured folders.
func (r *Reader) DocID(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return ""
	}
	for _, folder := range r.folders {
		absRoot, err := filepath.Abs(filepath.Clean(folder))
		if err != nil {
			continue
		}
		if rel, err := filepath.Rel(absRoot, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return docID(filepath.Clean(folder), rel)
		}
	}
	return ""
}

func (r *Reader) readNote(root, path string) (index.Document, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	id := docID(root, rel)

	raw, err := os.ReadFile(path)
	if err != nil {
		return index.Document{ID: id, Source: vectorstore.SourceMarkdown}, fmt.Errorf("reading %s: %w", path, err)
	}

	meta, body := parseFrontmatter(string(raw))

	doc := index.Document{
		ID:      id,
		Source:  vectorstore.SourceMarkdown,
		Title:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Content: body,
		Extra: map[string]string{
			"root":      filepath.Base(root),
			"subfolder": filepath.ToSlash(filepath.Dir(rel)),
		},
	}
	applyFrontmatter(meta, &doc)

	return doc, nil
}

// docID is "<root folder name>/<relative path>", slash-separated on every
// platform so ids match across machines.
func docID(root, rel string) string {
	return filepath.ToSlash(filepath.Join(filepath.Base(root), rel))
}
