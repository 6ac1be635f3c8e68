package index

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"wanderingrag/internal/vectorstore"
)

// Document is what a source hands the pipeline: raw text plus stable
// identity and metadata. It lives for a single indexing pass.
type Document struct {
	ID             string
	Source         vectorstore.SourceType
	Title          string
	Content        string
	DocURL         string
	SourceURL      string
	Tags           []string
	CreatedAt      time.Time
	LastModifiedAt time.Time
	Extra          map[string]string
}

// Source enumerates documents from an origin (a markdown folder tree, a
// Notion workspace). A non-nil error for an individual document marks that
// document failed without stopping the enumeration; the yielded Document
// should still carry the identity for logging.
type Source interface {
	Name() string
	Documents(ctx context.Context) iter.Seq2[Document, error]
}

// Chunker splits document text into embedding-sized pieces.
type Chunker interface {
	Chunk(text string) ([]string, error)
}

// Embedder is the subset of embed.Embedder the pipeline needs.
type Embedder interface {
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// Store is the subset of the vector store the pipeline needs.
type Store interface {
	FindByDocID(ctx context.Context, docID string) (*vectorstore.Doc, error)
	DeleteByDocID(ctx context.Context, docID string) error
	Upsert(ctx context.Context, docs []vectorstore.Doc) error
}

// Report summarizes one indexing run.
type Report struct {
	Indexed int
	Skipped int
	Failed  int
}

func (r Report) String() string {
	return fmt.Sprintf("indexed=%d skipped=%d failed=%d", r.Indexed, r.Skipped, r.Failed)
}

// Pipeline runs the incremental indexing loop: for each document, compare
// its content hash with the stored one, and only chunk/embed/upsert when the
// content changed. Documents are processed strictly one at a time; an error
// on one document never aborts the run.
type Pipeline struct {
	store    Store
	embedder Embedder
	chunker  Chunker
	retry    RetryPolicy
}

func NewPipeline(store Store, embedder Embedder, chunker Chunker, retry RetryPolicy) *Pipeline {
	return &Pipeline{store: store, embedder: embedder, chunker: chunker, retry: retry}
}

// Run indexes every document the source yields and reports per-run counts.
// It returns an error only when the context is cancelled; per-document
// failures are logged and counted instead.
func (p *Pipeline) Run(ctx context.Context, src Source) (Report, error) {
	var report Report
	start := time.Now()

	slog.InfoContext(ctx, "indexing started", "source", src.Name())

	for doc, err := range src.Documents(ctx) {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		if err != nil {
			slog.ErrorContext(ctx, "failed to fetch document", "source", src.Name(), "doc_id", doc.ID, "error", err)
			report.Failed++
			continue
		}

		switch indexed, err := p.indexOne(ctx, doc); {
		case ctx.Err() != nil:
			return report, ctx.Err()
		case err != nil:
			slog.ErrorContext(ctx, "failed to index document", "source", src.Name(), "doc_id", doc.ID, "error", err)
			report.Failed++
		case indexed:
			report.Indexed++
		default:
			slog.DebugContext(ctx, "skipping unchanged document", "doc_id", doc.ID)
			report.Skipped++
		}
	}

	slog.InfoContext(ctx, "indexing finished",
		"source", src.Name(),
		"indexed", report.Indexed,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)
	return report, nil
}

// indexOne walks a single document through
// hash-checked → (skipped | chunked → embedded → upserted).
// Returns (false, nil) when the document was skipped as unchanged.
func (p *Pipeline) indexOne(ctx context.Context, doc Document) (bool, error) {
	if strings.TrimSpace(doc.Content) == "" {
		return false, nil
	}

	hash := vectorstore.ContentHash(doc.Content)

	existing, err := retryWithData(ctx, p.retry, func() (*vectorstore.Doc, error) {
		return p.store.FindByDocID(ctx, doc.ID)
	})
	if err != nil {
		return false, fmt.Errorf("change detection: %w", err)
	}
	if unchanged(existing, hash) {
		return false, nil
	}

	chunks, err := p.chunker.Chunk(doc.Content)
	if err != nil {
		return false, fmt.Errorf("chunking: %w", err)
	}
	if len(chunks) == 0 {
		return false, nil
	}

	vectors, err := retryWithData(ctx, p.retry, func() ([][]float32, error) {
		return p.embedder.EmbedDocuments(ctx, chunks)
	})
	if err != nil {
		return false, fmt.Errorf("embedding %d chunks: %w", len(chunks), err)
	}
	if len(vectors) != len(chunks) {
		return false, fmt.Errorf("embedding returned %d vectors for %d chunks", len(vectors), len(chunks))
	}

	// Replace, not merge: stale chunks of a shrunk document must go away.
	if existing != nil {
		if err := retry(ctx, p.retry, func() error {
			return p.store.DeleteByDocID(ctx, doc.ID)
		}); err != nil {
			return false, fmt.Errorf("deleting stale records: %w", err)
		}
	}

	records := make([]vectorstore.Doc, len(chunks))
	for i, chunk := range chunks {
		records[i] = vectorstore.Doc{
			ID:     uuid.New(),
			Vector: vectors[i],
			Payload: vectorstore.Payload{
				DocID:          doc.ID,
				Title:          doc.Title,
				Source:         doc.Source,
				Content:        chunk,
				ContentHash:    hash,
				ChunkIndex:     i,
				TotalChunks:    len(chunks),
				DocURL:         doc.DocURL,
				SourceURL:      doc.SourceURL,
				Tags:           doc.Tags,
				CreatedAt:      doc.CreatedAt,
				LastModifiedAt: doc.LastModifiedAt,
				Extra:          doc.Extra,
			},
		}
	}

	if err := retry(ctx, p.retry, func() error {
		return p.store.Upsert(ctx, records)
	}); err != nil {
		return false, fmt.Errorf("upserting %d records: %w", len(records), err)
	}

	slog.InfoContext(ctx, "indexed document", "doc_id", doc.ID, "chunks", len(chunks))
	return true, nil
}

// unchanged is the change detector: hash equality against the stored record
// means the vectors need not be recomputed.
func unchanged(existing *vectorstore.Doc, hash string) bool {
	return existing != nil && existing.Payload.ContentHash == hash
}
