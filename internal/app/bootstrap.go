// Package app wires configuration, the embedder, the vector store and the
// retrieval service into one dependency bundle the CLI commands share.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"wanderingrag/internal/config"
	"wanderingrag/internal/embed"
	"wanderingrag/internal/index"
	"wanderingrag/internal/retrieval"
	"wanderingrag/internal/text"
	"wanderingrag/internal/vectorstore"
)

type Deps struct {
	Config    *config.Config
	Embedder  embed.Embedder
	Store     *vectorstore.Store
	Retrieval *retrieval.Service
}

func Bootstrap(ctx context.Context, cfg *config.Config) (*Deps, error) {
	embedder, err := embed.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("building embedder: %w", err)
	}

	store, err := vectorstore.Connect(cfg.QdrantHost, cfg.QdrantPort, cfg.QdrantCollection, cfg.EmbeddingDim)
	if err != nil {
		return nil, fmt.Errorf("connecting to qdrant: %w", err)
	}

	if err := EnsureCollectionWithRetry(ctx, store, cfg.RetryMaxAttempts, cfg.RetryInitialDelay()); err != nil {
		store.Close() //nolint:errcheck
		return nil, fmt.Errorf("preparing collection: %w", err)
	}

	queryLogger, err := retrieval.NewFileQueryLogger(cfg.QueryLogPath)
	if err != nil {
		slog.Warn("failed to create query logger, falling back to stderr", "error", err)
		queryLogger = retrieval.NewQueryLogger(os.Stderr)
	}

	retrievalService := retrieval.NewService(embedder, store,
		retrieval.Defaults{Limit: cfg.SearchLimit, Threshold: cfg.SearchThreshold},
		queryLogger)

	return &Deps{
		Config:    cfg,
		Embedder:  embedder,
		Store:     store,
		Retrieval: retrievalService,
	}, nil
}

// MarkdownPipeline chunks notes with the fixed-window splitter. Notes are
// plain prose where window size and overlap alone give stable chunk
// identities across runs.
func (d *Deps) MarkdownPipeline() *index.Pipeline {
	return d.pipeline(text.Splitter{Size: d.Config.ChunkSize, Overlap: d.Config.ChunkOverlap})
}

// NotionPipeline chunks exported pages with the recursive splitter, which
// prefers breaking on the block and sentence boundaries the block renderer
// emits.
func (d *Deps) NotionPipeline() *index.Pipeline {
	return d.pipeline(text.NewRecursiveSplitter(d.Config.ChunkSize, d.Config.ChunkOverlap))
}

func (d *Deps) pipeline(chunker index.Chunker) *index.Pipeline {
	return index.NewPipeline(d.Store, d.Embedder, chunker, index.RetryPolicy{
		MaxAttempts:  d.Config.RetryMaxAttempts,
		InitialDelay: d.Config.RetryInitialDelay(),
	})
}

func (d *Deps) Close() {
	if closer, ok := d.Embedder.(io.Closer); ok {
		closer.Close() //nolint:errcheck
	}
	if d.Store != nil {
		d.Store.Close() //nolint:errcheck
	}
}

// Bootstrapper prepares the storage schema, typically creating the collection
// and its indexes on first run.
type Bootstrapper interface {
	Bootstrap(ctx context.Context) error
}

// EnsureCollectionWithRetry retries schema preparation, since Qdrant may
// still be starting up when indexing begins. A dimension mismatch never
// resolves itself, so it fails immediately.
func EnsureCollectionWithRetry(ctx context.Context, store Bootstrapper, attempts int, delay time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = store.Bootstrap(ctx); err == nil {
			return nil
		}
		if errors.Is(err, vectorstore.ErrDimensionMismatch) {
			return err
		}
		if i < attempts-1 {
			slog.Warn("collection bootstrap failed, retrying", "attempt", i+1, "error", err)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return err
}
