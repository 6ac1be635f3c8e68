package retrieval

import (
	"context"
	"time"

	"wanderingrag/internal/vectorstore"
)

type Result struct {
	DocID       string    `json:"doc_id"`
	Title       string    `json:"title,omitempty"`
	Source      string    `json:"source"`
	Content     string    `json:"content"`
	ChunkIndex  int       `json:"chunk_index"`
	TotalChunks int       `json:"total_chunks"`
	DocURL      string    `json:"doc_url,omitempty"`
	SourceURL   string    `json:"source_url,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	Score       float32   `json:"score"`
}

type SearchOptions struct {
	Limit     *int
	Threshold *float32
}

type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

type VectorStore interface {
	Search(ctx context.Context, vector []float32, limit int, threshold float32) ([]vectorstore.Doc, error)
}

// Defaults apply when a caller passes nil options. They come from config so
// the CLI and the MCP server resolve the same way.
type Defaults struct {
	Limit     int
	Threshold float32
}

type Service struct {
	embedder Embedder
	store    VectorStore
	defaults Defaults
	logger   *QueryLogger
}

func NewService(e Embedder, s VectorStore, d Defaults, l *QueryLogger) *Service {
	return &Service{embedder: e, store: s, defaults: d, logger: l}
}

func (s *Service) Search(ctx context.Context, query string, opts *SearchOptions) ([]Result, error) {
	start := time.Now()
	var results []Result
	var err error

	defer func() {
		if s.logger != nil && err == nil {
			s.logger.Log(QueryLogEntry{
				Query:      query,
				NumResults: len(results),
				Duration:   time.Since(start),
			})
		}
	}()

	limit := s.defaults.Limit
	threshold := s.defaults.Threshold
	if opts != nil {
		if opts.Limit != nil {
			limit = *opts.Limit
		}
		if opts.Threshold != nil {
			threshold = *opts.Threshold
		}
	}

	vec, err := s.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	docs, err := s.store.Search(ctx, vec, limit, threshold)
	if err != nil {
		return nil, err
	}

	results = make([]Result, len(docs))
	for i, doc := range docs {
		results[i] = resultFromDoc(doc)
	}
	return results, nil
}

func resultFromDoc(doc vectorstore.Doc) Result {
	return Result{
		DocID:       doc.Payload.DocID,
		Title:       doc.Payload.Title,
		Source:      string(doc.Payload.Source),
		Content:     doc.Payload.Content,
		ChunkIndex:  doc.Payload.ChunkIndex,
		TotalChunks: doc.Payload.TotalChunks,
		DocURL:      doc.Payload.DocURL,
		SourceURL:   doc.Payload.SourceURL,
		Tags:        doc.Payload.Tags,
		CreatedAt:   doc.Payload.CreatedAt,
		Score:       doc.Score,
	}
}
