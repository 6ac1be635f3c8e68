package embed

import (
	"context"
	"errors"
	"fmt"

	"wanderingrag/internal/config"
)

// ErrModel wraps embedding-model construction failures. The pipeline cannot
// produce vectors without a model, so callers treat it as fatal.
var ErrModel = errors.New("embedding model unavailable")

// Embedder maps text to fixed-length vectors. Implementations are stateless
// apart from their client handle and safe for sequential reuse.
type Embedder interface {
	// EmbedDocuments returns one vector per input text, in input order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
	// EmbedQuery embeds a single search query.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	// Dimension is the vector size this embedder produces.
	Dimension() int
}

// New builds the embedder selected by EMBEDDING_PROVIDER.
func New(ctx context.Context, cfg *config.Config) (Embedder, error) {
	if err := cfg.ValidateEmbedding(); err != nil {
		return nil, err
	}

	switch cfg.EmbeddingProvider {
	case "gemini":
		return NewGemini(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.EmbeddingDim)
	case "ollama":
		return NewOllama(cfg.OllamaURL, cfg.OllamaModel, cfg.EmbeddingDim)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrModel, cfg.EmbeddingProvider)
	}
}
