package embed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wanderingrag/internal/config"
)

func TestNewUnknownProvider(t *testing.T) {
	cfg := &config.Config{EmbeddingProvider: "word2vec"}
	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNewMissingCredentials(t *testing.T) {
	cfg := &config.Config{EmbeddingProvider: "gemini"}
	_, err := New(context.Background(), cfg)
	assert.ErrorIs(t, err, config.ErrMissingRequired)
}

func TestNewOllama(t *testing.T) {
	// Construction only configures the HTTP client; no request is made.
	cfg := &config.Config{
		EmbeddingProvider: "ollama",
		OllamaURL:         "http://localhost:11434",
		OllamaModel:       "nomic-embed-text",
		EmbeddingDim:      768,
	}
	e, err := New(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, 768, e.Dimension())
}

func TestOllamaEmptyBatch(t *testing.T) {
	o, err := NewOllama("http://localhost:11434", "nomic-embed-text", 768)
	require.NoError(t, err)

	vectors, err := o.EmbedDocuments(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, vectors)
}
