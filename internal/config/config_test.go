package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.QdrantHost)
	assert.Equal(t, 6334, cfg.QdrantPort)
	assert.Equal(t, "wandering-rag-docs", cfg.QdrantCollection)
	assert.Equal(t, "gemini", cfg.EmbeddingProvider)
	assert.Equal(t, 500, cfg.ChunkSize)
	assert.Equal(t, 100, cfg.ChunkOverlap)
	assert.Equal(t, float32(0.3), cfg.SearchThreshold)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryInitialDelay())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("QDRANT_HOST", "qdrant.internal")
	t.Setenv("QDRANT_PORT", "7000")
	t.Setenv("EMBEDDING_PROVIDER", "ollama")
	t.Setenv("SEARCH_THRESHOLD", "0.55")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "qdrant.internal", cfg.QdrantHost)
	assert.Equal(t, 7000, cfg.QdrantPort)
	assert.Equal(t, "ollama", cfg.EmbeddingProvider)
	assert.Equal(t, float32(0.55), cfg.SearchThreshold)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"empty host", func(c *Config) { c.QdrantHost = "" }, true},
		{"empty collection", func(c *Config) { c.QdrantCollection = "" }, true},
		{"zero dim", func(c *Config) { c.EmbeddingDim = 0 }, true},
		{"overlap >= size", func(c *Config) { c.ChunkOverlap = 500 }, true},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateMarkdown(t *testing.T) {
	t.Run("missing folders", func(t *testing.T) {
		cfg := &Config{}
		err := cfg.ValidateMarkdown()
		assert.ErrorIs(t, err, ErrMissingRequired)
	})

	t.Run("nonexistent folder", func(t *testing.T) {
		cfg := &Config{MarkdownFolders: []string{"/no/such/folder"}}
		assert.Error(t, cfg.ValidateMarkdown())
	})

	t.Run("existing folder expanded", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "notes"), 0o750))
		cfg := &Config{MarkdownFolders: []string{" " + filepath.Join(dir, "notes") + " "}}
		require.NoError(t, cfg.ValidateMarkdown())
		assert.Equal(t, []string{filepath.Join(dir, "notes")}, cfg.MarkdownFolders)
	})
}

func TestValidateNotion(t *testing.T) {
	cfg := &Config{}
	assert.ErrorIs(t, cfg.ValidateNotion(), ErrMissingRequired)

	cfg.NotionToken = "secret"
	assert.NoError(t, cfg.ValidateNotion())
}

func TestValidateEmbedding(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"gemini with key", Config{EmbeddingProvider: "gemini", GeminiAPIKey: "k"}, false},
		{"gemini without key", Config{EmbeddingProvider: "gemini"}, true},
		{"ollama with url", Config{EmbeddingProvider: "ollama", OllamaURL: "http://localhost:11434"}, false},
		{"unknown provider", Config{EmbeddingProvider: "openai"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.ValidateEmbedding()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
