package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

var ErrMissingRequired = errors.New("missing required configuration")

type Config struct {
	QdrantHost       string `envconfig:"QDRANT_HOST" default:"localhost"`
	QdrantPort       int    `envconfig:"QDRANT_PORT" default:"6334"`
	QdrantCollection string `envconfig:"QDRANT_COLLECTION" default:"wandering-rag-docs"`

	// Embedding provider: "gemini" or "ollama". The dimension must match the
	// model; the Qdrant collection is created with it and a mismatch against
	// an existing collection is fatal.
	EmbeddingProvider string `envconfig:"EMBEDDING_PROVIDER" default:"gemini"`
	EmbeddingDim      int    `envconfig:"EMBEDDING_DIM" default:"3072"`
	GeminiAPIKey      string `envconfig:"GEMINI_API_KEY"`
	GeminiModel       string `envconfig:"GEMINI_EMBEDDING_MODEL" default:"gemini-embedding-001"`
	OllamaURL         string `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`
	OllamaModel       string `envconfig:"OLLAMA_MODEL" default:"nomic-embed-text"`

	NotionToken string `envconfig:"NOTION_TOKEN"`

	// Comma-separated list of folders to index with `md index`.
	MarkdownFolders []string `envconfig:"MARKDOWN_FOLDERS"`

	ChunkSize    int `envconfig:"CHUNK_SIZE" default:"500"`
	ChunkOverlap int `envconfig:"CHUNK_OVERLAP" default:"100"`

	SearchLimit     int     `envconfig:"SEARCH_LIMIT" default:"5"`
	SearchThreshold float32 `envconfig:"SEARCH_THRESHOLD" default:"0.3"`
	MCPQueryLimit   int     `envconfig:"MCP_QUERY_LIMIT" default:"50"`

	RetryMaxAttempts    int `envconfig:"RETRY_MAX_ATTEMPTS" default:"4"`
	RetryInitialDelayMS int `envconfig:"RETRY_INITIAL_DELAY_MS" default:"500"`

	QueryLogPath string `envconfig:"QUERY_LOG_PATH" default:"data/logs/query.log"`
	MCPHTTPAddr  string `envconfig:"MCP_HTTP_ADDR" default:":8765"`
}

func Load() (*Config, error) {
	// Env vars may also be set in the shell, so a missing .env is fine.
	_ = godotenv.Load(".env")

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.QdrantHost == "" {
		return fmt.Errorf("%w: QDRANT_HOST", ErrMissingRequired)
	}
	if c.QdrantCollection == "" {
		return fmt.Errorf("%w: QDRANT_COLLECTION", ErrMissingRequired)
	}
	if c.EmbeddingDim <= 0 {
		return fmt.Errorf("invalid EMBEDDING_DIM: %d", c.EmbeddingDim)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("invalid CHUNK_SIZE: %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("invalid CHUNK_OVERLAP: %d (chunk size %d)", c.ChunkOverlap, c.ChunkSize)
	}
	return nil
}

// ValidateMarkdown checks the configuration needed by `md index` and
// expands ~ and env vars in the configured folder paths.
func (c *Config) ValidateMarkdown() error {
	if len(c.MarkdownFolders) == 0 {
		return fmt.Errorf("%w: MARKDOWN_FOLDERS", ErrMissingRequired)
	}

	expanded := make([]string, 0, len(c.MarkdownFolders))
	for _, folder := range c.MarkdownFolders {
		folder = strings.TrimSpace(folder)
		if folder == "" {
			continue
		}
		if strings.HasPrefix(folder, "~") {
			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("expanding %q: %w", folder, err)
			}
			folder = filepath.Join(home, folder[1:])
		}
		folder = os.ExpandEnv(folder)
		if _, err := os.Stat(folder); err != nil {
			return fmt.Errorf("folder not found: %s", folder)
		}
		expanded = append(expanded, folder)
	}
	if len(expanded) == 0 {
		return fmt.Errorf("%w: MARKDOWN_FOLDERS", ErrMissingRequired)
	}
	c.MarkdownFolders = expanded
	return nil
}

func (c *Config) ValidateNotion() error {
	if c.NotionToken == "" {
		return fmt.Errorf("%w: NOTION_TOKEN", ErrMissingRequired)
	}
	return nil
}

func (c *Config) ValidateEmbedding() error {
	switch c.EmbeddingProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("%w: GEMINI_API_KEY", ErrMissingRequired)
		}
	case "ollama":
		if c.OllamaURL == "" {
			return fmt.Errorf("%w: OLLAMA_URL", ErrMissingRequired)
		}
	default:
		return fmt.Errorf("unknown EMBEDDING_PROVIDER: %q", c.EmbeddingProvider)
	}
	return nil
}

func (c *Config) RetryInitialDelay() time.Duration {
	return time.Duration(c.RetryInitialDelayMS) * time.Millisecond
}
