package vectorstore

import (
	"testing"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
)

func TestContentHash(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, ContentHash("Adopted Luna on 2023-04-01"), ContentHash("Adopted Luna on 2023-04-01"))
	})

	t.Run("content sensitive", func(t *testing.T) {
		assert.NotEqual(t, ContentHash("v1"), ContentHash("v2"))
	})

	t.Run("whitespace sensitive", func(t *testing.T) {
		// Trailing whitespace is a content change; normalization happens at
		// the source readers, not here.
		assert.NotEqual(t, ContentHash("note"), ContentHash("note "))
	})
}

func TestPayloadRoundTrip(t *testing.T) {
	created := time.Date(2023, 4, 1, 10, 0, 0, 0, time.UTC)
	modified := time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC)

	p := Payload{
		DocID:          "vault/pets/luna.md",
		Title:          "luna",
		Source:         SourceMarkdown,
		Content:        "Adopted Luna on 2023-04-01",
		ContentHash:    ContentHash("Adopted Luna on 2023-04-01"),
		ChunkIndex:     2,
		TotalChunks:    5,
		DocURL:         "obsidian://open?file=pets/luna.md",
		SourceURL:      "https://example.com/luna",
		Tags:           []string{"pets", "cats"},
		CreatedAt:      created,
		LastModifiedAt: modified,
		Extra:          map[string]string{"root": "vault", "subfolder": "pets"},
	}

	got := payloadFromValues(qdrant.NewValueMap(p.values()))
	assert.Equal(t, p, got)
}

func TestPayloadOmitsEmptyFields(t *testing.T) {
	p := Payload{
		DocID:       "notes/a.md",
		Title:       "a",
		Source:      SourceMarkdown,
		Content:     "hello",
		ContentHash: ContentHash("hello"),
		TotalChunks: 1,
	}

	m := p.values()
	for _, key := range []string{"doc_url", "source_url", "tags", "created_at", "last_modified_at", "extra"} {
		_, ok := m[key]
		assert.False(t, ok, "expected %q to be omitted", key)
	}
}

func TestPayloadFromValuesMissingFields(t *testing.T) {
	got := payloadFromValues(qdrant.NewValueMap(map[string]any{
		"doc_id": "notes/partial.md",
		"source": "notion",
	}))

	assert.Equal(t, "notes/partial.md", got.DocID)
	assert.Equal(t, SourceNotion, got.Source)
	assert.Empty(t, got.Title)
	assert.Zero(t, got.ChunkIndex)
	assert.Nil(t, got.Tags)
	assert.True(t, got.CreatedAt.IsZero())
}
