package vectorstore

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchQueryThreshold(t *testing.T) {
	vector := []float32{0.1, 0.2}

	t.Run("positive threshold is a cutoff", func(t *testing.T) {
		query := searchQuery("notes", vector, 5, 0.3)
		require.NotNil(t, query.ScoreThreshold)
		assert.InDelta(t, 0.3, *query.ScoreThreshold, 1e-6)
	})

	t.Run("zero threshold still cuts", func(t *testing.T) {
		query := searchQuery("notes", vector, 5, 0)
		require.NotNil(t, query.ScoreThreshold)
		assert.Zero(t, *query.ScoreThreshold)
	})

	t.Run("negative threshold means no cutoff", func(t *testing.T) {
		query := searchQuery("notes", vector, 5, -1)
		assert.Nil(t, query.ScoreThreshold)
	})

	t.Run("limit and payload carried", func(t *testing.T) {
		query := searchQuery("notes", vector, 7, 0.3)
		assert.Equal(t, qdrant.PtrOf(uint64(7)), query.Limit)
		assert.True(t, query.GetWithPayload().GetEnable())
	})
}
