package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"wanderingrag/internal/retrieval"
	"wanderingrag/internal/vectorstore"
)

type MockSearcher struct{ mock.Mock }

func (m *MockSearcher) Search(ctx context.Context, query string, opts *retrieval.SearchOptions) ([]retrieval.Result, error) {
	args := m.Called(ctx, query, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]retrieval.Result), args.Error(1)
}

type MockEmbedder struct{ mock.Mock }

func (m *MockEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

type MockStore struct{ mock.Mock }

func (m *MockStore) Upsert(ctx context.Context, docs []vectorstore.Doc) error {
	args := m.Called(ctx, docs)
	return args.Error(0)
}

func newTestServer(t *testing.T, searcher *MockSearcher, embedder *MockEmbedder, store *MockStore) *Server {
	t.Helper()
	srv, err := NewServer(searcher, embedder, store, Options{QueryLimit: 50, Threshold: 0.3})
	assert.NoError(t, err)
	return srv
}

func TestNewServer_RequiresDependencies(t *testing.T) {
	_, err := NewServer(nil, new(MockEmbedder), new(MockStore), Options{})
	assert.Error(t, err)
}

func TestHandleFind(t *testing.T) {
	tests := []struct {
		name      string
		input     FindInput
		wantLimit int
	}{
		{name: "default limit", input: FindInput{Query: "go"}, wantLimit: 50},
		{name: "explicit limit", input: FindInput{Query: "go", Limit: 10}, wantLimit: 10},
		{name: "limit above cap clamped", input: FindInput{Query: "go", Limit: 500}, wantLimit: 50},
		{name: "negative limit replaced", input: FindInput{Query: "go", Limit: -1}, wantLimit: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := new(MockSearcher)
			searcher.On("Search", mock.Anything, "go", mock.MatchedBy(func(opts *retrieval.SearchOptions) bool {
				return opts.Limit != nil && *opts.Limit == tt.wantLimit &&
					opts.Threshold != nil && *opts.Threshold == float32(0.3)
			})).Return([]retrieval.Result{{DocID: "vault/go.md", Content: "goroutines", Score: 0.9}}, nil)

			srv := newTestServer(t, searcher, new(MockEmbedder), new(MockStore))
			_, out, err := srv.handleFind(context.Background(), nil, tt.input)

			assert.NoError(t, err)
			assert.Equal(t, 1, out.Count)
			assert.Equal(t, "vault/go.md", out.Results[0].DocID)
			assert.Equal(t, float32(0.9), out.Results[0].Score)
			searcher.AssertExpectations(t)
		})
	}
}

func TestHandleFind_SearchError(t *testing.T) {
	searcher := new(MockSearcher)
	searcher.On("Search", mock.Anything, "go", mock.Anything).Return(nil, errors.New("store down"))

	srv := newTestServer(t, searcher, new(MockEmbedder), new(MockStore))
	_, _, err := srv.handleFind(context.Background(), nil, FindInput{Query: "go"})
	assert.Error(t, err)
}

func TestHandleStore(t *testing.T) {
	embedder := new(MockEmbedder)
	embedder.On("EmbedQuery", mock.Anything, "remember the milk").Return([]float32{0.1, 0.2}, nil)

	store := new(MockStore)
	var stored []vectorstore.Doc
	store.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		stored = args.Get(1).([]vectorstore.Doc)
	}).Return(nil)

	srv := newTestServer(t, new(MockSearcher), embedder, store)
	_, out, err := srv.handleStore(context.Background(), nil, StoreInput{
		Information: "remember the milk",
		Title:       "groceries",
		Tags:        []string{"todo"},
	})

	assert.NoError(t, err)
	assert.Len(t, stored, 1)
	doc := stored[0]
	assert.Equal(t, out.DocID, doc.Payload.DocID)
	assert.Equal(t, doc.ID.String(), doc.Payload.DocID)
	assert.Equal(t, vectorstore.SourceMemory, doc.Payload.Source)
	assert.Equal(t, "remember the milk", doc.Payload.Content)
	assert.Equal(t, vectorstore.ContentHash("remember the milk"), doc.Payload.ContentHash)
	assert.Equal(t, "groceries", doc.Payload.Title)
	assert.Equal(t, []string{"todo"}, doc.Payload.Tags)
	assert.Equal(t, 1, doc.Payload.TotalChunks)
	assert.Equal(t, []float32{0.1, 0.2}, doc.Vector)
	assert.False(t, doc.Payload.CreatedAt.IsZero())

	embedder.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestHandleStore_EmbedError(t *testing.T) {
	embedder := new(MockEmbedder)
	embedder.On("EmbedQuery", mock.Anything, "x").Return(nil, errors.New("model missing"))

	srv := newTestServer(t, new(MockSearcher), embedder, new(MockStore))
	_, _, err := srv.handleStore(context.Background(), nil, StoreInput{Information: "x"})
	assert.Error(t, err)
}
