package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"wanderingrag/internal/retrieval"
	"wanderingrag/internal/vectorstore"
)

// FindInput is the input schema for the qdrant-find tool.
type FindInput struct {
	Query string `json:"query" jsonschema:"the natural language query to search notes with"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results to return"`
}

// FindOutput is the output schema for the qdrant-find tool.
type FindOutput struct {
	Results []FindResult `json:"results"`
	Count   int          `json:"count"`
}

// FindResult is a single matching chunk.
type FindResult struct {
	DocID      string   `json:"doc_id"`
	Title      string   `json:"title,omitempty"`
	Source     string   `json:"source"`
	Content    string   `json:"content"`
	ChunkIndex int      `json:"chunk_index"`
	DocURL     string   `json:"doc_url,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Score      float32  `json:"score"`
}

// StoreInput is the input schema for the qdrant-store tool.
type StoreInput struct {
	Information string   `json:"information" jsonschema:"the text to remember"`
	Title       string   `json:"title,omitempty" jsonschema:"an optional short title for the note"`
	Tags        []string `json:"tags,omitempty" jsonschema:"optional tags to attach to the note"`
}

// StoreOutput is the output schema for the qdrant-store tool.
type StoreOutput struct {
	DocID string `json:"doc_id"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "qdrant-find",
		Description: "Search personal notes and documents by semantic similarity",
	}, s.handleFind)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "qdrant-store",
		Description: "Store a piece of information as a retrievable memory",
	}, s.handleStore)
}

func (s *Server) handleFind(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input FindInput,
) (*mcp.CallToolResult, FindOutput, error) {
	limit := input.Limit
	if limit <= 0 || limit > s.opts.QueryLimit {
		limit = s.opts.QueryLimit
	}

	results, err := s.searcher.Search(ctx, input.Query, &retrieval.SearchOptions{
		Limit:     &limit,
		Threshold: &s.opts.Threshold,
	})
	if err != nil {
		return nil, FindOutput{}, err
	}

	output := FindOutput{
		Results: make([]FindResult, len(results)),
		Count:   len(results),
	}
	for i, r := range results {
		output.Results[i] = FindResult{
			DocID:      r.DocID,
			Title:      r.Title,
			Source:     r.Source,
			Content:    r.Content,
			ChunkIndex: r.ChunkIndex,
			DocURL:     r.DocURL,
			Tags:       r.Tags,
			Score:      r.Score,
		}
	}
	return nil, output, nil
}

func (s *Server) handleStore(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input StoreInput,
) (*mcp.CallToolResult, StoreOutput, error) {
	vec, err := s.embedder.EmbedQuery(ctx, input.Information)
	if err != nil {
		return nil, StoreOutput{}, err
	}

	id := uuid.New()
	doc := vectorstore.Doc{
		ID:     id,
		Vector: vec,
		Payload: vectorstore.Payload{
			DocID:       id.String(),
			Title:       input.Title,
			Source:      vectorstore.SourceMemory,
			Content:     input.Information,
			ContentHash: vectorstore.ContentHash(input.Information),
			ChunkIndex:  0,
			TotalChunks: 1,
			Tags:        input.Tags,
			CreatedAt:   time.Now().UTC(),
		},
	}

	if err := s.store.Upsert(ctx, []vectorstore.Doc{doc}); err != nil {
		return nil, StoreOutput{}, err
	}
	return nil, StoreOutput{DocID: doc.Payload.DocID}, nil
}
