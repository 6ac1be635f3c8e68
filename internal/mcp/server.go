// Package mcp exposes the vector store to MCP clients over stdio or
// streamable HTTP, with one tool to search it and one to store notes.
package mcp

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"wanderingrag/internal/retrieval"
	"wanderingrag/internal/vectorstore"
)

const Version = "0.1.0"

type Searcher interface {
	Search(ctx context.Context, query string, opts *retrieval.SearchOptions) ([]retrieval.Result, error)
}

type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

type Store interface {
	Upsert(ctx context.Context, docs []vectorstore.Doc) error
}

// Options bound what a client may ask for, since an MCP tool call carries
// whatever limit the model felt like sending.
type Options struct {
	QueryLimit int
	Threshold  float32
}

type Server struct {
	searcher Searcher
	embedder Embedder
	store    Store
	opts     Options
	server   *mcp.Server
}

func NewServer(searcher Searcher, embedder Embedder, store Store, opts Options) (*Server, error) {
	if searcher == nil || embedder == nil || store == nil {
		return nil, errors.New("mcp server requires a searcher, an embedder and a store")
	}

	impl := &mcp.Implementation{
		Name:    "wandering-rag",
		Version: Version,
	}

	s := &Server{
		searcher: searcher,
		embedder: embedder,
		store:    store,
		opts:     opts,
		server:   mcp.NewServer(impl, nil),
	}
	s.registerTools()
	return s, nil
}

// Run serves over stdio and blocks until the context is cancelled or the
// client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves over streamable HTTP on addr and blocks until the context
// is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
