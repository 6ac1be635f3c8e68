package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// ErrDimensionMismatch means the collection already exists with a different
// vector size than the configured embedding model produces. That is a
// configuration error, not something to retry.
var ErrDimensionMismatch = errors.New("collection vector dimension mismatch")

// Store wraps the Qdrant gRPC client for one collection.
type Store struct {
	client *qdrant.Client
	name   string
	dim    uint64
}

func Connect(host string, port int, collection string, dim int) (*Store, error) {
	client, err := qdrant.NewClient(&qdrant.Config{Host: host, Port: port})
	if err != nil {
		return nil, fmt.Errorf("qdrant client: %w", err)
	}
	return &Store{client: client, name: collection, dim: uint64(dim)}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

// Bootstrap creates the collection and its payload indexes if they do not
// exist yet. Creating an existing collection with matching dimensionality is
// a no-op; a dimensionality mismatch is fatal.
func (s *Store) Bootstrap(ctx context.Context) error {
	exists, err := s.client.CollectionExists(ctx, s.name)
	if err != nil {
		return fmt.Errorf("checking collection %q: %w", s.name, err)
	}

	if !exists {
		err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: s.name,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     s.dim,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("creating collection %q: %w", s.name, err)
		}
		slog.InfoContext(ctx, "created collection", "collection", s.name, "dim", s.dim)
	} else {
		info, err := s.client.GetCollectionInfo(ctx, s.name)
		if err != nil {
			return fmt.Errorf("inspecting collection %q: %w", s.name, err)
		}
		size := info.GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
		if size != s.dim {
			return fmt.Errorf("%w: collection %q has dim %d, embedder produces %d",
				ErrDimensionMismatch, s.name, size, s.dim)
		}
	}

	return s.ensureIndexes(ctx)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	keyword := []string{"doc_id", "source", "tags"}
	for _, field := range keyword {
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: s.name,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			return fmt.Errorf("indexing payload field %q: %w", field, err)
		}
	}
	_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
		CollectionName: s.name,
		FieldName:      "chunk_index",
		FieldType:      qdrant.FieldType_FieldTypeInteger.Enum(),
	})
	if err != nil {
		return fmt.Errorf("indexing payload field %q: %w", "chunk_index", err)
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, docs []Doc) error {
	if len(docs) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, len(docs))
	for i, doc := range docs {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(doc.ID.String()),
			Vectors: qdrant.NewVectors(doc.Vector...),
			Payload: qdrant.NewValueMap(doc.Payload.values()),
		}
	}

	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.name,
		Points:         points,
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("upserting %d points: %w", len(points), err)
	}
	return nil
}

// FindByDocID returns one stored point of the given document, or nil when
// the document has never been indexed. The payload carries the content hash
// used for change detection.
func (s *Store) FindByDocID(ctx context.Context, docID string) (*Doc, error) {
	points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
		CollectionName: s.name,
		Filter:         docFilter(docID),
		Limit:          qdrant.PtrOf(uint32(1)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("looking up doc %q: %w", docID, err)
	}
	if len(points) == 0 {
		return nil, nil
	}

	doc := &Doc{Payload: payloadFromValues(points[0].GetPayload())}
	if id, err := uuid.Parse(points[0].GetId().GetUuid()); err == nil {
		doc.ID = id
	}
	return doc, nil
}

// DeleteByDocID removes every point of a document. Used before re-upserting
// so that stale chunks of a shrunk document cannot linger.
func (s *Store) DeleteByDocID(ctx context.Context, docID string) error {
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.name,
		Points:         qdrant.NewPointsSelectorFilter(docFilter(docID)),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return fmt.Errorf("deleting doc %q: %w", docID, err)
	}
	return nil
}

// DeleteByDocIDPrefix removes every point whose doc_id starts with prefix.
// Doc ids are path-shaped, so all notes under a removed folder share the
// folder's prefix. Keyword indexes have no prefix match, so the collection
// is scanned and matched client-side.
func (s *Store) DeleteByDocIDPrefix(ctx context.Context, prefix string) (int, error) {
	const page = uint32(256)
	matched := map[string]*qdrant.PointId{}
	var offset *qdrant.PointId
	for {
		points, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: s.name,
			Limit:          qdrant.PtrOf(page),
			Offset:         offset,
			WithPayload:    qdrant.NewWithPayloadInclude("doc_id"),
		})
		if err != nil {
			return 0, fmt.Errorf("scanning for doc prefix %q: %w", prefix, err)
		}
		for _, point := range points {
			if strings.HasPrefix(point.GetPayload()["doc_id"].GetStringValue(), prefix) {
				matched[point.GetId().GetUuid()] = point.GetId()
			}
		}
		if uint32(len(points)) < page {
			break
		}
		// Scroll offsets are inclusive; the map absorbs the repeated point.
		offset = points[len(points)-1].GetId()
	}

	if len(matched) == 0 {
		return 0, nil
	}
	ids := make([]*qdrant.PointId, 0, len(matched))
	for _, id := range matched {
		ids = append(ids, id)
	}
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: s.name,
		Points:         qdrant.NewPointsSelector(ids...),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("deleting %d points under prefix %q: %w", len(ids), prefix, err)
	}
	return len(ids), nil
}

// Search returns up to limit points ordered by descending cosine similarity.
// Points below threshold are cut off; a threshold of exactly zero still cuts,
// dropping negative-similarity matches. A negative threshold disables the
// cutoff. Tie-breaks are whatever Qdrant does.
func (s *Store) Search(ctx context.Context, vector []float32, limit int, threshold float32) ([]Doc, error) {
	points, err := s.client.Query(ctx, searchQuery(s.name, vector, limit, threshold))
	if err != nil {
		return nil, fmt.Errorf("querying collection %q: %w", s.name, err)
	}

	docs := make([]Doc, 0, len(points))
	for _, point := range points {
		doc := Doc{
			Payload: payloadFromValues(point.GetPayload()),
			Score:   point.GetScore(),
		}
		if id, err := uuid.Parse(point.GetId().GetUuid()); err == nil {
			doc.ID = id
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func searchQuery(collection string, vector []float32, limit int, threshold float32) *qdrant.QueryPoints {
	query := &qdrant.QueryPoints{
		CollectionName: collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	}
	if threshold >= 0 {
		query.ScoreThreshold = qdrant.PtrOf(threshold)
	}
	return query
}

func docFilter(docID string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("doc_id", docID),
		},
	}
}
