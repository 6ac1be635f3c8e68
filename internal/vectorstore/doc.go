package vectorstore

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

type SourceType string

const (
	SourceMarkdown SourceType = "markdown"
	SourceNotion   SourceType = "notion"
	SourceMemory   SourceType = "memory"
)

// Payload is the metadata stored next to each vector. Empty optional fields
// are omitted from the stored map so that payloads stay compact.
type Payload struct {
	DocID          string
	Title          string
	Source         SourceType
	Content        string
	ContentHash    string
	ChunkIndex     int
	TotalChunks    int
	DocURL         string
	SourceURL      string
	Tags           []string
	CreatedAt      time.Time
	LastModifiedAt time.Time
	Extra          map[string]string
}

// Doc is one point in the collection. Score is only set on search results.
type Doc struct {
	ID      uuid.UUID
	Vector  []float32
	Payload Payload
	Score   float32
}

// ContentHash digests document content for change detection. Deterministic:
// re-reading identical content always produces the same hash.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

func (p Payload) values() map[string]any {
	m := map[string]any{
		"doc_id":       p.DocID,
		"title":        p.Title,
		"source":       string(p.Source),
		"content":      p.Content,
		"content_hash": p.ContentHash,
		"chunk_index":  p.ChunkIndex,
		"total_chunks": p.TotalChunks,
	}
	if p.DocURL != "" {
		m["doc_url"] = p.DocURL
	}
	if p.SourceURL != "" {
		m["source_url"] = p.SourceURL
	}
	if len(p.Tags) > 0 {
		tags := make([]any, len(p.Tags))
		for i, tag := range p.Tags {
			tags[i] = tag
		}
		m["tags"] = tags
	}
	if !p.CreatedAt.IsZero() {
		m["created_at"] = p.CreatedAt.Format(time.RFC3339)
	}
	if !p.LastModifiedAt.IsZero() {
		m["last_modified_at"] = p.LastModifiedAt.Format(time.RFC3339)
	}
	if len(p.Extra) > 0 {
		extra := make(map[string]any, len(p.Extra))
		for k, v := range p.Extra {
			extra[k] = v
		}
		m["extra"] = extra
	}
	return m
}

func payloadFromValues(values map[string]*qdrant.Value) Payload {
	p := Payload{
		DocID:       values["doc_id"].GetStringValue(),
		Title:       values["title"].GetStringValue(),
		Source:      SourceType(values["source"].GetStringValue()),
		Content:     values["content"].GetStringValue(),
		ContentHash: values["content_hash"].GetStringValue(),
		ChunkIndex:  int(values["chunk_index"].GetIntegerValue()),
		TotalChunks: int(values["total_chunks"].GetIntegerValue()),
		DocURL:      values["doc_url"].GetStringValue(),
		SourceURL:   values["source_url"].GetStringValue(),
	}
	if list := values["tags"].GetListValue(); list != nil {
		for _, v := range list.GetValues() {
			p.Tags = append(p.Tags, v.GetStringValue())
		}
	}
	if raw := values["created_at"].GetStringValue(); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			p.CreatedAt = ts
		}
	}
	if raw := values["last_modified_at"].GetStringValue(); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			p.LastModifiedAt = ts
		}
	}
	if st := values["extra"].GetStructValue(); st != nil {
		p.Extra = make(map[string]string, len(st.GetFields()))
		for k, v := range st.GetFields() {
			p.Extra[k] = v.GetStringValue()
		}
	}
	return p
}
