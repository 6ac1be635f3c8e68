// Package notion reads pages from a Notion workspace through the official
// search API: every page the integration token can see gets indexed.
package notion

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"strings"

	"github.com/jomei/notionapi"

	"wanderingrag/internal/index"
	"wanderingrag/internal/vectorstore"
)

type Reader struct {
	client *notionapi.Client
}

func NewReader(token string) *Reader {
	return &Reader{client: notionapi.NewClient(notionapi.Token(token))}
}

func (r *Reader) Name() string { return "notion" }

// Documents pages through the workspace search and yields one document per
// page. A page whose blocks cannot be fetched is yielded with its error; a
// failing search request ends the enumeration, since without it there is
// nothing left to iterate.
func (r *Reader) Documents(ctx context.Context) iter.Seq2[index.Document, error] {
	return func(yield func(index.Document, error) bool) {
		var cursor notionapi.Cursor
		for {
			resp, err := r.client.Search.Do(ctx, &notionapi.SearchRequest{
				StartCursor: cursor,
				PageSize:    100,
				Filter: notionapi.SearchFilter{
					Property: "object",
					Value:    "page",
				},
			})
			if err != nil {
				yield(index.Document{Source: vectorstore.SourceNotion}, fmt.Errorf("notion search: %w", err))
				return
			}

			for _, obj := range resp.Results {
				page, ok := obj.(*notionapi.Page)
				if !ok {
					continue
				}
				doc, err := r.readPage(ctx, page)
				if !yield(doc, err) {
					return
				}
			}

			if !resp.HasMore {
				return
			}
			cursor = resp.NextCursor
		}
	}
}

func (r *Reader) readPage(ctx context.Context, page *notionapi.Page) (index.Document, error) {
	pageID := string(page.ID)
	title := pageTitle(page)

	doc := index.Document{
		ID:             pageID,
		Source:         vectorstore.SourceNotion,
		Title:          title,
		DocURL:         pageURL(pageID),
		CreatedAt:      page.CreatedTime,
		LastModifiedAt: page.LastEditedTime,
		Extra:          map[string]string{"notion_page_id": pageID},
	}

	blocks, err := r.pageBlocks(ctx, pageID)
	if err != nil {
		return doc, fmt.Errorf("fetching blocks of page %s: %w", pageID, err)
	}
	slog.DebugContext(ctx, "fetched page", "page_id", pageID, "title", title, "blocks", len(blocks))

	var parts []string
	for _, block := range blocks {
		if text := blockText(block); text != "" {
			parts = append(parts, text)
		}
	}

	// The title line makes the page findable by name even when the body
	// never repeats it.
	doc.Content = fmt.Sprintf("title:%s\npage_id:%s\n\n%s", title, pageID, strings.Join(parts, "\n\n"))
	return doc, nil
}

func (r *Reader) pageBlocks(ctx context.Context, pageID string) ([]notionapi.Block, error) {
	var blocks []notionapi.Block
	pagination := &notionapi.Pagination{PageSize: 100}
	for {
		resp, err := r.client.Block.GetChildren(ctx, notionapi.BlockID(pageID), pagination)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, resp.Results...)
		if !resp.HasMore {
			return blocks, nil
		}
		pagination.StartCursor = notionapi.Cursor(resp.NextCursor)
	}
}

// pageURL is the share link form of a page id, dashes stripped.
func pageURL(pageID string) string {
	return "https://notion.so/" + strings.ReplaceAll(pageID, "-", "")
}

func pageTitle(page *notionapi.Page) string {
	for _, key := range []string{"Name", "title"} {
		if prop, ok := page.Properties[key]; ok {
			if title, ok := prop.(*notionapi.TitleProperty); ok {
				return plainText(title.Title)
			}
		}
	}
	// Databases can rename the title column to anything.
	for _, prop := range page.Properties {
		if title, ok := prop.(*notionapi.TitleProperty); ok {
			return plainText(title.Title)
		}
	}
	return "<Untitled>"
}
