package notion

import (
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
)

func rich(text string) []notionapi.RichText {
	return []notionapi.RichText{{PlainText: text}}
}

func TestBlockText(t *testing.T) {
	tests := []struct {
		name  string
		block notionapi.Block
		want  string
	}{
		{
			name:  "paragraph",
			block: &notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{RichText: rich("plain prose")}},
			want:  "plain prose",
		},
		{
			name:  "heading one",
			block: &notionapi.Heading1Block{Heading1: notionapi.Heading{RichText: rich("Top")}},
			want:  "# Top",
		},
		{
			name:  "heading two",
			block: &notionapi.Heading2Block{Heading2: notionapi.Heading{RichText: rich("Middle")}},
			want:  "## Middle",
		},
		{
			name:  "heading three",
			block: &notionapi.Heading3Block{Heading3: notionapi.Heading{RichText: rich("Low")}},
			want:  "### Low",
		},
		{
			name:  "bulleted item",
			block: &notionapi.BulletedListItemBlock{BulletedListItem: notionapi.ListItem{RichText: rich("first")}},
			want:  "- first",
		},
		{
			name:  "numbered item",
			block: &notionapi.NumberedListItemBlock{NumberedListItem: notionapi.ListItem{RichText: rich("step")}},
			want:  "1. step",
		},
		{
			name:  "code",
			block: &notionapi.CodeBlock{Code: notionapi.Code{RichText: rich("x := 1"), Language: "go"}},
			want:  "```go\nx := 1\n```",
		},
		{
			name:  "quote",
			block: &notionapi.QuoteBlock{Quote: notionapi.Quote{RichText: rich("so it goes")}},
			want:  "> so it goes",
		},
		{
			name:  "callout",
			block: &notionapi.CalloutBlock{Callout: notionapi.Callout{RichText: rich("heads up"), Color: "blue"}},
			want:  "::: blue\nheads up\n:::",
		},
		{
			name:  "todo unchecked",
			block: &notionapi.ToDoBlock{ToDo: notionapi.ToDo{RichText: rich("write tests")}},
			want:  "- [ ] write tests",
		},
		{
			name:  "todo checked",
			block: &notionapi.ToDoBlock{ToDo: notionapi.ToDo{RichText: rich("write code"), Checked: true}},
			want:  "- [x] write code",
		},
		{
			name:  "unsupported block renders empty",
			block: &notionapi.DividerBlock{},
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, blockText(tt.block))
		})
	}
}

func TestBlockTextJoinsRichTextRuns(t *testing.T) {
	block := &notionapi.ParagraphBlock{Paragraph: notionapi.Paragraph{
		RichText: []notionapi.RichText{{PlainText: "bold"}, {PlainText: " and "}, {PlainText: "plain"}},
	}}
	assert.Equal(t, "bold and plain", blockText(block))
}
