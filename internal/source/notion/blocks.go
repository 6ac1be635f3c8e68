package notion

import (
	"fmt"
	"strings"

	"github.com/jomei/notionapi"
)

// blockText renders one Notion block as a Markdown line. Block types that
// carry no prose, like dividers and embeds, render empty and are dropped.
func blockText(block notionapi.Block) string {
	switch b := block.(type) {
	case *notionapi.ParagraphBlock:
		return plainText(b.Paragraph.RichText)
	case *notionapi.Heading1Block:
		return "# " + plainText(b.Heading1.RichText)
	case *notionapi.Heading2Block:
		return "## " + plainText(b.Heading2.RichText)
	case *notionapi.Heading3Block:
		return "### " + plainText(b.Heading3.RichText)
	case *notionapi.BulletedListItemBlock:
		return "- " + plainText(b.BulletedListItem.RichText)
	case *notionapi.NumberedListItemBlock:
		return "1. " + plainText(b.NumberedListItem.RichText)
	case *notionapi.CodeBlock:
		return fmt.Sprintf("```%s\n%s\n```", b.Code.Language, plainText(b.Code.RichText))
	case *notionapi.QuoteBlock:
		return "> " + plainText(b.Quote.RichText)
	case *notionapi.CalloutBlock:
		return fmt.Sprintf("::: %s\n%s\n:::", b.Callout.Color, plainText(b.Callout.RichText))
	case *notionapi.ToDoBlock:
		box := "- [ ] "
		if b.ToDo.Checked {
			box = "- [x] "
		}
		return box + plainText(b.ToDo.RichText)
	default:
		return ""
	}
}

func plainText(richText []notionapi.RichText) string {
	var sb strings.Builder
	for _, rt := range richText {
		sb.WriteString(rt.PlainText)
	}
	return sb.String()
}
