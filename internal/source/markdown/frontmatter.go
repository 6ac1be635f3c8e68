package markdown

import (
	"fmt"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"wanderingrag/internal/index"
)

// Matches a leading YAML frontmatter block: ---\n...\n---
var frontmatterPattern = regexp.MustCompile(`(?s)^---\n(.+?)\n---\n*`)

// parseFrontmatter splits a note into its YAML metadata and body. Notes
// without frontmatter, or with YAML that does not parse, keep their full
// text as body.
func parseFrontmatter(raw string) (map[string]any, string) {
	match := frontmatterPattern.FindStringSubmatch(raw)
	if match == nil {
		return nil, raw
	}

	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(match[1]), &meta); err != nil {
		return nil, raw
	}
	return meta, raw[len(match[0]):]
}

// applyFrontmatter maps the conventional metadata keys onto document fields;
// everything else lands in Extra.
func applyFrontmatter(meta map[string]any, doc *index.Document) {
	for key, value := range meta {
		switch key {
		case "Created at":
			if ts, ok := parseTime(value); ok {
				doc.CreatedAt = ts
			} else {
				doc.Extra[key] = fmt.Sprint(value)
			}
		case "Last updated at":
			if ts, ok := parseTime(value); ok {
				doc.LastModifiedAt = ts
			} else {
				doc.Extra[key] = fmt.Sprint(value)
			}
		case "tags":
			doc.Tags = stringList(value)
		case "Source URL":
			doc.SourceURL = fmt.Sprint(value)
		default:
			doc.Extra[key] = fmt.Sprint(value)
		}
	}
}

func parseTime(value any) (time.Time, bool) {
	switch v := value.(type) {
	case time.Time:
		return v, true
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04", "2006-01-02"} {
			if ts, err := time.Parse(layout, v); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}

func stringList(value any) []string {
	switch v := value.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, fmt.Sprint(item))
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	}
	return nil
}
