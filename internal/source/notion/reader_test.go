package notion

import (
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
)

func TestPageTitle(t *testing.T) {
	titled := &notionapi.TitleProperty{Title: rich("Weekly Review")}

	tests := []struct {
		name  string
		props notionapi.Properties
		want  string
	}{
		{
			name:  "name property",
			props: notionapi.Properties{"Name": titled},
			want:  "Weekly Review",
		},
		{
			name:  "title property",
			props: notionapi.Properties{"title": titled},
			want:  "Weekly Review",
		},
		{
			name: "renamed title column",
			props: notionapi.Properties{
				"Task": titled,
				"Done": &notionapi.CheckboxProperty{},
			},
			want: "Weekly Review",
		},
		{
			name:  "no title property",
			props: notionapi.Properties{"Done": &notionapi.CheckboxProperty{}},
			want:  "<Untitled>",
		},
		{
			name:  "empty properties",
			props: notionapi.Properties{},
			want:  "<Untitled>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pageTitle(&notionapi.Page{Properties: tt.props}))
		})
	}
}

func TestReaderName(t *testing.T) {
	assert.Equal(t, "notion", NewReader("secret").Name())
}

func TestPageDocumentShape(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	edited := time.Date(2024, 3, 5, 18, 30, 0, 0, time.UTC)
	page := &notionapi.Page{
		ID:             "8a2f0c9d-1b2c-4d3e-9f4a-5b6c7d8e9f0a",
		CreatedTime:    created,
		LastEditedTime: edited,
		Properties: notionapi.Properties{
			"Name": &notionapi.TitleProperty{Title: rich("Trip Notes")},
		},
	}

	// readPage fetches blocks over the network, so exercise the pure parts
	// it is built from.
	assert.Equal(t, "Trip Notes", pageTitle(page))
	assert.Equal(t, "https://notion.so/8a2f0c9d1b2c4d3e9f4a5b6c7d8e9f0a", pageURL(string(page.ID)))
}
