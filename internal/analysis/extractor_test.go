package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"issuescope/internal/models"
)

func TestBuildPromptItems(t *testing.T) {
	posts := []models.RawPost{
		{
			ID:        "abc",
			Subreddit: "edtech",
			Title:     "Course is outdated",
			Selftext:  "Still teaches Python 2.",
			Permalink: "https://reddit.com/r/edtech/comments/abc",
			TopComments: []string{
				"c1", "c2", "c3", "c4", "c5", "c6", "c7",
			},
		},
		{
			ID:        "def",
			Subreddit: "edtech",
			Title:     "Title only post",
		},
	}

	items := buildPromptItems(posts)
	assert.Len(t, items, 2)

	assert.Equal(t, "abc", items[0].PostID)
	assert.Equal(t, "Course is outdated\n\nStill teaches Python 2.", items[0].Text)
	assert.Len(t, items[0].Comments, 5, "comments capped at five")

	assert.Equal(t, "Title only post", items[1].Text, "body falls back to title")
	assert.Empty(t, items[1].Comments)
}

func TestCleanResponse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Plain JSON untouched",
			input:    `{"results":[]}`,
			expected: `{"results":[]}`,
		},
		{
			name:     "json fence stripped",
			input:    "```json\n{\"results\":[]}\n```",
			expected: `{"results":[]}`,
		},
		{
			name:     "Bare fence stripped",
			input:    "```\n{\"results\":[]}\n```",
			expected: `{"results":[]}`,
		},
		{
			name:     "Surrounding whitespace trimmed",
			input:    "  {\"results\":[]}  \n",
			expected: `{"results":[]}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, cleanResponse(tc.input))
		})
	}
}

func TestBatchResultSchemaDeclaresRequiredFields(t *testing.T) {
	schema := batchResultSchema()
	assert.Equal(t, []string{"results"}, schema.Required)

	items := schema.Properties["results"].Items
	assert.NotNil(t, items)
	assert.ElementsMatch(t,
		[]string{"post_id", "subreddit", "title", "theme", "problem_statements", "dedupe_key"},
		items.Required)
	assert.Equal(t, sentimentEnum, items.Properties["sentiment"].Enum)
	assert.Contains(t, items.Properties["theme"].Enum, "Other")
}
