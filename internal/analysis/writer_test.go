package analysis

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuescope/internal/models"
)

func TestWritePerPostMarkdownEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.md")
	require.NoError(t, WritePerPostMarkdown(path, nil, 50))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 2, "header and separator only, no data rows")
	assert.Contains(t, lines[0], "post_id")
	assert.True(t, strings.HasPrefix(lines[1], "|---"))
}

func TestWritePerPostMarkdownEscapesPipesAndCaps(t *testing.T) {
	results := []models.AnalysisResult{
		{PostID: "1", Title: "uses | pipe", DedupeKey: "k"},
		{PostID: "2", DedupeKey: "k"},
		{PostID: "3", DedupeKey: "k"},
	}

	path := filepath.Join(t.TempDir(), "capped.md")
	require.NoError(t, WritePerPostMarkdown(path, results, 2))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, `uses \| pipe`)

	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	assert.Len(t, lines, 4, "header + separator + 2 capped rows")
	assert.NotContains(t, content, "| 3 |")
}

func TestWritePerPostCSVHeaderOnlyFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, WritePerPostCSV(path, nil))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header row only")
	assert.Equal(t, AnalysisColumns, records[0])
}

func TestWriteAggregatedCSV(t *testing.T) {
	results := []models.AnalysisResult{
		{PostID: "1", Subreddit: "edtech", Title: "a", DedupeKey: "Certificates not recognized by employers", Severity: 3, Stakeholders: []string{"Students"}},
		{PostID: "2", Subreddit: "edtech", Title: "b", DedupeKey: "certificates not recognized by employers", Severity: 3},
		{PostID: "3", Subreddit: "edtech", Title: "c", DedupeKey: "LMS mobile app crashes", Severity: 3, UsefulLinks: []string{"https://example.com"}},
	}

	path := filepath.Join(t.TempDir(), "agg.csv")
	require.NoError(t, WriteAggregatedCSV(path, AggregateIssues(results)))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, aggregatedColumns, records[0])

	assert.Equal(t, "certificates not recognized by employers", records[1][0])
	assert.Equal(t, "2", records[1][1])
	assert.Equal(t, "3.00", records[1][2])
	assert.Equal(t, "Students", records[1][3])

	assert.Equal(t, "lms mobile app crashes", records[2][0])
	assert.Equal(t, "1", records[2][1])
	assert.Equal(t, "1", records[2][6], "links_count")
}

func TestWriteAnalysisJSONL(t *testing.T) {
	results := []models.AnalysisResult{
		{PostID: "1", Subreddit: "edtech", Title: "a", DedupeKey: "k"},
		{PostID: "2", Subreddit: "edtech", Title: "b", DedupeKey: "k"},
	}

	path := filepath.Join(t.TempDir(), "analysis.jsonl")
	require.NoError(t, WriteAnalysisJSONL(path, results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 2, "one object per line")
	assert.Contains(t, lines[0], `"post_id":"1"`)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 300))
	assert.Equal(t, strings.Repeat("x", 300), truncate(strings.Repeat("x", 400), 300))
	assert.Equal(t, "héll", truncate("héllo", 4), "truncation counts runes, not bytes")
}
