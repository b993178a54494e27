package analysis

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"issuescope/internal/models"
)

func sampleResult() models.AnalysisResult {
	return models.AnalysisResult{
		PostID:            "abc123",
		Subreddit:         "edtech",
		Title:             "Cert not\nworth it?",
		Theme:             "Certification Value",
		SubTheme:          "employer recognition",
		Stakeholders:      []string{"Students", "Employers"},
		ProblemStatements: []string{"Employers ignore the cert", "Paid $300\nfor nothing"},
		QuestionsUsersAsk: []string{"Is it worth it?"},
		ProposedSolutions: []string{"Check job postings first"},
		UsefulLinks:       []string{"https://example.com/a", "https://example.com/b"},
		Sentiment:         "negative",
		Severity:          4,
		DedupeKey:         "Certificates not recognized by employers",
	}
}

func TestFlattenRow(t *testing.T) {
	row := FlattenRow(sampleResult())

	assert.Len(t, row, len(AnalysisColumns))
	assert.Equal(t, "abc123", row[0])
	assert.Equal(t, "Cert not worth it?", row[2], "embedded newlines become spaces")
	assert.Equal(t, "Students; Employers", row[5], "stakeholders join with semicolon")
	assert.Equal(t, "Employers ignore the cert | Paid $300 for nothing", row[6])
	assert.Equal(t, "https://example.com/a https://example.com/b", row[9], "links join with space")
	assert.Equal(t, "4", row[11])
}

func TestFlattenRowDeterministic(t *testing.T) {
	a := sampleResult()
	first := FlattenRow(a)
	second := FlattenRow(a)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("re-flattening the same result produced different rows:\n%v\n%v", first, second)
	}
}

func TestFlattenRowMissingFields(t *testing.T) {
	row := FlattenRow(models.AnalysisResult{PostID: "x"})

	assert.Len(t, row, len(AnalysisColumns), "every column present even when empty")
	for i, cell := range row {
		if AnalysisColumns[i] == "post_id" {
			continue
		}
		assert.Empty(t, cell, "column %s should render empty", AnalysisColumns[i])
	}
}

func TestJoinFieldDropsBlankEntries(t *testing.T) {
	assert.Equal(t, "a | b", joinField([]string{"a", "   ", "", "b"}, " | "))
	assert.Equal(t, "", joinField(nil, " | "))
}
