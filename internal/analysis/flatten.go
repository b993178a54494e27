package analysis

import (
	"strconv"
	"strings"

	"issuescope/internal/models"
)

const (
	defaultJoinSeparator     = " | "
	stakeholderJoinSeparator = "; "
	linkJoinSeparator        = " "
)

// AnalysisColumns is the fixed per-post column set. Every flattened row
// carries every column so the schema stays stable across rows, including
// the header-only fallback file.
var AnalysisColumns = []string{
	"post_id", "subreddit", "title", "theme", "sub_theme", "stakeholders",
	"problem_statements", "questions_users_ask", "proposed_solutions",
	"useful_links", "sentiment", "severity_1to5", "dedupe_key",
}

// joinField flattens a sequence field into a single delimited string,
// replacing embedded newlines with spaces and dropping blank entries.
func joinField(values []string, sep string) string {
	var cleaned []string
	for _, v := range values {
		v = strings.TrimSpace(strings.ReplaceAll(v, "\n", " "))
		if v != "" {
			cleaned = append(cleaned, v)
		}
	}
	return strings.Join(cleaned, sep)
}

// FlattenRow converts an AnalysisResult into CSV cell values ordered by
// AnalysisColumns. Missing fields render as empty strings, never omitted.
func FlattenRow(a models.AnalysisResult) []string {
	severity := ""
	if a.Severity != 0 {
		severity = strconv.Itoa(a.Severity)
	}

	return []string{
		a.PostID,
		a.Subreddit,
		strings.TrimSpace(strings.ReplaceAll(a.Title, "\n", " ")),
		a.Theme,
		a.SubTheme,
		joinField(a.Stakeholders, stakeholderJoinSeparator),
		joinField(a.ProblemStatements, defaultJoinSeparator),
		joinField(a.QuestionsUsersAsk, defaultJoinSeparator),
		joinField(a.ProposedSolutions, defaultJoinSeparator),
		joinField(a.UsefulLinks, linkJoinSeparator),
		a.Sentiment,
		severity,
		a.DedupeKey,
	}
}
