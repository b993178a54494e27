package analysis

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"issuescope/internal/models"
)

const aggregatedFieldMaxChars = 300

var aggregatedColumns = []string{
	"issue_key", "posts", "avg_severity", "audiences",
	"top_tags", "example_titles", "links_count",
}

// WriteAnalysisJSONL persists the unflattened results, one object per line.
func WriteAnalysisJSONL(path string, results []models.AnalysisResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, r := range results {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}

// WritePerPostCSV writes one flattened row per result. With zero results
// it still emits a header-only file so downstream consumers never see a
// missing artifact.
func WritePerPostCSV(path string, results []models.AnalysisResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(AnalysisColumns); err != nil {
		return err
	}
	for _, r := range results {
		if err := w.Write(FlattenRow(r)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WritePerPostMarkdown writes the flattened rows as a Markdown table,
// truncated to the first topN rows. Pipes inside cells are escaped. An
// empty result set still produces the header and separator rows.
func WritePerPostMarkdown(path string, results []models.AnalysisResult, topN int) error {
	if topN < 1 {
		topN = 1
	}
	if len(results) > topN {
		results = results[:topN]
	}

	var sb strings.Builder
	sb.WriteString("| " + strings.Join(AnalysisColumns, " | ") + " |\n")
	sb.WriteString("|" + strings.Repeat("---|", len(AnalysisColumns)) + "\n")

	for _, r := range results {
		cells := FlattenRow(r)
		escaped := make([]string, len(cells))
		for i, c := range cells {
			escaped[i] = strings.ReplaceAll(c, "|", "\\|")
		}
		sb.WriteString("| " + strings.Join(escaped, " | ") + " |\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteAggregatedCSV persists buckets sorted by descending count. Tag and
// title cells are truncated to keep the file scannable.
func WriteAggregatedCSV(path string, buckets map[string]*IssueBucket) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(aggregatedColumns); err != nil {
		return err
	}

	for _, b := range SortBuckets(buckets) {
		titles := make([]string, 0, len(b.Examples))
		for _, e := range b.Examples {
			titles = append(titles, e.Title)
		}

		row := []string{
			b.Key,
			strconv.Itoa(b.Count),
			strconv.FormatFloat(b.AvgSeverity(), 'f', 2, 64),
			strings.Join(sortedSet(b.Audiences), "; "),
			truncate(strings.Join(sortedSet(b.Tags), "; "), aggregatedFieldMaxChars),
			truncate(strings.Join(titles, "; "), aggregatedFieldMaxChars),
			strconv.Itoa(len(b.Links)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// truncate caps a string at max runes without splitting a character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
