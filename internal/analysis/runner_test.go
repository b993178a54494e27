package analysis

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issuescope/config"
	"issuescope/internal/models"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func runnerConfig(batchSize int) *config.Config {
	return &config.Config{
		BatchSize:   batchSize,
		Model:       "gpt-4.1-mini",
		Table:       config.TableCSV,
		MarkdownTop: 50,
	}
}

func noSummary(ctx context.Context, model string, buckets map[string]*IssueBucket) (string, error) {
	return "", nil
}

func TestRunSkipsFailedBatchAndContinues(t *testing.T) {
	logs := captureLogs(t)
	outDir := t.TempDir()

	posts := []models.RawPost{
		{ID: "p1", Subreddit: "edtech", Title: "a"},
		{ID: "p2", Subreddit: "edtech", Title: "b"},
		{ID: "p3", Subreddit: "edtech", Title: "c"},
	}

	// first batch (p1, p2) always fails; second batch (p3) succeeds
	extract := func(ctx context.Context, model string, batch []models.RawPost) ([]models.AnalysisResult, error) {
		if batch[0].ID == "p1" {
			return nil, errors.New("service unavailable")
		}
		results := make([]models.AnalysisResult, 0, len(batch))
		for _, p := range batch {
			results = append(results, models.AnalysisResult{
				PostID:    p.ID,
				Subreddit: p.Subreddit,
				Title:     p.Title,
				DedupeKey: "LMS mobile app crashes",
				Severity:  3,
			})
		}
		return results, nil
	}

	require.NoError(t, run(context.Background(), runnerConfig(2), posts, outDir, "run", extract, noSummary))

	logText := logs.String()
	assert.Contains(t, logText, "Extraction failed for batch")
	assert.Contains(t, logText, "batch_start=0")
	assert.Contains(t, logText, "batch_end=2")

	data, err := os.ReadFile(filepath.Join(outDir, "run_analysis.jsonl"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Len(t, lines, 1, "failed batch contributes zero results")
	assert.Contains(t, lines[0], `"post_id":"p3"`)
	assert.NotContains(t, string(data), `"post_id":"p1"`)

	f, err := os.Open(filepath.Join(outDir, "run_issues_aggregated.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2, "header plus the surviving batch's bucket")
	assert.Equal(t, "lms mobile app crashes", records[1][0])
	assert.Equal(t, "1", records[1][1])
}

func TestRunSummaryFailureStillWritesArtifact(t *testing.T) {
	captureLogs(t)
	outDir := t.TempDir()

	posts := []models.RawPost{{ID: "p1", Subreddit: "edtech", Title: "a"}}
	extract := func(ctx context.Context, model string, batch []models.RawPost) ([]models.AnalysisResult, error) {
		return []models.AnalysisResult{{PostID: "p1", Subreddit: "edtech", Title: "a", DedupeKey: "k", Severity: 3}}, nil
	}
	summarize := func(ctx context.Context, model string, buckets map[string]*IssueBucket) (string, error) {
		return "", errors.New("model overloaded")
	}

	require.NoError(t, run(context.Background(), runnerConfig(1), posts, outDir, "run", extract, summarize))

	data, err := os.ReadFile(filepath.Join(outDir, "run_summary.md"))
	require.NoError(t, err)
	assert.Empty(t, data, "summary artifact exists but is empty on failure")
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	captureLogs(t)
	outDir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	extract := func(ctx context.Context, model string, batch []models.RawPost) ([]models.AnalysisResult, error) {
		calls++
		return nil, ctx.Err()
	}

	posts := []models.RawPost{
		{ID: "p1", Subreddit: "edtech", Title: "a"},
		{ID: "p2", Subreddit: "edtech", Title: "b"},
	}
	require.NoError(t, run(ctx, runnerConfig(1), posts, outDir, "run", extract, noSummary))

	assert.Zero(t, calls, "no extraction calls after cancellation")

	// artifacts still written so an interrupted run leaves a clean trail
	assert.FileExists(t, filepath.Join(outDir, "run_analysis.jsonl"))
	assert.FileExists(t, filepath.Join(outDir, "run_analysis_per_post.csv"))
}
