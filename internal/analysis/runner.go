package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"issuescope/config"
	"issuescope/internal/models"
)

type extractFunc func(ctx context.Context, model string, batch []models.RawPost) ([]models.AnalysisResult, error)

type summarizeFunc func(ctx context.Context, model string, buckets map[string]*IssueBucket) (string, error)

// Run drives the extraction pipeline over the scraped posts: batch,
// extract with retry, then write every analysis artifact. Batches are
// processed strictly one at a time in input order; a batch whose service
// call exhausts all attempts is skipped and the run continues.
func Run(ctx context.Context, cfg *config.Config, posts []models.RawPost, outDir, prefix string) error {
	return run(ctx, cfg, posts, outDir, prefix, AnalyzeBatch, Summarize)
}

func run(ctx context.Context, cfg *config.Config, posts []models.RawPost, outDir, prefix string, extract extractFunc, summarize summarizeFunc) error {
	batches := Batches(posts, cfg.BatchSize)
	slog.Info("[Analysis] Starting extraction",
		slog.Int("posts", len(posts)),
		slog.Int("batches", len(batches)),
		slog.Int("batch_size", cfg.BatchSize),
		slog.String("model", cfg.Model))

	var results []models.AnalysisResult
	for i, batch := range batches {
		if ctx.Err() != nil {
			slog.Warn("[Analysis] Context canceled, stopping extraction",
				slog.Int("batches_remaining", len(batches)-i))
			break
		}

		batchStart := i * cfg.BatchSize
		batchEnd := batchStart + len(batch)

		batchResults, err := extract(ctx, cfg.Model, batch)
		if err != nil {
			slog.Error("[Analysis] Extraction failed for batch, skipping",
				slog.Int("batch_start", batchStart),
				slog.Int("batch_end", batchEnd),
				slog.String("error", err.Error()))
			continue
		}
		if len(batchResults) < len(batch) {
			slog.Debug("[Analysis] Service returned fewer results than posts",
				slog.Int("posts", len(batch)),
				slog.Int("results", len(batchResults)))
		}
		results = append(results, batchResults...)
	}

	rawPath := filepath.Join(outDir, prefix+"_analysis.jsonl")
	if err := WriteAnalysisJSONL(rawPath, results); err != nil {
		return fmt.Errorf("writing raw analysis: %w", err)
	}

	buckets := AggregateIssues(results)

	aggPath := filepath.Join(outDir, prefix+"_issues_aggregated.csv")
	if err := WriteAggregatedCSV(aggPath, buckets); err != nil {
		return fmt.Errorf("writing aggregated issues: %w", err)
	}

	// Best effort: a failed summary never aborts the run, but the
	// artifact is always written.
	summaryPath := filepath.Join(outDir, prefix+"_summary.md")
	summary, err := summarize(ctx, cfg.Model, buckets)
	if err != nil {
		slog.Warn("[Analysis] Summary generation failed",
			slog.String("error", err.Error()))
		summary = ""
	}
	if err := WriteSummary(summaryPath, summary); err != nil {
		slog.Warn("[Analysis] Failed to write summary", slog.String("error", err.Error()))
	}

	perPostCSV := filepath.Join(outDir, prefix+"_analysis_per_post.csv")
	if err := WritePerPostCSV(perPostCSV, results); err != nil {
		return fmt.Errorf("writing per-post CSV: %w", err)
	}

	if cfg.WantsMarkdown() {
		perPostMD := filepath.Join(outDir, prefix+"_analysis_per_post.md")
		if err := WritePerPostMarkdown(perPostMD, results, cfg.MarkdownTop); err != nil {
			return fmt.Errorf("writing per-post Markdown: %w", err)
		}
	}

	slog.Info("[Analysis] Analysis saved",
		slog.Int("results", len(results)),
		slog.Int("issues", len(buckets)),
		slog.String("raw", rawPath),
		slog.String("aggregated", aggPath))
	return nil
}
