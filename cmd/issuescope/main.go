package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"issuescope/config"
	"issuescope/internal/analysis"
	"issuescope/internal/clients"
	"issuescope/internal/logging"
	"issuescope/internal/scraper"
)

func main() {
	config.LoadEnv(os.Getenv("ENV_FILE"))
	logging.InitLogger(logging.ParseLevel(os.Getenv("LOG_LEVEL")))

	cfg, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("[Main] Invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("[Main] Run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	subreddits := cfg.Subreddits
	if cfg.SubredditsFile != "" {
		var err error
		subreddits, err = scraper.ReadSubredditsFromFile(cfg.SubredditsFile)
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	prefix := cfg.Prefix
	if prefix == "" {
		ts := time.Now().UTC().Format("20060102T150405Z")
		if cfg.Listing == "top" {
			prefix = fmt.Sprintf("%s_%s_%s", cfg.Listing, cfg.TimeFilter, ts)
		} else {
			prefix = fmt.Sprintf("%s_%s", cfg.Listing, ts)
		}
	}

	clients.InitRedditClient(cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent)
	if cfg.Analyze {
		clients.InitOpenAIClient(cfg.OpenAIAPIKey)
	}

	posts := scraper.ScrapeAll(ctx, cfg, subreddits, cfg.OutDir, prefix)

	combinedCSV := filepath.Join(cfg.OutDir, prefix+"_combined.csv")
	combinedJSONL := filepath.Join(cfg.OutDir, prefix+"_combined.jsonl")
	if err := scraper.WritePostsCSV(combinedCSV, posts); err != nil {
		slog.Error("[Main] Failed to write combined CSV", slog.String("error", err.Error()))
	}
	if err := scraper.WritePostsJSONL(combinedJSONL, posts); err != nil {
		slog.Error("[Main] Failed to write combined JSONL", slog.String("error", err.Error()))
	}

	if cfg.Analyze {
		if err := analysis.Run(ctx, cfg, posts, cfg.OutDir, prefix); err != nil {
			return err
		}
	}

	slog.Info("[Main] Done",
		slog.Int("posts", len(posts)),
		slog.String("outdir", cfg.OutDir),
		slog.String("prefix", prefix))
	return nil
}
