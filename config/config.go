package config

import (
	"flag"
	"fmt"
	"os"
	"strings"
)

const (
	TableCSV  = "csv"
	TableMD   = "md"
	TableBoth = "both"
)

var listingChoices = map[string]bool{"hot": true, "new": true, "top": true, "rising": true}
var timeFilterChoices = map[string]bool{"all": true, "day": true, "hour": true, "month": true, "week": true, "year": true}

// Config holds the full run configuration: scraping targets, output
// locations, and the analysis knobs consumed by the pipeline.
type Config struct {
	Subreddits     []string
	SubredditsFile string
	Listing        string
	TimeFilter     string
	Limit          int
	OutDir         string
	Prefix         string
	SleepSeconds   float64

	Analyze         bool
	IncludeComments int
	BatchSize       int
	Model           string
	Table           string
	MarkdownTop     int

	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string
	OpenAIAPIKey       string
}

// ParseFlags builds a Config from the command line plus environment.
// Call LoadEnv before this so .env values are visible.
func ParseFlags(args []string) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("issuescope", flag.ContinueOnError)
	subreddits := fs.String("subreddits", "", "Comma-separated subreddit names (without r/)")
	fs.StringVar(&cfg.SubredditsFile, "subreddits-file", "", "Path to a file of subreddit names (comma/space/newline separated)")
	fs.StringVar(&cfg.Listing, "listing", "hot", "Which feed to scrape (hot/new/top/rising)")
	fs.StringVar(&cfg.TimeFilter, "time-filter", "day", "Time filter for the 'top' listing (ignored for others)")
	fs.IntVar(&cfg.Limit, "limit", 100, "Max posts per subreddit")
	fs.StringVar(&cfg.OutDir, "outdir", "out", "Output folder")
	fs.StringVar(&cfg.Prefix, "prefix", "", "Optional filename prefix; auto-generated when omitted")
	fs.Float64Var(&cfg.SleepSeconds, "sleep", 0, "Seconds to sleep between subreddits")
	fs.BoolVar(&cfg.Analyze, "analyze", false, "Run OpenAI analysis on scraped posts")
	fs.IntVar(&cfg.IncludeComments, "include-comments", 0, "Top N comments per post to include in the analysis prompt (0 = none)")
	fs.IntVar(&cfg.BatchSize, "batch-size", 20, "How many posts to analyze per OpenAI call")
	fs.StringVar(&cfg.Model, "model", "", "Override model (else OPENAI_MODEL from .env)")
	fs.StringVar(&cfg.Table, "table", TableCSV, "Tabular export for the analysis: csv, md, or both")
	fs.IntVar(&cfg.MarkdownTop, "md-top", 50, "Max rows for the Markdown preview table")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if *subreddits != "" {
		cfg.Subreddits = splitList(*subreddits)
	}

	cfg.RedditClientID = os.Getenv("REDDIT_CLIENT_ID")
	cfg.RedditClientSecret = os.Getenv("REDDIT_CLIENT_SECRET")
	cfg.RedditUserAgent = getEnv("REDDIT_USER_AGENT", "issuescope-bot/0.1")
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	if cfg.Model == "" {
		cfg.Model = getEnv("OPENAI_MODEL", "gpt-4.1-mini")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate is the only fatal error path in the program; everything past
// this point skips and continues.
func (c *Config) Validate() error {
	if len(c.Subreddits) == 0 && c.SubredditsFile == "" {
		return fmt.Errorf("either -subreddits or -subreddits-file is required")
	}
	if len(c.Subreddits) > 0 && c.SubredditsFile != "" {
		return fmt.Errorf("-subreddits and -subreddits-file are mutually exclusive")
	}
	if !listingChoices[c.Listing] {
		return fmt.Errorf("invalid listing %q (want hot/new/top/rising)", c.Listing)
	}
	if !timeFilterChoices[c.TimeFilter] {
		return fmt.Errorf("invalid time filter %q", c.TimeFilter)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be >= 1, got %d", c.BatchSize)
	}
	if c.MarkdownTop < 1 {
		return fmt.Errorf("md-top must be >= 1, got %d", c.MarkdownTop)
	}
	switch c.Table {
	case TableCSV, TableMD, TableBoth:
	default:
		return fmt.Errorf("invalid table format %q (want csv/md/both)", c.Table)
	}
	if c.RedditClientID == "" || c.RedditClientSecret == "" {
		return fmt.Errorf("missing REDDIT_CLIENT_ID / REDDIT_CLIENT_SECRET in environment")
	}
	if c.Analyze && c.OpenAIAPIKey == "" {
		return fmt.Errorf("missing OPENAI_API_KEY in environment (required with -analyze)")
	}
	return nil
}

// WantsMarkdown reports whether the per-post Markdown table should be written.
func (c *Config) WantsMarkdown() bool {
	return c.Table == TableMD || c.Table == TableBoth
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
