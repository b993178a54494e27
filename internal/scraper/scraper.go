package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"issuescope/config"
	"issuescope/internal/clients"
	"issuescope/internal/models"
	"issuescope/internal/sentiment"
)

const commentJoinSeparator = " || "

// Normalize turns a raw API submission into a flat RawPost. Comments are
// attached separately once fetched.
func Normalize(sub models.RedditAPIChildData) models.RawPost {
	createdUTC := int64(sub.CreatedUTC)
	createdISO := time.Unix(createdUTC, 0).UTC().Format("2006-01-02T15:04:05") + "Z"

	title := strings.TrimSpace(strings.ReplaceAll(sub.Title, "\n", " "))
	selftext := strings.TrimSpace(sub.Selftext)

	score, label := sentiment.ScorePost(title, selftext)

	return models.RawPost{
		ID:                  sub.ID,
		Subreddit:           sub.Subreddit,
		Title:               title,
		Author:              sub.Author,
		URL:                 sub.URL,
		Permalink:           "https://reddit.com" + sub.Permalink,
		IsSelf:              sub.IsSelf,
		Selftext:            selftext,
		Score:               sub.Score,
		UpvoteRatio:         sub.UpvoteRatio,
		NumComments:         sub.NumComments,
		Over18:              sub.Over18,
		Spoiler:             sub.Spoiler,
		Stickied:            sub.Stickied,
		Locked:              sub.Locked,
		Domain:              sub.Domain,
		LinkFlairText:       sub.LinkFlairText,
		AuthorFlairText:     sub.AuthorFlairText,
		CreatedUTC:          createdUTC,
		CreatedISO:          createdISO,
		LocalSentimentScore: score,
		LocalSentimentLabel: label,
	}
}

// AttachComments stores the comment bodies on the post in both list form
// (for JSONL) and joined form (safe for CSV).
func AttachComments(post *models.RawPost, comments []string) {
	post.TopComments = comments
	if len(comments) == 0 {
		post.TopCommentsStr = ""
		return
	}

	cleaned := make([]string, 0, len(comments))
	for _, c := range comments {
		cleaned = append(cleaned, strings.TrimSpace(strings.ReplaceAll(c, "\n", " ")))
	}
	post.TopCommentsStr = strings.Join(cleaned, commentJoinSeparator)
}

// ScrapeAll iterates the configured subreddits in order, verifying each
// one before fetching, and writes per-subreddit CSV/JSONL artifacts as it
// goes. Subreddits that cannot be resolved or fetched are skipped; the
// combined slice of everything scraped is returned.
func ScrapeAll(ctx context.Context, cfg *config.Config, subreddits []string, outDir, prefix string) []models.RawPost {
	rc := clients.GetRedditClient()

	var allPosts []models.RawPost
	for i, rawName := range subreddits {
		if ctx.Err() != nil {
			slog.Warn("[Scraper] Context canceled, stopping",
				slog.Int("subreddits_remaining", len(subreddits)-i))
			break
		}

		name := strings.TrimPrefix(strings.TrimSpace(rawName), "r/")

		valid, suggestion, err := rc.VerifySubreddit(ctx, name)
		if valid == "" {
			if suggestion != "" {
				slog.Warn("[Scraper] Subreddit not found",
					slog.String("subreddit", name),
					slog.String("did_you_mean", suggestion))
			} else {
				slog.Warn("[Scraper] Subreddit not found", slog.String("subreddit", name))
			}
			if err != nil {
				slog.Debug("[Scraper] Subreddit lookup error", slog.String("error", err.Error()))
			}
			continue
		}

		posts, err := scrapeOne(ctx, cfg, rc, valid)
		if err != nil {
			slog.Error("[Scraper] Failed to fetch listing",
				slog.String("subreddit", valid),
				slog.String("error", err.Error()))
		} else {
			if len(posts) > 0 {
				base := fmt.Sprintf("%s_r_%s", prefix, valid)
				if err := WritePostsCSV(filepath.Join(outDir, base+".csv"), posts); err != nil {
					slog.Error("[Scraper] Failed to write subreddit CSV", slog.String("error", err.Error()))
				}
				if err := WritePostsJSONL(filepath.Join(outDir, base+".jsonl"), posts); err != nil {
					slog.Error("[Scraper] Failed to write subreddit JSONL", slog.String("error", err.Error()))
				}
			}
			allPosts = append(allPosts, posts...)
		}

		if sleepAfter(err, i, len(subreddits), cfg.SleepSeconds) {
			time.Sleep(time.Duration(cfg.SleepSeconds * float64(time.Second)))
		}
	}

	return allPosts
}

// sleepAfter reports whether the inter-subreddit pause applies: only
// after a successful scrape, and never after the last subreddit.
func sleepAfter(scrapeErr error, index, total int, sleepSeconds float64) bool {
	return scrapeErr == nil && sleepSeconds > 0 && index < total-1
}

func scrapeOne(ctx context.Context, cfg *config.Config, rc *clients.RedditClient, subreddit string) ([]models.RawPost, error) {
	slog.Info("[Scraper] Fetching subreddit",
		slog.String("subreddit", subreddit),
		slog.String("listing", cfg.Listing),
		slog.Int("limit", cfg.Limit))

	submissions, err := rc.FetchListing(ctx, subreddit, cfg.Listing, cfg.TimeFilter, cfg.Limit)
	if err != nil {
		return nil, err
	}

	var posts []models.RawPost
	for _, sub := range submissions {
		post := Normalize(sub)

		if cfg.IncludeComments > 0 {
			comments, err := rc.FetchTopComments(ctx, subreddit, post.ID, cfg.IncludeComments)
			if err != nil {
				slog.Warn("[Scraper] Failed to fetch comments",
					slog.String("post_id", post.ID),
					slog.String("error", err.Error()))
				comments = nil
			}
			AttachComments(&post, comments)
		}

		posts = append(posts, post)
	}

	slog.Info("[Scraper] Scraped subreddit",
		slog.String("subreddit", subreddit),
		slog.Int("posts", len(posts)))
	return posts, nil
}
