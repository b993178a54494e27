package scraper

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"issuescope/internal/models"
)

var postColumns = []string{
	"id", "subreddit", "title", "author", "url", "permalink", "is_self",
	"selftext", "score", "upvote_ratio", "num_comments", "over_18",
	"spoiler", "stickied", "locked", "domain", "link_flair_text",
	"author_flair_text", "created_utc", "created_iso",
	"local_sentiment_score", "local_sentiment_label", "top_comments_str",
}

func postRow(p models.RawPost) []string {
	return []string{
		p.ID,
		p.Subreddit,
		p.Title,
		p.Author,
		p.URL,
		p.Permalink,
		strconv.FormatBool(p.IsSelf),
		p.Selftext,
		strconv.Itoa(p.Score),
		strconv.FormatFloat(p.UpvoteRatio, 'f', -1, 64),
		strconv.Itoa(p.NumComments),
		strconv.FormatBool(p.Over18),
		strconv.FormatBool(p.Spoiler),
		strconv.FormatBool(p.Stickied),
		strconv.FormatBool(p.Locked),
		p.Domain,
		p.LinkFlairText,
		p.AuthorFlairText,
		strconv.FormatInt(p.CreatedUTC, 10),
		p.CreatedISO,
		strconv.FormatFloat(p.LocalSentimentScore, 'f', 4, 64),
		p.LocalSentimentLabel,
		p.TopCommentsStr,
	}
}

// WritePostsCSV writes scraped posts as CSV. No file is written for an
// empty slice; scrape artifacts are per-subreddit and optional.
func WritePostsCSV(path string, posts []models.RawPost) error {
	if len(posts) == 0 {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(postColumns); err != nil {
		return err
	}
	for _, p := range posts {
		if err := w.Write(postRow(p)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WritePostsJSONL writes scraped posts as JSON lines, one object per post.
func WritePostsJSONL(path string, posts []models.RawPost) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, p := range posts {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	return nil
}
