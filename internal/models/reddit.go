package models

// RawPost is the normalized, flat form of a Reddit submission. It is
// created once per scrape and never mutated afterwards.
type RawPost struct {
	ID              string   `json:"id"`
	Subreddit       string   `json:"subreddit"`
	Title           string   `json:"title"`
	Author          string   `json:"author"`
	URL             string   `json:"url"`
	Permalink       string   `json:"permalink"`
	IsSelf          bool     `json:"is_self"`
	Selftext        string   `json:"selftext"`
	Score           int      `json:"score"`
	UpvoteRatio     float64  `json:"upvote_ratio"`
	NumComments     int      `json:"num_comments"`
	Over18          bool     `json:"over_18"`
	Spoiler         bool     `json:"spoiler"`
	Stickied        bool     `json:"stickied"`
	Locked          bool     `json:"locked"`
	Domain          string   `json:"domain"`
	LinkFlairText   string   `json:"link_flair_text"`
	AuthorFlairText string   `json:"author_flair_text"`
	CreatedUTC      int64    `json:"created_utc"`
	CreatedISO      string   `json:"created_iso"`
	TopComments     []string `json:"top_comments"`
	TopCommentsStr  string   `json:"top_comments_str"`

	// Offline VADER hint computed at normalize time, kept alongside the
	// LLM verdict for comparison in the per-post table.
	LocalSentimentScore float64 `json:"local_sentiment_score"`
	LocalSentimentLabel string  `json:"local_sentiment_label"`
}

type RedditAPIResponse struct {
	Data RedditAPIData `json:"data"`
}

type RedditAPIData struct {
	After    string           `json:"after"`
	Children []RedditAPIChild `json:"children"`
}

type RedditAPIChild struct {
	Kind string             `json:"kind"`
	Data RedditAPIChildData `json:"data"`
}

// RedditAPIChildData carries the submission fields we read off the
// listing endpoint. Comment responses reuse it for the body field.
type RedditAPIChildData struct {
	ID              string  `json:"id"`
	Subreddit       string  `json:"subreddit"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	URL             string  `json:"url"`
	Permalink       string  `json:"permalink"`
	IsSelf          bool    `json:"is_self"`
	Selftext        string  `json:"selftext"`
	Score           int     `json:"score"`
	UpvoteRatio     float64 `json:"upvote_ratio"`
	NumComments     int     `json:"num_comments"`
	Over18          bool    `json:"over_18"`
	Spoiler         bool    `json:"spoiler"`
	Stickied        bool    `json:"stickied"`
	Locked          bool    `json:"locked"`
	Domain          string  `json:"domain"`
	LinkFlairText   string  `json:"link_flair_text"`
	AuthorFlairText string  `json:"author_flair_text"`
	CreatedUTC      float64 `json:"created_utc"`
	Body            string  `json:"body"`
}

type SubredditNamesResponse struct {
	Names []string `json:"names"`
}
