package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"issuescope/internal/models"
)

const (
	REDDIT_AUTH_URL = "https://www.reddit.com/api/v1/access_token"
	REDDIT_API_URL  = "https://oauth.reddit.com"

	// Reddit allows 100 requests per minute for OAuth clients; stay under it.
	redditRequestsPerMinute = 90
	redditPageSize          = 100
)

var (
	redditClientInstance *RedditClient
	redditClientOnce     sync.Once
)

type RedditClient struct {
	Config    *clientcredentials.Config
	Client    *http.Client
	UserAgent string
	limiter   *rate.Limiter
	mu        sync.Mutex
}

func NewRedditClient(clientID, clientSecret, userAgent string) *RedditClient {
	oauthConf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     REDDIT_AUTH_URL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	return &RedditClient{
		Config:    oauthConf,
		Client:    oauthConf.Client(context.Background()),
		UserAgent: userAgent,
		limiter:   rate.NewLimiter(rate.Limit(float64(redditRequestsPerMinute)/60.0), 1),
	}
}

// InitRedditClient sets up the shared client used across the run.
func InitRedditClient(clientID, clientSecret, userAgent string) {
	redditClientOnce.Do(func() {
		redditClientInstance = NewRedditClient(clientID, clientSecret, userAgent)
	})
}

func GetRedditClient() *RedditClient {
	if redditClientInstance == nil {
		panic("[RedditClient] InitRedditClient must be called before GetRedditClient")
	}
	return redditClientInstance
}

func (rc *RedditClient) refreshClient() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.Client = rc.Config.Client(context.Background())
}

func (rc *RedditClient) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	parsedURL, err := url.Parse(REDDIT_API_URL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("[RedditClient] failed to parse URL: %w", err)
	}
	parsedURL.RawQuery = query.Encode()

	backoff := INITIAL_BACKOFF
	for attempt := 1; ; attempt++ {
		if err := rc.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", rc.UserAgent)

		resp, err := rc.Client.Do(req)
		if err != nil {
			return nil, err
		}

		switch resp.StatusCode {
		case http.StatusOK:
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, err
			}
			return body, nil
		case http.StatusUnauthorized:
			resp.Body.Close()
			slog.Warn("[RedditClient] Token expired - refreshing and retrying")
			rc.refreshClient()
		case http.StatusTooManyRequests:
			resp.Body.Close()
			slog.Warn("[RedditClient] 429 Too Many Requests - backing off",
				slog.Int("attempt", attempt), slog.Duration("backoff", backoff))
			time.Sleep(backoff)
			backoff *= 2
			if backoff > MAX_BACKOFF {
				backoff = MAX_BACKOFF
			}
		default:
			code := resp.StatusCode
			resp.Body.Close()
			return nil, fmt.Errorf("[RedditClient] unexpected status %d for %s", code, endpoint)
		}

		if attempt >= MAX_RETRIES {
			return nil, fmt.Errorf("[RedditClient] max retries reached for %s", endpoint)
		}
	}
}

// VerifySubreddit resolves a subreddit name to its canonical casing. When
// no exact match exists it returns a fuzzy suggestion, if any.
func (rc *RedditClient) VerifySubreddit(ctx context.Context, name string) (valid string, suggestion string, err error) {
	exact, err := rc.searchSubredditNames(ctx, name, true)
	if err == nil && len(exact) > 0 {
		return exact[0], "", nil
	}

	fuzzy, ferr := rc.searchSubredditNames(ctx, name, false)
	if ferr == nil && len(fuzzy) > 0 {
		return "", fuzzy[0], nil
	}
	return "", "", err
}

func (rc *RedditClient) searchSubredditNames(ctx context.Context, name string, exact bool) ([]string, error) {
	query := url.Values{}
	query.Set("query", name)
	query.Set("exact", strconv.FormatBool(exact))

	body, err := rc.get(ctx, "/api/search_reddit_names", query)
	if err != nil {
		return nil, err
	}

	var parsed models.SubredditNamesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("[RedditClient] failed to parse name search response: %w", err)
	}
	return parsed.Names, nil
}

// FetchListing pages through /r/<subreddit>/<listing> until limit
// submissions have been collected or the feed runs out. The time filter
// only applies to the top listing.
func (rc *RedditClient) FetchListing(ctx context.Context, subreddit, listing, timeFilter string, limit int) ([]models.RedditAPIChildData, error) {
	var submissions []models.RedditAPIChildData
	after := ""

	for len(submissions) < limit {
		pageSize := limit - len(submissions)
		if pageSize > redditPageSize {
			pageSize = redditPageSize
		}

		query := url.Values{}
		query.Set("limit", strconv.Itoa(pageSize))
		if listing == "top" {
			query.Set("t", timeFilter)
		}
		if after != "" {
			query.Set("after", after)
		}

		body, err := rc.get(ctx, fmt.Sprintf("/r/%s/%s", subreddit, listing), query)
		if err != nil {
			return nil, err
		}

		var parsed models.RedditAPIResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return nil, fmt.Errorf("[RedditClient] failed to parse listing response: %w", err)
		}

		for _, child := range parsed.Data.Children {
			submissions = append(submissions, child.Data)
		}

		if parsed.Data.After == "" || len(parsed.Data.Children) == 0 {
			break
		}
		after = parsed.Data.After
	}

	if len(submissions) > limit {
		submissions = submissions[:limit]
	}
	return submissions, nil
}

// FetchTopComments returns up to topN top-level comment bodies for a
// submission, skipping empty and non-comment entries.
func (rc *RedditClient) FetchTopComments(ctx context.Context, subreddit, postID string, topN int) ([]string, error) {
	if topN <= 0 {
		return nil, nil
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(topN))
	query.Set("depth", "1")
	query.Set("sort", "top")

	body, err := rc.get(ctx, fmt.Sprintf("/r/%s/comments/%s", subreddit, postID), query)
	if err != nil {
		return nil, err
	}

	// The comments endpoint returns a two-element array: the submission
	// listing followed by the comment listing.
	var listings []models.RedditAPIResponse
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fmt.Errorf("[RedditClient] failed to parse comments response: %w", err)
	}
	if len(listings) < 2 {
		return nil, nil
	}

	var comments []string
	for _, child := range listings[1].Data.Children {
		if child.Kind != "t1" {
			continue
		}
		if text := child.Data.Body; text != "" {
			comments = append(comments, text)
		}
		if len(comments) >= topN {
			break
		}
	}
	return comments, nil
}
