package models

// AnalysisResult is one structured issue record extracted from a single
// post. Every field carries a zero-value default so missing fields in the
// service response never need defensive lookups downstream.
type AnalysisResult struct {
	PostID            string   `json:"post_id"`
	Subreddit         string   `json:"subreddit"`
	Title             string   `json:"title"`
	Theme             string   `json:"theme"`
	SubTheme          string   `json:"sub_theme"`
	Stakeholders      []string `json:"stakeholders"`
	ProblemStatements []string `json:"problem_statements"`
	QuestionsUsersAsk []string `json:"questions_users_ask"`
	ProposedSolutions []string `json:"proposed_solutions"`
	UsefulLinks       []string `json:"useful_links"`
	Sentiment         string   `json:"sentiment"`
	Severity          int      `json:"severity_1to5"`
	DedupeKey         string   `json:"dedupe_key"`
}

// BatchResult is the envelope the extraction service is asked to return:
// one element per analyzable input post. The service may legitimately
// return fewer elements than it was given.
type BatchResult struct {
	Results []AnalysisResult `json:"results"`
}

// PromptItem is the trimmed per-post payload sent to the extraction
// service. Comments are capped at five bodies before marshalling.
type PromptItem struct {
	PostID    string   `json:"post_id"`
	Subreddit string   `json:"subreddit"`
	Title     string   `json:"title"`
	Text      string   `json:"text"`
	Comments  []string `json:"comments"`
	Permalink string   `json:"permalink"`
}

// IssueExample is one (subreddit, title) pair retained as a bucket example.
type IssueExample struct {
	Subreddit string `json:"subreddit"`
	Title     string `json:"title"`
}
