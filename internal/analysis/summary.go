package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"

	"issuescope/internal/clients"
)

const summaryPayloadMaxChars = 60_000

// bucketSummaryView is the JSON shape handed to the summarization call;
// the accumulator sets are flattened into sorted slices first.
type bucketSummaryView struct {
	IssueKey    string   `json:"issue_key"`
	Posts       int      `json:"posts"`
	AvgSeverity float64  `json:"avg_severity"`
	Audiences   []string `json:"audiences"`
	Tags        []string `json:"tags"`
	LinksCount  int      `json:"links_count"`
	Examples    []string `json:"example_titles"`
}

// Summarize asks the model for a short executive bullet list over the
// aggregated buckets and returns the raw text verbatim.
func Summarize(ctx context.Context, model string, buckets map[string]*IssueBucket) (string, error) {
	views := make([]bucketSummaryView, 0, len(buckets))
	for _, b := range SortBuckets(buckets) {
		titles := make([]string, 0, len(b.Examples))
		for _, e := range b.Examples {
			titles = append(titles, e.Title)
		}
		views = append(views, bucketSummaryView{
			IssueKey:    b.Key,
			Posts:       b.Count,
			AvgSeverity: b.AvgSeverity(),
			Audiences:   sortedSet(b.Audiences),
			Tags:        sortedSet(b.Tags),
			LinksCount:  len(b.Links),
			Examples:    titles,
		})
	}

	payload, err := json.Marshal(views)
	if err != nil {
		return "", fmt.Errorf("failed to marshal buckets for summary: %w", err)
	}
	if len(payload) > summaryPayloadMaxChars {
		payload = payload[:summaryPayloadMaxChars]
	}

	resp, err := clients.GetOpenAIClient().Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You condense EdTech issues into crisp bullets for executives.",
			},
			{
				Role: openai.ChatMessageRoleUser,
				Content: "Summarize the top 10 recurring issues from this JSON (each 1 line with a concrete action idea):\n" +
					string(payload),
			},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("summary response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// WriteSummary persists the summary text. On failure upstream an empty
// string is written so the artifact always exists.
func WriteSummary(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
