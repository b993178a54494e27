package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"issuescope/internal/clients"
	"issuescope/internal/models"
)

const maxCommentsPerPost = 5

const systemPrompt = `RAID PROMPT

R — ROLE
You are an EdTech industry analyst and information extractor. You read Reddit posts (and optional top comments) and return structured, decision-ready data about problems in the Education/EdTech space.

A — AUDIENCE
Your output is consumed by a product & research team building dashboards in CSV/Excel/BI to identify recurring issues, their severity, stakeholders, and actionable solution ideas.

I — INTENT
For each post, extract normalized fields that let us quantify and cluster problems:
- Categorize into a consistent EdTech taxonomy.
- Pull problem statements, user questions, proposed solutions, and useful links.
- Estimate sentiment and real-world severity.
- Provide a concise dedupe_key for grouping similar items.

D — DETAILS (RULES, TAXONOMY, RUBRICS, OUTPUT)
1) Taxonomy (theme): choose ONE primary theme from this list:
   Pricing; Certification Value; Content Quality; Outdated Curriculum; LMS/Platform UX; Engagement/Completion;
   Assessment Integrity (cheating, proctoring); Teacher Workload; Student Motivation; Policy/Compliance;
   Accessibility/Equity; Onboarding/Support; Performance/Scale/Reliability; Data/Privacy; Monetization for Creators; Other.
   - sub_theme: short phrase under the theme (e.g., "price hikes vs value", "mobile app bugs", "grading fairness", "outdated Python version").
2) Stakeholders (multi-select, pick those clearly affected): Students; Teachers; Parents; School/Uni Admins; Policymakers; EdTech Startups/Founders; Employers.
3) Problem extraction:
   - Write concrete, user-voiced problem_statements (not generic summaries).
   - Extract questions_users_ask (direct or implied "how do I...?").
   - Extract proposed_solutions (from post/comments; if missing, infer practical next steps but label them as "suggested").
4) Links:
   - Collect any URLs in post/comments that look relevant (docs, blogs, product pages, news).
   - Do NOT invent links. If none, return an empty list.
5) Sentiment & Severity:
   - sentiment is one of {negative, mixed, neutral, positive}. Prefer negative/mixed when complaints dominate.
   - severity_1to5: 1 = minor annoyance; 3 = noticeable friction; 5 = major impact (learning outcomes, compliance, integrity, outages, widespread cost/credential concerns).
6) Dedupe:
   - dedupe_key = short canonical phrase suitable for grouping (e.g., "Certificates not recognized by employers", "Course content outdated", "Proctoring false positives", "LMS mobile app crashes").
7) Scope & noise:
   - Focus on Education/EdTech contexts; if off-topic, set theme = "Other" and still extract useful structure if any.
   - If content is mostly memes/low-signal, minimize problem_statements and keep severity <= 2.
8) Output format:
   - Return strictly JSON using the provided schema (the caller enforces it).
   - Be concise but specific. Avoid repetition. No explanations outside JSON.
`

var themeEnum = []string{
	"Pricing", "Certification Value", "Content Quality", "Outdated Curriculum",
	"LMS/Platform UX", "Engagement/Completion",
	"Assessment Integrity (cheating, proctoring)", "Teacher Workload",
	"Student Motivation", "Policy/Compliance", "Accessibility/Equity",
	"Onboarding/Support", "Performance/Scale/Reliability", "Data/Privacy",
	"Monetization for Creators", "Other",
}

var sentimentEnum = []string{"negative", "mixed", "neutral", "positive"}

func stringArraySchema() jsonschema.Definition {
	return jsonschema.Definition{
		Type:  jsonschema.Array,
		Items: &jsonschema.Definition{Type: jsonschema.String},
	}
}

func analysisResultSchema() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"post_id":             {Type: jsonschema.String},
			"subreddit":           {Type: jsonschema.String},
			"title":               {Type: jsonschema.String},
			"theme":               {Type: jsonschema.String, Enum: themeEnum},
			"sub_theme":           {Type: jsonschema.String},
			"stakeholders":        stringArraySchema(),
			"problem_statements":  stringArraySchema(),
			"questions_users_ask": stringArraySchema(),
			"proposed_solutions":  stringArraySchema(),
			"useful_links":        stringArraySchema(),
			"sentiment":           {Type: jsonschema.String, Enum: sentimentEnum},
			"severity_1to5":       {Type: jsonschema.Integer, Description: "Severity rating from 1 (minor annoyance) to 5 (major impact)"},
			"dedupe_key":          {Type: jsonschema.String},
		},
		Required: []string{"post_id", "subreddit", "title", "theme", "problem_statements", "dedupe_key"},
	}
}

func batchResultSchema() jsonschema.Definition {
	itemSchema := analysisResultSchema()
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"results": {Type: jsonschema.Array, Items: &itemSchema},
		},
		Required: []string{"results"},
	}
}

// buildPromptItems trims each post down to the payload the extraction
// call is allowed to see: id, subreddit, title, body text, up to five
// comment bodies, and the permalink.
func buildPromptItems(batch []models.RawPost) []models.PromptItem {
	items := make([]models.PromptItem, 0, len(batch))
	for _, p := range batch {
		body := strings.TrimSpace(strings.TrimSpace(p.Title) + "\n\n" + strings.TrimSpace(p.Selftext))
		if body == "" {
			body = strings.TrimSpace(p.Title)
		}

		comments := p.TopComments
		if len(comments) > maxCommentsPerPost {
			comments = comments[:maxCommentsPerPost]
		}

		items = append(items, models.PromptItem{
			PostID:    p.ID,
			Subreddit: p.Subreddit,
			Title:     p.Title,
			Text:      body,
			Comments:  comments,
			Permalink: p.Permalink,
		})
	}
	return items
}

// AnalyzeBatch sends one batch to the extraction service and parses the
// structured response, retrying transient failures under the policy. A
// response with fewer results than input posts is not an error.
func AnalyzeBatch(ctx context.Context, model string, batch []models.RawPost) ([]models.AnalysisResult, error) {
	promptItems := buildPromptItems(batch)
	schema := batchResultSchema()

	payload, err := json.Marshal(promptItems)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal prompt items: %w", err)
	}

	request := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role: openai.ChatMessageRoleUser,
				Content: "Analyze these posts and return a JSON object with 'results' (one element per post).\n" +
					string(payload),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "BatchResult",
				Schema: &schema,
			},
		},
	}

	return WithRetry(ctx, DefaultRetryPolicy, func(ctx context.Context) ([]models.AnalysisResult, error) {
		start := time.Now()
		resp, err := clients.GetOpenAIClient().Client.CreateChatCompletion(ctx, request)
		if err != nil {
			return nil, err
		}
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("extraction response contained no choices")
		}

		cleaned := cleanResponse(resp.Choices[0].Message.Content)

		var batchResult models.BatchResult
		if err := json.Unmarshal([]byte(cleaned), &batchResult); err != nil {
			return nil, fmt.Errorf("failed to parse extraction response: %w", err)
		}

		slog.Debug("[Extractor] Batch analyzed",
			slog.Int("posts", len(batch)),
			slog.Int("results", len(batchResult.Results)),
			slog.Duration("elapsed", time.Since(start)))
		return batchResult.Results, nil
	})
}

// cleanResponse strips Markdown code fences some models wrap around JSON.
func cleanResponse(response string) string {
	cleaned := strings.TrimSpace(response)

	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "\n")
		cleaned = strings.TrimSuffix(cleaned, "```")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimPrefix(cleaned, "\n")
		cleaned = strings.TrimSuffix(cleaned, "```")
	}

	return strings.TrimSpace(cleaned)
}
