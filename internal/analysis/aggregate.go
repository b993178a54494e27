package analysis

import (
	"math"
	"sort"
	"strings"

	"issuescope/internal/models"
)

const (
	maxExamplesPerBucket = 5
	defaultSeverity      = 3
)

// IssueBucket accumulates every AnalysisResult sharing a dedupe key.
// Buckets are transient: rebuilt from scratch on each run.
type IssueBucket struct {
	Key         string
	Count       int
	SeveritySum int
	Audiences   map[string]struct{}
	Tags        map[string]struct{}
	Links       map[string]struct{}
	Examples    []models.IssueExample

	firstSeen   int
	exampleSeen map[string]struct{}
}

// AvgSeverity is the bucket's mean severity rounded to two decimals.
func (b *IssueBucket) AvgSeverity() float64 {
	if b.Count == 0 {
		return 0
	}
	return math.Round(float64(b.SeveritySum)/float64(b.Count)*100) / 100
}

// AggregateIssues groups results by lowercased, trimmed dedupe key.
// Results with an empty or whitespace-only key are excluded entirely.
// Stakeholders feed the audiences set and sub_theme feeds the tags set;
// the upstream schema has no separate audience/tag fields.
func AggregateIssues(results []models.AnalysisResult) map[string]*IssueBucket {
	buckets := make(map[string]*IssueBucket)

	for _, r := range results {
		key := strings.ToLower(strings.TrimSpace(r.DedupeKey))
		if key == "" {
			continue
		}

		b, ok := buckets[key]
		if !ok {
			b = &IssueBucket{
				Key:         key,
				Audiences:   make(map[string]struct{}),
				Tags:        make(map[string]struct{}),
				Links:       make(map[string]struct{}),
				firstSeen:   len(buckets),
				exampleSeen: make(map[string]struct{}),
			}
			buckets[key] = b
		}

		b.Count++

		severity := r.Severity
		if severity == 0 {
			severity = defaultSeverity
		}
		b.SeveritySum += severity

		for _, s := range r.Stakeholders {
			if s = strings.TrimSpace(s); s != "" {
				b.Audiences[s] = struct{}{}
			}
		}
		if tag := strings.TrimSpace(r.SubTheme); tag != "" {
			b.Tags[tag] = struct{}{}
		}
		for _, link := range r.UsefulLinks {
			if link = strings.TrimSpace(link); link != "" {
				b.Links[link] = struct{}{}
			}
		}

		exampleKey := r.Subreddit + "\x00" + r.Title
		if _, seen := b.exampleSeen[exampleKey]; !seen && len(b.Examples) < maxExamplesPerBucket {
			b.exampleSeen[exampleKey] = struct{}{}
			b.Examples = append(b.Examples, models.IssueExample{
				Subreddit: r.Subreddit,
				Title:     r.Title,
			})
		}
	}

	return buckets
}

// SortBuckets orders buckets by descending count; ties keep first-seen
// order so output is deterministic per run.
func SortBuckets(buckets map[string]*IssueBucket) []*IssueBucket {
	sorted := make([]*IssueBucket, 0, len(buckets))
	for _, b := range buckets {
		sorted = append(sorted, b)
	}

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].firstSeen < sorted[j].firstSeen
	})
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	return sorted
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
