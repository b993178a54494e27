package scraper

import (
	"fmt"
	"os"
	"strings"
)

// ReadSubredditsFromFile parses a file of subreddit names. Names may be
// separated by whitespace or commas, lines may carry # comments, an
// optional r/ prefix is stripped, and duplicates are removed
// case-insensitively while preserving first-seen order.
func ReadSubredditsFromFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read subreddits file: %w", err)
	}

	var raw []string
	for _, line := range strings.Split(string(data), "\n") {
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, part := range strings.Fields(strings.ReplaceAll(line, ",", " ")) {
			raw = append(raw, part)
		}
	}

	seen := make(map[string]struct{})
	var cleaned []string
	for _, name := range raw {
		name = strings.TrimSpace(strings.TrimPrefix(name, "r/"))
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		cleaned = append(cleaned, name)
	}

	if len(cleaned) == 0 {
		return nil, fmt.Errorf("no subreddit names found in %s", path)
	}
	return cleaned, nil
}
