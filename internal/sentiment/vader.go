package sentiment

import (
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

var analyzer = govader.NewSentimentIntensityAnalyzer()

var (
	mdLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern    = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

func removeLinks(input string) string {
	input = mdLinkPattern.ReplaceAllString(input, "$1") // keep only the link text
	return urlPattern.ReplaceAllString(input, "")
}

func markdownToText(input string) string {
	// strip links while the markdown syntax is still intact
	output := blackfriday.Run([]byte(removeLinks(input)), blackfriday.WithNoExtensions())
	return strings.Join(strings.Fields(string(output)), " ")
}

// ScorePost produces an offline sentiment hint for a post from its title
// and body. The label thresholds match the compound score convention:
// >= 0.20 positive, <= -0.20 negative, neutral in between.
func ScorePost(title, selftext string) (float64, string) {
	text := strings.TrimSpace(title + "\n\n" + selftext)
	plain := markdownToText(text)

	score := analyzer.PolarityScores(plain).Compound

	var label string
	switch {
	case score >= 0.20:
		label = "positive"
	case score <= -0.20:
		label = "negative"
	default:
		label = "neutral"
	}

	return score, label
}
