package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScorePostLabels(t *testing.T) {
	score, label := ScorePost("This course is amazing", "I love it, best learning experience ever!")
	assert.Equal(t, "positive", label)
	assert.GreaterOrEqual(t, score, 0.20)

	score, label = ScorePost("This platform is terrible", "I hate it, worst support, total scam.")
	assert.Equal(t, "negative", label)
	assert.LessOrEqual(t, score, -0.20)

	_, label = ScorePost("Course schedule", "The class meets on Tuesdays.")
	assert.Equal(t, "neutral", label)
}

func TestScorePostIgnoresLinks(t *testing.T) {
	withLink, _ := ScorePost("Great course", "I love it! [docs](https://example.com/docs) https://example.com")
	without, _ := ScorePost("Great course", "I love it! docs")
	assert.InDelta(t, without, withLink, 0.0001, "markdown and bare links are stripped before scoring")
}

func TestScorePostDeterministic(t *testing.T) {
	a, la := ScorePost("Mixed feelings", "Some parts are great, others are awful.")
	b, lb := ScorePost("Mixed feelings", "Some parts are great, others are awful.")
	assert.Equal(t, a, b)
	assert.Equal(t, la, lb)
}
