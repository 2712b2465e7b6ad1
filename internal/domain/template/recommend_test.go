package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecommender(t *testing.T) *Recommender {
	t.Helper()
	return NewRecommender(Seed())
}

func TestRecommendEighthGradeScienceFavors7E(t *testing.T) {
	rec := newTestRecommender(t).Recommend(RecommendationContext{
		Grade:   "8th",
		Subject: "Advanced science",
		SLOs:    []string{"a", "b", "c", "d"},
	})

	// 7E collects grade (0.3) + subject (0.4) + complexity (0.2).
	assert.Equal(t, Key7E, rec.Template)
	assert.InDelta(t, 0.9, rec.Confidence, 1e-9)
	assert.InDelta(t, 0.5, rec.Scores[KeyPBL], 1e-9)
	assert.InDelta(t, 0.0, rec.Scores[Key5E], 1e-9)
}

func TestRecommendSeventhGradeMathematicsFavors5E(t *testing.T) {
	rec := newTestRecommender(t).Recommend(RecommendationContext{
		Grade:   "7th",
		Subject: "Mathematics",
		SLOs:    []string{"solve equations"},
	})

	assert.Equal(t, Key5E, rec.Template)
	assert.InDelta(t, 0.9, rec.Confidence, 1e-9)
}

func TestRecommendTieResolvesToEarliestTemplate(t *testing.T) {
	// No grade or subject signal, few SLOs: 5E and Dynamic both score
	// the complexity bonus. The earlier catalog entry must win.
	rec := newTestRecommender(t).Recommend(RecommendationContext{
		Grade: "3rd",
		SLOs:  []string{"one"},
	})

	assert.Equal(t, Key5E, rec.Template)
	assert.InDelta(t, rec.Scores[Key5E], rec.Scores[KeyDynamic], 1e-9)
}

func TestRecommendScoresStayWithinBounds(t *testing.T) {
	rec := newTestRecommender(t).Recommend(RecommendationContext{
		Grade:   "8th",
		Subject: "Complex concepts",
		SLOs:    []string{"a", "b", "c", "d", "e"},
	})

	require.Len(t, rec.Scores, 4)
	for key, score := range rec.Scores {
		assert.GreaterOrEqual(t, score, 0.0, "score for %s", key)
		assert.LessOrEqual(t, score, 1.0, "score for %s", key)
	}
}

func TestRecommendConfidenceRoundedToTwoDecimals(t *testing.T) {
	rec := newTestRecommender(t).Recommend(RecommendationContext{
		Grade:   "8th",
		Subject: "Real-world applications",
		SLOs:    []string{"a", "b", "c", "d"},
	})

	assert.Equal(t, KeyPBL, rec.Template)
	assert.Equal(t, 0.9, rec.Confidence)
}

func TestRecommendEveryTemplateScored(t *testing.T) {
	rec := newTestRecommender(t).Recommend(RecommendationContext{Grade: "8th"})

	for _, key := range Order {
		_, ok := rec.Scores[key]
		assert.True(t, ok, "missing score for %s", key)
	}
}

func TestTemplateHasStageIsCaseInsensitive(t *testing.T) {
	tmpl := Seed()[0]

	assert.True(t, tmpl.HasStage("engage"))
	assert.True(t, tmpl.HasStage("Engage"))
	assert.False(t, tmpl.HasStage("Elicit"))
}

func TestNormalizeAndUpper(t *testing.T) {
	assert.Equal(t, Key5E, Normalize("  5E "))
	assert.Equal(t, "PBL", KeyPBL.Upper())
}
