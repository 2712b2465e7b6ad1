package activity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedagogy-hub/reasoner/internal/domain/student"
)

func TestCatalogKnownStages(t *testing.T) {
	catalog := NewCatalog()

	for _, stage := range []string{"Engage", "Explore", "Explain", "Elaborate", "Evaluate"} {
		activities, err := catalog.ForStage(context.Background(), stage, student.StyleUnknown)
		require.NoError(t, err)
		assert.Len(t, activities, 2, "stage %s", stage)
	}
}

func TestCatalogStageMatchIsCaseInsensitive(t *testing.T) {
	catalog := NewCatalog()

	lower, err := catalog.ForStage(context.Background(), "engage", student.StyleUnknown)
	require.NoError(t, err)
	upper, err := catalog.ForStage(context.Background(), " ENGAGE ", student.StyleUnknown)
	require.NoError(t, err)

	require.Len(t, lower, 2)
	assert.Equal(t, lower[0].Title, upper[0].Title)
	assert.Equal(t, "Hook Discussion", lower[0].Title)
}

func TestCatalogUnknownStageYieldsGenericActivity(t *testing.T) {
	catalog := NewCatalog()

	activities, err := catalog.ForStage(context.Background(), "Debrief", student.StyleUnknown)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "Debrief Stage Activity", activities[0].Title)
	assert.Equal(t, TypeDiscussion, activities[0].Type)
}

func TestCatalogCustomizesForLearningStyle(t *testing.T) {
	catalog := NewCatalog()

	visual, err := catalog.ForStage(context.Background(), "Explore", student.StyleVisual)
	require.NoError(t, err)
	assert.Contains(t, visual[0].Materials, "Visual aids")

	kinesthetic, err := catalog.ForStage(context.Background(), "Explore", student.StyleKinesthetic)
	require.NoError(t, err)
	assert.Contains(t, kinesthetic[0].Materials, "Hands-on materials")

	auditory, err := catalog.ForStage(context.Background(), "Explore", student.StyleAuditory)
	require.NoError(t, err)
	assert.NotContains(t, auditory[0].Materials, "Visual aids")
	assert.NotContains(t, auditory[0].Materials, "Hands-on materials")
}

func TestCatalogEntriesStayImmutable(t *testing.T) {
	catalog := NewCatalog()

	first, err := catalog.ForStage(context.Background(), "Engage", student.StyleVisual)
	require.NoError(t, err)
	baseline := len(first[0].Materials)

	// A second customized read must not see the first read's additions.
	second, err := catalog.ForStage(context.Background(), "Engage", student.StyleVisual)
	require.NoError(t, err)
	assert.Len(t, second[0].Materials, baseline)
}

func TestActivityClone(t *testing.T) {
	original := Generic("Assess")
	clone := original.Clone()
	clone.Materials[0] = "changed"

	assert.Equal(t, "Activity materials", original.Materials[0])
}
