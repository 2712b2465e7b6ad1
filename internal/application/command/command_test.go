package command

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedagogy-hub/reasoner/internal/domain/activity"
	"github.com/pedagogy-hub/reasoner/internal/domain/shared"
	"github.com/pedagogy-hub/reasoner/internal/domain/student"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/llm"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/persistence/memory"
)

func newProposeHandler() *ProposeActivitiesHandler {
	return NewProposeActivitiesHandler(
		activity.NewCatalog(),
		llm.NewMockAdvisor(),
		memory.NewInteractionRepository(),
		zerolog.Nop(),
	)
}

func TestProposeActivities(t *testing.T) {
	h := newProposeHandler()

	result, err := h.Handle(context.Background(), ProposeActivitiesInput{
		Stage:         "Engage",
		Grade:         "8th",
		Subject:       "Science",
		LearningStyle: student.StyleVisual,
		Interests:     []string{"robotics"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Engage", result.Stage)
	require.Len(t, result.Activities, 2)
	assert.Contains(t, result.Activities[0].Materials, "Visual aids")
	assert.Contains(t, result.LLMSuggestions, "Engage stage")
	assert.Equal(t, "8th", result.ContextConsiderations.GradeLevel)
	assert.Equal(t, "visual", result.ContextConsiderations.LearningStyle)
	assert.Equal(t, []string{"robotics"}, result.ContextConsiderations.StudentInterests)
}

func TestProposeActivitiesMissingStage(t *testing.T) {
	h := newProposeHandler()

	_, err := h.Handle(context.Background(), ProposeActivitiesInput{Stage: "  "})
	assert.ErrorIs(t, err, shared.ErrEmptyStage)
}

func TestProposeActivitiesUnknownStageFallsBack(t *testing.T) {
	h := newProposeHandler()

	result, err := h.Handle(context.Background(), ProposeActivitiesInput{Stage: "Elicit"})
	require.NoError(t, err)
	require.Len(t, result.Activities, 1)
	assert.Equal(t, "Elicit Stage Activity", result.Activities[0].Title)
	assert.Equal(t, "unknown", result.ContextConsiderations.LearningStyle)
}

func TestCreateLessonPlanFillsEveryStage(t *testing.T) {
	plans := memory.NewLessonPlanRepository()
	h := NewCreateLessonPlanHandler(
		memory.NewSeededStudentRepository(),
		memory.NewTemplateRepository(),
		activity.NewCatalog(),
		plans,
		zerolog.Nop(),
	)

	view, err := h.Handle(context.Background(), CreateLessonPlanInput{
		StudentID: "student_123",
		Template:  "5e",
	})
	require.NoError(t, err)

	assert.Equal(t, "5E", view.Template)
	assert.Equal(t, "complete", view.Status)
	require.Len(t, view.Stages, 5)
	for _, stage := range []string{"Engage", "Explore", "Explain", "Elaborate", "Evaluate"} {
		assert.NotEmpty(t, view.Stages[stage], "stage %s", stage)
	}
	// Seeded student is a visual learner.
	assert.Contains(t, view.Stages["Engage"][0].Materials, "Visual aids")

	stored, err := plans.GetByID(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, "student_123", stored.StudentID)
}

func TestCreateLessonPlanHonorsProvidedStages(t *testing.T) {
	h := NewCreateLessonPlanHandler(
		memory.NewSeededStudentRepository(),
		memory.NewTemplateRepository(),
		activity.NewCatalog(),
		memory.NewLessonPlanRepository(),
		zerolog.Nop(),
	)

	custom := activity.Generic("Challenge")
	custom.Title = "Design Sprint"

	view, err := h.Handle(context.Background(), CreateLessonPlanInput{
		StudentID: "student_456",
		Template:  "PBL",
		Stages: map[string][]activity.Activity{
			"Challenge": {custom},
		},
	})
	require.NoError(t, err)

	require.Len(t, view.Stages["Challenge"], 1)
	assert.Equal(t, "Design Sprint", view.Stages["Challenge"][0].Title)
	assert.NotEmpty(t, view.Stages["Investigate"])
}

func TestCreateLessonPlanValidatesReferences(t *testing.T) {
	h := NewCreateLessonPlanHandler(
		memory.NewSeededStudentRepository(),
		memory.NewTemplateRepository(),
		activity.NewCatalog(),
		memory.NewLessonPlanRepository(),
		zerolog.Nop(),
	)

	_, err := h.Handle(context.Background(), CreateLessonPlanInput{
		StudentID: "student_999",
		Template:  "5e",
	})
	assert.ErrorIs(t, err, shared.ErrStudentNotFound)

	_, err = h.Handle(context.Background(), CreateLessonPlanInput{
		StudentID: "student_123",
		Template:  "6e",
	})
	assert.ErrorIs(t, err, shared.ErrTemplateNotFound)
}

func TestGetLessonPlanNotFound(t *testing.T) {
	h := NewGetLessonPlanHandler(memory.NewLessonPlanRepository())

	_, err := h.Handle(context.Background(), "missing")
	assert.ErrorIs(t, err, shared.ErrLessonPlanNotFound)
}
