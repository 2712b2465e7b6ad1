package lessonplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedagogy-hub/reasoner/internal/domain/activity"
	"github.com/pedagogy-hub/reasoner/internal/domain/shared"
	"github.com/pedagogy-hub/reasoner/internal/domain/template"
)

func TestNewLessonPlanValidation(t *testing.T) {
	plan, err := NewLessonPlan("plan-1", "student_123", template.Key5E)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, plan.Status)
	assert.NotNil(t, plan.Stages)

	_, err = NewLessonPlan("", "student_123", template.Key5E)
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = NewLessonPlan("plan-1", "", template.Key5E)
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = NewLessonPlan("plan-1", "student_123", "")
	assert.ErrorIs(t, err, shared.ErrEmptyValue)
}

func TestCompleteRequiresEveryStage(t *testing.T) {
	tmpl := template.Seed()[0] // 5E, five stages

	plan, err := NewLessonPlan("plan-1", "student_123", tmpl.Key)
	require.NoError(t, err)

	for _, stage := range tmpl.Stages[:len(tmpl.Stages)-1] {
		plan.SetStage(stage, []activity.Activity{activity.Generic(stage)})
	}

	err = plan.Complete(tmpl)
	assert.ErrorIs(t, err, shared.ErrInvalidState)
	assert.Equal(t, StatusDraft, plan.Status)

	last := tmpl.Stages[len(tmpl.Stages)-1]
	plan.SetStage(last, []activity.Activity{activity.Generic(last)})

	require.NoError(t, plan.Complete(tmpl))
	assert.Equal(t, StatusComplete, plan.Status)
}
