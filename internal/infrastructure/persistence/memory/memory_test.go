package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedagogy-hub/reasoner/internal/domain/activity"
	"github.com/pedagogy-hub/reasoner/internal/domain/lessonplan"
	"github.com/pedagogy-hub/reasoner/internal/domain/shared"
	"github.com/pedagogy-hub/reasoner/internal/domain/student"
	"github.com/pedagogy-hub/reasoner/internal/domain/template"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/llm"
)

func TestSeededStudents(t *testing.T) {
	repo := NewSeededStudentRepository()
	ctx := context.Background()

	alex, err := repo.GetByID(ctx, "student_123")
	require.NoError(t, err)
	assert.Equal(t, "Alex Johnson", alex.Info.Name)
	assert.Equal(t, student.StyleVisual, alex.Info.LearningStyle)
	assert.Equal(t, student.Grade("8th"), alex.Grade)
	assert.Equal(t, "Science", alex.Subject)

	sam, err := repo.GetByID(ctx, "student_456")
	require.NoError(t, err)
	assert.Equal(t, "Sam Rivera", sam.Info.Name)
	assert.Equal(t, student.StyleKinesthetic, sam.Info.LearningStyle)
	assert.Equal(t, student.Grade("7th"), sam.Grade)

	_, err = repo.GetByID(ctx, "student_999")
	assert.ErrorIs(t, err, shared.ErrStudentNotFound)
}

func TestStudentCRUD(t *testing.T) {
	repo := NewStudentRepository()
	ctx := context.Background()

	s, err := student.NewStudent(student.NewStudentParams{
		ID:    "student_1",
		Info:  student.Info{Name: "Nia"},
		Grade: "5th",
	})
	require.NoError(t, err)

	require.NoError(t, repo.Create(ctx, s))
	assert.ErrorIs(t, repo.Create(ctx, s), shared.ErrStudentAlreadyExists)

	s.Subject = "History"
	require.NoError(t, repo.Update(ctx, s))

	got, err := repo.GetByID(ctx, "student_1")
	require.NoError(t, err)
	assert.Equal(t, "History", got.Subject)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, repo.Delete(ctx, "student_1"))
	assert.ErrorIs(t, repo.Delete(ctx, "student_1"), shared.ErrStudentNotFound)
}

func TestStudentGetReturnsCopy(t *testing.T) {
	repo := NewSeededStudentRepository()
	ctx := context.Background()

	first, err := repo.GetByID(ctx, "student_123")
	require.NoError(t, err)
	first.Info.Interests[0] = "mutated"

	second, err := repo.GetByID(ctx, "student_123")
	require.NoError(t, err)
	assert.Equal(t, "robotics", second.Info.Interests[0])
}

func TestStudentListPagination(t *testing.T) {
	repo := NewSeededStudentRepository()
	ctx := context.Background()

	all, err := repo.List(ctx, student.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "student_123", all[0].ID)

	page, err := repo.List(ctx, student.ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "student_456", page[0].ID)
}

func TestSeededHistoryMostRecentFirst(t *testing.T) {
	repo := NewSeededHistoryRepository()

	entries, err := repo.GetByStudent(context.Background(), "student_123")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Physics fundamentals", entries[0].Topic)
	assert.Equal(t, "Chemistry basics", entries[1].Topic)
}

func TestHistoryAddEntryAssignsID(t *testing.T) {
	repo := NewHistoryRepository()
	ctx := context.Background()

	entry := &student.HistoryEntry{
		StudentID:   "student_1",
		Topic:       "Cell biology",
		Performance: student.PerformanceGood,
		Date:        time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.AddEntry(ctx, entry))
	assert.Equal(t, int64(1), entry.ID)

	entries, err := repo.GetByStudent(ctx, "student_1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Cell biology", entries[0].Topic)
}

func TestTemplateRepositoryCatalog(t *testing.T) {
	repo := NewTemplateRepository()
	ctx := context.Background()

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, template.Key5E, all[0].Key)
	assert.Equal(t, template.KeyDynamic, all[3].Key)

	tmpl, err := repo.GetByKey(ctx, template.KeyPBL)
	require.NoError(t, err)
	assert.Equal(t, "Problem-Based Learning", tmpl.Name)

	_, err = repo.GetByKey(ctx, "6e")
	assert.ErrorIs(t, err, shared.ErrTemplateNotFound)
}

func TestLessonPlanRepository(t *testing.T) {
	repo := NewLessonPlanRepository()
	ctx := context.Background()

	plan, err := lessonplan.NewLessonPlan("plan-1", "student_123", template.Key5E)
	require.NoError(t, err)
	plan.SetStage("Engage", []activity.Activity{activity.Generic("Engage")})

	require.NoError(t, repo.Create(ctx, plan))
	assert.ErrorIs(t, repo.Create(ctx, plan), shared.ErrAlreadyExists)

	got, err := repo.GetByID(ctx, "plan-1")
	require.NoError(t, err)
	assert.Len(t, got.Stages["Engage"], 1)

	// Stored plans must not alias caller slices.
	got.Stages["Engage"][0].Title = "mutated"
	again, err := repo.GetByID(ctx, "plan-1")
	require.NoError(t, err)
	assert.Equal(t, "Engage Stage Activity", again.Stages["Engage"][0].Title)

	byStudent, err := repo.GetByStudent(ctx, "student_123")
	require.NoError(t, err)
	assert.Len(t, byStudent, 1)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, shared.ErrLessonPlanNotFound)
}

func TestInteractionRepositoryMostRecentFirst(t *testing.T) {
	repo := NewInteractionRepository()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.Record(ctx, &llm.Interaction{
			ID:        id,
			StudentID: "student_123",
			Kind:      llm.KindGeneric,
			CreatedAt: time.Now().UTC(),
		}))
	}

	got, err := repo.GetByStudent(ctx, "student_123")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "a", got[2].ID)
}
