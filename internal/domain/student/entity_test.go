package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pedagogy-hub/reasoner/internal/domain/shared"
)

func TestGradeIsValid(t *testing.T) {
	valid := []Grade{"K", "k", "1st", "2nd", "3rd", "4th", "7th", "8th", "11th", "12th"}
	for _, g := range valid {
		assert.True(t, g.IsValid(), "grade %q should be valid", g)
	}

	invalid := []Grade{"", "0th", "13th", "8", "eighth", "1th", "2th", "3st", "-1st"}
	for _, g := range invalid {
		assert.False(t, g.IsValid(), "grade %q should be invalid", g)
	}
}

func TestGradeNumber(t *testing.T) {
	assert.Equal(t, 0, Grade("K").Number())
	assert.Equal(t, 8, Grade("8th").Number())
	assert.Equal(t, 12, Grade("12th").Number())
	assert.Equal(t, -1, Grade("eighth").Number())
}

func TestNewStudentValidation(t *testing.T) {
	params := NewStudentParams{
		ID:      "student_789",
		Info:    Info{Name: "Kai Tran", Age: 14, LearningStyle: StyleAuditory},
		Grade:   "8th",
		Subject: "Science",
	}

	s, err := NewStudent(params)
	require.NoError(t, err)
	assert.Equal(t, "student_789", s.ID)
	assert.False(t, s.CreatedAt.IsZero())

	params.ID = ""
	_, err = NewStudent(params)
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	params.ID = "student_789"
	params.Grade = "8"
	_, err = NewStudent(params)
	assert.ErrorIs(t, err, shared.ErrInvalidGrade)
}

func TestNewStudentDefaultsLearningStyle(t *testing.T) {
	s, err := NewStudent(NewStudentParams{
		ID:    "student_1",
		Info:  Info{Name: "A"},
		Grade: "K",
	})
	require.NoError(t, err)
	assert.Equal(t, StyleUnknown, s.Info.LearningStyle)
}

func TestChangeGrade(t *testing.T) {
	s, err := NewStudent(NewStudentParams{
		ID:    "student_1",
		Info:  Info{Name: "A"},
		Grade: "7th",
	})
	require.NoError(t, err)

	require.NoError(t, s.ChangeGrade("8th"))
	assert.Equal(t, Grade("8th"), s.Grade)

	assert.ErrorIs(t, s.ChangeGrade("13th"), shared.ErrInvalidGrade)
	assert.Equal(t, Grade("8th"), s.Grade)
}
