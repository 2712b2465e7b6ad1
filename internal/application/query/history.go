package query

import (
	"context"

	"github.com/pedagogy-hub/reasoner/internal/domain/student"
)

// GetStudentHistoryHandler serves a student's learning history.
type GetStudentHistoryHandler struct {
	students student.Repository
	history  student.HistoryRepository
}

// NewGetStudentHistoryHandler creates the handler.
func NewGetStudentHistoryHandler(students student.Repository, history student.HistoryRepository) *GetStudentHistoryHandler {
	return &GetStudentHistoryHandler{students: students, history: history}
}

// Handle returns the student's history, most recent first. The student
// must exist.
func (h *GetStudentHistoryHandler) Handle(ctx context.Context, studentID string) ([]student.HistoryEntry, error) {
	if _, err := h.students.GetByID(ctx, studentID); err != nil {
		return nil, err
	}
	return h.history.GetByStudent(ctx, studentID)
}
