package student

import (
	"context"
)

// ListOptions controls pagination for bulk reads.
type ListOptions struct {
	Limit  int
	Offset int
}

// Repository defines storage operations for students. Implementations
// live in infrastructure/persistence (PostgreSQL and the in-memory mock).
type Repository interface {
	// Create stores a new student.
	// Returns shared.ErrStudentAlreadyExists if the ID is taken.
	Create(ctx context.Context, s *Student) error

	// GetByID returns a student by external ID.
	// Returns shared.ErrStudentNotFound if absent.
	GetByID(ctx context.Context, id string) (*Student, error)

	// Update replaces a student's profile.
	// Returns shared.ErrStudentNotFound if absent.
	Update(ctx context.Context, s *Student) error

	// Delete removes a student.
	// Returns shared.ErrStudentNotFound if absent.
	Delete(ctx context.Context, id string) error

	// List returns students with pagination, ordered by ID.
	List(ctx context.Context, opts ListOptions) ([]*Student, error)

	// Count returns the number of stored students.
	Count(ctx context.Context) (int, error)
}

// HistoryRepository defines storage operations for learning history.
type HistoryRepository interface {
	// AddEntry appends a learning-history record for a student.
	AddEntry(ctx context.Context, entry *HistoryEntry) error

	// GetByStudent returns a student's history, most recent first.
	GetByStudent(ctx context.Context, studentID string) ([]HistoryEntry, error)
}
