// Package memory implements the in-memory fallback datastore. It serves
// two purposes: development without PostgreSQL (USE_MOCK_DB=true) and
// graceful degradation when the database is unreachable at startup. The
// store is pre-seeded with demo students and the built-in template and
// activity catalogs.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pedagogy-hub/reasoner/internal/domain/shared"
	"github.com/pedagogy-hub/reasoner/internal/domain/student"
)

// StudentRepository is an in-memory student.Repository.
type StudentRepository struct {
	mu       sync.RWMutex
	students map[string]*student.Student
}

// NewStudentRepository creates an empty repository.
func NewStudentRepository() *StudentRepository {
	return &StudentRepository{students: make(map[string]*student.Student)}
}

// NewSeededStudentRepository creates a repository pre-loaded with the
// demo students.
func NewSeededStudentRepository() *StudentRepository {
	r := NewStudentRepository()
	for _, s := range SeedStudents() {
		r.students[s.ID] = s
	}
	return r
}

// Create stores a new student.
func (r *StudentRepository) Create(_ context.Context, s *student.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.students[s.ID]; exists {
		return shared.ErrStudentAlreadyExists
	}
	r.students[s.ID] = cloneStudent(s)
	return nil
}

// GetByID returns a student by external ID.
func (r *StudentRepository) GetByID(_ context.Context, id string) (*student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.students[id]
	if !ok {
		return nil, shared.ErrStudentNotFound
	}
	return cloneStudent(s), nil
}

// Update replaces a student's profile.
func (r *StudentRepository) Update(_ context.Context, s *student.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.students[s.ID]; !ok {
		return shared.ErrStudentNotFound
	}
	r.students[s.ID] = cloneStudent(s)
	return nil
}

// Delete removes a student.
func (r *StudentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.students[id]; !ok {
		return shared.ErrStudentNotFound
	}
	delete(r.students, id)
	return nil
}

// List returns students with pagination, ordered by ID.
func (r *StudentRepository) List(_ context.Context, opts student.ListOptions) ([]*student.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.students))
	for id := range r.students {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	var out []*student.Student
	for i := opts.Offset; i < len(ids) && len(out) < limit; i++ {
		out = append(out, cloneStudent(r.students[ids[i]]))
	}
	return out, nil
}

// Count returns the number of stored students.
func (r *StudentRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.students), nil
}

func cloneStudent(s *student.Student) *student.Student {
	c := *s
	c.Info.Interests = append([]string(nil), s.Info.Interests...)
	c.Info.Strengths = append([]string(nil), s.Info.Strengths...)
	c.Info.Challenges = append([]string(nil), s.Info.Challenges...)
	c.SLOs = append([]string(nil), s.SLOs...)
	c.PreSLOs = append([]string(nil), s.PreSLOs...)
	return &c
}

// HistoryRepository is an in-memory student.HistoryRepository.
type HistoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	entries map[string][]student.HistoryEntry
}

// NewHistoryRepository creates an empty history repository.
func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{nextID: 1, entries: make(map[string][]student.HistoryEntry)}
}

// NewSeededHistoryRepository creates a history repository pre-loaded
// with the demo students' history.
func NewSeededHistoryRepository() *HistoryRepository {
	r := NewHistoryRepository()
	for studentID, entries := range SeedHistory() {
		for _, e := range entries {
			e.ID = r.nextID
			r.nextID++
			e.StudentID = studentID
			r.entries[studentID] = append(r.entries[studentID], e)
		}
	}
	return r
}

// AddEntry appends a learning-history record.
func (r *HistoryRepository) AddEntry(_ context.Context, entry *student.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry.ID = r.nextID
	r.nextID++
	r.entries[entry.StudentID] = append(r.entries[entry.StudentID], *entry)
	return nil
}

// GetByStudent returns a student's history, most recent first.
func (r *HistoryRepository) GetByStudent(_ context.Context, studentID string) ([]student.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := append([]student.HistoryEntry(nil), r.entries[studentID]...)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date.Equal(entries[j].Date) {
			return entries[i].ID > entries[j].ID
		}
		return entries[i].Date.After(entries[j].Date)
	})
	return entries, nil
}
