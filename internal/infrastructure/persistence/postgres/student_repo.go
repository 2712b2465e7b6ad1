package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pedagogy-hub/reasoner/internal/domain/shared"
	"github.com/pedagogy-hub/reasoner/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

const studentColumns = `id, name, age, learning_style, interests, strengths, challenges,
	   grade, subject, slos, pre_slos, created_at, updated_at`

// Create stores a new student.
func (r *StudentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO students (
			id, name, age, learning_style, interests, strengths, challenges,
			grade, subject, slos, pre_slos, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	interests, strengths, challenges, slos, preSLOs, err := marshalStudentLists(s)
	if err != nil {
		return err
	}

	_, err = r.conn.Exec(ctx, query,
		s.ID,
		s.Info.Name,
		s.Info.Age,
		string(s.Info.LearningStyle),
		interests,
		strengths,
		challenges,
		string(s.Grade),
		s.Subject,
		slos,
		preSLOs,
		s.CreatedAt,
		s.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrStudentAlreadyExists
		}
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// GetByID returns a student by external ID.
func (r *StudentRepository) GetByID(ctx context.Context, id string) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1`
	return r.scanStudent(r.conn.QueryRow(ctx, query, id))
}

// Update replaces a student's profile.
func (r *StudentRepository) Update(ctx context.Context, s *student.Student) error {
	query := `
		UPDATE students SET
			name = $1,
			age = $2,
			learning_style = $3,
			interests = $4,
			strengths = $5,
			challenges = $6,
			grade = $7,
			subject = $8,
			slos = $9,
			pre_slos = $10,
			updated_at = $11
		WHERE id = $12
	`

	interests, strengths, challenges, slos, preSLOs, err := marshalStudentLists(s)
	if err != nil {
		return err
	}

	result, err := r.conn.Exec(ctx, query,
		s.Info.Name,
		s.Info.Age,
		string(s.Info.LearningStyle),
		interests,
		strengths,
		challenges,
		string(s.Grade),
		s.Subject,
		slos,
		preSLOs,
		time.Now().UTC(),
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}
	return nil
}

// Delete removes a student. Learning history cascades.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.conn.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	if result.RowsAffected() == 0 {
		return shared.ErrStudentNotFound
	}
	return nil
}

// List returns students with pagination, ordered by ID.
func (r *StudentRepository) List(ctx context.Context, opts student.ListOptions) ([]*student.Student, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + studentColumns + ` FROM students ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.conn.Query(ctx, query, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	var students []*student.Student
	for rows.Next() {
		s, err := r.scanStudentRow(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, s)
	}
	return students, rows.Err()
}

// Count returns the number of stored students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scanning helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *StudentRepository) scanStudent(row pgx.Row) (*student.Student, error) {
	s, err := scanStudentFrom(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}
	return s, nil
}

func (r *StudentRepository) scanStudentRow(rows pgx.Rows) (*student.Student, error) {
	s, err := scanStudentFrom(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan student row: %w", err)
	}
	return s, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanStudentFrom(sc scanner) (*student.Student, error) {
	var (
		s                                         student.Student
		style                                     string
		grade                                     string
		interests, strengths, challenges          []byte
		slos, preSLOs                             []byte
	)

	err := sc.Scan(
		&s.ID,
		&s.Info.Name,
		&s.Info.Age,
		&style,
		&interests,
		&strengths,
		&challenges,
		&grade,
		&s.Subject,
		&slos,
		&preSLOs,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.Info.LearningStyle = student.LearningStyle(style)
	s.Grade = student.Grade(grade)

	for _, pair := range []struct {
		raw []byte
		dst *[]string
	}{
		{interests, &s.Info.Interests},
		{strengths, &s.Info.Strengths},
		{challenges, &s.Info.Challenges},
		{slos, &s.SLOs},
		{preSLOs, &s.PreSLOs},
	} {
		if len(pair.raw) > 0 {
			if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
				return nil, fmt.Errorf("failed to unmarshal student list: %w", err)
			}
		}
	}
	return &s, nil
}

func marshalStudentLists(s *student.Student) (interests, strengths, challenges, slos, preSLOs []byte, err error) {
	for _, pair := range []struct {
		src []string
		dst *[]byte
	}{
		{s.Info.Interests, &interests},
		{s.Info.Strengths, &strengths},
		{s.Info.Challenges, &challenges},
		{s.SLOs, &slos},
		{s.PreSLOs, &preSLOs},
	} {
		src := pair.src
		if src == nil {
			src = []string{}
		}
		*pair.dst, err = json.Marshal(src)
		if err != nil {
			return nil, nil, nil, nil, nil, fmt.Errorf("failed to marshal student list: %w", err)
		}
	}
	return interests, strengths, challenges, slos, preSLOs, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// LEARNING HISTORY REPOSITORY
// ══════════════════════════════════════════════════════════════════════════════

// HistoryRepository implements student.HistoryRepository for PostgreSQL.
type HistoryRepository struct {
	conn *Connection
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(conn *Connection) *HistoryRepository {
	return &HistoryRepository{conn: conn}
}

// AddEntry appends a learning-history record.
func (r *HistoryRepository) AddEntry(ctx context.Context, entry *student.HistoryEntry) error {
	query := `
		INSERT INTO learning_history (student_id, topic, performance, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.conn.QueryRow(ctx, query,
		entry.StudentID,
		entry.Topic,
		string(entry.Performance),
		entry.Date,
	).Scan(&entry.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrStudentNotFound
		}
		return fmt.Errorf("failed to add history entry: %w", err)
	}
	return nil
}

// GetByStudent returns a student's history, most recent first.
func (r *HistoryRepository) GetByStudent(ctx context.Context, studentID string) ([]student.HistoryEntry, error) {
	query := `
		SELECT id, student_id, topic, performance, date
		FROM learning_history
		WHERE student_id = $1
		ORDER BY date DESC, id DESC
	`

	rows, err := r.conn.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query learning history: %w", err)
	}
	defer rows.Close()

	var entries []student.HistoryEntry
	for rows.Next() {
		var e student.HistoryEntry
		var perf string
		if err := rows.Scan(&e.ID, &e.StudentID, &e.Topic, &perf, &e.Date); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.Performance = student.Performance(perf)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
