// Package student contains the student domain model: the learner profile
// the reasoner builds lesson-planning context from. No external
// dependencies beyond the standard library.
package student

import (
	"strconv"
	"strings"
	"time"

	"github.com/pedagogy-hub/reasoner/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Grade represents a school grade level in ordinal form ("K", "1st" ..
// "12th"). The format is validated on student create and update.
type Grade string

// IsValid reports whether the grade uses the expected ordinal format.
func (g Grade) IsValid() bool {
	s := strings.TrimSpace(string(g))
	if strings.EqualFold(s, "K") {
		return true
	}
	n, suffix, ok := splitOrdinal(s)
	if !ok || n < 1 || n > 12 {
		return false
	}
	return suffix == ordinalSuffix(n)
}

// Number returns the numeric grade level (0 for kindergarten).
func (g Grade) Number() int {
	s := strings.TrimSpace(string(g))
	if strings.EqualFold(s, "K") {
		return 0
	}
	n, _, ok := splitOrdinal(s)
	if !ok {
		return -1
	}
	return n
}

// String returns the string representation of the grade.
func (g Grade) String() string { return string(g) }

func splitOrdinal(s string) (int, string, bool) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(s[:i])
	if err != nil {
		return 0, "", false
	}
	return n, strings.ToLower(s[i:]), true
}

func ordinalSuffix(n int) string {
	switch {
	case n%100 >= 11 && n%100 <= 13:
		return "th"
	case n%10 == 1:
		return "st"
	case n%10 == 2:
		return "nd"
	case n%10 == 3:
		return "rd"
	default:
		return "th"
	}
}

// LearningStyle describes how a student learns best. It steers activity
// material customization.
type LearningStyle string

const (
	StyleVisual      LearningStyle = "visual"
	StyleAuditory    LearningStyle = "auditory"
	StyleKinesthetic LearningStyle = "kinesthetic"
	StyleUnknown     LearningStyle = "unknown"
)

// IsValid reports whether the learning style is a known value.
func (l LearningStyle) IsValid() bool {
	switch l {
	case StyleVisual, StyleAuditory, StyleKinesthetic, StyleUnknown:
		return true
	default:
		return false
	}
}

// Performance grades a past topic outcome in learning history.
type Performance string

const (
	PerformanceExcellent Performance = "excellent"
	PerformanceGood      Performance = "good"
	PerformanceFair      Performance = "fair"
	PerformancePoor      Performance = "poor"
)

// IsValid reports whether the performance is a known value.
func (p Performance) IsValid() bool {
	switch p {
	case PerformanceExcellent, PerformanceGood, PerformanceFair, PerformancePoor:
		return true
	default:
		return false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Info is the descriptive profile section of a student.
type Info struct {
	Name          string        `json:"name"`
	Age           int           `json:"age"`
	LearningStyle LearningStyle `json:"learning_style"`
	Interests     []string      `json:"interests"`
	Strengths     []string      `json:"strengths"`
	Challenges    []string      `json:"challenges"`
}

// Student is the central entity the reasoner plans lessons for.
type Student struct {
	// ID is the external student identifier (e.g. "student_123").
	ID string

	Info Info

	// Grade is the validated ordinal grade level.
	Grade Grade

	// Subject is the current subject focus.
	Subject string

	// SLOs are the target Student Learning Objectives.
	SLOs []string

	// PreSLOs are the prerequisite objectives already covered.
	PreSLOs []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HistoryEntry is one learning-history record for a student.
type HistoryEntry struct {
	ID          int64       `json:"-"`
	StudentID   string      `json:"-"`
	Topic       string      `json:"topic"`
	Performance Performance `json:"performance"`
	Date        time.Time   `json:"date"`
}

// NewStudentParams collects the fields required to create a student.
type NewStudentParams struct {
	ID      string
	Info    Info
	Grade   Grade
	Subject string
	SLOs    []string
	PreSLOs []string
}

// NewStudent validates the parameters and builds a Student.
func NewStudent(p NewStudentParams) (*Student, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, shared.NewDomainError("student", "Create", shared.ErrInvalidID, "student ID is required")
	}
	if strings.TrimSpace(p.Info.Name) == "" {
		return nil, shared.NewDomainError("student", "Create", shared.ErrEmptyValue, "student name is required")
	}
	if !p.Grade.IsValid() {
		return nil, shared.ErrInvalidGrade
	}
	if p.Info.LearningStyle == "" {
		p.Info.LearningStyle = StyleUnknown
	}
	if !p.Info.LearningStyle.IsValid() {
		return nil, shared.NewDomainError("student", "Create", shared.ErrInvalidInput, "unknown learning style")
	}

	now := time.Now().UTC()
	return &Student{
		ID:        p.ID,
		Info:      p.Info,
		Grade:     p.Grade,
		Subject:   p.Subject,
		SLOs:      p.SLOs,
		PreSLOs:   p.PreSLOs,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ChangeGrade updates the grade, enforcing format validation.
func (s *Student) ChangeGrade(g Grade) error {
	if !g.IsValid() {
		return shared.ErrInvalidGrade
	}
	s.Grade = g
	s.UpdatedAt = time.Now().UTC()
	return nil
}
