// Package lessonplan contains the lesson plan aggregate: a template
// instantiated for a student with activities assigned per stage.
package lessonplan

import (
	"context"
	"strings"
	"time"

	"github.com/pedagogy-hub/reasoner/internal/domain/activity"
	"github.com/pedagogy-hub/reasoner/internal/domain/shared"
	"github.com/pedagogy-hub/reasoner/internal/domain/template"
)

// Status tracks the lifecycle of a plan.
type Status string

const (
	// StatusDraft is a plan still being composed.
	StatusDraft Status = "draft"
	// StatusComplete is a plan with every stage populated.
	StatusComplete Status = "complete"
)

// IsValid reports whether the status is a known value.
func (s Status) IsValid() bool {
	return s == StatusDraft || s == StatusComplete
}

// LessonPlan ties a student, a template, and per-stage activities
// together.
type LessonPlan struct {
	// ID is a UUID assigned on creation.
	ID string

	StudentID string
	Template  template.Key

	// Stages maps stage name to the activities chosen for it.
	Stages map[string][]activity.Activity

	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewLessonPlan validates and builds a draft plan.
func NewLessonPlan(id, studentID string, tmpl template.Key) (*LessonPlan, error) {
	if strings.TrimSpace(id) == "" {
		return nil, shared.NewDomainError("lessonplan", "Create", shared.ErrInvalidID, "plan ID is required")
	}
	if strings.TrimSpace(studentID) == "" {
		return nil, shared.NewDomainError("lessonplan", "Create", shared.ErrInvalidID, "student ID is required")
	}
	if tmpl == "" {
		return nil, shared.NewDomainError("lessonplan", "Create", shared.ErrEmptyValue, "template is required")
	}

	now := time.Now().UTC()
	return &LessonPlan{
		ID:        id,
		StudentID: studentID,
		Template:  tmpl,
		Stages:    make(map[string][]activity.Activity),
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetStage assigns activities to a stage.
func (p *LessonPlan) SetStage(stage string, activities []activity.Activity) {
	p.Stages[stage] = activities
	p.UpdatedAt = time.Now().UTC()
}

// Complete marks the plan complete once every template stage has at
// least one activity.
func (p *LessonPlan) Complete(tmpl *template.Template) error {
	for _, stage := range tmpl.Stages {
		if len(p.Stages[stage]) == 0 {
			return shared.WrapError("lessonplan", "Complete", shared.ErrInvalidState,
				"stage "+stage+" has no activities", nil)
		}
	}
	p.Status = StatusComplete
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// Repository defines storage operations for lesson plans.
type Repository interface {
	// Create stores a new plan.
	Create(ctx context.Context, plan *LessonPlan) error

	// GetByID returns a plan by ID.
	// Returns shared.ErrLessonPlanNotFound if absent.
	GetByID(ctx context.Context, id string) (*LessonPlan, error)

	// GetByStudent returns all plans for a student, most recent first.
	GetByStudent(ctx context.Context, studentID string) ([]*LessonPlan, error)

	// Update replaces a stored plan.
	// Returns shared.ErrLessonPlanNotFound if absent.
	Update(ctx context.Context, plan *LessonPlan) error
}
