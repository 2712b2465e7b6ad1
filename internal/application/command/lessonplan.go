package command

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pedagogy-hub/reasoner/internal/domain/activity"
	"github.com/pedagogy-hub/reasoner/internal/domain/lessonplan"
	"github.com/pedagogy-hub/reasoner/internal/domain/student"
	"github.com/pedagogy-hub/reasoner/internal/domain/template"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/metrics"
)

// CreateLessonPlanInput names the student and template a plan is built
// for. Stages may pre-assign activities; stages left out are filled
// from the activity catalog, customized for the student.
type CreateLessonPlanInput struct {
	StudentID string                         `json:"student_id"`
	Template  string                         `json:"template"`
	Stages    map[string][]activity.Activity `json:"stages,omitempty"`
}

// LessonPlanView is the plan payload shape.
type LessonPlanView struct {
	ID        string                         `json:"id"`
	StudentID string                         `json:"student_id"`
	Template  string                         `json:"template"`
	Stages    map[string][]activity.Activity `json:"stages"`
	Status    string                         `json:"status"`
	CreatedAt time.Time                      `json:"created_at"`
	UpdatedAt time.Time                      `json:"updated_at"`
}

// NewLessonPlanView converts a plan to its payload shape.
func NewLessonPlanView(p *lessonplan.LessonPlan) *LessonPlanView {
	return &LessonPlanView{
		ID:        p.ID,
		StudentID: p.StudentID,
		Template:  p.Template.Upper(),
		Stages:    p.Stages,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// CreateLessonPlanHandler composes and persists a lesson plan.
type CreateLessonPlanHandler struct {
	students   student.Repository
	templates  template.Repository
	activities activity.Source
	plans      lessonplan.Repository
	log        zerolog.Logger
}

// NewCreateLessonPlanHandler creates the handler.
func NewCreateLessonPlanHandler(
	students student.Repository,
	templates template.Repository,
	activities activity.Source,
	plans lessonplan.Repository,
	log zerolog.Logger,
) *CreateLessonPlanHandler {
	return &CreateLessonPlanHandler{
		students:   students,
		templates:  templates,
		activities: activities,
		plans:      plans,
		log:        log,
	}
}

// Handle validates the student and template, fills every template stage
// with activities and stores the completed plan.
func (h *CreateLessonPlanHandler) Handle(ctx context.Context, in CreateLessonPlanInput) (*LessonPlanView, error) {
	s, err := h.students.GetByID(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}

	tmpl, err := h.templates.GetByKey(ctx, template.Normalize(in.Template))
	if err != nil {
		return nil, err
	}

	plan, err := lessonplan.NewLessonPlan(uuid.NewString(), s.ID, tmpl.Key)
	if err != nil {
		return nil, err
	}

	for _, stage := range tmpl.Stages {
		if provided, ok := in.Stages[stage]; ok && len(provided) > 0 {
			plan.SetStage(stage, provided)
			continue
		}
		activities, err := h.activities.ForStage(ctx, stage, s.Info.LearningStyle)
		if err != nil {
			return nil, err
		}
		plan.SetStage(stage, activities)
	}

	if err := plan.Complete(tmpl); err != nil {
		return nil, err
	}
	if err := h.plans.Create(ctx, plan); err != nil {
		return nil, err
	}

	metrics.LessonPlansCreatedTotal.Inc()
	h.log.Info().
		Str("plan_id", plan.ID).
		Str("student_id", plan.StudentID).
		Str("template", string(plan.Template)).
		Msg("lesson plan created")
	return NewLessonPlanView(plan), nil
}

// GetLessonPlanHandler serves plan lookups.
type GetLessonPlanHandler struct {
	plans lessonplan.Repository
}

// NewGetLessonPlanHandler creates the handler.
func NewGetLessonPlanHandler(plans lessonplan.Repository) *GetLessonPlanHandler {
	return &GetLessonPlanHandler{plans: plans}
}

// Handle returns a plan by ID.
func (h *GetLessonPlanHandler) Handle(ctx context.Context, id string) (*LessonPlanView, error) {
	plan, err := h.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewLessonPlanView(plan), nil
}
