package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/pedagogy-hub/reasoner/internal/domain/activity"
	"github.com/pedagogy-hub/reasoner/internal/domain/lessonplan"
	"github.com/pedagogy-hub/reasoner/internal/domain/shared"
)

// LessonPlanRepository is an in-memory lessonplan.Repository.
type LessonPlanRepository struct {
	mu    sync.RWMutex
	plans map[string]*lessonplan.LessonPlan
}

// NewLessonPlanRepository creates an empty repository.
func NewLessonPlanRepository() *LessonPlanRepository {
	return &LessonPlanRepository{plans: make(map[string]*lessonplan.LessonPlan)}
}

// Create stores a new plan.
func (r *LessonPlanRepository) Create(_ context.Context, plan *lessonplan.LessonPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.plans[plan.ID]; exists {
		return shared.ErrAlreadyExists
	}
	r.plans[plan.ID] = clonePlan(plan)
	return nil
}

// GetByID returns a plan by ID.
func (r *LessonPlanRepository) GetByID(_ context.Context, id string) (*lessonplan.LessonPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	plan, ok := r.plans[id]
	if !ok {
		return nil, shared.ErrLessonPlanNotFound
	}
	return clonePlan(plan), nil
}

// GetByStudent returns all plans for a student, most recent first.
func (r *LessonPlanRepository) GetByStudent(_ context.Context, studentID string) ([]*lessonplan.LessonPlan, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var plans []*lessonplan.LessonPlan
	for _, plan := range r.plans {
		if plan.StudentID == studentID {
			plans = append(plans, clonePlan(plan))
		}
	}
	sort.Slice(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	return plans, nil
}

// Update replaces a stored plan.
func (r *LessonPlanRepository) Update(_ context.Context, plan *lessonplan.LessonPlan) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.plans[plan.ID]; !ok {
		return shared.ErrLessonPlanNotFound
	}
	r.plans[plan.ID] = clonePlan(plan)
	return nil
}

func clonePlan(p *lessonplan.LessonPlan) *lessonplan.LessonPlan {
	c := *p
	c.Stages = make(map[string][]activity.Activity, len(p.Stages))
	for stage, activities := range p.Stages {
		cloned := make([]activity.Activity, 0, len(activities))
		for _, a := range activities {
			cloned = append(cloned, a.Clone())
		}
		c.Stages[stage] = cloned
	}
	return &c
}
