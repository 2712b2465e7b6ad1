package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/pedagogy-hub/reasoner/internal/domain/activity"
	"github.com/pedagogy-hub/reasoner/internal/domain/lessonplan"
	"github.com/pedagogy-hub/reasoner/internal/domain/shared"
	"github.com/pedagogy-hub/reasoner/internal/domain/template"
)

// LessonPlanRepository implements lessonplan.Repository. Plans span two
// tables: lesson_plans for the header and lesson_plan_activities for
// the per-stage assignments, written together in one transaction.
type LessonPlanRepository struct {
	conn *Connection
}

// NewLessonPlanRepository creates a new LessonPlanRepository.
func NewLessonPlanRepository(conn *Connection) *LessonPlanRepository {
	return &LessonPlanRepository{conn: conn}
}

// Create stores a new plan and its stage assignments.
func (r *LessonPlanRepository) Create(ctx context.Context, plan *lessonplan.LessonPlan) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO lesson_plans (id, student_id, template_key, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			plan.ID,
			plan.StudentID,
			string(plan.Template),
			string(plan.Status),
			plan.CreatedAt,
			plan.UpdatedAt,
		)
		if err != nil {
			if IsUniqueViolation(err) {
				return shared.ErrAlreadyExists
			}
			if IsForeignKeyViolation(err) {
				return shared.ErrLessonPlanInvalid
			}
			return fmt.Errorf("failed to create lesson plan: %w", err)
		}
		return insertStages(ctx, tx, plan)
	})
}

// GetByID returns a plan with its stage activities.
func (r *LessonPlanRepository) GetByID(ctx context.Context, id string) (*lessonplan.LessonPlan, error) {
	query := `
		SELECT id, student_id, template_key, status, created_at, updated_at
		FROM lesson_plans
		WHERE id = $1
	`

	plan, err := scanPlan(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrLessonPlanNotFound
		}
		return nil, fmt.Errorf("failed to get lesson plan: %w", err)
	}

	if err := r.loadStages(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// GetByStudent returns all plans for a student, most recent first.
func (r *LessonPlanRepository) GetByStudent(ctx context.Context, studentID string) ([]*lessonplan.LessonPlan, error) {
	query := `
		SELECT id, student_id, template_key, status, created_at, updated_at
		FROM lesson_plans
		WHERE student_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.conn.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lesson plans: %w", err)
	}
	defer rows.Close()

	var plans []*lessonplan.LessonPlan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lesson plan: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, plan := range plans {
		if err := r.loadStages(ctx, plan); err != nil {
			return nil, err
		}
	}
	return plans, nil
}

// Update replaces a stored plan, rewriting its stage assignments.
func (r *LessonPlanRepository) Update(ctx context.Context, plan *lessonplan.LessonPlan) error {
	return r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, `
			UPDATE lesson_plans
			SET template_key = $1, status = $2, updated_at = $3
			WHERE id = $4
		`,
			string(plan.Template),
			string(plan.Status),
			time.Now().UTC(),
			plan.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update lesson plan: %w", err)
		}
		if result.RowsAffected() == 0 {
			return shared.ErrLessonPlanNotFound
		}

		if _, err := tx.Exec(ctx,
			`DELETE FROM lesson_plan_activities WHERE lesson_plan_id = $1`, plan.ID,
		); err != nil {
			return fmt.Errorf("failed to clear lesson plan stages: %w", err)
		}
		return insertStages(ctx, tx, plan)
	})
}

func insertStages(ctx context.Context, tx pgx.Tx, plan *lessonplan.LessonPlan) error {
	for stage, activities := range plan.Stages {
		for i, a := range activities {
			raw, err := json.Marshal(a)
			if err != nil {
				return fmt.Errorf("failed to marshal activity: %w", err)
			}
			_, err = tx.Exec(ctx, `
				INSERT INTO lesson_plan_activities (lesson_plan_id, stage, position, activity)
				VALUES ($1, $2, $3, $4)
			`, plan.ID, stage, i, raw)
			if err != nil {
				return fmt.Errorf("failed to insert stage activity: %w", err)
			}
		}
	}
	return nil
}

func scanPlan(sc scanner) (*lessonplan.LessonPlan, error) {
	var plan lessonplan.LessonPlan
	var tmpl, status string

	err := sc.Scan(&plan.ID, &plan.StudentID, &tmpl, &status, &plan.CreatedAt, &plan.UpdatedAt)
	if err != nil {
		return nil, err
	}
	plan.Template = template.Key(tmpl)
	plan.Status = lessonplan.Status(status)
	plan.Stages = make(map[string][]activity.Activity)
	return &plan, nil
}

func (r *LessonPlanRepository) loadStages(ctx context.Context, plan *lessonplan.LessonPlan) error {
	rows, err := r.conn.Query(ctx, `
		SELECT stage, activity
		FROM lesson_plan_activities
		WHERE lesson_plan_id = $1
		ORDER BY stage, position
	`, plan.ID)
	if err != nil {
		return fmt.Errorf("failed to query lesson plan stages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var stage string
		var raw []byte
		if err := rows.Scan(&stage, &raw); err != nil {
			return fmt.Errorf("failed to scan stage activity: %w", err)
		}
		var a activity.Activity
		if err := json.Unmarshal(raw, &a); err != nil {
			return fmt.Errorf("failed to unmarshal stage activity: %w", err)
		}
		plan.Stages[stage] = append(plan.Stages[stage], a)
	}
	return rows.Err()
}
