package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pedagogy-hub/reasoner/internal/domain/activity"
	"github.com/pedagogy-hub/reasoner/internal/domain/student"
)

// ActivityRepository implements activity.Source against the seeded
// activities table.
type ActivityRepository struct {
	conn *Connection
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(conn *Connection) *ActivityRepository {
	return &ActivityRepository{conn: conn}
}

// ForStage returns the stage's catalog activities customized for the
// learning style. Stages without catalog rows yield the generic
// activity.
func (r *ActivityRepository) ForStage(ctx context.Context, stage string, style student.LearningStyle) ([]activity.Activity, error) {
	query := `
		SELECT type, title, description, duration, materials, adaptations
		FROM activities
		WHERE lower(stage) = $1
		ORDER BY sort_order, id
	`

	rows, err := r.conn.Query(ctx, query, strings.ToLower(strings.TrimSpace(stage)))
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var activities []activity.Activity
	for rows.Next() {
		var (
			a                      activity.Activity
			typ                    string
			materials, adaptations []byte
		)
		if err := rows.Scan(&typ, &a.Title, &a.Description, &a.Duration, &materials, &adaptations); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		a.Type = activity.Type(typ)
		if len(materials) > 0 {
			if err := json.Unmarshal(materials, &a.Materials); err != nil {
				return nil, fmt.Errorf("failed to unmarshal activity materials: %w", err)
			}
		}
		if len(adaptations) > 0 {
			if err := json.Unmarshal(adaptations, &a.Adaptations); err != nil {
				return nil, fmt.Errorf("failed to unmarshal activity adaptations: %w", err)
			}
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(activities) == 0 {
		activities = []activity.Activity{activity.Generic(stage)}
	}

	for i := range activities {
		activities[i].Customize(style)
	}
	return activities, nil
}
