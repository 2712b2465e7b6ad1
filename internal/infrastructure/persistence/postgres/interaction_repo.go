package postgres

import (
	"context"
	"fmt"

	"github.com/pedagogy-hub/reasoner/internal/domain/shared"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/llm"
)

// InteractionRepository implements llm.InteractionRepository, logging
// every advisor exchange for later review.
type InteractionRepository struct {
	conn *Connection
}

// NewInteractionRepository creates a new InteractionRepository.
func NewInteractionRepository(conn *Connection) *InteractionRepository {
	return &InteractionRepository{conn: conn}
}

// Record stores an advisor interaction.
func (r *InteractionRepository) Record(ctx context.Context, interaction *llm.Interaction) error {
	query := `
		INSERT INTO llm_interactions (id, student_id, kind, prompt, response, created_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6)
	`

	_, err := r.conn.Exec(ctx, query,
		interaction.ID,
		interaction.StudentID,
		string(interaction.Kind),
		interaction.Prompt,
		interaction.Response,
		interaction.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrStudentNotFound
		}
		return fmt.Errorf("failed to record interaction: %w", err)
	}
	return nil
}

// GetByStudent returns a student's interactions, most recent first.
func (r *InteractionRepository) GetByStudent(ctx context.Context, studentID string) ([]llm.Interaction, error) {
	query := `
		SELECT id, COALESCE(student_id, ''), kind, prompt, response, created_at
		FROM llm_interactions
		WHERE student_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.conn.Query(ctx, query, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	var interactions []llm.Interaction
	for rows.Next() {
		var it llm.Interaction
		var kind string
		if err := rows.Scan(&it.ID, &it.StudentID, &kind, &it.Prompt, &it.Response, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		it.Kind = llm.Kind(kind)
		interactions = append(interactions, it)
	}
	return interactions, rows.Err()
}
