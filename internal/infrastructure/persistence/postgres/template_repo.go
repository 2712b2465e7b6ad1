package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pedagogy-hub/reasoner/internal/domain/shared"
	"github.com/pedagogy-hub/reasoner/internal/domain/template"
)

// TemplateRepository implements template.Repository against the seeded
// templates table.
type TemplateRepository struct {
	conn *Connection
}

// NewTemplateRepository creates a new TemplateRepository.
func NewTemplateRepository(conn *Connection) *TemplateRepository {
	return &TemplateRepository{conn: conn}
}

// GetByKey returns a template by its key.
func (r *TemplateRepository) GetByKey(ctx context.Context, key template.Key) (*template.Template, error) {
	query := `
		SELECT key, name, description, stages, best_for, confidence_factors
		FROM templates
		WHERE key = $1
	`

	var (
		t                                  template.Template
		k                                  string
		stages, bestFor, confidenceFactors []byte
	)

	err := r.conn.QueryRow(ctx, query, string(key)).Scan(
		&k, &t.Name, &t.Description, &stages, &bestFor, &confidenceFactors,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrTemplateNotFound
		}
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	t.Key = template.Key(k)
	if err := unmarshalTemplateLists(&t, stages, bestFor, confidenceFactors); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns all templates in canonical order.
func (r *TemplateRepository) List(ctx context.Context) ([]*template.Template, error) {
	query := `
		SELECT key, name, description, stages, best_for, confidence_factors
		FROM templates
		ORDER BY sort_order, key
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []*template.Template
	for rows.Next() {
		var (
			t                                  template.Template
			k                                  string
			stages, bestFor, confidenceFactors []byte
		)
		if err := rows.Scan(&k, &t.Name, &t.Description, &stages, &bestFor, &confidenceFactors); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		t.Key = template.Key(k)
		if err := unmarshalTemplateLists(&t, stages, bestFor, confidenceFactors); err != nil {
			return nil, err
		}
		templates = append(templates, &t)
	}
	return templates, rows.Err()
}

func unmarshalTemplateLists(t *template.Template, stages, bestFor, confidenceFactors []byte) error {
	for _, pair := range []struct {
		raw []byte
		dst *[]string
	}{
		{stages, &t.Stages},
		{bestFor, &t.BestFor},
		{confidenceFactors, &t.ConfidenceFactors},
	} {
		if len(pair.raw) > 0 {
			if err := json.Unmarshal(pair.raw, pair.dst); err != nil {
				return fmt.Errorf("failed to unmarshal template list: %w", err)
			}
		}
	}
	return nil
}
