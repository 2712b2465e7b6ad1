package memory

import (
	"context"

	"github.com/pedagogy-hub/reasoner/internal/domain/shared"
	"github.com/pedagogy-hub/reasoner/internal/domain/template"
)

// TemplateRepository is an in-memory template.Repository backed by the
// built-in template catalog. Templates are immutable so no locking is
// needed.
type TemplateRepository struct {
	byKey map[template.Key]*template.Template
	order []*template.Template
}

// NewTemplateRepository creates a repository with the built-in catalog.
func NewTemplateRepository() *TemplateRepository {
	seed := template.Seed()
	byKey := make(map[template.Key]*template.Template, len(seed))
	for _, t := range seed {
		byKey[t.Key] = t
	}
	return &TemplateRepository{byKey: byKey, order: seed}
}

// GetByKey returns a template by its key.
func (r *TemplateRepository) GetByKey(_ context.Context, key template.Key) (*template.Template, error) {
	t, ok := r.byKey[key]
	if !ok {
		return nil, shared.ErrTemplateNotFound
	}
	return t, nil
}

// List returns all templates in canonical order.
func (r *TemplateRepository) List(_ context.Context) ([]*template.Template, error) {
	return append([]*template.Template(nil), r.order...), nil
}
