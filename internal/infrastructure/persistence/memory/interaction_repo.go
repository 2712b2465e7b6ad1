package memory

import (
	"context"
	"sync"

	"github.com/pedagogy-hub/reasoner/internal/infrastructure/llm"
)

// InteractionRepository is an in-memory llm.InteractionRepository.
type InteractionRepository struct {
	mu           sync.RWMutex
	interactions map[string][]llm.Interaction
}

// NewInteractionRepository creates an empty repository.
func NewInteractionRepository() *InteractionRepository {
	return &InteractionRepository{interactions: make(map[string][]llm.Interaction)}
}

// Record stores an interaction.
func (r *InteractionRepository) Record(_ context.Context, in *llm.Interaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.interactions[in.StudentID] = append(r.interactions[in.StudentID], *in)
	return nil
}

// GetByStudent returns a student's interactions, most recent first.
func (r *InteractionRepository) GetByStudent(_ context.Context, studentID string) ([]llm.Interaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.interactions[studentID]
	out := make([]llm.Interaction, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
	}
	return out, nil
}
