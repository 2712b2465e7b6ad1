// Package llm provides the language-model advisor used to enrich
// reasoner responses with narrative analysis, and the interaction log
// persisted alongside it. The current implementation is a deterministic
// mock; swapping in a real provider only requires another Advisor.
package llm

import (
	"context"
	"time"
)

// Kind classifies an advisor call. Stored with every interaction.
type Kind string

const (
	KindContextAnalysis        Kind = "context_analysis"
	KindTemplateRecommendation Kind = "template_recommendation"
	KindActivitySuggestion     Kind = "activity_suggestion"
	KindStageOptimization      Kind = "stage_optimization"
	KindGeneric                Kind = "generic"
)

// PromptContext carries the student context fragments prompts are built
// from.
type PromptContext struct {
	StudentID string
	Grade     string
	Subject   string
	Stage     string
	PreSLOs   []string
}

// Advisor produces narrative guidance for a prompt.
type Advisor interface {
	Advise(ctx context.Context, kind Kind, prompt string, pc PromptContext) (string, error)
}

// Interaction is one recorded advisor call.
type Interaction struct {
	ID        string
	StudentID string
	Kind      Kind
	Prompt    string
	Response  string
	CreatedAt time.Time
}

// InteractionRepository persists advisor interactions.
type InteractionRepository interface {
	// Record stores an interaction.
	Record(ctx context.Context, in *Interaction) error

	// GetByStudent returns a student's interactions, most recent first.
	GetByStudent(ctx context.Context, studentID string) ([]Interaction, error)
}
