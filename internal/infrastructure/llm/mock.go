package llm

import (
	"context"
	"fmt"
	"strings"
)

// MockAdvisor is a deterministic stand-in for a real LLM provider. It
// renders canned, context-aware responses so the full request path can
// run without external credentials.
type MockAdvisor struct{}

// NewMockAdvisor returns a MockAdvisor.
func NewMockAdvisor() *MockAdvisor { return &MockAdvisor{} }

// Advise returns a canned response for the given kind, filled in with
// the prompt context.
func (m *MockAdvisor) Advise(_ context.Context, kind Kind, _ string, pc PromptContext) (string, error) {
	grade := pc.Grade
	if grade == "" {
		grade = "8th"
	}
	subject := pc.Subject
	if subject == "" {
		subject = "science"
	}
	stage := pc.Stage
	if stage == "" {
		stage = "Engage"
	}
	preSLOs := pc.PreSLOs
	if len(preSLOs) == 0 {
		preSLOs = []string{"basic concepts"}
	}

	switch kind {
	case KindContextAnalysis:
		return fmt.Sprintf("Student shows strong interest in %s with %s grade level understanding.",
			subject, grade), nil
	case KindTemplateRecommendation:
		return fmt.Sprintf("Based on the student's %s grade level and %s focus, I recommend the 5E template for its structured approach.",
			grade, subject), nil
	case KindActivitySuggestion:
		return fmt.Sprintf("For the %s stage, I suggest interactive activities that build on the student's %s knowledge.",
			stage, strings.Join(preSLOs, ", ")), nil
	case KindStageOptimization:
		return fmt.Sprintf("The %s stage should be adapted to accommodate the student's learning pace and interests.",
			stage), nil
	default:
		return "I recommend a personalized approach based on the student's needs and learning objectives.", nil
	}
}
