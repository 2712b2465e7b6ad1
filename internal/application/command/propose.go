// Package command contains the write-side application handlers:
// activity proposals and lesson plan composition.
package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pedagogy-hub/reasoner/internal/domain/activity"
	"github.com/pedagogy-hub/reasoner/internal/domain/shared"
	"github.com/pedagogy-hub/reasoner/internal/domain/student"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/llm"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/metrics"
)

// ProposeActivitiesInput is the stage plus the student context the
// activities should be customized for.
type ProposeActivitiesInput struct {
	Stage         string
	StudentID     string
	Grade         string
	Subject       string
	SLOs          []string
	PreSLOs       []string
	LearningStyle student.LearningStyle
	Interests     []string
}

// ContextConsiderations echoes the context the proposal accounted for.
type ContextConsiderations struct {
	GradeLevel       string   `json:"grade_level"`
	SubjectFocus     string   `json:"subject_focus"`
	LearningStyle    string   `json:"learning_style"`
	StudentInterests []string `json:"student_interests"`
}

// ActivityProposal is the proposal payload.
type ActivityProposal struct {
	Stage                 string                `json:"stage"`
	Activities            []activity.Activity   `json:"activities"`
	LLMSuggestions        string                `json:"llm_suggestions"`
	ContextConsiderations ContextConsiderations `json:"context_considerations"`
	Timestamp             time.Time             `json:"timestamp"`
}

// ProposeActivitiesHandler proposes activities for a lesson stage.
type ProposeActivitiesHandler struct {
	activities   activity.Source
	advisor      llm.Advisor
	interactions llm.InteractionRepository
	log          zerolog.Logger
}

// NewProposeActivitiesHandler creates the handler.
func NewProposeActivitiesHandler(
	activities activity.Source,
	advisor llm.Advisor,
	interactions llm.InteractionRepository,
	log zerolog.Logger,
) *ProposeActivitiesHandler {
	return &ProposeActivitiesHandler{
		activities:   activities,
		advisor:      advisor,
		interactions: interactions,
		log:          log,
	}
}

// Handle returns the stage's activities customized for the student,
// with the advisor's suggestion attached. Unknown stages fall back to a
// generic activity.
func (h *ProposeActivitiesHandler) Handle(ctx context.Context, in ProposeActivitiesInput) (*ActivityProposal, error) {
	if strings.TrimSpace(in.Stage) == "" {
		return nil, shared.ErrEmptyStage
	}

	style := in.LearningStyle
	if style == "" {
		style = student.StyleUnknown
	}

	activities, err := h.activities.ForStage(ctx, in.Stage, style)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Suggest activities for the %s stage in %s grade %s",
		in.Stage, in.Grade, in.Subject)
	suggestions, err := h.advisor.Advise(ctx, llm.KindActivitySuggestion, prompt, llm.PromptContext{
		StudentID: in.StudentID,
		Grade:     in.Grade,
		Subject:   in.Subject,
		Stage:     in.Stage,
		PreSLOs:   in.PreSLOs,
	})
	if err != nil {
		return nil, fmt.Errorf("activity suggestion: %w", err)
	}
	recordInteraction(ctx, h.interactions, h.log, in.StudentID, llm.KindActivitySuggestion, prompt, suggestions)

	interests := in.Interests
	if interests == nil {
		interests = []string{}
	}

	return &ActivityProposal{
		Stage:          in.Stage,
		Activities:     activities,
		LLMSuggestions: suggestions,
		ContextConsiderations: ContextConsiderations{
			GradeLevel:       in.Grade,
			SubjectFocus:     in.Subject,
			LearningStyle:    string(style),
			StudentInterests: interests,
		},
		Timestamp: time.Now().UTC(),
	}, nil
}

func recordInteraction(
	ctx context.Context,
	repo llm.InteractionRepository,
	log zerolog.Logger,
	studentID string,
	kind llm.Kind,
	prompt, response string,
) {
	in := &llm.Interaction{
		ID:        uuid.NewString(),
		StudentID: studentID,
		Kind:      kind,
		Prompt:    prompt,
		Response:  response,
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Record(ctx, in); err != nil {
		log.Warn().Err(err).Str("kind", string(kind)).Msg("failed to record LLM interaction")
	}
	metrics.LLMInteractionsTotal.WithLabelValues(string(kind)).Inc()
}
