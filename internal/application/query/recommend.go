package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pedagogy-hub/reasoner/internal/domain/shared"
	"github.com/pedagogy-hub/reasoner/internal/domain/student"
	"github.com/pedagogy-hub/reasoner/internal/domain/template"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/llm"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/metrics"
)

// RecommendTemplateInput is the student context a recommendation is
// requested for.
type RecommendTemplateInput struct {
	StudentID string   `json:"student_id"`
	Grade     string   `json:"grade"`
	Subject   string   `json:"subject"`
	SLOs      []string `json:"slos"`
	PreSLOs   []string `json:"pre_slos"`
}

// TemplateRecommendation is the scored recommendation payload.
type TemplateRecommendation struct {
	// Template is the winning template key, uppercased.
	Template   string             `json:"template"`
	Confidence float64            `json:"confidence"`
	Rationale  string             `json:"rationale"`
	AllScores  map[string]float64 `json:"all_scores"`
	Timestamp  time.Time          `json:"timestamp"`
}

// RecommendTemplateHandler scores templates against a student context.
type RecommendTemplateHandler struct {
	templates    template.Repository
	advisor      llm.Advisor
	interactions llm.InteractionRepository
	log          zerolog.Logger
}

// NewRecommendTemplateHandler creates the handler.
func NewRecommendTemplateHandler(
	templates template.Repository,
	advisor llm.Advisor,
	interactions llm.InteractionRepository,
	log zerolog.Logger,
) *RecommendTemplateHandler {
	return &RecommendTemplateHandler{
		templates:    templates,
		advisor:      advisor,
		interactions: interactions,
		log:          log,
	}
}

// Handle runs the recommender over the full catalog and attaches the
// advisor's rationale.
func (h *RecommendTemplateHandler) Handle(ctx context.Context, in RecommendTemplateInput) (*TemplateRecommendation, error) {
	if in.Grade == "" && in.Subject == "" && len(in.SLOs) == 0 && len(in.PreSLOs) == 0 {
		return nil, shared.ErrEmptyContext
	}

	catalog, err := h.templates.List(ctx)
	if err != nil {
		return nil, err
	}

	rec := template.NewRecommender(catalog).Recommend(template.RecommendationContext{
		Grade:   student.Grade(in.Grade),
		Subject: in.Subject,
		SLOs:    in.SLOs,
		PreSLOs: in.PreSLOs,
	})

	prompt := fmt.Sprintf("Recommend a lesson plan template for %s grade %s with SLOs: %s",
		in.Grade, in.Subject, strings.Join(in.SLOs, ", "))
	rationale, err := h.advisor.Advise(ctx, llm.KindTemplateRecommendation, prompt, llm.PromptContext{
		StudentID: in.StudentID,
		Grade:     in.Grade,
		Subject:   in.Subject,
		PreSLOs:   in.PreSLOs,
	})
	if err != nil {
		return nil, fmt.Errorf("recommendation rationale: %w", err)
	}
	recordInteraction(ctx, h.interactions, h.log, in.StudentID, llm.KindTemplateRecommendation, prompt, rationale)
	metrics.TemplateRecommendationsTotal.WithLabelValues(string(rec.Template)).Inc()

	scores := make(map[string]float64, len(rec.Scores))
	for key, score := range rec.Scores {
		scores[string(key)] = score
	}

	return &TemplateRecommendation{
		Template:   rec.Template.Upper(),
		Confidence: rec.Confidence,
		Rationale:  rationale,
		AllScores:  scores,
		Timestamp:  time.Now().UTC(),
	}, nil
}
