// Package query contains the read-side application handlers: student
// context assembly, template recommendation and template lookups. Each
// handler wires domain logic, the datastore, the LLM advisor and the
// optional cache together behind a single Handle method.
package query

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pedagogy-hub/reasoner/internal/domain/student"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/llm"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/metrics"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/persistence/redis"
)

// StudentContext is the assembled lesson-planning context for a student.
type StudentContext struct {
	StudentInfo     student.Info           `json:"student_info"`
	Grade           string                 `json:"grade"`
	Subject         string                 `json:"subject"`
	SLOs            []string               `json:"slos"`
	PreSLOs         []string               `json:"pre_slos"`
	LearningHistory []student.HistoryEntry `json:"learning_history"`
	LLMAnalysis     string                 `json:"llm_analysis"`
	Timestamp       time.Time              `json:"timestamp"`
}

// GetStudentContextHandler assembles the context payload for a student.
type GetStudentContextHandler struct {
	students     student.Repository
	history      student.HistoryRepository
	advisor      llm.Advisor
	interactions llm.InteractionRepository
	cache        *redis.Cache
	log          zerolog.Logger
}

// NewGetStudentContextHandler creates the handler. cache may be nil.
func NewGetStudentContextHandler(
	students student.Repository,
	history student.HistoryRepository,
	advisor llm.Advisor,
	interactions llm.InteractionRepository,
	cache *redis.Cache,
	log zerolog.Logger,
) *GetStudentContextHandler {
	return &GetStudentContextHandler{
		students:     students,
		history:      history,
		advisor:      advisor,
		interactions: interactions,
		cache:        cache,
		log:          log,
	}
}

// Handle loads the student and learning history, asks the advisor for a
// context analysis, and assembles the payload.
func (h *GetStudentContextHandler) Handle(ctx context.Context, studentID string) (*StudentContext, error) {
	cacheKey := redis.PrefixContext + studentID
	var cached StudentContext
	if err := h.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	s, err := h.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	entries, err := h.history.GetByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Analyze the learning context for student %s", studentID)
	analysis, err := h.advisor.Advise(ctx, llm.KindContextAnalysis, prompt, llm.PromptContext{
		StudentID: studentID,
		Grade:     s.Grade.String(),
		Subject:   s.Subject,
		PreSLOs:   s.PreSLOs,
	})
	if err != nil {
		return nil, fmt.Errorf("context analysis: %w", err)
	}
	recordInteraction(ctx, h.interactions, h.log, studentID, llm.KindContextAnalysis, prompt, analysis)

	result := &StudentContext{
		StudentInfo:     s.Info,
		Grade:           s.Grade.String(),
		Subject:         s.Subject,
		SLOs:            s.SLOs,
		PreSLOs:         s.PreSLOs,
		LearningHistory: entries,
		LLMAnalysis:     analysis,
		Timestamp:       time.Now().UTC(),
	}

	if err := h.cache.Set(ctx, cacheKey, result, h.cache.ContextTTL()); err != nil {
		h.log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache student context")
	}
	return result, nil
}

// recordInteraction logs an advisor exchange. Failures are logged, not
// surfaced: the interaction log never blocks a response.
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
