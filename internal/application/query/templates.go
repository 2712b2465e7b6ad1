package query

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pedagogy-hub/reasoner/internal/domain/template"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/llm"
	"github.com/pedagogy-hub/reasoner/internal/infrastructure/persistence/redis"
)

// TemplateDetail is the full template payload served by the template
// lookup endpoint.
type TemplateDetail struct {
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	Stages               []string  `json:"stages"`
	BestFor              []string  `json:"best_for"`
	ConfidenceFactors    []string  `json:"confidence_factors"`
	EnhancedDescription  string    `json:"enhanced_description"`
	ImplementationTips   []string  `json:"implementation_tips"`
	AssessmentStrategies []string  `json:"assessment_strategies"`
	Timestamp            time.Time `json:"timestamp"`
}

// TemplateSummary is the list-view shape.
type TemplateSummary struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Stages      []string `json:"stages"`
}

// GetTemplateHandler serves single-template lookups.
type GetTemplateHandler struct {
	templates    template.Repository
	advisor      llm.Advisor
	interactions llm.InteractionRepository
	cache        *redis.Cache
	log          zerolog.Logger
}

// NewGetTemplateHandler creates the handler. cache may be nil.
func NewGetTemplateHandler(
	templates template.Repository,
	advisor llm.Advisor,
	interactions llm.InteractionRepository,
	cache *redis.Cache,
	log zerolog.Logger,
) *GetTemplateHandler {
	return &GetTemplateHandler{
		templates:    templates,
		advisor:      advisor,
		interactions: interactions,
		cache:        cache,
		log:          log,
	}
}

// Handle returns the template detail. The name is matched
// case-insensitively.
func (h *GetTemplateHandler) Handle(ctx context.Context, name string) (*TemplateDetail, error) {
	key := template.Normalize(name)

	cacheKey := redis.PrefixTemplate + string(key)
	var cached TemplateDetail
	if err := h.cache.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	t, err := h.templates.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Enhance the description for the %s template", t.Name)
	enhanced, err := h.advisor.Advise(ctx, llm.KindGeneric, prompt, llm.PromptContext{})
	if err != nil {
		return nil, fmt.Errorf("template enhancement: %w", err)
	}
	recordInteraction(ctx, h.interactions, h.log, "", llm.KindGeneric, prompt, enhanced)

	detail := &TemplateDetail{
		Name:                 t.Name,
		Description:          t.Description,
		Stages:               t.Stages,
		BestFor:              t.BestFor,
		ConfidenceFactors:    t.ConfidenceFactors,
		EnhancedDescription:  enhanced,
		ImplementationTips:   template.ImplementationTips,
		AssessmentStrategies: template.AssessmentStrategies,
		Timestamp:            time.Now().UTC(),
	}

	if err := h.cache.Set(ctx, cacheKey, detail, h.cache.TemplateTTL()); err != nil {
		h.log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache template detail")
	}
	return detail, nil
}

// ListTemplatesHandler serves the template list.
type ListTemplatesHandler struct {
	templates template.Repository
}

// NewListTemplatesHandler creates the handler.
func NewListTemplatesHandler(templates template.Repository) *ListTemplatesHandler {
	return &ListTemplatesHandler{templates: templates}
}

// Handle returns all templates in canonical order.
func (h *ListTemplatesHandler) Handle(ctx context.Context) ([]TemplateSummary, error) {
	catalog, err := h.templates.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]TemplateSummary, 0, len(catalog))
	for _, t := range catalog {
		out = append(out, TemplateSummary{
			Key:         string(t.Key),
			Name:        t.Name,
			Description: t.Description,
			Stages:      t.Stages,
		})
	}
	return out, nil
}
