// Package template contains the lesson-plan template domain model and the
// confidence-scored template recommendation logic.
package template

import (
	"context"
	"strings"
)

// Key identifies a template model ("5e", "7e", "pbl", "dynamic").
// Keys are stored lowercase; the API reports them uppercase.
type Key string

const (
	Key5E      Key = "5e"
	Key7E      Key = "7e"
	KeyPBL     Key = "pbl"
	KeyDynamic Key = "dynamic"
)

// Normalize lowercases a template name into a Key.
func Normalize(name string) Key {
	return Key(strings.ToLower(strings.TrimSpace(name)))
}

// Upper returns the API representation of the key.
func (k Key) Upper() string { return strings.ToUpper(string(k)) }

// Template describes a pedagogical lesson-template model.
type Template struct {
	Key               Key      `json:"-"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Stages            []string `json:"stages"`
	BestFor           []string `json:"best_for"`
	ConfidenceFactors []string `json:"confidence_factors"`
}

// HasStage reports whether the template contains the stage
// (case-insensitive).
func (t *Template) HasStage(stage string) bool {
	for _, s := range t.Stages {
		if strings.EqualFold(s, stage) {
			return true
		}
	}
	return false
}

// SuitsSubject reports whether the subject appears in the template's
// best-for list (case-insensitive).
func (t *Template) SuitsSubject(subject string) bool {
	for _, s := range t.BestFor {
		if strings.EqualFold(s, subject) {
			return true
		}
	}
	return false
}

// Order is the canonical template iteration order. Recommendation ties
// resolve to the earliest entry.
var Order = []Key{Key5E, Key7E, KeyPBL, KeyDynamic}

// Seed returns the built-in template catalog.
func Seed() []*Template {
	return []*Template{
		{
			Key:               Key5E,
			Name:              "5E Instructional Model",
			Description:       "Engage, Explore, Explain, Elaborate, Evaluate",
			Stages:            []string{"Engage", "Explore", "Explain", "Elaborate", "Evaluate"},
			BestFor:           []string{"Science", "Mathematics", "Inquiry-based learning"},
			ConfidenceFactors: []string{"student_engagement", "hands_on_learning", "conceptual_understanding"},
		},
		{
			Key:               Key7E,
			Name:              "7E Instructional Model",
			Description:       "Elicit, Engage, Explore, Explain, Elaborate, Evaluate, Extend",
			Stages:            []string{"Elicit", "Engage", "Explore", "Explain", "Elaborate", "Evaluate", "Extend"},
			BestFor:           []string{"Advanced science", "Complex concepts", "Extended learning"},
			ConfidenceFactors: []string{"prior_knowledge", "advanced_learning", "comprehensive_coverage"},
		},
		{
			Key:               KeyPBL,
			Name:              "Problem-Based Learning",
			Description:       "Challenge, Investigate, Create, Debrief",
			Stages:            []string{"Challenge", "Investigate", "Create", "Debrief"},
			BestFor:           []string{"Real-world applications", "Critical thinking", "Collaborative learning"},
			ConfidenceFactors: []string{"problem_solving", "collaboration", "real_world_relevance"},
		},
		{
			Key:               KeyDynamic,
			Name:              "Dynamic Learning Model",
			Description:       "Adaptive stages based on student progress",
			Stages:            []string{"Assess", "Adapt", "Implement", "Review"},
			BestFor:           []string{"Personalized learning", "Adaptive instruction", "Student-paced learning"},
			ConfidenceFactors: []string{"personalization", "adaptability", "student_agency"},
		},
	}
}

// ImplementationTips are generic guidance attached to template detail
// responses.
var ImplementationTips = []string{
	"Adapt activities to student's learning style",
	"Monitor progress through each stage",
	"Provide timely feedback and support",
}

// AssessmentStrategies are generic assessment guidance attached to
// template detail responses.
var AssessmentStrategies = []string{
	"Formative assessment during each stage",
	"Summative assessment at completion",
	"Student self-reflection and peer feedback",
}

// Repository defines storage operations for templates.
type Repository interface {
	// GetByKey returns a template by its key.
	// Returns shared.ErrTemplateNotFound if absent.
	GetByKey(ctx context.Context, key Key) (*Template, error)

	// List returns all templates in canonical order.
	List(ctx context.Context) ([]*Template, error)
}
